package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnterminated is returned when a quote or bracket is not closed.
var ErrUnterminated = errors.New("dispatcher: unterminated quote or bracket")

// SyntaxError reports a command line that cannot be tokenized.
type SyntaxError struct {
	// Position is the index of the token being read.
	Position int

	// Offset is the byte offset where the unclosed construct starts.
	Offset int

	// Partial is the text of the unfinished token.
	Partial string

	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("token %d at offset %d: %v", e.Position, e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// SplitHead splits a command line on its first whitespace run.
func SplitHead(cmd string) (head, rest string) {
	cmd = strings.TrimSpace(cmd)
	i := strings.IndexFunc(cmd, unicode.IsSpace)
	if i < 0 {
		return cmd, ""
	}
	return cmd[:i], strings.TrimLeftFunc(cmd[i:], unicode.IsSpace)
}

// SplitName splits a command head on its first "." into a namespace and
// a name. "ex" is a synonym of the default namespace.
func SplitName(head string) (namespace, name string) {
	ns, name, ok := strings.Cut(head, ".")
	if !ok {
		return "", head
	}
	if ns == "ex" {
		ns = ""
	}
	return ns, name
}

// Tokenize splits the argument part of a command line into tokens with
// shell-like quoting:
//
//   - whitespace, as for SplitHead, separates tokens
//   - '...' is literal
//   - "..." honours \" and \\
//   - outside quotes a backslash escapes the next character
//   - a token starting with [ or { extends to the matching bracket, so
//     JSON literals with spaces stay whole; quotes inside are kept
func Tokenize(rest string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		inToken bool
		start   int
	)
	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
		inToken = false
	}
	unterminated := func(at int) error {
		return &SyntaxError{Position: len(tokens), Offset: at, Partial: cur.String(), Err: ErrUnterminated}
	}

	for i := 0; i < len(rest); {
		c := rest[i]
		r, size := utf8.DecodeRuneInString(rest[i:])
		switch {
		case unicode.IsSpace(r):
			flush()
			i += size

		case c == '\'':
			inToken, start = true, i
			end := strings.IndexByte(rest[i+1:], '\'')
			if end < 0 {
				cur.WriteString(rest[i+1:])
				return tokens, unterminated(start)
			}
			cur.WriteString(rest[i+1 : i+1+end])
			i += end + 2

		case c == '"':
			inToken, start = true, i
			n, ok := readDoubleQuoted(rest[i+1:], &cur, true)
			if !ok {
				return tokens, unterminated(start)
			}
			i += n + 2

		case c == '\\':
			inToken = true
			if i+1 < len(rest) {
				cur.WriteByte(rest[i+1])
				i += 2
			} else {
				cur.WriteByte(c)
				i++
			}

		case (c == '[' || c == '{') && !inToken:
			inToken, start = true, i
			n, ok := readBracketed(rest[i:])
			cur.WriteString(rest[i : i+n])
			if !ok {
				return tokens, unterminated(start)
			}
			i += n

		default:
			inToken = true
			cur.WriteByte(c)
			i++
		}
	}
	flush()
	return tokens, nil
}

// readDoubleQuoted reads the body of a double-quoted string up to the
// closing quote. It returns the body length and whether the quote closed.
// When unescape is false the body is copied verbatim.
func readDoubleQuoted(s string, out *strings.Builder, unescape bool) (int, bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			return i, true
		case '\\':
			if i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
				if !unescape {
					out.WriteByte('\\')
				}
				out.WriteByte(s[i+1])
				i++
				continue
			}
		}
		out.WriteByte(s[i])
	}
	return len(s), false
}

// readBracketed returns the length of the balanced bracket expression at
// the start of s and whether it closed. JSON strings inside are skipped.
func readBracketed(s string) (int, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case '"':
			var discard strings.Builder
			n, ok := readDoubleQuoted(s[i+1:], &discard, false)
			if !ok {
				return len(s), false
			}
			i += n + 1
		}
	}
	return len(s), false
}

// SplitComposite splits a composite body into pipelines separated by ";"
// and pipeline stages separated by "|". Separators inside quotes or
// brackets are ignored. Empty stages are dropped.
func SplitComposite(body string) [][]string {
	var (
		pipelines [][]string
		stages    []string
		last      int
	)
	endStage := func(i int) {
		if s := strings.TrimSpace(body[last:i]); s != "" {
			stages = append(stages, s)
		}
		last = i + 1
	}
	endPipeline := func() {
		if len(stages) > 0 {
			pipelines = append(pipelines, stages)
		}
		stages = nil
	}

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '\'':
			if end := strings.IndexByte(body[i+1:], '\''); end >= 0 {
				i += end + 1
			} else {
				i = len(body)
			}
		case '"', '[', '{':
			var n int
			if body[i] == '"' {
				var discard strings.Builder
				n, _ = readDoubleQuoted(body[i+1:], &discard, false)
				n++
			} else {
				n, _ = readBracketed(body[i:])
				n--
			}
			i += n
		case '|':
			endStage(i)
		case ';':
			endStage(i)
			endPipeline()
		}
	}
	endStage(len(body))
	endPipeline()
	return pipelines
}
