package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification holding exactly one key into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Bracket expressions: "<Escape>", "<C-s>", "<A-f>", "<CS-p>"
//   - Aliases: "<CR>", "<Esc>", "<Space>", "<Bar>", "<lt>"
func Parse(spec string) (Event, error) {
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	seq := ParseSequence(spec)
	if len(seq) != 1 {
		return Event{}, fmt.Errorf("%w: %q names %d keys", ErrInvalidSpec, spec, len(seq))
	}
	return seq[0], nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}

// ParseSequence converts a key-sequence string into its events.
//
// The string is consumed one character or one bracket expression at a
// time. Parsing never fails: a "<" that does not start a valid bracket
// expression is the literal "<" key.
func ParseSequence(s string) Sequence {
	seq := make(Sequence, 0, len(s))
	for s != "" {
		if s[0] == '<' {
			if ev, rest, ok := parseBracket(s); ok {
				seq = append(seq, ev)
				s = rest
				continue
			}
			seq = append(seq, Event{Key: "<"})
			s = s[1:]
			continue
		}
		r, size := utf8.DecodeRuneInString(s)
		seq = append(seq, Event{Key: Key(string(r))})
		s = s[size:]
	}
	return seq
}

// parseBracket parses a leading bracket expression:
//
//	bracketexpr ::= '<' (modifier+ '-')? key '>'
//	modifier    ::= 'a' | 'c' | 'm' | 's'   (case-insensitive)
//	key         ::= '<' | '>' | '-' | /[^\s<>-]+/
//
// It returns the event, the unconsumed remainder and whether the
// expression was valid.
func parseBracket(s string) (Event, string, bool) {
	i := 1

	var mods Modifier
	j := i
	for j < len(s) && ModifierFromLetter(rune(s[j])) != ModNone {
		j++
	}
	if j > i && j < len(s) && s[j] == '-' {
		for _, r := range s[i:j] {
			mods = mods.With(ModifierFromLetter(r))
		}
		i = j + 1
	}

	if i >= len(s) {
		return Event{}, s, false
	}

	var name string
	switch s[i] {
	case '<', '>', '-':
		name = s[i : i+1]
		i++
	default:
		start := i
		for i < len(s) {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == '<' || r == '>' || r == '-' || unicode.IsSpace(r) {
				break
			}
			i += size
		}
		if i == start {
			return Event{}, s, false
		}
		name = s[start:i]
	}

	if i >= len(s) || s[i] != '>' {
		return Event{}, s, false
	}

	var k Key
	if utf8.RuneCountInString(name) == 1 {
		k = Key(name)
	} else {
		k = KeyFromName(name)
	}
	return Event{Key: k, Modifiers: mods}, s[i+1:], true
}

// FormatSequence formats events as a canonical key-sequence string.
func FormatSequence(events []Event) string {
	var b strings.Builder
	for _, e := range events {
		b.WriteString(e.String())
	}
	return b.String()
}

// NormalizeSpec parses and re-formats a key-sequence string to its
// canonical form.
func NormalizeSpec(spec string) string {
	return FormatSequence(ParseSequence(spec))
}
