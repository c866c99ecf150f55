package completion

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dshills/tabstorm/internal/dispatcher"
	"github.com/dshills/tabstorm/internal/metadata"
	"github.com/dshills/tabstorm/internal/typedesc"
)

// Source supplies argument candidates for a command. It is called on
// every completion so the candidates may change between calls.
type Source func() []Candidate

// Completer completes command lines against a command table.
type Completer struct {
	program *metadata.Program

	mu      sync.RWMutex
	sources map[string]Source
}

// New creates a completer for program.
func New(program *metadata.Program) *Completer {
	return &Completer{
		program: program,
		sources: make(map[string]Source),
	}
}

// Register sets the source completing the first argument of command.
func (c *Completer) Register(command string, src Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[command] = src
}

// Complete returns completions for the last word of line. Each match's
// Text is the whole line with that word replaced, and its Positions are
// offsets into Text.
func (c *Completer) Complete(line string, limit int) []Match {
	line = strings.TrimLeft(line, " ")
	head, rest, ok := strings.Cut(line, " ")
	if !ok {
		return Filter(head, c.commands(), limit)
	}

	words := strings.Fields(rest)
	word := ""
	if len(words) > 0 && !strings.HasSuffix(rest, " ") {
		word = words[len(words)-1]
		words = words[:len(words)-1]
	}
	prefix := strings.TrimSuffix(line, word)

	matches := Filter(word, c.arguments(head, len(words)), limit)
	shift := utf8.RuneCountInString(prefix)
	for i := range matches {
		m := &matches[i]
		if m.Key != "" {
			// Positions index the key, not the inserted text.
			m.Positions = nil
		}
		for j := range m.Positions {
			m.Positions[j] += shift
		}
		m.Text = prefix + m.Text
	}
	return matches
}

func (c *Completer) commands() []Candidate {
	symbols := c.program.Visible()
	out := make([]Candidate, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, Candidate{Text: s.Qualified(), Detail: s.Summary()})
	}
	return out
}

// arguments returns the candidates for argument position pos of head.
func (c *Completer) arguments(head string, pos int) []Candidate {
	if pos == 0 {
		c.mu.RLock()
		src := c.sources[head]
		c.mu.RUnlock()
		if src != nil {
			return src()
		}
	}

	entry, ok := c.program.Lookup(dispatcher.SplitName(head))
	if !ok {
		if entry, ok = c.program.Lookup("", head); !ok {
			return nil
		}
	}
	param, ok := paramAt(entry.Type, pos)
	if !ok {
		return nil
	}
	t := param.Type
	if param.Variadic {
		if arr, ok := t.(typedesc.ArrayType); ok {
			t = arr.Elem
		}
	}

	var out []Candidate
	for _, v := range literals(t) {
		out = append(out, Candidate{Text: v, Detail: param.Name})
	}
	return out
}

// paramAt returns the parameter receiving argument pos; a trailing
// variadic parameter receives every argument past its position.
func paramAt(fn typedesc.FunctionType, pos int) (typedesc.Param, bool) {
	n := len(fn.Params)
	switch {
	case pos < n:
		return fn.Params[pos], true
	case n > 0 && fn.Params[n-1].Variadic:
		return fn.Params[n-1], true
	}
	return typedesc.Param{}, false
}

// literals returns the values t accepts when it is a closed set.
func literals(t typedesc.Type) []string {
	switch t := t.(type) {
	case typedesc.LiteralType:
		return []string{t.Value}
	case typedesc.BooleanType:
		return []string{"true", "false"}
	case typedesc.UnionType:
		var out []string
		for _, alt := range t.Alts {
			out = append(out, literals(alt)...)
		}
		return out
	}
	return nil
}
