package keymap

import (
	"fmt"
	"sort"

	"github.com/dshills/tabstorm/internal/input/key"
)

// Keymap holds the bindings of one table.
type Keymap struct {
	// Name is the table name, e.g. "nmaps".
	Name string

	// Inherits names a table whose bindings apply unless overridden here.
	Inherits string

	// Bindings are the key-to-command mappings.
	Bindings []Binding

	// Source indicates where this keymap was defined.
	// Examples: "default", "user", "config:~/.tabstormrc"
	Source string
}

// NewKeymap creates a new keymap with the given table name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]Binding, 0),
	}
}

// FromMap creates a keymap from a key-sequence to command map.
func FromMap(name string, m map[string]string) *Keymap {
	km := NewKeymap(name)
	for _, k := range sortedKeys(m) {
		km.Add(k, m[k])
	}
	return km
}

// InheritFrom sets the parent table.
func (k *Keymap) InheritFrom(table string) *Keymap {
	k.Inherits = table
	return k
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add adds a binding to this keymap, replacing any binding with the same
// canonical key sequence.
func (k *Keymap) Add(keys, command string) *Keymap {
	return k.AddBinding(NewBinding(keys, command))
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(binding Binding) *Keymap {
	canon := key.NormalizeSpec(binding.Keys)
	for i := range k.Bindings {
		if key.NormalizeSpec(k.Bindings[i].Keys) == canon {
			k.Bindings[i] = binding
			return k
		}
	}
	k.Bindings = append(k.Bindings, binding)
	return k
}

// Unbind masks a key sequence, including one inherited from a parent.
func (k *Keymap) Unbind(keys string) *Keymap {
	return k.Add(keys, "")
}

// Map returns the bindings as a key-sequence to command map.
func (k *Keymap) Map() map[string]string {
	m := make(map[string]string, len(k.Bindings))
	for _, b := range k.Bindings {
		m[b.Keys] = b.Command
	}
	return m
}

// Validate checks that all bindings in the keymap are valid.
func (k *Keymap) Validate() error {
	for i, b := range k.Bindings {
		if b.Keys == "" {
			return fmt.Errorf("binding %d: %w", i, ErrEmptyKeys)
		}
	}
	return nil
}

// Parse parses all bindings in the keymap. Unbound entries are kept out
// of the parsed table.
func (k *Keymap) Parse() (*ParsedKeymap, error) {
	if err := k.Validate(); err != nil {
		return nil, fmt.Errorf("keymap %q: %w", k.Name, err)
	}
	parsed := newParsedKeymap(k)
	for _, b := range k.Bindings {
		if b.IsUnbound() {
			continue
		}
		parsed.add(ParsedBinding{
			Binding:  b,
			Sequence: key.ParseSequence(b.Keys),
		})
	}
	return parsed, nil
}

// Clone creates a deep copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	clone := &Keymap{
		Name:     k.Name,
		Inherits: k.Inherits,
		Source:   k.Source,
		Bindings: make([]Binding, len(k.Bindings)),
	}
	copy(clone.Bindings, k.Bindings)
	return clone
}

// ParsedKeymap is a keymap with pre-parsed key sequences.
type ParsedKeymap struct {
	*Keymap
	ParsedBindings []ParsedBinding
	tree           *PrefixTree
}

func newParsedKeymap(km *Keymap) *ParsedKeymap {
	return &ParsedKeymap{
		Keymap:         km,
		ParsedBindings: make([]ParsedBinding, 0, len(km.Bindings)),
		tree:           NewPrefixTree(),
	}
}

func (p *ParsedKeymap) add(pb ParsedBinding) {
	p.ParsedBindings = append(p.ParsedBindings, pb)
	p.tree.Insert(pb.Sequence, len(p.ParsedBindings)-1)
}

// Len returns the number of bound sequences.
func (p *ParsedKeymap) Len() int {
	return len(p.ParsedBindings)
}

// Lookup returns the binding whose sequence matches keys exactly.
func (p *ParsedKeymap) Lookup(keys key.Sequence) (*ParsedBinding, bool) {
	idx, ok := p.tree.Lookup(keys)
	if !ok {
		return nil, false
	}
	return &p.ParsedBindings[idx], true
}

// HasPrefix reports whether keys is a prefix of (or equal to) any binding.
// The empty sequence is a prefix of every binding of a non-empty table.
func (p *ParsedKeymap) HasPrefix(keys key.Sequence) bool {
	return p.tree.HasPrefix(keys)
}

// Completions returns the bindings keys is a prefix of, sorted by their
// canonical key sequence.
func (p *ParsedKeymap) Completions(keys key.Sequence) []ParsedBinding {
	idxs := p.tree.Completions(keys)
	out := make([]ParsedBinding, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, p.ParsedBindings[i])
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Sequence.String() < out[j].Sequence.String()
	})
	return out
}
