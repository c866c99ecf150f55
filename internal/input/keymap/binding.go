package keymap

import (
	"github.com/dshills/tabstorm/internal/input/key"
)

// Binding represents a single key-to-command mapping.
type Binding struct {
	// Keys is the key sequence that triggers this binding.
	// Examples: "j", "gg", "<C-f>", "<C-w>v"
	Keys string

	// Command is the command-string template to run.
	// Examples: "scrollline 10", "composite unfocus | mode normal"
	// An empty command marks the sequence as unbound.
	Command string

	// Description provides documentation for the binding.
	Description string
}

// NewBinding creates a new binding with the given keys and command.
func NewBinding(keys, command string) Binding {
	return Binding{
		Keys:    keys,
		Command: command,
	}
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// IsUnbound returns true if the binding masks its key sequence.
func (b Binding) IsUnbound() bool {
	return b.Command == ""
}

// ParsedBinding is a binding with a pre-parsed key sequence.
type ParsedBinding struct {
	Binding
	Sequence key.Sequence
}

// Match checks if this binding's key sequence matches keys exactly.
func (pb *ParsedBinding) Match(keys key.Sequence) bool {
	return pb.Sequence.Matches(keys)
}

// IsPrefix checks if keys is a prefix of this binding's key sequence.
func (pb *ParsedBinding) IsPrefix(keys key.Sequence) bool {
	return pb.Sequence.MatchesPrefix(keys)
}
