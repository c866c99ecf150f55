package key

import (
	"strings"
)

// Sequence represents a series of key events, either a binding such as
// "gg" or "<C-w>v", or keystrokes buffered while a binding is pending.
type Sequence []Event

// NewSequence creates a sequence from the given events.
func NewSequence(events ...Event) Sequence {
	return Sequence(events)
}

// Len returns the number of events in the sequence.
func (s Sequence) Len() int {
	return len(s)
}

// IsEmpty returns true if the sequence has no events.
func (s Sequence) IsEmpty() bool {
	return len(s) == 0
}

// String returns the canonical key-sequence string.
func (s Sequence) String() string {
	return FormatSequence(s)
}

// Printable returns the sequence as shown in a status indicator.
func (s Sequence) Printable() string {
	var b strings.Builder
	for _, e := range s {
		b.WriteString(e.Printable())
	}
	return b.String()
}

// Equals returns true if both sequences have the same keys and modifiers.
func (s Sequence) Equals(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equals(other[i]) {
			return false
		}
	}
	return true
}

// MatchesPrefix reports whether keys is a prefix of (or equal to) the
// binding s. Each key is compared with Event.Matches.
func (s Sequence) MatchesPrefix(keys Sequence) bool {
	if len(keys) > len(s) {
		return false
	}
	for i, k := range keys {
		if !s[i].Matches(k) {
			return false
		}
	}
	return true
}

// Matches reports whether keys match the binding s exactly.
func (s Sequence) Matches(keys Sequence) bool {
	return len(keys) == len(s) && s.MatchesPrefix(keys)
}

// Clone returns a copy that shares no backing array with s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Append returns a new sequence with events added, leaving s untouched.
func (s Sequence) Append(events ...Event) Sequence {
	out := make(Sequence, 0, len(s)+len(events))
	out = append(out, s...)
	return append(out, events...)
}

// Tail returns the sequence without its first n events.
func (s Sequence) Tail(n int) Sequence {
	if n >= len(s) {
		return Sequence{}
	}
	return s[n:]
}

// Head returns the first n events.
func (s Sequence) Head(n int) Sequence {
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// StripModifierOnly returns the sequence without bare modifier key events.
func (s Sequence) StripModifierOnly() Sequence {
	out := make(Sequence, 0, len(s))
	for _, e := range s {
		if !e.IsModifierOnly() {
			out = append(out, e)
		}
	}
	return out
}

// SplitCount splits a leading numeric count from the sequence.
//
// The count starts with an unmodified 1-9 and continues through following
// unmodified 0-9 keys. It returns the count keys and the remainder.
func (s Sequence) SplitCount() (prefix, rest Sequence) {
	if len(s) == 0 {
		return Sequence{}, s
	}
	if d, ok := s[0].Key.Digit(); !ok || d == 0 || s[0].HasModifiers() {
		return Sequence{}, s
	}
	n := 1
	for n < len(s) {
		if _, ok := s[n].Key.Digit(); !ok || s[n].HasModifiers() {
			break
		}
		n++
	}
	return s[:n], s[n:]
}

// CountValue returns the decimal number spelled by digit keys, or 0 for an
// empty sequence.
func (s Sequence) CountValue() int {
	n := 0
	for _, e := range s {
		d, ok := e.Key.Digit()
		if !ok {
			break
		}
		n = n*10 + d
	}
	return n
}

// Digits returns the raw key characters of the sequence.
func (s Sequence) Digits() string {
	var b strings.Builder
	for _, e := range s {
		b.WriteString(string(e.Key))
	}
	return b.String()
}
