package mode

import (
	"errors"
	"fmt"
	"strings"
)

// Name identifies a mode.
type Name string

// Standard mode names.
const (
	Normal Name = "normal"
	Insert Name = "insert"
	Ignore Name = "ignore"
	Input  Name = "input"
	Hint   Name = "hint"
	Visual Name = "visual"
	Gobble Name = "gobble"
	NMode  Name = "nmode"
)

// ErrUnknownMode is returned for a mode name outside the closed set.
var ErrUnknownMode = errors.New("unknown mode")

// ErrInvalidCount is returned when a transient mode is given a count below one.
var ErrInvalidCount = errors.New("count must be at least 1")

var names = []Name{Normal, Insert, Ignore, Input, Hint, Visual, Gobble, NMode}

// Names returns every mode name.
func Names() []Name {
	out := make([]Name, len(names))
	copy(out, names)
	return out
}

// ParseName validates a mode name.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range names {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// String returns the mode name.
func (n Name) String() string {
	return string(n)
}

// IsTransient returns true for modes that carry their own completion
// condition.
func (n Name) IsTransient() bool {
	return n == Gobble || n == NMode
}

// DisplayName returns a human-readable name for a status indicator.
func (n Name) DisplayName() string {
	switch n {
	case Normal:
		return ""
	case NMode:
		return "-- N MODE --"
	default:
		return "-- " + strings.ToUpper(string(n)) + " --"
	}
}

// GobbleState is the parameter record of gobble mode.
type GobbleState struct {
	// Remaining is how many characters are still to be collected.
	Remaining int

	// Chars holds the characters collected so far.
	Chars string

	// EndCommand runs with the collected characters appended.
	EndCommand string
}

// NModeState is the parameter record of nmode.
type NModeState struct {
	// Mode is the mode whose bindings the commands resolve in.
	Mode Name

	// Remaining is how many commands are still to run.
	Remaining int

	// EndCommand runs after the last command, or on Escape.
	EndCommand string
}

// Mode is the active mode together with the parameters of a transient
// mode. The zero value is not valid; use Of, NewGobble or NewNMode.
type Mode struct {
	Name   Name
	Gobble GobbleState
	NMode  NModeState
}

// Of returns a non-transient mode.
func Of(n Name) Mode {
	return Mode{Name: n}
}

// NewGobble returns gobble mode collecting n characters before running
// endCommand.
func NewGobble(n int, endCommand string) (Mode, error) {
	if n < 1 {
		return Mode{}, ErrInvalidCount
	}
	return Mode{
		Name:   Gobble,
		Gobble: GobbleState{Remaining: n, EndCommand: endCommand},
	}, nil
}

// NewNMode returns nmode running n commands in mode m before endCommand.
func NewNMode(m Name, n int, endCommand string) (Mode, error) {
	if n < 1 {
		return Mode{}, ErrInvalidCount
	}
	if m.IsTransient() {
		return Mode{}, fmt.Errorf("%w: %q cannot be nested in nmode", ErrUnknownMode, m)
	}
	return Mode{
		Name:  NMode,
		NMode: NModeState{Mode: m, Remaining: n, EndCommand: endCommand},
	}, nil
}

// Is reports whether the mode has the given name.
func (m Mode) Is(n Name) bool {
	return m.Name == n
}

// BindingMode returns the mode whose binding table resolves keys. For
// nmode this is the wrapped mode.
func (m Mode) BindingMode() Name {
	if m.Name == NMode {
		return m.NMode.Mode
	}
	return m.Name
}

// String returns a description such as "normal" or "gobble(1, markadd)".
func (m Mode) String() string {
	switch m.Name {
	case Gobble:
		return fmt.Sprintf("gobble(%d, %s)", m.Gobble.Remaining, m.Gobble.EndCommand)
	case NMode:
		return fmt.Sprintf("nmode(%s, %d, %s)", m.NMode.Mode, m.NMode.Remaining, m.NMode.EndCommand)
	}
	return string(m.Name)
}

// AutoSwitch applies the focus rule before a keystroke is handled.
//
// In every mode except ignore, hint and input an editable target forces
// insert mode, and insert mode falls back to normal once the target is not
// editable. Input mode only ends when the target is not editable.
func AutoSwitch(current Mode, editable bool) Mode {
	switch current.Name {
	case Ignore, Hint:
		return current
	case Input:
		if !editable {
			return Of(Normal)
		}
		return current
	}

	if editable {
		if current.Name != Insert {
			return Of(Insert)
		}
		return current
	}
	if current.Name == Insert {
		return Of(Normal)
	}
	return current
}
