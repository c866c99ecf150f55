package keymap

import (
	"errors"
	"fmt"
)

// Registry errors
var (
	// ErrNoBindings indicates the active mode has no binding table.
	ErrNoBindings = errors.New("no binds defined for this mode")

	// ErrInheritanceCycle indicates tables inherit from each other in a loop.
	ErrInheritanceCycle = errors.New("keymap inheritance cycle")

	// ErrEmptyKeys indicates a binding with no key sequence.
	ErrEmptyKeys = errors.New("empty key sequence")
)

// ConfigurationError reports a mode whose bindings cannot be used until
// they are reconfigured.
type ConfigurationError struct {
	Mode  string
	Table string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("keymap: %s: mode %q (table %q). Add binds, e.g. :bind --mode=%s <Esc> mode normal",
		e.Err, e.Mode, e.Table, e.Mode)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
