package dispatcher

import (
	"errors"
	"fmt"

	"github.com/dshills/tabstorm/internal/metadata"
)

// Dispatcher errors.
var (
	// ErrEmptyCommand indicates a blank command line.
	ErrEmptyCommand = errors.New("dispatcher: empty command")

	// ErrAliasLoop indicates an alias that expands to itself.
	ErrAliasLoop = errors.New("dispatcher: alias loop")

	// ErrTimeout indicates the command did not finish in time.
	ErrTimeout = errors.New("dispatcher: command timeout")

	// ErrPanic indicates the command implementation panicked.
	ErrPanic = errors.New("dispatcher: command panic")

	// ErrNoRoute indicates a command with metadata but no transport.
	ErrNoRoute = errors.New("dispatcher: no transport for namespace")

	// ErrDenied indicates a call refused by a DenyHook.
	ErrDenied = errors.New("dispatcher: command denied")

	// ErrNothingToRepeat indicates repeat before any command ran.
	ErrNothingToRepeat = errors.New("dispatcher: no command to repeat")

	// ErrRecursiveRepeat indicates a repeat of the last command issued
	// while a repeat is already running.
	ErrRecursiveRepeat = errors.New("dispatcher: repeat inside repeat")
)

// UnknownCommandError reports a namespace and name with no metadata entry.
// No function is invoked.
type UnknownCommandError struct {
	Namespace string
	Name      string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("not a command: %s", metadata.Qualify(e.Namespace, e.Name))
}

// ArgumentConversionError reports a token that does not coerce to its
// parameter type, a missing required argument or a surplus token. The
// command is not invoked.
type ArgumentConversionError struct {
	// Command is the qualified command name.
	Command string

	// Token is the offending token; empty for a missing argument.
	Token string

	// Position is the zero-based token position; messages count from 1.
	Position int

	// Expected describes the parameter type.
	Expected string

	Err error
}

func (e *ArgumentConversionError) Error() string {
	n := e.Position + 1
	switch {
	case e.Token == "" && e.Err == nil:
		return fmt.Sprintf("%s: argument %d: missing %s", e.Command, n, e.Expected)
	case e.Expected == "":
		return fmt.Sprintf("%s: argument %d: unexpected %q", e.Command, n, e.Token)
	}
	msg := fmt.Sprintf("%s: argument %d: expected %s, got %q", e.Command, n, e.Expected, e.Token)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ArgumentConversionError) Unwrap() error { return e.Err }

// DispatchTransportError reports a message the destination did not
// handle. It is not retried.
type DispatchTransportError struct {
	Command   string
	Transport string
	Err       error
}

func (e *DispatchTransportError) Error() string {
	return fmt.Sprintf("%s: %s transport: %v", e.Command, e.Transport, e.Err)
}

func (e *DispatchTransportError) Unwrap() error { return e.Err }
