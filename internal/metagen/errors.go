package metagen

import (
	"errors"
	"fmt"
	"go/token"
)

// Compiler errors
var (
	// ErrDuplicateCommand is returned when two declarations produce the
	// same command name in one namespace.
	ErrDuplicateCommand = errors.New("duplicate command")

	// ErrNoSources is returned by Compile when no file was added.
	ErrNoSources = errors.New("no source files")
)

// UnsupportedTypeShapeError reports a declared type that has no descriptor
// form. It aborts compilation.
type UnsupportedTypeShapeError struct {
	// Pos is the position of the offending type expression.
	Pos token.Position

	// Command is the declaration being compiled.
	Command string

	// Shape is the source text of the type expression.
	Shape string

	// Reason describes why the shape is rejected.
	Reason string
}

func (e *UnsupportedTypeShapeError) Error() string {
	msg := fmt.Sprintf("%s: unsupported type %s", e.Pos, e.Shape)
	if e.Command != "" {
		msg += " in " + e.Command
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
