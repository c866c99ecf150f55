package typedesc

import (
	"errors"
	"fmt"
)

// Conversion errors
var (
	// ErrNotConvertible is returned by variants that have no string form,
	// such as functions and unresolved references.
	ErrNotConvertible = errors.New("type is not convertible")

	// ErrShapeMismatch is returned when a structured value has the wrong
	// shape, for example an object where an array was expected.
	ErrShapeMismatch = errors.New("value has the wrong shape")

	// ErrUnknownKind is returned when decoding an unknown descriptor kind.
	ErrUnknownKind = errors.New("unknown type kind")
)

// ConversionError reports a value that does not satisfy a descriptor.
type ConversionError struct {
	// Value is the offending token or structured element, as text.
	Value string

	// Type is the descriptor the value was converted to.
	Type Type

	// Reason describes the failure.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("can't convert %q to %s", e.Value, e.Type)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

func conversionError(v any, t Type, reason string, err error) error {
	return &ConversionError{Value: display(v), Type: t, Reason: reason, Err: err}
}

// display renders a value for error messages.
func display(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return "null"
	}
	return fmt.Sprint(v)
}
