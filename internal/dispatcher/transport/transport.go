// Package transport delivers typed command invocations to the context that
// implements them.
//
// A Transport carries one Message per dispatch. Delivery is at most once:
// a message whose destination is gone fails with ErrDestinationGone and is
// never retried.
package transport

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Delivery errors
var (
	// ErrDestinationGone is returned when the receiving context has been
	// closed or cancelled.
	ErrDestinationGone = errors.New("transport: destination context gone")

	// ErrUnknownFunction is returned when the destination has no
	// implementation for a message.
	ErrUnknownFunction = errors.New("transport: no such function")
)

// IsDeliveryFailure reports whether err means the message was not handled
// by the destination, as opposed to an error returned by the command.
func IsDeliveryFailure(err error) bool {
	return errors.Is(err, ErrDestinationGone) || errors.Is(err, ErrUnknownFunction)
}

// Func is a command implementation taking coerced arguments.
type Func func(ctx context.Context, args []any) (any, error)

// Message is one typed invocation.
type Message struct {
	ID        uuid.UUID
	Namespace string
	Name      string
	Args      []any
}

// NewMessage creates a message with a fresh id.
func NewMessage(namespace, name string, args []any) Message {
	return Message{ID: uuid.New(), Namespace: namespace, Name: name, Args: args}
}

// Qualified returns the fully-qualified command name.
func (m Message) Qualified() string {
	if m.Namespace == "" {
		return m.Name
	}
	return m.Namespace + "." + m.Name
}

// Transport delivers messages.
type Transport interface {
	// Name identifies the transport in errors and logs.
	Name() string

	// Send delivers msg and waits for the result.
	Send(ctx context.Context, msg Message) (any, error)
}

// Lookup resolves a qualified command name to its implementation.
type Lookup interface {
	Get(name string) (Func, bool)
}

// Local calls implementations in the current process.
type Local struct {
	commands Lookup
}

// NewLocal creates an in-process transport.
func NewLocal(commands Lookup) *Local {
	return &Local{commands: commands}
}

// Name implements Transport.
func (l *Local) Name() string { return "local" }

// Send implements Transport.
func (l *Local) Send(ctx context.Context, msg Message) (any, error) {
	fn, ok := l.commands.Get(msg.Qualified())
	if !ok {
		return nil, ErrUnknownFunction
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrDestinationGone, err)
	}
	return fn(ctx, msg.Args)
}
