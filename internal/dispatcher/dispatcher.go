package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/dshills/tabstorm/internal/dispatcher/transport"
	"github.com/dshills/tabstorm/internal/logging"
	"github.com/dshills/tabstorm/internal/metadata"
	"github.com/dshills/tabstorm/internal/typedesc"
)

// Builtin command names.
const (
	CompositeCommand = "composite"
	RepeatCommand    = "repeat"
)

// Dispatcher resolves command strings against a metadata table, coerces
// their arguments and delivers the call through a transport.
type Dispatcher struct {
	program  *metadata.Program
	registry *Registry
	router   *Router
	hooks    *Hooks
	metrics  *Metrics
	config   Config
	logger   *logging.Logger

	mu   sync.Mutex
	last string
}

// New creates a dispatcher over program. Commands in namespaces without a
// registered transport are delivered to the dispatcher's registry.
func New(program *metadata.Program, config Config) *Dispatcher {
	if program == nil {
		program = metadata.NewProgram()
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Null()
	}

	d := &Dispatcher{
		program:  program,
		registry: NewRegistry(),
		hooks:    NewHooks(),
		config:   config,
		logger:   logger.WithComponent("dispatcher"),
	}
	d.router = NewRouter(transport.NewLocal(d.registry))

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a dispatcher with default configuration.
func NewWithDefaults(program *metadata.Program) *Dispatcher {
	return New(program, DefaultConfig())
}

// Dispatch runs one command string and returns the command's result.
//
// The string is alias-expanded, split into a head and arguments, looked
// up, tokenized, coerced and delivered. Errors are *UnknownCommandError,
// *ArgumentConversionError, *DispatchTransportError or the command's own
// error. Nothing is invoked when lookup or coercion fails.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd string) (any, error) {
	expanded, err := d.config.Aliases.Expand(cmd)
	if err != nil {
		return nil, err
	}
	head, _ := SplitHead(expanded)
	if head == "" {
		return nil, ErrEmptyCommand
	}

	result, err := d.run(ctx, expanded)
	if !d.invokesRepeat(expanded) {
		d.mu.Lock()
		d.last = cmd
		d.mu.Unlock()
	}
	return result, err
}

// Interpret runs cmd and returns a message for the user: the error text on
// failure, the printed result otherwise. It never panics.
func (d *Dispatcher) Interpret(ctx context.Context, cmd string) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("interpret %q: panic: %v", cmd, r)
			msg = fmt.Sprintf("%v: %v", ErrPanic, r)
		}
	}()

	result, err := d.Dispatch(ctx, cmd)
	if err != nil {
		d.logger.Warn("%v", err)
		return err.Error()
	}
	if result == nil {
		return ""
	}
	return fmt.Sprint(result)
}

// invokesRepeat reports whether cmd runs repeat directly or as a stage
// of a composite command.
func (d *Dispatcher) invokesRepeat(cmd string) bool {
	head, rest := SplitHead(cmd)
	switch head {
	case RepeatCommand:
		return true
	case CompositeCommand:
		for _, pipeline := range SplitComposite(rest) {
			for _, stage := range pipeline {
				expanded, err := d.config.Aliases.Expand(stage)
				if err != nil {
					continue
				}
				if d.invokesRepeat(expanded) {
					return true
				}
			}
		}
	}
	return false
}

// Last returns the last dispatched command string. Commands that invoke
// repeat are not recorded.
func (d *Dispatcher) Last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// run dispatches an alias-expanded command string.
func (d *Dispatcher) run(ctx context.Context, cmd string, piped ...any) (any, error) {
	head, rest := SplitHead(cmd)
	if head == "" {
		return nil, ErrEmptyCommand
	}

	switch head {
	case CompositeCommand:
		return d.composite(ctx, rest, piped...)
	case RepeatCommand:
		return nil, d.repeat(ctx, rest)
	}

	ns, name := SplitName(head)
	entry, ok := d.program.Lookup(ns, name)
	if !ok && ns != "" {
		// Class members live in their file's namespace as "Class.Method".
		if entry, ok = d.program.Lookup("", head); ok {
			ns, name = "", head
		}
	}
	if !ok {
		return nil, &UnknownCommandError{Namespace: ns, Name: name}
	}
	qualified := metadata.Qualify(ns, name)

	tokens, err := Tokenize(rest)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			return nil, &ArgumentConversionError{
				Command:  qualified,
				Token:    se.Partial,
				Position: se.Position,
				Expected: "closing quote",
				Err:      err,
			}
		}
		return nil, err
	}

	args, err := Coerce(qualified, entry.Type, tokens, piped...)
	if err != nil {
		return nil, err
	}

	call := &Call{Message: transport.NewMessage(ns, name, args), Entry: entry}
	return d.invoke(ctx, call)
}

// invoke delivers a coerced call, at most once.
func (d *Dispatcher) invoke(ctx context.Context, call *Call) (any, error) {
	if err := d.hooks.RunPreDispatch(ctx, call); err != nil {
		return nil, err
	}

	qualified := call.Qualified()
	t := d.router.Route(call.Namespace)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRoute, qualified)
	}

	start := time.Now()
	result, err := d.deliver(ctx, t, call)
	if transport.IsDeliveryFailure(err) {
		err = &DispatchTransportError{Command: qualified, Transport: t.Name(), Err: err}
	}
	out := &Outcome{Result: result, Err: err, Duration: time.Since(start)}

	if d.metrics != nil {
		d.metrics.RecordDispatch(qualified, out.Duration, out.Err)
	}
	d.hooks.RunPostDispatch(ctx, call, out)
	return out.Result, out.Err
}

type delivery struct {
	result any
	err    error
}

// deliver sends the call, applying the configured timeout and panic
// recovery.
func (d *Dispatcher) deliver(ctx context.Context, t transport.Transport, call *Call) (any, error) {
	if d.config.DefaultTimeout <= 0 {
		return d.send(ctx, t, call)
	}

	ctx, cancel := context.WithTimeout(ctx, d.config.DefaultTimeout)
	defer cancel()

	done := make(chan delivery, 1)
	go func() {
		result, err := d.send(ctx, t, call)
		done <- delivery{result, err}
	}()

	select {
	case r := <-done:
		return r.result, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %v", ErrTimeout, call.Qualified(), d.config.DefaultTimeout)
		}
		return nil, ctx.Err()
	}
}

func (d *Dispatcher) send(ctx context.Context, t transport.Transport, call *Call) (result any, err error) {
	if !d.config.RecoverFromPanic {
		return t.Send(ctx, call.Message)
	}

	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			d.logger.Error("command panic for %s: %v\n%s", call.Qualified(), r, stack[:n])

			result, err = nil, fmt.Errorf("%w: %s: %v", ErrPanic, call.Qualified(), r)
			if d.metrics != nil {
				d.metrics.RecordPanic(call.Qualified())
			}
		}
	}()
	return t.Send(ctx, call.Message)
}

// composite runs pipelines separated by ";" in order. Within a pipeline
// separated by "|", each stage receives the previous stage's non-nil
// result as its last argument. It stops at the first error and returns the last result.
func (d *Dispatcher) composite(ctx context.Context, body string, piped ...any) (any, error) {
	var result any
	for _, pipeline := range SplitComposite(body) {
		carry := piped
		for _, stage := range pipeline {
			expanded, err := d.config.Aliases.Expand(stage)
			if err != nil {
				return nil, err
			}
			r, err := d.run(ctx, expanded, carry...)
			if err != nil {
				return nil, err
			}
			result, carry = r, nil
			if r != nil {
				carry = []any{r}
			}
		}
	}
	return result, nil
}

// repeatBudget counts the iterations left to all repeats of one dispatch.
type repeatBudget struct {
	left int
}

type repeatKey struct{}

// repeat runs a command string n times. "repeat [n] [cmd]" repeats the
// last command when cmd is empty. Nested repeats share one iteration
// budget of MaxRepeatCount.
func (d *Dispatcher) repeat(ctx context.Context, rest string) error {
	n := 1
	if first, tail := SplitHead(rest); first != "" {
		if v, err := strconv.Atoi(first); err == nil {
			n, rest = v, tail
		}
	}
	if n < 0 {
		return &ArgumentConversionError{
			Command:  RepeatCommand,
			Token:    strconv.Itoa(n),
			Expected: "non-negative count",
		}
	}

	budget, nested := ctx.Value(repeatKey{}).(*repeatBudget)
	if !nested {
		budget = &repeatBudget{left: -1}
		if limit := d.config.MaxRepeatCount; limit > 0 {
			budget.left = limit
		}
		ctx = context.WithValue(ctx, repeatKey{}, budget)
	}

	cmd := rest
	if cmd == "" {
		if nested {
			return ErrRecursiveRepeat
		}
		cmd = d.Last()
	}
	if cmd == "" {
		return ErrNothingToRepeat
	}
	expanded, err := d.config.Aliases.Expand(cmd)
	if err != nil {
		return err
	}
	for range n {
		if budget.left == 0 {
			return nil
		}
		if budget.left > 0 {
			budget.left--
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := d.run(ctx, expanded); err != nil {
			return err
		}
	}
	return nil
}

// Builtins returns the metadata of the builtin commands, for inclusion in
// the program table.
func Builtins() *metadata.File {
	exstrs := typedesc.Param{Name: "exstr", Type: typedesc.NewArray(typedesc.NewString()), Variadic: true}
	return metadata.NewFile("builtins", "", nil, []*metadata.Entry{
		{
			Name: CompositeCommand,
			Doc: "Run commands separated by \";\" in order. Within a \"|\" pipeline each\n" +
				"command receives the previous result as its last argument.",
			Type: typedesc.NewFunction(typedesc.NewAny(), exstrs),
		},
		{
			Name: RepeatCommand,
			Doc:  "Repeat a command n times, or the last command if none is given.",
			Type: typedesc.NewFunction(typedesc.NewVoid(),
				typedesc.Param{Name: "n", Type: typedesc.NewNumber(), Optional: true}, exstrs),
		},
	})
}

// RegisterNamespace delivers all commands of a namespace through t.
func (d *Dispatcher) RegisterNamespace(namespace string, t transport.Transport) {
	d.router.RegisterNamespace(namespace, t)
}

// Register registers the implementation of a command.
func (d *Dispatcher) Register(name string, cmd Command) {
	d.registry.Register(name, cmd)
}

// Bind registers a Go function as the implementation of a command.
func (d *Dispatcher) Bind(name string, fn any) error {
	return d.registry.Bind(name, fn)
}

// RegisterHook adds a pre- or post-dispatch hook.
func (d *Dispatcher) RegisterHook(h Hook) {
	d.hooks.Register(h)
}

// Program returns the metadata table.
func (d *Dispatcher) Program() *metadata.Program {
	return d.program
}

// Registry returns the command registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Router returns the transport router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Hooks returns the hook set.
func (d *Dispatcher) Hooks() *Hooks {
	return d.hooks
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
