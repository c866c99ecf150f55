package dispatcher

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/tabstorm/internal/dispatcher/transport"
)

// Command is a command implementation. Args are the coerced values in
// parameter order; a variadic parameter arrives as one []any.
type Command = transport.Func

// Registry maps fully-qualified command names to implementations.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds or replaces the implementation of a command.
func (r *Registry) Register(name string, cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[name] = cmd
}

// Bind registers an ordinary Go function as a command. fn may take a
// leading context.Context and may return nothing, a value, an error, or a
// value and an error. Arguments are converted to the parameter types when
// the command runs; a variadic Go parameter receives the []any of a
// variadic command parameter.
func (r *Registry) Bind(name string, fn any) error {
	cmd, err := adapt(fn)
	if err != nil {
		return fmt.Errorf("bind %s: %w", name, err)
	}
	r.Register(name, cmd)
	return nil
}

// MustBind is like Bind but panics on error.
func (r *Registry) MustBind(name string, fn any) {
	if err := r.Bind(name, fn); err != nil {
		panic(err)
	}
}

// Unregister removes a command.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, name)
}

// Get returns the implementation of a command.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Has returns true if a command is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.commands[name]
	return ok
}

// List returns all registered command names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Clear removes all registered commands.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = make(map[string]Command)
}

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// adapt wraps fn in a Command. The shape of fn is checked once here.
func adapt(fn any) (Command, error) {
	if cmd, ok := fn.(Command); ok {
		return cmd, nil
	}
	if cmd, ok := fn.(func(context.Context, []any) (any, error)); ok {
		return cmd, nil
	}

	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%T is not a function", fn)
	}

	withCtx := ft.NumIn() > 0 && ft.In(0) == contextType
	first := 0
	if withCtx {
		first = 1
	}

	var hasValue, hasErr bool
	switch ft.NumOut() {
	case 0:
	case 1:
		hasErr = ft.Out(0) == errorType
		hasValue = !hasErr
	case 2:
		if ft.Out(1) != errorType {
			return nil, fmt.Errorf("second result of %s must be error", ft)
		}
		hasValue, hasErr = true, true
	default:
		return nil, fmt.Errorf("%s returns too many results", ft)
	}

	return func(ctx context.Context, args []any) (any, error) {
		in, err := bindArgs(ft, first, args)
		if err != nil {
			return nil, err
		}
		if withCtx {
			in = append([]reflect.Value{reflect.ValueOf(ctx)}, in...)
		}

		var out []reflect.Value
		if ft.IsVariadic() {
			out = fv.CallSlice(in)
		} else {
			out = fv.Call(in)
		}

		var (
			ret    any
			retErr error
		)
		if hasValue {
			ret = out[0].Interface()
		}
		if hasErr {
			if e := out[len(out)-1]; !e.IsNil() {
				retErr = e.Interface().(error)
			}
		}
		return ret, retErr
	}, nil
}

// bindArgs converts coerced args to the parameter types of ft starting at
// parameter first. Missing trailing arguments become zero values.
func bindArgs(ft reflect.Type, first int, args []any) ([]reflect.Value, error) {
	n := ft.NumIn() - first
	if len(args) > n {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", ft, n, len(args))
	}

	in := make([]reflect.Value, n)
	for i := range n {
		pt := ft.In(first + i)
		if i >= len(args) {
			in[i] = reflect.Zero(pt)
			continue
		}
		v, err := convertArg(args[i], pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		in[i] = v
	}
	return in, nil
}

// convertArg converts a coerced value to t. Numbers convert between
// numeric kinds, lists to slices or arrays element-wise, and maps to
// string-keyed maps or structs.
func convertArg(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem, err := convertArg(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String, reflect.Bool:
		if isNumeric(rv.Kind()) != isNumeric(t.Kind()) || !rv.Type().ConvertibleTo(t) {
			break
		}
		return rv.Convert(t), nil

	case reflect.Slice, reflect.Array:
		list, ok := v.([]any)
		if !ok {
			break
		}
		var out reflect.Value
		if t.Kind() == reflect.Slice {
			out = reflect.MakeSlice(t, len(list), len(list))
		} else {
			if len(list) != t.Len() {
				return reflect.Value{}, fmt.Errorf("want %d elements, got %d", t.Len(), len(list))
			}
			out = reflect.New(t).Elem()
		}
		for i, e := range list {
			ev, err := convertArg(e, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil

	case reflect.Map:
		m, ok := v.(map[string]any)
		if !ok || t.Key().Kind() != reflect.String {
			break
		}
		out := reflect.MakeMapWithSize(t, len(m))
		for k, e := range m {
			ev, err := convertArg(e, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
		}
		return out, nil

	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			break
		}
		out := reflect.New(t).Elem()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			e, ok := m[fieldKey(f)]
			if !ok {
				continue
			}
			ev, err := convertArg(e, f.Type)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("field %s: %w", f.Name, err)
			}
			out.Field(i).Set(ev)
		}
		return out, nil

	case reflect.Interface:
		if rv.Type().Implements(t) {
			return rv.Convert(t), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("can't use %T as %s", v, t)
}

// fieldKey returns the json name of a struct field, as the metadata
// compiler names object fields.
func fieldKey(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
		return name
	}
	return f.Name
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
