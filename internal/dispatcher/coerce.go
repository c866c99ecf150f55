package dispatcher

import (
	"github.com/dshills/tabstorm/internal/typedesc"
)

// arg is one positional argument: a raw token or a value piped from a
// previous command.
type arg struct {
	token string
	value any
	piped bool
}

func (a arg) convert(t typedesc.Type) (any, error) {
	if a.piped {
		return t.ConvertValue(a.value)
	}
	return t.Convert(a.token)
}

func (a arg) text() string {
	if a.piped {
		return "<piped>"
	}
	return a.token
}

// Coerce converts positional tokens to the parameter types of fn. Piped
// values follow the tokens and are converted with ConvertValue.
//
// Each non-variadic parameter consumes one argument. A variadic parameter
// consumes all remaining arguments, converted by its element type, and
// yields one []any. Optional parameters may be absent; trailing absent
// optionals are omitted from the result.
//
// Coerce is pure. On failure it returns an *ArgumentConversionError and
// no values.
func Coerce(command string, fn typedesc.FunctionType, tokens []string, piped ...any) ([]any, error) {
	args := make([]arg, 0, len(tokens)+len(piped))
	for _, t := range tokens {
		args = append(args, arg{token: t})
	}
	for _, v := range piped {
		args = append(args, arg{value: v, piped: true})
	}

	out := make([]any, 0, len(fn.Params))
	pos := 0
	for _, p := range fn.Params {
		if p.Variadic {
			elem := variadicElem(p.Type)
			rest := make([]any, 0, len(args)-pos)
			for ; pos < len(args); pos++ {
				v, err := args[pos].convert(elem)
				if err != nil {
					return nil, &ArgumentConversionError{
						Command:  command,
						Token:    args[pos].text(),
						Position: pos,
						Expected: elem.String(),
						Err:      err,
					}
				}
				rest = append(rest, v)
			}
			out = append(out, rest)
			continue
		}

		if pos >= len(args) {
			if p.Optional {
				continue
			}
			return nil, &ArgumentConversionError{
				Command:  command,
				Position: pos,
				Expected: p.String(),
			}
		}

		v, err := args[pos].convert(p.Type)
		if err != nil {
			return nil, &ArgumentConversionError{
				Command:  command,
				Token:    args[pos].text(),
				Position: pos,
				Expected: p.Type.String(),
				Err:      err,
			}
		}
		out = append(out, v)
		pos++
	}

	if pos < len(args) {
		return nil, &ArgumentConversionError{
			Command:  command,
			Token:    args[pos].text(),
			Position: pos,
		}
	}
	return out, nil
}

func variadicElem(t typedesc.Type) typedesc.Type {
	if a, ok := t.(typedesc.ArrayType); ok {
		return a.Elem
	}
	return t
}
