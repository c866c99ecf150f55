package typedesc

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// parseStructured parses a JSON token into plain values.
func parseStructured(t Type, token string) (any, error) {
	if !gjson.Valid(token) {
		return nil, conversionError(token, t, "invalid JSON", ErrShapeMismatch)
	}
	return jsonValue(gjson.Parse(token)), nil
}

// asList returns the elements of a JSON array token or of an already
// parsed list.
func asList(t Type, v any) ([]any, error) {
	if s, ok := v.(string); ok {
		parsed, err := parseStructured(t, s)
		if err != nil {
			return nil, err
		}
		v = parsed
	}
	list, ok := v.([]any)
	if !ok {
		return nil, conversionError(v, t, "not an array", ErrShapeMismatch)
	}
	return list, nil
}

// jsonValue converts a gjson result to plain values. Integral numbers
// become int64 so that they convert like integer tokens.
func jsonValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return i
		}
		return r.Num
	case gjson.String:
		return r.Str
	}

	if r.IsArray() {
		out := make([]any, 0)
		r.ForEach(func(_, v gjson.Result) bool {
			out = append(out, jsonValue(v))
			return true
		})
		return out
	}
	out := make(map[string]any)
	r.ForEach(func(k, v gjson.Result) bool {
		out[k.String()] = jsonValue(v)
		return true
	})
	return out
}

// Encode returns the JSON form of a descriptor, e.g.
// {"kind":"array","elem":{"kind":"number"}}.
func Encode(t Type) (string, error) {
	doc, err := sjson.Set("", "kind", t.Kind().String())
	if err != nil {
		return "", err
	}

	switch x := t.(type) {
	case LiteralType:
		return sjson.Set(doc, "value", x.Value)
	case ArrayType:
		return setEncoded(doc, "elem", x.Elem)
	case TupleType:
		return setList(doc, "elems", x.Elems)
	case UnionType:
		return setList(doc, "alts", x.Alts)
	case ReferenceType:
		if doc, err = sjson.Set(doc, "name", x.Name); err != nil {
			return "", err
		}
		if len(x.Args) == 0 {
			return doc, nil
		}
		return setList(doc, "args", x.Args)
	case ObjectType:
		for _, name := range slices.Sorted(maps.Keys(x.Fields)) {
			if doc, err = setEncoded(doc, "fields."+escapePath(name), x.Fields[name]); err != nil {
				return "", err
			}
		}
		if x.Default != nil {
			return setEncoded(doc, "default", x.Default)
		}
		return doc, nil
	case FunctionType:
		return encodeFunction(doc, x)
	}
	return doc, nil
}

// encodeFunction writes the parameters and return type of a function.
func encodeFunction(doc string, f FunctionType) (string, error) {
	doc, err := sjson.SetRaw(doc, "params", "[]")
	if err != nil {
		return "", err
	}
	for _, p := range f.Params {
		param := "{}"
		if p.Name != "" {
			if param, err = sjson.Set(param, "name", p.Name); err != nil {
				return "", err
			}
		}
		if p.Variadic {
			if param, err = sjson.Set(param, "variadic", true); err != nil {
				return "", err
			}
		}
		if p.Optional {
			if param, err = sjson.Set(param, "optional", true); err != nil {
				return "", err
			}
		}
		if param, err = setEncoded(param, "type", p.Type); err != nil {
			return "", err
		}
		if doc, err = sjson.SetRaw(doc, "params.-1", param); err != nil {
			return "", err
		}
	}
	return setEncoded(doc, "ret", f.Ret)
}

func setEncoded(doc, path string, t Type) (string, error) {
	raw, err := Encode(t)
	if err != nil {
		return "", err
	}
	return sjson.SetRaw(doc, path, raw)
}

func setList(doc, path string, ts []Type) (string, error) {
	doc, err := sjson.SetRaw(doc, path, "[]")
	if err != nil {
		return "", err
	}
	for _, t := range ts {
		if doc, err = setEncoded(doc, path+".-1", t); err != nil {
			return "", err
		}
	}
	return doc, nil
}

// escapePath escapes the characters gjson and sjson treat as path syntax.
func escapePath(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Decode parses the JSON form produced by Encode.
func Decode(doc string) (Type, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("typedesc: invalid JSON descriptor")
	}
	return decode(gjson.Parse(doc))
}

func decode(r gjson.Result) (Type, error) {
	kind, ok := ParseKind(r.Get("kind").String())
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Get("kind").String())
	}

	switch kind {
	case KindVoid:
		return NewVoid(), nil
	case KindAny:
		return NewAny(), nil
	case KindBoolean:
		return NewBoolean(), nil
	case KindNumber:
		return NewNumber(), nil
	case KindString:
		return NewString(), nil
	case KindLiteral:
		return NewLiteral(r.Get("value").String()), nil
	case KindArray:
		elem, err := decode(r.Get("elem"))
		if err != nil {
			return nil, err
		}
		return NewArray(elem), nil
	case KindTuple:
		elems, err := decodeList(r.Get("elems"))
		if err != nil {
			return nil, err
		}
		return NewTuple(elems...), nil
	case KindUnion:
		alts, err := decodeList(r.Get("alts"))
		if err != nil {
			return nil, err
		}
		return NewUnion(alts...), nil
	case KindReference:
		args, err := decodeList(r.Get("args"))
		if err != nil {
			return nil, err
		}
		return NewReference(r.Get("name").String(), args...), nil
	case KindObject:
		return decodeObject(r)
	}
	return decodeFunction(r)
}

func decodeList(r gjson.Result) ([]Type, error) {
	if !r.Exists() {
		return nil, nil
	}
	var out []Type
	var err error
	r.ForEach(func(_, v gjson.Result) bool {
		var t Type
		if t, err = decode(v); err != nil {
			return false
		}
		out = append(out, t)
		return true
	})
	return out, err
}

func decodeObject(r gjson.Result) (Type, error) {
	var fields map[string]Type
	var err error
	r.Get("fields").ForEach(func(k, v gjson.Result) bool {
		var t Type
		if t, err = decode(v); err != nil {
			return false
		}
		if fields == nil {
			fields = make(map[string]Type)
		}
		fields[k.String()] = t
		return true
	})
	if err != nil {
		return nil, err
	}

	var def Type
	if d := r.Get("default"); d.Exists() {
		if def, err = decode(d); err != nil {
			return nil, err
		}
	}
	return NewObject(fields, def), nil
}

func decodeFunction(r gjson.Result) (Type, error) {
	var params []Param
	var err error
	r.Get("params").ForEach(func(_, v gjson.Result) bool {
		var t Type
		if t, err = decode(v.Get("type")); err != nil {
			return false
		}
		params = append(params, Param{
			Name:     v.Get("name").String(),
			Type:     t,
			Variadic: v.Get("variadic").Bool(),
			Optional: v.Get("optional").Bool(),
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	ret, err := decode(r.Get("ret"))
	if err != nil {
		return nil, err
	}
	return NewFunction(ret, params...), nil
}
