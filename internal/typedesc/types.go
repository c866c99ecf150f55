package typedesc

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Type is a type descriptor.
//
// Descriptors are immutable. Convert coerces a raw command-line token;
// ConvertValue coerces an element of an already parsed structured token
// (a string, bool, int64, float64, nil, []any or map[string]any).
type Type interface {
	// Kind returns the variant.
	Kind() Kind

	// String returns a readable form such as "number | string".
	String() string

	// GoLiteral returns a Go expression constructing an equal descriptor.
	GoLiteral() string

	// Convert coerces a raw token.
	Convert(token string) (any, error)

	// ConvertValue coerces a structured element.
	ConvertValue(v any) (any, error)
}

// VoidType describes the absence of a value. Conversion discards its input.
type VoidType struct{}

// NewVoid returns the void descriptor.
func NewVoid() VoidType { return VoidType{} }

func (VoidType) Kind() Kind { return KindVoid }
func (VoidType) String() string { return "void" }
func (VoidType) GoLiteral() string { return "typedesc.NewVoid()" }
func (VoidType) Convert(string) (any, error) { return nil, nil }
func (VoidType) ConvertValue(any) (any, error) { return nil, nil }

// AnyType accepts every value unchanged.
type AnyType struct{}

// NewAny returns the any descriptor.
func NewAny() AnyType { return AnyType{} }

func (AnyType) Kind() Kind { return KindAny }
func (AnyType) String() string { return "any" }
func (AnyType) GoLiteral() string { return "typedesc.NewAny()" }
func (AnyType) Convert(token string) (any, error) { return token, nil }
func (AnyType) ConvertValue(v any) (any, error) { return v, nil }

// BooleanType accepts exactly "true" and "false".
type BooleanType struct{}

// NewBoolean returns the boolean descriptor.
func NewBoolean() BooleanType { return BooleanType{} }

func (BooleanType) Kind() Kind { return KindBoolean }
func (BooleanType) String() string { return "boolean" }
func (BooleanType) GoLiteral() string { return "typedesc.NewBoolean()" }

// Convert accepts only the lower-case words "true" and "false".
func (t BooleanType) Convert(token string) (any, error) {
	return t.ConvertValue(token)
}

// ConvertValue also accepts JSON booleans inside structured tokens.
func (t BooleanType) ConvertValue(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch x {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, conversionError(v, t, "expected true or false", nil)
}

// NumberType accepts integers (as int64) and floating point numbers (as
// float64).
type NumberType struct{}

// NewNumber returns the number descriptor.
func NewNumber() NumberType { return NumberType{} }

func (NumberType) Kind() Kind { return KindNumber }
func (NumberType) String() string { return "number" }
func (NumberType) GoLiteral() string { return "typedesc.NewNumber()" }

// Convert parses an integer, falling back to a float. NaN is rejected and
// infinities are only spelled "Infinity", optionally signed.
func (t NumberType) Convert(token string) (any, error) {
	return t.ConvertValue(token)
}

// ConvertValue implements Type.
func (t NumberType) ConvertValue(v any) (any, error) {
	switch x := v.(type) {
	case int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case string:
		if i, err := strconv.ParseInt(x, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil, conversionError(v, t, "not a number", err)
		}
		if math.IsNaN(f) || (math.IsInf(f, 0) && strings.TrimLeft(x, "+-") != "Infinity") {
			return nil, conversionError(v, t, "not a number", nil)
		}
		return f, nil
	}
	return nil, conversionError(v, t, "not a number", nil)
}

// StringType accepts any token.
type StringType struct{}

// NewString returns the string descriptor.
func NewString() StringType { return StringType{} }

func (StringType) Kind() Kind { return KindString }
func (StringType) String() string { return "string" }
func (StringType) GoLiteral() string { return "typedesc.NewString()" }
func (StringType) Convert(token string) (any, error) { return token, nil }

// ConvertValue accepts only strings: a JSON number is not a string.
func (t StringType) ConvertValue(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return nil, conversionError(v, t, "not a string", nil)
}

// LiteralType accepts one exact value.
type LiteralType struct {
	Value string
}

// NewLiteral returns a literal descriptor.
func NewLiteral(value string) LiteralType { return LiteralType{Value: value} }

func (LiteralType) Kind() Kind { return KindLiteral }
func (t LiteralType) String() string { return strconv.Quote(t.Value) }

func (t LiteralType) GoLiteral() string {
	return "typedesc.NewLiteral(" + strconv.Quote(t.Value) + ")"
}

// Convert succeeds only when token equals the literal value.
func (t LiteralType) Convert(token string) (any, error) {
	return t.ConvertValue(token)
}

// ConvertValue implements Type.
func (t LiteralType) ConvertValue(v any) (any, error) {
	if s, ok := v.(string); ok && s == t.Value {
		return s, nil
	}
	return nil, conversionError(v, t, "does not match the expected value", nil)
}

// ArrayType is a homogeneous list written as a JSON array.
type ArrayType struct {
	Elem Type
}

// NewArray returns an array descriptor.
func NewArray(elem Type) ArrayType { return ArrayType{Elem: elem} }

func (ArrayType) Kind() Kind { return KindArray }

func (t ArrayType) String() string {
	if t.Elem.Kind() == KindUnion || t.Elem.Kind() == KindFunction {
		return "(" + t.Elem.String() + ")[]"
	}
	return t.Elem.String() + "[]"
}

func (t ArrayType) GoLiteral() string {
	return "typedesc.NewArray(" + t.Elem.GoLiteral() + ")"
}

// Convert parses token as a JSON array and converts each element.
func (t ArrayType) Convert(token string) (any, error) {
	return t.ConvertValue(token)
}

// ConvertValue implements Type.
func (t ArrayType) ConvertValue(v any) (any, error) {
	elems, err := asList(t, v)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(elems))
	for i, e := range elems {
		c, err := t.Elem.ConvertValue(e)
		if err != nil {
			return nil, conversionError(v, t, fmt.Sprintf("element %d", i), err)
		}
		out[i] = c
	}
	return out, nil
}

// TupleType is a fixed-length list whose positions have their own types.
type TupleType struct {
	Elems []Type
}

// NewTuple returns a tuple descriptor.
func NewTuple(elems ...Type) TupleType { return TupleType{Elems: elems} }

func (TupleType) Kind() Kind { return KindTuple }

func (t TupleType) String() string {
	return "[" + joinTypes(t.Elems, ", ") + "]"
}

func (t TupleType) GoLiteral() string {
	return "typedesc.NewTuple(" + joinLiterals(t.Elems) + ")"
}

// Convert parses token as a JSON array of exactly len(Elems) elements.
func (t TupleType) Convert(token string) (any, error) {
	return t.ConvertValue(token)
}

// ConvertValue implements Type.
func (t TupleType) ConvertValue(v any) (any, error) {
	elems, err := asList(t, v)
	if err != nil {
		return nil, err
	}
	if len(elems) != len(t.Elems) {
		return nil, conversionError(v, t,
			fmt.Sprintf("expected %d elements, got %d", len(t.Elems), len(elems)), ErrShapeMismatch)
	}
	out := make([]any, len(elems))
	for i, e := range elems {
		c, err := t.Elems[i].ConvertValue(e)
		if err != nil {
			return nil, conversionError(v, t, fmt.Sprintf("element %d", i), err)
		}
		out[i] = c
	}
	return out, nil
}

// ObjectType is a JSON object. Declared fields are converted by their own
// descriptors and any other key by Default when it is set.
type ObjectType struct {
	Fields  map[string]Type
	Default Type
}

// NewObject returns an object descriptor. fields and def may be nil.
func NewObject(fields map[string]Type, def Type) ObjectType {
	return ObjectType{Fields: fields, Default: def}
}

func (ObjectType) Kind() Kind { return KindObject }

func (t ObjectType) String() string {
	if len(t.Fields) == 0 && t.Default == nil {
		return "object"
	}
	parts := make([]string, 0, len(t.Fields)+1)
	for _, name := range slices.Sorted(maps.Keys(t.Fields)) {
		parts = append(parts, name+": "+t.Fields[name].String())
	}
	if t.Default != nil {
		parts = append(parts, "[key: string]: "+t.Default.String())
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

func (t ObjectType) GoLiteral() string {
	fields := "nil"
	if len(t.Fields) > 0 {
		var b strings.Builder
		b.WriteString("map[string]typedesc.Type{")
		for i, name := range slices.Sorted(maps.Keys(t.Fields)) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(name) + ": " + t.Fields[name].GoLiteral())
		}
		b.WriteString("}")
		fields = b.String()
	}
	def := "nil"
	if t.Default != nil {
		def = t.Default.GoLiteral()
	}
	return "typedesc.NewObject(" + fields + ", " + def + ")"
}

// Convert parses token as a JSON object.
func (t ObjectType) Convert(token string) (any, error) {
	return t.ConvertValue(token)
}

// ConvertValue implements Type.
func (t ObjectType) ConvertValue(v any) (any, error) {
	if s, ok := v.(string); ok {
		parsed, err := parseStructured(t, s)
		if err != nil {
			return nil, err
		}
		v = parsed
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, conversionError(v, t, "not an object", ErrShapeMismatch)
	}

	out := make(map[string]any, len(obj))
	for k, e := range obj {
		ft, ok := t.Fields[k]
		if !ok {
			ft = t.Default
		}
		if ft == nil {
			out[k] = e
			continue
		}
		c, err := ft.ConvertValue(e)
		if err != nil {
			return nil, conversionError(v, t, "field "+strconv.Quote(k), err)
		}
		out[k] = c
	}
	return out, nil
}

// UnionType accepts a value matching any of its alternatives. Alternatives
// are tried in declared order and the first success wins.
type UnionType struct {
	Alts []Type
}

// NewUnion returns a union descriptor.
func NewUnion(alts ...Type) UnionType { return UnionType{Alts: alts} }

func (UnionType) Kind() Kind { return KindUnion }
func (t UnionType) String() string { return joinTypes(t.Alts, " | ") }
func (t UnionType) GoLiteral() string { return "typedesc.NewUnion(" + joinLiterals(t.Alts) + ")" }

// Convert implements Type.
func (t UnionType) Convert(token string) (any, error) {
	return t.fold(token, func(alt Type) (any, error) { return alt.Convert(token) })
}

// ConvertValue implements Type.
func (t UnionType) ConvertValue(v any) (any, error) {
	return t.fold(v, func(alt Type) (any, error) { return alt.ConvertValue(v) })
}

func (t UnionType) fold(v any, convert func(Type) (any, error)) (any, error) {
	errs := make([]error, 0, len(t.Alts))
	for _, alt := range t.Alts {
		out, err := convert(alt)
		if err == nil {
			return out, nil
		}
		errs = append(errs, err)
	}
	return nil, conversionError(v, t, "no alternative matched", errors.Join(errs...))
}

// Param is a function parameter.
type Param struct {
	Name string
	Type Type

	// Variadic parameters take all remaining tokens; Type is then the
	// array type of the collected values.
	Variadic bool

	// Optional parameters may be omitted.
	Optional bool
}

// String returns the parameter in declaration form, e.g. "...c: string[]".
func (p Param) String() string {
	var b strings.Builder
	if p.Variadic {
		b.WriteString("...")
	}
	b.WriteString(p.Name)
	if p.Optional {
		b.WriteString("?")
	}
	if p.Name != "" {
		b.WriteString(": ")
	}
	b.WriteString(p.Type.String())
	return b.String()
}

// GoLiteral returns a Go expression constructing p.
func (p Param) GoLiteral() string {
	var b strings.Builder
	b.WriteString("typedesc.Param{")
	if p.Name != "" {
		b.WriteString("Name: " + strconv.Quote(p.Name) + ", ")
	}
	b.WriteString("Type: " + p.Type.GoLiteral())
	if p.Variadic {
		b.WriteString(", Variadic: true")
	}
	if p.Optional {
		b.WriteString(", Optional: true")
	}
	b.WriteString("}")
	return b.String()
}

// FunctionType is a command signature.
type FunctionType struct {
	Params []Param
	Ret    Type
}

// NewFunction returns a function descriptor.
func NewFunction(ret Type, params ...Param) FunctionType {
	return FunctionType{Params: params, Ret: ret}
}

func (FunctionType) Kind() Kind { return KindFunction }

func (t FunctionType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + t.Ret.String()
}

func (t FunctionType) GoLiteral() string {
	var b strings.Builder
	b.WriteString("typedesc.NewFunction(" + t.Ret.GoLiteral())
	for _, p := range t.Params {
		b.WriteString(", " + p.GoLiteral())
	}
	b.WriteString(")")
	return b.String()
}

// Convert always fails: a token cannot name a function.
func (t FunctionType) Convert(token string) (any, error) {
	return t.ConvertValue(token)
}

// ConvertValue implements Type.
func (t FunctionType) ConvertValue(v any) (any, error) {
	return nil, conversionError(v, t, "", ErrNotConvertible)
}

// ReferenceType names a type the compiler could not resolve.
type ReferenceType struct {
	Name string
	Args []Type
}

// NewReference returns a reference descriptor.
func NewReference(name string, args ...Type) ReferenceType {
	return ReferenceType{Name: name, Args: args}
}

func (ReferenceType) Kind() Kind { return KindReference }

func (t ReferenceType) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	return t.Name + "[" + joinTypes(t.Args, ", ") + "]"
}

func (t ReferenceType) GoLiteral() string {
	lit := "typedesc.NewReference(" + strconv.Quote(t.Name)
	if len(t.Args) > 0 {
		lit += ", " + joinLiterals(t.Args)
	}
	return lit + ")"
}

// Convert always fails: references carry no conversion rule.
func (t ReferenceType) Convert(token string) (any, error) {
	return t.ConvertValue(token)
}

// ConvertValue implements Type.
func (t ReferenceType) ConvertValue(v any) (any, error) {
	return nil, conversionError(v, t, "", ErrNotConvertible)
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

func joinLiterals(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.GoLiteral()
	}
	return strings.Join(parts, ", ")
}
