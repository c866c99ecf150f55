package typedesc

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		token   string
		want    any
		wantErr bool
	}{
		{"number int", NewNumber(), "42", int64(42), false},
		{"number float", NewNumber(), "4.5", 4.5, false},
		{"number negative", NewNumber(), "-3", int64(-3), false},
		{"number garbage", NewNumber(), "x", nil, true},
		{"number trailing garbage", NewNumber(), "42abc", nil, true},
		{"number NaN", NewNumber(), "NaN", nil, true},
		{"number nan", NewNumber(), "nan", nil, true},
		{"number inf", NewNumber(), "inf", nil, true},
		{"number infinity lowercase", NewNumber(), "-infinity", nil, true},
		{"number Infinity", NewNumber(), "Infinity", math.Inf(1), false},
		{"number negative Infinity", NewNumber(), "-Infinity", math.Inf(-1), false},
		{"number overflow", NewNumber(), "1e999", nil, true},
		{"boolean true", NewBoolean(), "true", true, false},
		{"boolean false", NewBoolean(), "false", false, false},
		{"boolean upper case", NewBoolean(), "TRUE", nil, true},
		{"boolean one", NewBoolean(), "1", nil, true},
		{"string", NewString(), "hello", "hello", false},
		{"literal match", NewLiteral("bar"), "bar", "bar", false},
		{"literal mismatch", NewLiteral("bar"), "baz", nil, true},
		{"any", NewAny(), "x y", "x y", false},
		{"void", NewVoid(), "ignored", nil, false},
		{"union first wins", NewUnion(NewNumber(), NewString()), "42", int64(42), false},
		{"union falls through", NewUnion(NewNumber(), NewString()), "abc", "abc", false},
		{"union nan is a string", NewUnion(NewNumber(), NewString()), "nan", "nan", false},
		{"union of literals", NewUnion(NewLiteral("bar"), NewLiteral("baz")), "baz", "baz", false},
		{"union no match", NewUnion(NewLiteral("bar"), NewBoolean()), "qux", nil, true},
		{"array", NewArray(NewNumber()), "[1, 2.5]", []any{int64(1), 2.5}, false},
		{"array empty", NewArray(NewString()), "[]", []any{}, false},
		{"array bad element", NewArray(NewNumber()), `[1, "a"]`, nil, true},
		{"array not array", NewArray(NewNumber()), `{"a": 1}`, nil, true},
		{"array invalid", NewArray(NewNumber()), "[1,", nil, true},
		{"tuple", NewTuple(NewNumber(), NewString()), `[1,"a"]`, []any{int64(1), "a"}, false},
		{"tuple arity", NewTuple(NewNumber(), NewString()), "[1]", nil, true},
		{"tuple nested", NewTuple(NewArray(NewBoolean())), "[[true, false]]", []any{[]any{true, false}}, false},
		{"object", NewObject(nil, nil), `{"a": 1, "b": "x"}`, map[string]any{"a": int64(1), "b": "x"}, false},
		{"object fields", NewObject(map[string]Type{"n": NewNumber()}, nil), `{"n": 2}`, map[string]any{"n": int64(2)}, false},
		{"object field mismatch", NewObject(map[string]Type{"n": NewNumber()}, nil), `{"n": "two"}`, nil, true},
		{"object default", NewObject(nil, NewString()), `{"k": 1}`, nil, true},
		{"object not object", NewObject(nil, nil), "[1]", nil, true},
		{"function", NewFunction(NewVoid()), "f", nil, true},
		{"reference", NewReference("Foo"), "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.typ.Convert(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Convert(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Convert(%q) mismatch (-want +got):\n%s", tt.token, diff)
			}
		})
	}
}

func TestConversionError(t *testing.T) {
	_, err := NewNumber().Convert("x")

	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("error = %T, want *ConversionError", err)
	}
	if convErr.Value != "x" {
		t.Errorf("Value = %q, want %q", convErr.Value, "x")
	}
	if convErr.Type.Kind() != KindNumber {
		t.Errorf("Type = %s, want number", convErr.Type)
	}

	_, err = NewReference("Foo").Convert("x")
	if !errors.Is(err, ErrNotConvertible) {
		t.Errorf("reference error = %v, want ErrNotConvertible", err)
	}

	_, err = NewTuple(NewNumber()).Convert("[1, 2]")
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("tuple error = %v, want ErrShapeMismatch", err)
	}
}

func TestUnionCollectsFailures(t *testing.T) {
	_, err := NewUnion(NewNumber(), NewBoolean()).Convert("maybe")

	var convErr *ConversionError
	if !errors.As(err, &convErr) || convErr.Type.Kind() != KindUnion {
		t.Fatalf("error = %v, want union *ConversionError", err)
	}
	// Both alternatives are reachable through the joined cause.
	var inner *ConversionError
	if !errors.As(convErr.Err, &inner) {
		t.Errorf("cause = %v, want wrapped *ConversionError", convErr.Err)
	}
}

func TestString(t *testing.T) {
	fn := NewFunction(NewVoid(),
		Param{Name: "a", Type: NewNumber()},
		Param{Name: "b", Type: NewUnion(NewLiteral("bar"), NewLiteral("baz")), Optional: true},
		Param{Name: "c", Type: NewArray(NewString()), Variadic: true},
	)

	tests := []struct {
		typ  Type
		want string
	}{
		{NewNumber(), "number"},
		{NewArray(NewString()), "string[]"},
		{NewArray(NewUnion(NewNumber(), NewString())), "(number | string)[]"},
		{NewTuple(NewNumber(), NewBoolean()), "[number, boolean]"},
		{NewLiteral("bar"), `"bar"`},
		{NewReference("Map", NewString(), NewNumber()), "Map[string, number]"},
		{NewObject(nil, nil), "object"},
		{NewObject(map[string]Type{"y": NewNumber(), "x": NewString()}, nil), "{x: string; y: number}"},
		{fn, `(a: number, b?: "bar" | "baz", ...c: string[]) => void`},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestGoLiteral(t *testing.T) {
	fn := NewFunction(NewVoid(),
		Param{Name: "a", Type: NewNumber()},
		Param{Name: "rest", Type: NewArray(NewString()), Variadic: true},
	)
	want := `typedesc.NewFunction(typedesc.NewVoid(), ` +
		`typedesc.Param{Name: "a", Type: typedesc.NewNumber()}, ` +
		`typedesc.Param{Name: "rest", Type: typedesc.NewArray(typedesc.NewString()), Variadic: true})`
	if got := fn.GoLiteral(); got != want {
		t.Errorf("GoLiteral() =\n%s\nwant\n%s", got, want)
	}

	obj := NewObject(map[string]Type{"b": NewBoolean(), "a": NewLiteral("x\"y")}, NewAny())
	wantObj := `typedesc.NewObject(map[string]typedesc.Type{"a": typedesc.NewLiteral("x\"y"), "b": typedesc.NewBoolean()}, typedesc.NewAny())`
	if got := obj.GoLiteral(); got != wantObj {
		t.Errorf("GoLiteral() =\n%s\nwant\n%s", got, wantObj)
	}
}

func TestEncodeDecode(t *testing.T) {
	orig := NewFunction(
		NewTuple(NewNumber(), NewReference("Promise", NewVoid())),
		Param{Name: "mode", Type: NewUnion(NewLiteral("a.b"), NewLiteral("c"))},
		Param{Name: "opts", Type: NewObject(map[string]Type{"x.y": NewBoolean()}, NewString()), Optional: true},
		Param{Name: "rest", Type: NewArray(NewAny()), Variadic: true},
	)

	doc, err := Encode(orig)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	got, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode(%s) error: %v", doc, err)
	}
	if diff := cmp.Diff(Type(orig), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\njson: %s", diff, doc)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode("{"); err == nil {
		t.Error("Decode(invalid) error = nil")
	}
	if _, err := Decode(`{"kind":"banana"}`); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Decode(banana) error = %v, want ErrUnknownKind", err)
	}
}

func TestKindString(t *testing.T) {
	for k := KindVoid; k <= KindLiteral; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
}
