package typedesc

// Kind identifies a descriptor variant.
type Kind uint8

// Descriptor kinds.
const (
	KindVoid Kind = iota
	KindAny
	KindBoolean
	KindNumber
	KindString
	KindObject
	KindArray
	KindTuple
	KindUnion
	KindFunction
	KindReference
	KindLiteral
)

var kindNames = [...]string{
	KindVoid:      "void",
	KindAny:       "any",
	KindBoolean:   "boolean",
	KindNumber:    "number",
	KindString:    "string",
	KindObject:    "object",
	KindArray:     "array",
	KindTuple:     "tuple",
	KindUnion:     "union",
	KindFunction:  "function",
	KindReference: "reference",
	KindLiteral:   "literal",
}

// String returns the kind name used in the JSON form.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}
