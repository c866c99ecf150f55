// Package typedesc describes the parameter and return types of commands.
//
// A Type is an immutable descriptor built once by the metadata compiler and
// embedded in the program as constructor calls (see GoLiteral). At run time
// the dispatcher uses descriptors to coerce the raw string tokens of a
// command line into typed values:
//
//	t := typedesc.NewUnion(typedesc.NewNumber(), typedesc.NewString())
//	v, err := t.Convert("42") // int64(42): the first alternative wins
//
// Variants:
//
//   - Void, Any, Boolean, Number, String
//   - Object (named fields plus an optional default for other keys)
//   - Array, Tuple
//   - Union (alternatives tried in declared order)
//   - Function (parameters and a return type)
//   - Reference (a named type the compiler could not resolve)
//   - Literal (one exact string value)
//
// Structured tokens (arrays, tuples and objects) use JSON syntax.
package typedesc
