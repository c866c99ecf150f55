// Package metagen is the metadata compiler.
//
// It parses Go source files declaring browser commands and produces
// metadata tables: the documentation of each command, a type descriptor
// of its parameters and its hidden flag. The tables are emitted either as
// a Go file that constructs a metadata.Program, for use with go:generate,
// or as a JSON manifest loaded at startup.
//
//	c := metagen.New(metagen.DefaultConfig())
//	if err := c.AddDir("internal/browser"); err != nil {
//		return err
//	}
//	files, err := c.Compile()
//	if err != nil {
//		return err
//	}
//	src, err := metagen.GenerateGo(files, metagen.GoOptions{Package: "browser"})
//
// Type expressions are mapped as follows:
//
//	bool                       boolean
//	integer and float types    number
//	string                     string
//	any, interface{}           any
//	[]T                        T[]
//	[N]T                       tuple of N elements
//	map[string]T               object with default T
//	struct                     object of its exported fields
//	func                       function
//	*T parameter               optional T
//	...T parameter             variadic T[]
//	type parameter             its constraint; unions map to unions
//	named string with consts   union of the constant literals
//	pkg.Name, G[T]             reference
//
// Channels, unsafe pointers, interfaces with methods and maps with
// non-string keys have no descriptor and abort compilation with an
// *UnsupportedTypeShapeError.
package metagen
