package metagen

import (
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"github.com/dshills/tabstorm/internal/typedesc"
)

// converter maps type expressions of one declaration to descriptors.
type converter struct {
	c       *Compiler
	command string

	// constraints of the type parameters in scope
	params map[string]ast.Expr

	// named types being resolved, to break cycles
	resolving map[string]bool
}

func (c *Compiler) converter(command string) *converter {
	return &converter{
		c:         c,
		command:   command,
		params:    make(map[string]ast.Expr),
		resolving: make(map[string]bool),
	}
}

func (cv *converter) bindTypeParams(fl *ast.FieldList) {
	if fl == nil {
		return
	}
	for _, f := range fl.List {
		for _, n := range f.Names {
			cv.params[n.Name] = f.Type
		}
	}
}

// bindReceiver binds the type parameters named by a generic receiver,
// e.g. T in (b *Box[T]), to the constraints of the type declaration.
func (cv *converter) bindReceiver(expr ast.Expr, ts *ast.TypeSpec) {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	var names []ast.Expr
	switch x := expr.(type) {
	case *ast.IndexExpr:
		names = []ast.Expr{x.Index}
	case *ast.IndexListExpr:
		names = x.Indices
	default:
		return
	}
	if ts == nil || ts.TypeParams == nil {
		return
	}

	var constraints []ast.Expr
	for _, f := range ts.TypeParams.List {
		for range f.Names {
			constraints = append(constraints, f.Type)
		}
	}
	for i, n := range names {
		id, ok := n.(*ast.Ident)
		if ok && i < len(constraints) {
			cv.params[id.Name] = constraints[i]
		}
	}
}

func (cv *converter) unsupported(expr ast.Expr, reason string) error {
	return &UnsupportedTypeShapeError{
		Pos:     cv.c.fset.Position(expr.Pos()),
		Command: cv.command,
		Shape:   types.ExprString(expr),
		Reason:  reason,
	}
}

// function converts a signature. At the top level a leading
// context.Context parameter is skipped.
func (cv *converter) function(ft *ast.FuncType, top bool) (typedesc.FunctionType, error) {
	var params []typedesc.Param
	if ft.Params != nil {
		for i, field := range ft.Params.List {
			if top && i == 0 && isContext(field.Type) {
				continue
			}
			p, err := cv.param(field.Type)
			if err != nil {
				return typedesc.FunctionType{}, err
			}
			if len(field.Names) == 0 {
				params = append(params, p)
				continue
			}
			for _, n := range field.Names {
				named := p
				if n.Name != "_" {
					named.Name = n.Name
				}
				params = append(params, named)
			}
		}
	}

	ret, err := cv.results(ft.Results)
	if err != nil {
		return typedesc.FunctionType{}, err
	}
	return typedesc.NewFunction(ret, params...), nil
}

func (cv *converter) param(expr ast.Expr) (typedesc.Param, error) {
	switch x := expr.(type) {
	case *ast.Ellipsis:
		elem, err := cv.convert(x.Elt)
		if err != nil {
			return typedesc.Param{}, err
		}
		return typedesc.Param{Type: typedesc.NewArray(elem), Variadic: true}, nil
	case *ast.StarExpr:
		t, err := cv.convert(x.X)
		if err != nil {
			return typedesc.Param{}, err
		}
		return typedesc.Param{Type: t, Optional: true}, nil
	}
	t, err := cv.convert(expr)
	if err != nil {
		return typedesc.Param{}, err
	}
	return typedesc.Param{Type: t}, nil
}

// results converts a result list. A trailing error is dropped; several
// results form a tuple.
func (cv *converter) results(fl *ast.FieldList) (typedesc.Type, error) {
	var exprs []ast.Expr
	if fl != nil {
		for _, f := range fl.List {
			for range max(1, len(f.Names)) {
				exprs = append(exprs, f.Type)
			}
		}
	}
	if n := len(exprs); n > 0 && isIdent(exprs[n-1], "error") {
		exprs = exprs[:n-1]
	}

	switch len(exprs) {
	case 0:
		return typedesc.NewVoid(), nil
	case 1:
		return cv.convert(exprs[0])
	}
	elems := make([]typedesc.Type, 0, len(exprs))
	for _, e := range exprs {
		t, err := cv.convert(e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
	}
	return typedesc.NewTuple(elems...), nil
}

func (cv *converter) convert(expr ast.Expr) (typedesc.Type, error) {
	switch x := expr.(type) {
	case *ast.ParenExpr:
		return cv.convert(x.X)
	case *ast.StarExpr:
		return cv.convert(x.X)
	case *ast.Ident:
		return cv.ident(x)
	case *ast.ArrayType:
		return cv.array(x)
	case *ast.MapType:
		if !isIdent(x.Key, "string") {
			return nil, cv.unsupported(x, "map key is not a string")
		}
		v, err := cv.convert(x.Value)
		if err != nil {
			return nil, err
		}
		return typedesc.NewObject(nil, v), nil
	case *ast.StructType:
		return cv.object(x)
	case *ast.InterfaceType:
		if x.Methods.NumFields() > 0 {
			return nil, cv.unsupported(x, "interface with methods")
		}
		return typedesc.NewAny(), nil
	case *ast.FuncType:
		return cv.function(x, false)
	case *ast.SelectorExpr:
		name := types.ExprString(x)
		if name == "unsafe.Pointer" {
			return nil, cv.unsupported(x, "unsafe pointer")
		}
		return typedesc.NewReference(name), nil
	case *ast.IndexExpr:
		return cv.instance(x.X, []ast.Expr{x.Index})
	case *ast.IndexListExpr:
		return cv.instance(x.X, x.Indices)
	case *ast.ChanType:
		return nil, cv.unsupported(x, "channel")
	case *ast.Ellipsis:
		elem, err := cv.convert(x.Elt)
		if err != nil {
			return nil, err
		}
		return typedesc.NewArray(elem), nil
	}
	return nil, cv.unsupported(expr, "")
}

func (cv *converter) ident(id *ast.Ident) (typedesc.Type, error) {
	if constraint, ok := cv.params[id.Name]; ok {
		return cv.constraint(constraint)
	}
	switch id.Name {
	case "bool":
		return typedesc.NewBoolean(), nil
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "byte", "rune":
		return typedesc.NewNumber(), nil
	case "string":
		return typedesc.NewString(), nil
	case "any":
		return typedesc.NewAny(), nil
	case "error":
		return nil, cv.unsupported(id, "error outside the last result")
	case "complex64", "complex128":
		return nil, cv.unsupported(id, "complex number")
	}
	return cv.named(id)
}

// named resolves a declared type through one level of indirection. A
// string type with declared constants becomes a union of its literals.
// Unknown, generic and cyclic types stay references; a declaration with
// no descriptor form is an error.
func (cv *converter) named(id *ast.Ident) (typedesc.Type, error) {
	ts, ok := cv.c.types[id.Name]
	if !ok || ts.TypeParams != nil || cv.resolving[id.Name] {
		return typedesc.NewReference(id.Name), nil
	}

	if lits := cv.c.consts[id.Name]; len(lits) > 0 && isIdent(ts.Type, "string") {
		if len(lits) == 1 {
			return typedesc.NewLiteral(lits[0]), nil
		}
		alts := make([]typedesc.Type, 0, len(lits))
		for _, l := range lits {
			alts = append(alts, typedesc.NewLiteral(l))
		}
		return typedesc.NewUnion(alts...), nil
	}

	cv.resolving[id.Name] = true
	defer delete(cv.resolving, id.Name)

	return cv.convert(ts.Type)
}

// instance converts a generic instantiation such as Set[string].
func (cv *converter) instance(base ast.Expr, args []ast.Expr) (typedesc.Type, error) {
	targs := make([]typedesc.Type, 0, len(args))
	for _, a := range args {
		t, err := cv.convert(a)
		if err != nil {
			return nil, err
		}
		targs = append(targs, t)
	}
	return typedesc.NewReference(types.ExprString(base), targs...), nil
}

func (cv *converter) array(x *ast.ArrayType) (typedesc.Type, error) {
	elem, err := cv.convert(x.Elt)
	if err != nil {
		return nil, err
	}
	if x.Len == nil {
		return typedesc.NewArray(elem), nil
	}

	lit, ok := x.Len.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return nil, cv.unsupported(x, "array length is not a literal")
	}
	n, err := strconv.Atoi(lit.Value)
	if err != nil || n > cv.c.cfg.MaxTupleLen {
		return nil, cv.unsupported(x, "array too long for a tuple")
	}
	elems := make([]typedesc.Type, n)
	for i := range elems {
		elems[i] = elem
	}
	return typedesc.NewTuple(elems...), nil
}

// object converts a struct. Embedded and unexported fields are dropped;
// fields are named by their json tag when one is present.
func (cv *converter) object(st *ast.StructType) (typedesc.Type, error) {
	fields := make(map[string]typedesc.Type)
	dropped := 0
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			continue
		}
		tagged, skip := jsonName(f.Tag)
		if skip {
			continue
		}
		for _, n := range f.Names {
			if !n.IsExported() {
				continue
			}
			if len(fields) >= cv.c.cfg.MaxObjectFields {
				dropped++
				continue
			}
			t, err := cv.convert(f.Type)
			if err != nil {
				return nil, err
			}
			name := n.Name
			if tagged != "" && len(f.Names) == 1 {
				name = tagged
			}
			fields[name] = t
		}
	}
	if dropped > 0 {
		cv.c.logger.Warn("%s: dropped %d struct fields over the limit of %d",
			cv.command, dropped, cv.c.cfg.MaxObjectFields)
	}
	if len(fields) == 0 {
		return typedesc.NewObject(nil, nil), nil
	}
	return typedesc.NewObject(fields, nil), nil
}

// constraint converts a type parameter constraint. Union constraints
// become union descriptors.
func (cv *converter) constraint(expr ast.Expr) (typedesc.Type, error) {
	switch x := expr.(type) {
	case *ast.Ident:
		if x.Name == "any" || x.Name == "comparable" {
			return typedesc.NewAny(), nil
		}
		if ts, ok := cv.c.types[x.Name]; ok {
			if it, ok := ts.Type.(*ast.InterfaceType); ok {
				return cv.constraint(it)
			}
		}
	case *ast.InterfaceType:
		var elems []ast.Expr
		if x.Methods == nil {
			return typedesc.NewAny(), nil
		}
		for _, f := range x.Methods.List {
			if len(f.Names) > 0 {
				return nil, cv.unsupported(x, "constraint with methods")
			}
			elems = append(elems, f.Type)
		}
		switch len(elems) {
		case 0:
			return typedesc.NewAny(), nil
		case 1:
			return cv.constraint(elems[0])
		}
		return nil, cv.unsupported(x, "constraint intersects type sets")
	case *ast.BinaryExpr:
		if x.Op != token.OR {
			break
		}
		var alts []typedesc.Type
		for _, term := range unionTerms(x) {
			t, err := cv.constraint(term)
			if err != nil {
				return nil, err
			}
			alts = append(alts, t)
		}
		return typedesc.NewUnion(alts...), nil
	case *ast.UnaryExpr:
		if x.Op == token.TILDE {
			return cv.convert(x.X)
		}
	}
	return cv.convert(expr)
}

// unionTerms flattens a | b | c.
func unionTerms(expr ast.Expr) []ast.Expr {
	if b, ok := expr.(*ast.BinaryExpr); ok && b.Op == token.OR {
		return append(unionTerms(b.X), unionTerms(b.Y)...)
	}
	return []ast.Expr{expr}
}

func jsonName(tag *ast.BasicLit) (name string, skip bool) {
	if tag == nil {
		return "", false
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return "", false
	}
	name, _, _ = strings.Cut(reflect.StructTag(raw).Get("json"), ",")
	if name == "-" {
		return "", true
	}
	return name, false
}

func isIdent(expr ast.Expr, name string) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == name
}

func isContext(expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	return ok && sel.Sel.Name == "Context" && isIdent(sel.X, "context")
}
