// Package metadata holds the command tables produced by the metadata
// compiler.
//
// A Program aggregates per-file tables of command entries. Each entry
// records the documentation of a command, the descriptor of its parameter
// list and whether it is hidden from discovery. A Program is immutable
// once built and is passed explicitly to whatever needs it.
package metadata

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/match"

	"github.com/dshills/tabstorm/internal/typedesc"
)

// Entry describes one command.
type Entry struct {
	// Name is the command name within its file: "scrollline" for a
	// function, "Tabs.Close" for a class member.
	Name string

	// Doc is the documentation comment with tag lines removed.
	Doc string

	// Type describes the parameters and the result.
	Type typedesc.FunctionType

	// Hidden entries are dispatchable but left out of discovery.
	Hidden bool
}

// Summary returns the first line of the documentation.
func (e *Entry) Summary() string {
	first, _, _ := strings.Cut(strings.TrimSpace(e.Doc), "\n")
	return first
}

// Usage returns a one-line usage string such as "scrollline n? ...rest".
func (e *Entry) Usage() string {
	var b strings.Builder
	b.WriteString(e.Name)
	for _, p := range e.Type.Params {
		b.WriteByte(' ')
		if p.Variadic {
			b.WriteString("...")
		}
		name := p.Name
		if name == "" {
			name = p.Type.String()
		}
		b.WriteString(name)
		if p.Optional {
			b.WriteByte('?')
		}
	}
	return b.String()
}

// GoLiteral returns a Go expression constructing e.
func (e *Entry) GoLiteral() string {
	var b strings.Builder
	b.WriteString("&metadata.Entry{\n")
	b.WriteString("Name: " + strconv.Quote(e.Name) + ",\n")
	if e.Doc != "" {
		b.WriteString("Doc: " + strconv.Quote(e.Doc) + ",\n")
	}
	b.WriteString("Type: " + e.Type.GoLiteral() + ",\n")
	if e.Hidden {
		b.WriteString("Hidden: true,\n")
	}
	b.WriteString("}")
	return b.String()
}

// Class groups the exported methods of one receiver type.
type Class struct {
	Name    string
	Members map[string]*Entry
}

// NewClass creates a class from its member entries. Member entries are
// keyed by method name.
func NewClass(name string, members ...*Entry) *Class {
	c := &Class{Name: name, Members: make(map[string]*Entry, len(members))}
	for _, m := range members {
		c.Members[m.Name] = m
	}
	return c
}

// Member returns a member by method name.
func (c *Class) Member(name string) (*Entry, bool) {
	e, ok := c.Members[name]
	return e, ok
}

// MemberNames returns the sorted method names.
func (c *Class) MemberNames() []string {
	return slices.Sorted(maps.Keys(c.Members))
}

// GoLiteral returns a Go expression constructing c.
func (c *Class) GoLiteral() string {
	var b strings.Builder
	b.WriteString("metadata.NewClass(" + strconv.Quote(c.Name))
	for _, name := range c.MemberNames() {
		b.WriteString(",\n" + c.Members[name].GoLiteral())
	}
	b.WriteString(",\n)")
	return b.String()
}

// File is the table of one source file.
type File struct {
	Name      string
	Namespace string
	Classes   map[string]*Class
	Functions map[string]*Entry
}

// NewFile creates a file table.
func NewFile(name, namespace string, classes []*Class, functions []*Entry) *File {
	f := &File{
		Name:      name,
		Namespace: namespace,
		Classes:   make(map[string]*Class, len(classes)),
		Functions: make(map[string]*Entry, len(functions)),
	}
	for _, c := range classes {
		f.Classes[c.Name] = c
	}
	for _, fn := range functions {
		f.Functions[fn.Name] = fn
	}
	return f
}

// ClassNames returns the sorted class names.
func (f *File) ClassNames() []string {
	return slices.Sorted(maps.Keys(f.Classes))
}

// FunctionNames returns the sorted function names.
func (f *File) FunctionNames() []string {
	return slices.Sorted(maps.Keys(f.Functions))
}

// GoLiteral returns a Go expression constructing f.
func (f *File) GoLiteral() string {
	var b strings.Builder
	b.WriteString("metadata.NewFile(" + strconv.Quote(f.Name) + ", " + strconv.Quote(f.Namespace) + ",\n")
	if len(f.Classes) == 0 {
		b.WriteString("nil,\n")
	} else {
		b.WriteString("[]*metadata.Class{\n")
		for _, name := range f.ClassNames() {
			b.WriteString(f.Classes[name].GoLiteral() + ",\n")
		}
		b.WriteString("},\n")
	}
	if len(f.Functions) == 0 {
		b.WriteString("nil,\n")
	} else {
		b.WriteString("[]*metadata.Entry{\n")
		for _, name := range f.FunctionNames() {
			b.WriteString(f.Functions[name].GoLiteral() + ",\n")
		}
		b.WriteString("},\n")
	}
	b.WriteString(")")
	return b.String()
}

// Symbol is an entry together with the namespace it is dispatched under.
type Symbol struct {
	Namespace string
	*Entry
}

// Qualified returns the fully-qualified command name.
func (s Symbol) Qualified() string {
	return Qualify(s.Namespace, s.Name)
}

// Qualify joins a namespace and a command name.
func Qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// Program is the program-wide command table.
type Program struct {
	files   map[string]*File
	symbols map[string]Symbol
	order   []string
}

// NewProgram aggregates file tables. When two files declare the same
// qualified name the first one wins; functions are indexed before class
// members.
func NewProgram(files ...*File) *Program {
	p := &Program{
		files:   make(map[string]*File, len(files)),
		symbols: make(map[string]Symbol),
	}
	for _, f := range files {
		p.files[f.Name] = f
	}
	for _, f := range files {
		for _, name := range f.FunctionNames() {
			p.add(Symbol{Namespace: f.Namespace, Entry: f.Functions[name]})
		}
	}
	for _, f := range files {
		for _, cname := range f.ClassNames() {
			c := f.Classes[cname]
			for _, mname := range c.MemberNames() {
				m := *c.Members[mname]
				m.Name = cname + "." + mname
				p.add(Symbol{Namespace: f.Namespace, Entry: &m})
			}
		}
	}
	slices.Sort(p.order)
	return p
}

func (p *Program) add(s Symbol) {
	q := s.Qualified()
	if _, dup := p.symbols[q]; dup {
		return
	}
	p.symbols[q] = s
	p.order = append(p.order, q)
}

// Lookup returns the entry for a command. Class members are found under
// "Class.Method".
func (p *Program) Lookup(namespace, name string) (*Entry, bool) {
	s, ok := p.symbols[Qualify(namespace, name)]
	if !ok {
		return nil, false
	}
	return s.Entry, true
}

// File returns a file table by name.
func (p *Program) File(name string) (*File, bool) {
	f, ok := p.files[name]
	return f, ok
}

// Files returns the file tables sorted by name.
func (p *Program) Files() []*File {
	out := make([]*File, 0, len(p.files))
	for _, name := range slices.Sorted(maps.Keys(p.files)) {
		out = append(out, p.files[name])
	}
	return out
}

// Namespaces returns the sorted distinct namespaces.
func (p *Program) Namespaces() []string {
	seen := make(map[string]bool)
	for _, f := range p.files {
		seen[f.Namespace] = true
	}
	return slices.Sorted(maps.Keys(seen))
}

// Len returns the number of dispatchable commands.
func (p *Program) Len() int {
	return len(p.symbols)
}

// All returns every command, hidden ones included, sorted by qualified name.
func (p *Program) All() []Symbol {
	out := make([]Symbol, 0, len(p.order))
	for _, q := range p.order {
		out = append(out, p.symbols[q])
	}
	return out
}

// Visible returns the commands shown in listings and completions.
func (p *Program) Visible() []Symbol {
	out := make([]Symbol, 0, len(p.order))
	for _, q := range p.order {
		if s := p.symbols[q]; !s.Hidden {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the visible commands whose qualified name matches a glob
// pattern ("*" and "?" wildcards), e.g. "scroll*" or "hint.*".
func (p *Program) Find(pattern string) []Symbol {
	var out []Symbol
	for _, s := range p.Visible() {
		if match.Match(s.Qualified(), pattern) {
			out = append(out, s)
		}
	}
	return out
}

// GoLiteral returns a Go expression constructing p.
func (p *Program) GoLiteral() string {
	var b strings.Builder
	b.WriteString("metadata.NewProgram(\n")
	for _, name := range slices.Sorted(maps.Keys(p.files)) {
		b.WriteString(p.files[name].GoLiteral() + ",\n")
	}
	b.WriteString(")")
	return b.String()
}
