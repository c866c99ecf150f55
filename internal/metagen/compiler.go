package metagen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/tabstorm/internal/logging"
	"github.com/dshills/tabstorm/internal/metadata"
)

// Config configures a Compiler.
type Config struct {
	// Namespace is the namespace of every compiled file. The empty
	// namespace holds the default command set.
	Namespace string

	// MaxObjectFields bounds the fields kept for a struct type; the rest
	// are dropped.
	MaxObjectFields int

	// MaxTupleLen bounds fixed-size arrays; longer arrays are rejected.
	MaxTupleLen int

	// Logger receives progress messages. Nil discards them.
	Logger *logging.Logger
}

// DefaultConfig returns the default compiler configuration.
func DefaultConfig() Config {
	return Config{
		MaxObjectFields: 32,
		MaxTupleLen:     16,
	}
}

type source struct {
	name string
	file *ast.File
}

// Compiler turns annotated Go declarations into metadata tables.
//
// Exported functions become commands, except constructors named New or
// NewXxx. Exported methods of exported types become members of a class
// named after the receiver, except property accessors (SetX with one
// parameter and X when SetX exists) and String/Error. A leading
// context.Context parameter is not part of the command signature.
//
// A "@hidden" line in a doc comment marks the command hidden and
// "@name cmd" records the command under cmd instead of the Go name. Lines
// starting with "@" are removed from the recorded documentation.
type Compiler struct {
	cfg    Config
	logger *logging.Logger
	fset   *token.FileSet
	files  []source

	// declared types and the string constants of each named type,
	// collected across all files
	types  map[string]*ast.TypeSpec
	consts map[string][]string
}

// New creates a compiler.
func New(cfg Config) *Compiler {
	def := DefaultConfig()
	if cfg.MaxObjectFields <= 0 {
		cfg.MaxObjectFields = def.MaxObjectFields
	}
	if cfg.MaxTupleLen <= 0 {
		cfg.MaxTupleLen = def.MaxTupleLen
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Null()
	}
	return &Compiler{
		cfg:    cfg,
		logger: logger.WithComponent("metagen"),
		fset:   token.NewFileSet(),
		types:  make(map[string]*ast.TypeSpec),
		consts: make(map[string][]string),
	}
}

// AddFile parses one source file. src may be nil, in which case the file
// is read from filename. Generated files are skipped.
func (c *Compiler) AddFile(filename string, src any) error {
	f, err := parser.ParseFile(c.fset, filename, src, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	if ast.IsGenerated(f) {
		c.logger.Debug("skipping generated file %s", filename)
		return nil
	}
	c.files = append(c.files, source{name: filepath.Base(filename), file: f})
	c.index(f)
	return nil
}

// AddDir parses the non-test Go files of a directory.
func (c *Compiler) AddDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		if err := c.AddFile(filepath.Join(dir, name), nil); err != nil {
			return err
		}
	}
	return nil
}

// index records type declarations and string constants.
func (c *Compiler) index(f *ast.File) {
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}
		switch gd.Tok {
		case token.TYPE:
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				c.types[ts.Name.Name] = ts
			}
		case token.CONST:
			for _, spec := range gd.Specs {
				vs := spec.(*ast.ValueSpec)
				id, ok := vs.Type.(*ast.Ident)
				if !ok {
					continue
				}
				for _, v := range vs.Values {
					lit, ok := v.(*ast.BasicLit)
					if !ok || lit.Kind != token.STRING {
						continue
					}
					s, err := strconv.Unquote(lit.Value)
					if err == nil && !slices.Contains(c.consts[id.Name], s) {
						c.consts[id.Name] = append(c.consts[id.Name], s)
					}
				}
			}
		}
	}
}

// Compile produces one table per source file that declares commands.
func (c *Compiler) Compile() ([]*metadata.File, error) {
	if len(c.files) == 0 {
		return nil, ErrNoSources
	}

	methods := c.methodSets()
	seen := make(map[string]token.Position)
	var out []*metadata.File
	total := 0

	for _, src := range c.files {
		mf := metadata.NewFile(src.name, c.cfg.Namespace, nil, nil)
		for _, decl := range src.file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || !fd.Name.IsExported() {
				continue
			}
			recv := receiverName(fd)
			switch {
			case recv == "" && isConstructor(fd.Name.Name):
				continue
			case recv != "" && (!ast.IsExported(recv) || isAccessor(fd, methods[recv])):
				continue
			}

			entry, err := c.entry(fd, recv)
			if err != nil {
				return nil, err
			}

			name := entry.Name
			if recv != "" {
				name = recv + "." + name
			}
			pos := c.fset.Position(fd.Pos())
			if prev, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: %s at %s, first declared at %s",
					ErrDuplicateCommand, metadata.Qualify(c.cfg.Namespace, name), pos, prev)
			}
			seen[name] = pos
			total++

			if recv == "" {
				mf.Functions[entry.Name] = entry
				continue
			}
			cl, ok := mf.Classes[recv]
			if !ok {
				cl = metadata.NewClass(recv)
				mf.Classes[recv] = cl
			}
			cl.Members[entry.Name] = entry
		}
		if len(mf.Functions) > 0 || len(mf.Classes) > 0 {
			out = append(out, mf)
		}
	}

	c.logger.Info("compiled %d commands from %d files", total, len(c.files))
	return out, nil
}

// Program compiles and aggregates the result.
func (c *Compiler) Program() (*metadata.Program, error) {
	files, err := c.Compile()
	if err != nil {
		return nil, err
	}
	return metadata.NewProgram(files...), nil
}

func (c *Compiler) entry(fd *ast.FuncDecl, recv string) (*metadata.Entry, error) {
	command := fd.Name.Name
	if recv != "" {
		command = recv + "." + command
	}
	cv := c.converter(command)
	cv.bindTypeParams(fd.Type.TypeParams)
	if recv != "" {
		cv.bindReceiver(fd.Recv.List[0].Type, c.types[recv])
	}

	fn, err := cv.function(fd.Type, true)
	if err != nil {
		return nil, err
	}
	doc := parseDoc(fd.Doc)
	name := fd.Name.Name
	if doc.name != "" {
		name = doc.name
	}
	return &metadata.Entry{Name: name, Doc: doc.text, Type: fn, Hidden: doc.hidden}, nil
}

// methodSets returns the method names declared for each receiver type.
func (c *Compiler) methodSets() map[string]map[string]bool {
	sets := make(map[string]map[string]bool)
	for _, src := range c.files {
		for _, decl := range src.file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			recv := receiverName(fd)
			if recv == "" {
				continue
			}
			if sets[recv] == nil {
				sets[recv] = make(map[string]bool)
			}
			sets[recv][fd.Name.Name] = true
		}
	}
	return sets
}

// receiverName returns the receiver type name of a method, or "" for a
// function.
func receiverName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	expr := fd.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch x := expr.(type) {
	case *ast.IndexExpr:
		expr = x.X
	case *ast.IndexListExpr:
		expr = x.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func isConstructor(name string) bool {
	if name == "New" {
		return true
	}
	rest, ok := strings.CutPrefix(name, "New")
	return ok && unicode.IsUpper([]rune(rest)[0])
}

func isAccessor(fd *ast.FuncDecl, methods map[string]bool) bool {
	name := fd.Name.Name
	params := fd.Type.Params.NumFields()
	switch {
	case (name == "String" || name == "Error") && params == 0:
		return true
	case strings.HasPrefix(name, "Set") && len(name) > 3 && params == 1:
		return true
	case params == 0 && methods["Set"+name]:
		return true
	}
	return false
}

type docInfo struct {
	text   string
	hidden bool
	name   string
}

// parseDoc returns the documentation text without tag lines together with
// the values of the @hidden and @name tags.
func parseDoc(cg *ast.CommentGroup) docInfo {
	var info docInfo
	if cg == nil {
		return info
	}
	var lines []string
	for _, line := range strings.Split(cg.Text(), "\n") {
		trimmed := strings.TrimSpace(line)
		if tag, ok := strings.CutPrefix(trimmed, "@"); ok {
			name, arg, _ := strings.Cut(tag, " ")
			switch name {
			case "hidden":
				info.hidden = true
			case "name":
				info.name = strings.TrimSpace(arg)
			}
			continue
		}
		lines = append(lines, line)
	}
	info.text = strings.TrimSpace(strings.Join(lines, "\n"))
	return info
}
