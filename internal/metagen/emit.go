package metagen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/dshills/tabstorm/internal/metadata"
)

// GoOptions controls Go source emission.
type GoOptions struct {
	// Package is the package clause of the generated file.
	Package string

	// Var is the name of the generated variable. Defaults to "Program".
	Var string

	// Sources are listed in the generated header.
	Sources []string
}

// goTemplateData is the data passed to goTemplate.
type goTemplateData struct {
	Package   string
	Var       string
	Sources   string
	UsesTypes bool
	Program   string
}

const goTemplate = `// Code generated by metagen{{if .Sources}} from {{.Sources}}{{end}}. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/dshills/tabstorm/internal/metadata"
{{- if .UsesTypes}}
	"github.com/dshills/tabstorm/internal/typedesc"
{{- end}}
)

// {{.Var}} is the command table of package {{.Package}}.
var {{.Var}} = {{.Program}}
`

var goTmpl = template.Must(template.New("metadata").Parse(goTemplate))

// GenerateGo renders the tables as a gofmt-ed Go source file declaring a
// *metadata.Program variable.
func GenerateGo(files []*metadata.File, opts GoOptions) ([]byte, error) {
	if opts.Package == "" {
		return nil, fmt.Errorf("metagen: package name is required")
	}
	if opts.Var == "" {
		opts.Var = "Program"
	}

	literal := metadata.NewProgram(files...).GoLiteral()
	data := goTemplateData{
		Package:   opts.Package,
		Var:       opts.Var,
		Sources:   strings.Join(opts.Sources, ", "),
		UsesTypes: strings.Contains(literal, "typedesc."),
		Program:   literal,
	}

	var buf bytes.Buffer
	if err := goTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("metagen: execute template: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("metagen: format generated code: %w", err)
	}
	return out, nil
}

// GenerateManifest renders the tables as a JSON manifest that
// metadata.LoadProgram reads back.
func GenerateManifest(files []*metadata.File) ([]byte, error) {
	return metadata.MarshalManifest(files...)
}
