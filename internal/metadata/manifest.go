package metadata

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/tabstorm/internal/typedesc"
)

// ErrInvalidManifest is returned when a manifest cannot be read.
var ErrInvalidManifest = errors.New("invalid metadata manifest")

// MarshalManifest returns the JSON manifest of the given file tables:
//
//	{"commands": [{"file": "excmds.go", "namespace": "", "class": "",
//	  "name": "scrollline", "doc": "...", "hidden": false, "type": {...}}]}
//
// The output is indented and its order is stable.
func MarshalManifest(files ...*File) ([]byte, error) {
	doc := `{"commands":[]}`
	for _, f := range sortFiles(files) {
		for _, cname := range f.ClassNames() {
			c := f.Classes[cname]
			for _, mname := range c.MemberNames() {
				var err error
				if doc, err = appendEntry(doc, f, cname, c.Members[mname]); err != nil {
					return nil, err
				}
			}
		}
		for _, name := range f.FunctionNames() {
			var err error
			if doc, err = appendEntry(doc, f, "", f.Functions[name]); err != nil {
				return nil, err
			}
		}
	}
	return pretty.Pretty([]byte(doc)), nil
}

func appendEntry(doc string, f *File, class string, e *Entry) (string, error) {
	typ, err := typedesc.Encode(e.Type)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", e.Name, err)
	}

	entry := "{}"
	for _, kv := range []struct {
		path  string
		value any
	}{
		{"file", f.Name},
		{"namespace", f.Namespace},
		{"class", class},
		{"name", e.Name},
		{"doc", e.Doc},
		{"hidden", e.Hidden},
	} {
		if entry, err = sjson.Set(entry, kv.path, kv.value); err != nil {
			return "", err
		}
	}
	if entry, err = sjson.SetRaw(entry, "type", typ); err != nil {
		return "", err
	}
	return sjson.SetRaw(doc, "commands.-1", entry)
}

// UnmarshalManifest rebuilds file tables from a manifest produced by
// MarshalManifest.
func UnmarshalManifest(data []byte) ([]*File, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not JSON", ErrInvalidManifest)
	}
	commands := gjson.GetBytes(data, "commands")
	if !commands.IsArray() {
		return nil, fmt.Errorf("%w: missing commands array", ErrInvalidManifest)
	}

	files := make(map[string]*File)
	var order []*File
	var err error
	commands.ForEach(func(_, c gjson.Result) bool {
		name := c.Get("name").String()
		if name == "" {
			err = fmt.Errorf("%w: command without a name", ErrInvalidManifest)
			return false
		}
		var t typedesc.Type
		if t, err = typedesc.Decode(c.Get("type").Raw); err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrInvalidManifest, name, err)
			return false
		}
		fn, ok := t.(typedesc.FunctionType)
		if !ok {
			err = fmt.Errorf("%w: %s: type is %s, want function", ErrInvalidManifest, name, t.Kind())
			return false
		}

		fname := c.Get("file").String()
		f, ok := files[fname]
		if !ok {
			f = NewFile(fname, c.Get("namespace").String(), nil, nil)
			files[fname] = f
			order = append(order, f)
		}

		e := &Entry{Name: name, Doc: c.Get("doc").String(), Type: fn, Hidden: c.Get("hidden").Bool()}
		if class := c.Get("class").String(); class != "" {
			cl, ok := f.Classes[class]
			if !ok {
				cl = NewClass(class)
				f.Classes[class] = cl
			}
			cl.Members[name] = e
		} else {
			f.Functions[name] = e
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// LoadProgram builds a Program from a manifest.
func LoadProgram(data []byte) (*Program, error) {
	files, err := UnmarshalManifest(data)
	if err != nil {
		return nil, err
	}
	return NewProgram(files...), nil
}

func sortFiles(files []*File) []*File {
	out := slices.Clone(files)
	slices.SortFunc(out, func(a, b *File) int { return strings.Compare(a.Name, b.Name) })
	return out
}
