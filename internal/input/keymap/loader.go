package keymap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a keymap file encoding.
type Format int

const (
	// FormatJSON is the JSON keymap format.
	FormatJSON Format = iota
	// FormatYAML is the YAML keymap format.
	FormatYAML
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return 0, false
}

// Loader loads keymaps from configuration files.
type Loader struct {
	// searchPaths are directories to search for keymap files.
	searchPaths []string
}

// NewLoader creates a new keymap loader.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: make([]string, 0),
	}
}

// AddSearchPath adds a directory to search for keymap files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadFile loads a keymap from a JSON or YAML file.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported keymap file %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	km, err := l.LoadReader(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if km.Source == "" {
		km.Source = "file:" + path
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return km, nil
}

// LoadReader loads a keymap from a reader.
func (l *Loader) LoadReader(r io.Reader, format Format) (*Keymap, error) {
	var config keymapConfig
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&config); err != nil {
			return nil, fmt.Errorf("decoding keymap: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&config); err != nil {
			return nil, fmt.Errorf("decoding keymap: %w", err)
		}
	}
	return config.keymap(), nil
}

// LoadAll loads all keymaps from the search paths. Files that fail to load
// are returned as errors alongside the keymaps that did load.
func (l *Loader) LoadAll() ([]*Keymap, []error) {
	keymaps := make([]*Keymap, 0)
	var errs []error

	for _, dir := range l.searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if _, ok := FormatFromPath(path); !ok {
				continue
			}
			km, err := l.LoadFile(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			keymaps = append(keymaps, km)
		}
	}

	return keymaps, errs
}

// LoadAndRegister loads all keymaps and registers them.
func (l *Loader) LoadAndRegister(registry *Registry) error {
	keymaps, errs := l.LoadAll()
	if len(errs) > 0 {
		return errs[0]
	}

	for _, km := range keymaps {
		if err := registry.Register(km); err != nil {
			return fmt.Errorf("registering keymap %q: %w", km.Name, err)
		}
	}

	return nil
}

// keymapConfig is the file structure for keymaps.
type keymapConfig struct {
	Name     string            `json:"name" yaml:"name"`
	Inherits string            `json:"inherits,omitempty" yaml:"inherits,omitempty"`
	Source   string            `json:"source,omitempty" yaml:"source,omitempty"`
	Bindings map[string]string `json:"bindings" yaml:"bindings"`
}

func (c keymapConfig) keymap() *Keymap {
	km := FromMap(c.Name, c.Bindings)
	km.Inherits = c.Inherits
	km.Source = c.Source
	return km
}

func newKeymapConfig(k *Keymap) keymapConfig {
	return keymapConfig{
		Name:     k.Name,
		Inherits: k.Inherits,
		Source:   k.Source,
		Bindings: k.Map(),
	}
}

// MarshalJSON converts a keymap to JSON.
func (k *Keymap) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(newKeymapConfig(k), "", "  ")
}

// UnmarshalJSON parses a keymap from JSON.
func (k *Keymap) UnmarshalJSON(data []byte) error {
	var config keymapConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return err
	}
	*k = *config.keymap()
	return nil
}

// MarshalYAML converts a keymap to its YAML form.
func (k *Keymap) MarshalYAML() (any, error) {
	return newKeymapConfig(k), nil
}

// SaveFile saves a keymap to a JSON or YAML file.
func (k *Keymap) SaveFile(path string) error {
	format, ok := FormatFromPath(path)
	if !ok {
		return fmt.Errorf("unsupported keymap file %q", path)
	}

	var (
		data []byte
		err  error
	)
	if format == FormatYAML {
		data, err = yaml.Marshal(k)
	} else {
		data, err = k.MarshalJSON()
	}
	if err != nil {
		return fmt.Errorf("marshaling keymap: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}

	return nil
}

// sortedKeys returns the binding keys of a table in canonical order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
