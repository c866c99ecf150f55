package keymap

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/tabstorm/internal/input/key"
)

// Source supplies binding tables to the resolver. Implementations are read
// on every keystroke and may cache parsed tables until they change.
type Source interface {
	// Keymap returns the parsed table for a mode. It returns a
	// *ConfigurationError wrapping ErrNoBindings when the mode has no
	// bindings.
	Keymap(mode string) (*ParsedKeymap, error)

	// Translation returns the key translation map for a mode, or nil when
	// translation is disabled for it.
	Translation(mode string) key.TranslateMap
}

// tableNames maps mode names to the table that holds their bindings.
var tableNames = map[string]string{
	"normal":  "nmaps",
	"ignore":  "ignoremaps",
	"insert":  "imaps",
	"input":   "inputmaps",
	"ex":      "exmaps",
	"hint":    "hintmaps",
	"visual":  "vmaps",
	"browser": "browsermaps",
}

// TableName returns the binding table name for a mode. Modes without a
// dedicated name use the mode name followed by "maps".
func TableName(mode string) string {
	if t, ok := tableNames[mode]; ok {
		return t
	}
	return mode + "maps"
}

// Registry manages all binding tables and implements Source.
type Registry struct {
	mu sync.RWMutex

	// keymaps holds all registered tables by name.
	keymaps map[string]*Keymap

	// parsed caches resolved tables (inheritance applied) by name.
	parsed map[string]*ParsedKeymap

	// translateTables lists tables whose keys are translated.
	translateTables map[string]bool

	// translation is the shared key translation map.
	translation key.TranslateMap
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		keymaps:         make(map[string]*Keymap),
		parsed:          make(map[string]*ParsedKeymap),
		translateTables: make(map[string]bool),
	}
}

// Register adds a table to the registry, replacing any table with the
// same name.
func (r *Registry) Register(km *Keymap) error {
	if km == nil {
		return fmt.Errorf("cannot register nil keymap")
	}
	if err := km.Validate(); err != nil {
		return fmt.Errorf("keymap %q: %w", km.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.keymaps[km.Name] = km.Clone()
	r.invalidateLocked()
	return nil
}

// Unregister removes a table from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.keymaps, name)
	r.invalidateLocked()
}

// Bind sets a single binding in a table, creating the table if needed.
func (r *Registry) Bind(table, keys, command string) error {
	if keys == "" {
		return ErrEmptyKeys
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	km, ok := r.keymaps[table]
	if !ok {
		km = NewKeymap(table).WithSource("user")
		r.keymaps[table] = km
	}
	km.Add(keys, command)
	r.invalidateLocked()
	return nil
}

// Unbind masks a key sequence in a table.
func (r *Registry) Unbind(table, keys string) error {
	return r.Bind(table, keys, "")
}

// SetTranslation configures key translation. Tables listed in tables have
// their incoming keys translated through m.
func (r *Registry) SetTranslation(m key.TranslateMap, tables ...string) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.translation = m
	r.translateTables = make(map[string]bool, len(tables))
	for _, t := range tables {
		r.translateTables[t] = true
	}
	return nil
}

// Invalidate drops all cached parsed tables.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidateLocked()
}

func (r *Registry) invalidateLocked() {
	r.parsed = make(map[string]*ParsedKeymap)
}

// Get returns a copy of the raw table by name, or nil.
func (r *Registry) Get(name string) *Keymap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	km, ok := r.keymaps[name]
	if !ok {
		return nil
	}
	return km.Clone()
}

// Names returns all registered table names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.keymaps))
	for name := range r.keymaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keymap implements Source.
func (r *Registry) Keymap(mode string) (*ParsedKeymap, error) {
	table := TableName(mode)

	r.mu.RLock()
	cached, ok := r.parsed[table]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.parsed[table]; ok {
		return cached, nil
	}

	flat, err := r.flattenLocked(table, make(map[string]bool))
	if err != nil {
		return nil, &ConfigurationError{Mode: mode, Table: table, Err: err}
	}
	parsed, err := flat.Parse()
	if err != nil {
		return nil, &ConfigurationError{Mode: mode, Table: table, Err: err}
	}
	if parsed.Len() == 0 {
		return nil, &ConfigurationError{Mode: mode, Table: table, Err: ErrNoBindings}
	}
	r.parsed[table] = parsed
	return parsed, nil
}

// flattenLocked merges a table with its ancestors. Bindings in a child
// override (or unbind) those of its parent.
func (r *Registry) flattenLocked(table string, seen map[string]bool) (*Keymap, error) {
	if seen[table] {
		return nil, fmt.Errorf("%w at %q", ErrInheritanceCycle, table)
	}
	seen[table] = true

	km, ok := r.keymaps[table]
	if !ok {
		return nil, ErrNoBindings
	}
	if km.Inherits == "" {
		return km.Clone(), nil
	}

	parent, err := r.flattenLocked(km.Inherits, seen)
	if err != nil {
		return nil, err
	}
	flat := parent.Clone()
	flat.Name = km.Name
	flat.Source = km.Source
	flat.Inherits = ""
	for _, b := range km.Bindings {
		flat.AddBinding(b)
	}
	return flat, nil
}

// Translation implements Source.
func (r *Registry) Translation(mode string) key.TranslateMap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.translateTables[TableName(mode)] {
		return nil
	}
	return r.translation
}

// Completions returns the bindings of a mode that keys is a prefix of.
func (r *Registry) Completions(mode string, keys key.Sequence) ([]ParsedBinding, error) {
	km, err := r.Keymap(mode)
	if err != nil {
		return nil, err
	}
	return km.Completions(keys), nil
}

// StaticSource is a fixed Source built from plain maps, keyed by mode name.
// It is mainly useful in tests.
type StaticSource map[string]map[string]string

// Keymap implements Source.
func (s StaticSource) Keymap(mode string) (*ParsedKeymap, error) {
	table := TableName(mode)
	m, ok := s[mode]
	if !ok {
		return nil, &ConfigurationError{Mode: mode, Table: table, Err: ErrNoBindings}
	}
	parsed, err := FromMap(table, m).Parse()
	if err != nil {
		return nil, &ConfigurationError{Mode: mode, Table: table, Err: err}
	}
	if parsed.Len() == 0 {
		return nil, &ConfigurationError{Mode: mode, Table: table, Err: ErrNoBindings}
	}
	return parsed, nil
}

// Translation implements Source. StaticSource never translates.
func (s StaticSource) Translation(string) key.TranslateMap {
	return nil
}
