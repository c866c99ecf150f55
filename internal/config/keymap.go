package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/tabstorm/internal/input/keymap"
)

// KeymapStore is the binding table source handed to the key resolvers.
// It layers configured bindings over a set of base tables and re-parses
// tables lazily after each change.
type KeymapStore struct {
	*keymap.Registry

	mu      sync.Mutex
	base    []*keymap.Keymap
	applied map[string]bool
}

// NewKeymapStore creates a store whose base tables are base. With no
// arguments the built-in default tables are used.
func NewKeymapStore(base ...*keymap.Keymap) *KeymapStore {
	if len(base) == 0 {
		base = keymap.DefaultKeymaps()
	}
	s := &KeymapStore{
		Registry: keymap.NewRegistry(),
		applied:  make(map[string]bool),
	}
	for _, km := range base {
		s.base = append(s.base, km.Clone())
	}
	return s
}

// Apply rebuilds every table from the base tables, then the keymap
// files, then the per-mode bindings, each layer overriding the previous
// one binding by binding. Tables not produced by this apply are removed.
// On error the store is left unchanged.
func (s *KeymapStore) Apply(settings Settings, files []*keymap.Keymap) error {
	tables := make(map[string]*keymap.Keymap)
	layer := func(km *keymap.Keymap) {
		t, ok := tables[km.Name]
		if !ok {
			tables[km.Name] = km.Clone()
			return
		}
		for _, b := range km.Bindings {
			t.AddBinding(b)
		}
		if km.Inherits != "" {
			t.Inherits = km.Inherits
		}
		t.Source = km.Source
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, km := range s.base {
		layer(km)
	}
	for _, km := range files {
		layer(km)
	}
	for _, m := range sortedNames(settings.Bindings) {
		layer(keymap.FromMap(keymap.TableName(m), settings.Bindings[m]).WithSource("config"))
	}

	names := sortedNames(tables)
	for _, name := range names {
		if err := tables[name].Validate(); err != nil {
			return fmt.Errorf("keymap %q: %w", name, err)
		}
	}
	translation := settings.KeyTranslate.TranslateMap()
	if err := translation.Validate(); err != nil {
		return err
	}

	for name := range s.applied {
		if _, ok := tables[name]; !ok {
			s.Unregister(name)
		}
	}
	s.applied = make(map[string]bool, len(tables))
	for _, name := range names {
		if err := s.Register(tables[name]); err != nil {
			return err
		}
		s.applied[name] = true
	}
	return s.SetTranslation(translation, settings.KeyTranslate.Tables()...)
}

// Tables returns the names of the tables produced by the last Apply.
func (s *KeymapStore) Tables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.applied))
	for name := range s.applied {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
