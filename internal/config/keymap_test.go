package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tabstorm/internal/input/key"
	"github.com/dshills/tabstorm/internal/input/keymap"
)

func lookup(t *testing.T, src keymap.Source, mode, keys string) (string, bool) {
	t.Helper()
	km, err := src.Keymap(mode)
	if err != nil {
		t.Fatalf("Keymap(%q) error = %v", mode, err)
	}
	pb, ok := km.Lookup(key.ParseSequence(keys))
	if !ok {
		return "", false
	}
	return pb.Command, true
}

func TestKeymapStore_Defaults(t *testing.T) {
	store := NewKeymapStore()
	if err := store.Apply(Settings{}, nil); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if cmd, ok := lookup(t, store, "normal", "j"); !ok || cmd != "scrollline 10" {
		t.Errorf("normal j = %q, %v; want scrollline 10", cmd, ok)
	}
	if cmd, ok := lookup(t, store, "normal", "gg"); !ok || cmd != "scrollto 0" {
		t.Errorf("normal gg = %q, %v; want scrollto 0", cmd, ok)
	}
}

func TestKeymapStore_Layering(t *testing.T) {
	store := NewKeymapStore(
		keymap.FromMap("nmaps", map[string]string{"j": "scrollline 10", "k": "scrollline -10", "d": "tabclose"}),
	)
	file := keymap.FromMap("nmaps", map[string]string{"j": "scrollline 20", "x": "stop"}).WithSource("file:b.yaml")
	settings := Settings{
		Bindings: map[string]map[string]string{
			"normal": {"j": "scrollline 5", "d": ""},
			"hint":   {"f": "hint.pipe a"},
		},
	}

	if err := store.Apply(settings, []*keymap.Keymap{file}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	tests := []struct {
		mode, keys string
		want       string
		bound      bool
	}{
		{"normal", "j", "scrollline 5", true},
		{"normal", "k", "scrollline -10", true},
		{"normal", "x", "stop", true},
		{"normal", "d", "", false},
		{"hint", "f", "hint.pipe a", true},
	}
	for _, tt := range tests {
		cmd, ok := lookup(t, store, tt.mode, tt.keys)
		if ok != tt.bound || cmd != tt.want {
			t.Errorf("%s %s = %q, %v; want %q, %v", tt.mode, tt.keys, cmd, ok, tt.want, tt.bound)
		}
	}

	if diff := cmp.Diff([]string{"hintmaps", "nmaps"}, store.Tables()); diff != "" {
		t.Errorf("Tables mismatch (-want +got):\n%s", diff)
	}
}

func TestKeymapStore_ReapplyRemovesTables(t *testing.T) {
	store := NewKeymapStore(keymap.FromMap("nmaps", map[string]string{"j": "scrollline 10"}))

	first := Settings{Bindings: map[string]map[string]string{"visual": {"y": "clipboard yank"}}}
	if err := store.Apply(first, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Keymap("visual"); err != nil {
		t.Fatalf("visual table missing after first apply: %v", err)
	}

	if err := store.Apply(Settings{}, nil); err != nil {
		t.Fatal(err)
	}
	_, err := store.Keymap("visual")
	if !errors.Is(err, keymap.ErrNoBindings) {
		t.Errorf("Keymap(visual) error = %v, want ErrNoBindings", err)
	}
}

func TestKeymapStore_Translation(t *testing.T) {
	store := NewKeymapStore()
	settings := Settings{
		KeyTranslate: KeyTranslateSettings{
			Modes: []string{"normal"},
			Map:   map[string]string{"о": "j"},
		},
	}
	if err := store.Apply(settings, nil); err != nil {
		t.Fatal(err)
	}

	if tr := store.Translation("normal"); tr["о"] != "j" {
		t.Errorf("normal translation = %v, want о -> j", tr)
	}
	if tr := store.Translation("insert"); tr != nil {
		t.Errorf("insert translation = %v, want nil", tr)
	}
}

func TestKeymapStore_ApplyErrorLeavesStoreUnchanged(t *testing.T) {
	store := NewKeymapStore(keymap.FromMap("nmaps", map[string]string{"j": "scrollline 10"}))
	if err := store.Apply(Settings{}, nil); err != nil {
		t.Fatal(err)
	}

	bad := Settings{
		Bindings:     map[string]map[string]string{"normal": {"j": "scrollline 1"}},
		KeyTranslate: KeyTranslateSettings{Map: map[string]string{"ab": "c"}},
	}
	if err := store.Apply(bad, nil); err == nil {
		t.Fatal("expected error for invalid translation map")
	}

	if cmd, _ := lookup(t, store, "normal", "j"); cmd != "scrollline 10" {
		t.Errorf("normal j = %q after failed apply, want scrollline 10", cmd)
	}
}
