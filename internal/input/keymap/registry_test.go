package keymap

import (
	"errors"
	"testing"

	"github.com/dshills/tabstorm/internal/input/key"
)

func TestTableName(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"normal", "nmaps"},
		{"insert", "imaps"},
		{"input", "inputmaps"},
		{"ignore", "ignoremaps"},
		{"hint", "hintmaps"},
		{"visual", "vmaps"},
		{"ex", "exmaps"},
		{"browser", "browsermaps"},
		{"custom", "custommaps"},
	}
	for _, tt := range tests {
		if got := TableName(tt.mode); got != tt.want {
			t.Errorf("TableName(%q) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestRegistryMissingTable(t *testing.T) {
	r := NewRegistry()
	_, err := r.Keymap("normal")

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Keymap() error = %v, want *ConfigurationError", err)
	}
	if cfgErr.Mode != "normal" || cfgErr.Table != "nmaps" {
		t.Errorf("ConfigurationError = %+v", cfgErr)
	}
	if !errors.Is(err, ErrNoBindings) {
		t.Error("error should wrap ErrNoBindings")
	}
}

func TestRegistryEmptyTableIsConfigurationError(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewKeymap("nmaps").Unbind("j")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Keymap("normal"); !errors.Is(err, ErrNoBindings) {
		t.Errorf("Keymap() error = %v, want ErrNoBindings", err)
	}
}

func TestRegistryInheritance(t *testing.T) {
	r := NewRegistry()
	if err := LoadDefaults(r); err != nil {
		t.Fatalf("LoadDefaults() error = %v", err)
	}

	input, err := r.Keymap("input")
	if err != nil {
		t.Fatalf("Keymap(input) error = %v", err)
	}
	if b, ok := input.Lookup(key.ParseSequence("<Escape>")); !ok || b.Command != "composite unfocus | mode normal" {
		t.Errorf("input <Escape> = %v, %v; want inherited insert binding", b, ok)
	}
	if b, ok := input.Lookup(key.ParseSequence("<S-Tab>")); !ok || b.Command != "focusinput -N" {
		t.Errorf("input <S-Tab> = %v, %v", b, ok)
	}

	visual, err := r.Keymap("visual")
	if err != nil {
		t.Fatalf("Keymap(visual) error = %v", err)
	}
	if b, ok := visual.Lookup(key.ParseSequence("j")); !ok || b.Command != "selection extend forward line" {
		t.Errorf("visual j = %v, %v; want override", b, ok)
	}
	if _, ok := visual.Lookup(key.ParseSequence("v")); ok {
		t.Error("visual v should be unbound")
	}
	if b, ok := visual.Lookup(key.ParseSequence("gg")); !ok || b.Command != "scrollto 0" {
		t.Errorf("visual gg = %v, %v; want inherited", b, ok)
	}
}

func TestRegistryInheritanceCycle(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewKeymap("nmaps").InheritFrom("vmaps").Add("j", "x"))
	_ = r.Register(NewKeymap("vmaps").InheritFrom("nmaps").Add("k", "y"))

	if _, err := r.Keymap("normal"); !errors.Is(err, ErrInheritanceCycle) {
		t.Errorf("Keymap() error = %v, want ErrInheritanceCycle", err)
	}
}

func TestRegistryBindInvalidatesCache(t *testing.T) {
	r := NewRegistry()
	if err := r.Bind("nmaps", "j", "scrollline 10"); err != nil {
		t.Fatal(err)
	}
	first, err := r.Keymap("normal")
	if err != nil {
		t.Fatal(err)
	}
	again, _ := r.Keymap("normal")
	if first != again {
		t.Error("parsed table should be cached between lookups")
	}

	if err := r.Bind("nmaps", "j", "scrollline 20"); err != nil {
		t.Fatal(err)
	}
	updated, err := r.Keymap("normal")
	if err != nil {
		t.Fatal(err)
	}
	if b, _ := updated.Lookup(key.ParseSequence("j")); b.Command != "scrollline 20" {
		t.Errorf("j = %q after rebind, want scrollline 20", b.Command)
	}
}

func TestRegistryTranslation(t *testing.T) {
	r := NewRegistry()
	if err := r.SetTranslation(key.TranslateMap{"о": "j"}, "nmaps"); err != nil {
		t.Fatal(err)
	}
	if r.Translation("normal") == nil {
		t.Error("normal mode should translate")
	}
	if r.Translation("insert") != nil {
		t.Error("insert mode should not translate")
	}
	if err := r.SetTranslation(key.TranslateMap{"<C-a>": "j"}); err == nil {
		t.Error("multi-character translation should be rejected")
	}
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{"normal": {"j": "scrollline 10"}}
	if _, err := src.Keymap("normal"); err != nil {
		t.Errorf("Keymap(normal) error = %v", err)
	}
	if _, err := src.Keymap("insert"); !errors.Is(err, ErrNoBindings) {
		t.Errorf("Keymap(insert) error = %v, want ErrNoBindings", err)
	}
}
