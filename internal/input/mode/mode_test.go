package mode

import (
	"errors"
	"testing"
)

func TestParseName(t *testing.T) {
	for _, n := range Names() {
		got, err := ParseName(string(n))
		if err != nil || got != n {
			t.Errorf("ParseName(%q) = %q, %v", n, got, err)
		}
	}
	if got, err := ParseName(" Normal "); err != nil || got != Normal {
		t.Errorf("ParseName(Normal) = %q, %v", got, err)
	}
	if _, err := ParseName("replace"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseName(replace) error = %v, want ErrUnknownMode", err)
	}
}

func TestAutoSwitch(t *testing.T) {
	gobble, _ := NewGobble(1, "markadd")

	tests := []struct {
		name     string
		current  Mode
		editable bool
		want     Name
	}{
		{"normal to insert on editable", Of(Normal), true, Insert},
		{"normal stays on plain", Of(Normal), false, Normal},
		{"insert stays on editable", Of(Insert), true, Insert},
		{"insert to normal on plain", Of(Insert), false, Normal},
		{"visual to insert on editable", Of(Visual), true, Insert},
		{"gobble to insert on editable", gobble, true, Insert},
		{"gobble stays on plain", gobble, false, Gobble},
		{"ignore exempt", Of(Ignore), true, Ignore},
		{"hint exempt", Of(Hint), true, Hint},
		{"input stays on editable", Of(Input), true, Input},
		{"input to normal on plain", Of(Input), false, Normal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AutoSwitch(tt.current, tt.editable)
			if got.Name != tt.want {
				t.Errorf("AutoSwitch(%s, %v) = %s, want %s", tt.current, tt.editable, got, tt.want)
			}
		})
	}
}

func TestAutoSwitchKeepsTransientState(t *testing.T) {
	gobble, _ := NewGobble(3, "markadd")
	got := AutoSwitch(gobble, false)
	if got.Gobble.Remaining != 3 || got.Gobble.EndCommand != "markadd" {
		t.Errorf("AutoSwitch lost gobble state: %+v", got.Gobble)
	}
}

func TestTransientConstructors(t *testing.T) {
	if _, err := NewGobble(0, "x"); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("NewGobble(0) error = %v, want ErrInvalidCount", err)
	}
	if _, err := NewNMode(Normal, 0, "x"); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("NewNMode(0) error = %v, want ErrInvalidCount", err)
	}
	if _, err := NewNMode(Gobble, 1, "x"); err == nil {
		t.Error("NewNMode(gobble) should fail")
	}

	m, err := NewNMode(Ignore, 2, "mode normal")
	if err != nil {
		t.Fatal(err)
	}
	if m.BindingMode() != Ignore {
		t.Errorf("BindingMode() = %s, want ignore", m.BindingMode())
	}
	if got := m.String(); got != "nmode(ignore, 2, mode normal)" {
		t.Errorf("String() = %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if Normal.DisplayName() != "" {
		t.Errorf("normal DisplayName = %q, want empty", Normal.DisplayName())
	}
	if Insert.DisplayName() != "-- INSERT --" {
		t.Errorf("insert DisplayName = %q", Insert.DisplayName())
	}
}
