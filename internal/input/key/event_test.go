package key

import "testing"

type element struct{ editable bool }

func (e *element) Editable() bool { return e.editable }

func TestEventMatchesIgnoresShiftForCharacters(t *testing.T) {
	binding := Char('J')
	typed := Event{Key: "J", Modifiers: ModShift}
	if !binding.Matches(typed) {
		t.Error("J binding should match shifted J")
	}

	ctrl := Event{Key: "j", Modifiers: ModCtrl}
	if !ctrl.Matches(Event{Key: "j", Modifiers: ModCtrl | ModShift}) {
		t.Error("<C-j> binding should ignore shift on a character key")
	}
	if ctrl.Matches(Char('j')) {
		t.Error("<C-j> binding should not match plain j")
	}
}

func TestEventMatchesChecksShiftForSpecialKeys(t *testing.T) {
	tab := Event{Key: KeyTab}
	if tab.Matches(Event{Key: KeyTab, Modifiers: ModShift}) {
		t.Error("<Tab> binding should not match <S-Tab>")
	}
	stab := Event{Key: KeyTab, Modifiers: ModShift}
	if !stab.Matches(Event{Key: KeyTab, Modifiers: ModShift}) {
		t.Error("<S-Tab> binding should match <S-Tab>")
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Char('j'), "j"},
		{Event{Key: "J", Modifiers: ModShift}, "J"},
		{Event{Key: "f", Modifiers: ModCtrl}, "<C-f>"},
		{Event{Key: KeyEscape}, "<Escape>"},
		{Event{Key: KeyEscape, Modifiers: ModCtrl | ModAlt}, "<AC-Escape>"},
		{Event{Key: KeySpace}, "<Space>"},
		{Event{Key: "<"}, "<lt>"},
		{Event{Key: KeyTab, Modifiers: ModShift}, "<S-Tab>"},
	}

	for _, tt := range tests {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.event, got, tt.want)
		}
	}
}

func TestEventPrintable(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Char('g'), "g"},
		{Event{Key: KeyShift, Modifiers: ModShift}, ""},
		{Event{Key: "x", Modifiers: ModCtrl | ModAlt}, "<C-A-x>"},
		{Event{Key: KeyEscape}, "<Escape>"},
	}

	for _, tt := range tests {
		if got := tt.event.Printable(); got != tt.want {
			t.Errorf("%#v.Printable() = %q, want %q", tt.event, got, tt.want)
		}
	}
}

func TestEventInTextInput(t *testing.T) {
	if Char('a').InTextInput() {
		t.Error("event without target should not be in text input")
	}
	ev := Char('a').WithTarget(&element{editable: true})
	if !ev.InTextInput() {
		t.Error("event from editable element should be in text input")
	}
}

func TestModifierLetters(t *testing.T) {
	tests := []struct {
		mod  Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl, "C"},
		{ModShift | ModAlt, "AS"},
		{ModMeta | ModCtrl | ModAlt | ModShift, "ACMS"},
	}
	for _, tt := range tests {
		if got := tt.mod.Letters(); got != tt.want {
			t.Errorf("Modifier(%d).Letters() = %q, want %q", tt.mod, got, tt.want)
		}
	}
}

func TestKeyClassification(t *testing.T) {
	if !KeyControl.IsModifierOnly() || !KeyAltGraph.IsModifierOnly() {
		t.Error("Control and AltGraph should be modifier-only keys")
	}
	if Key("a").IsModifierOnly() {
		t.Error("a should not be modifier-only")
	}
	if d, ok := Key("7").Digit(); !ok || d != 7 {
		t.Errorf("Digit(7) = %d, %v", d, ok)
	}
	if _, ok := Key("F1").Digit(); ok {
		t.Error("F1 is not a digit")
	}
	if !Key("é").IsChar() {
		t.Error("é should be a single character key")
	}
}
