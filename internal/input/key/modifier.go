package key

import "strings"

// Modifier represents keyboard modifier flags.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta

	// ModShift indicates the Shift key.
	ModShift
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if Shift is pressed.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift)
}

// HasCtrl returns true if Control is pressed.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl)
}

// HasAlt returns true if Alt is pressed.
func (m Modifier) HasAlt() bool {
	return m.Has(ModAlt)
}

// HasMeta returns true if Meta is pressed.
func (m Modifier) HasMeta() bool {
	return m.Has(ModMeta)
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if m.HasAlt() {
		parts = append(parts, "Alt")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	if m.HasMeta() {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// Letters returns the key-sequence form of the modifiers in canonical
// order, e.g. "AC" for Alt+Ctrl. Returns "" for no modifiers.
func (m Modifier) Letters() string {
	var b strings.Builder
	if m.HasAlt() {
		b.WriteByte('A')
	}
	if m.HasCtrl() {
		b.WriteByte('C')
	}
	if m.HasMeta() {
		b.WriteByte('M')
	}
	if m.HasShift() {
		b.WriteByte('S')
	}
	return b.String()
}

// ModifierFromLetter returns the Modifier for a key-sequence modifier
// letter (case-insensitive). Returns ModNone if the letter is not one of
// A, C, M, S.
func ModifierFromLetter(r rune) Modifier {
	switch r {
	case 'a', 'A':
		return ModAlt
	case 'c', 'C':
		return ModCtrl
	case 'm', 'M':
		return ModMeta
	case 's', 'S':
		return ModShift
	}
	return ModNone
}
