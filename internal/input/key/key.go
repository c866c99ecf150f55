package key

import (
	"strings"
	"unicode/utf8"
)

// Key is a key value as reported by the host, e.g. "a", "A", "Escape".
// Character keys hold the produced character; special keys hold their name.
type Key string

const (
	// KeyNone represents no key.
	KeyNone Key = ""

	// Special keys
	KeyEscape    Key = "Escape"
	KeyEnter     Key = "Enter"
	KeyTab       Key = "Tab"
	KeyBackspace Key = "Backspace"
	KeyDelete    Key = "Delete"
	KeyInsert    Key = "Insert"
	KeyHome      Key = "Home"
	KeyEnd       Key = "End"
	KeyPageUp    Key = "PageUp"
	KeyPageDown  Key = "PageDown"
	KeySpace     Key = " "

	// Arrow keys
	KeyUp    Key = "ArrowUp"
	KeyDown  Key = "ArrowDown"
	KeyLeft  Key = "ArrowLeft"
	KeyRight Key = "ArrowRight"

	// Function keys
	KeyF1  Key = "F1"
	KeyF2  Key = "F2"
	KeyF3  Key = "F3"
	KeyF4  Key = "F4"
	KeyF5  Key = "F5"
	KeyF6  Key = "F6"
	KeyF7  Key = "F7"
	KeyF8  Key = "F8"
	KeyF9  Key = "F9"
	KeyF10 Key = "F10"
	KeyF11 Key = "F11"
	KeyF12 Key = "F12"

	// Bare modifier keys. These never take part in a binding.
	KeyControl  Key = "Control"
	KeyShift    Key = "Shift"
	KeyAlt      Key = "Alt"
	KeyAltGraph Key = "AltGraph"
	KeyMeta     Key = "Meta"
	KeyOS       Key = "OS"
)

// String returns the key value.
func (k Key) String() string {
	return string(k)
}

// IsChar returns true if the key is a single character.
func (k Key) IsChar() bool {
	return k != KeyNone && utf8.RuneCountInString(string(k)) == 1
}

// IsSpecial returns true if the key is a named (multi-character) key.
func (k Key) IsSpecial() bool {
	return utf8.RuneCountInString(string(k)) > 1
}

// IsModifierOnly returns true for the bare modifier keys (Control, Shift,
// Alt, AltGraph, Meta, OS).
func (k Key) IsModifierOnly() bool {
	switch k {
	case KeyControl, KeyShift, KeyAlt, KeyAltGraph, KeyMeta, KeyOS:
		return true
	}
	return false
}

// Digit returns the decimal value of a digit key.
func (k Key) Digit() (int, bool) {
	if len(k) != 1 || k[0] < '0' || k[0] > '9' {
		return 0, false
	}
	return int(k[0] - '0'), true
}

// IsFunctionKey returns true for F1-F12.
func (k Key) IsFunctionKey() bool {
	switch k {
	case KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6,
		KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12:
		return true
	}
	return false
}

// IsArrowKey returns true for arrow keys.
func (k Key) IsArrowKey() bool {
	return k == KeyUp || k == KeyDown || k == KeyLeft || k == KeyRight
}

// aliases maps case-insensitive bracket-expression names to key values.
var aliases = map[string]Key{
	"cr":     KeyEnter,
	"esc":    KeyEscape,
	"return": KeyEnter,
	"enter":  KeyEnter,
	"space":  KeySpace,
	"bar":    "|",
	"del":    KeyDelete,
	"bs":     KeyBackspace,
	"lt":     "<",
	"gt":     ">",
}

// namedKeys lists the special keys whose names are matched
// case-insensitively in bracket expressions.
var namedKeys = []Key{
	KeyEscape, KeyEnter, KeyTab, KeyBackspace, KeyDelete, KeyInsert,
	KeyHome, KeyEnd, KeyPageUp, KeyPageDown,
	KeyUp, KeyDown, KeyLeft, KeyRight,
	KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6,
	KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12,
}

var keyNameMap = func() map[string]Key {
	m := make(map[string]Key, len(namedKeys)+len(aliases)+8)
	for _, k := range namedKeys {
		m[strings.ToLower(string(k))] = k
	}
	for name, k := range aliases {
		m[name] = k
	}
	m["up"] = KeyUp
	m["down"] = KeyDown
	m["left"] = KeyLeft
	m["right"] = KeyRight
	m["ins"] = KeyInsert
	m["pgup"] = KeyPageUp
	m["pgdn"] = KeyPageDown
	return m
}()

// KeyFromName returns the key for a bracket-expression name. Aliases and
// known special key names are case-insensitive; any other name is returned
// unchanged.
func KeyFromName(name string) Key {
	if k, ok := keyNameMap[strings.ToLower(name)]; ok {
		return k
	}
	return Key(name)
}

// ExpandAlias returns the key value for an alias name, or the name itself.
func ExpandAlias(name string) Key {
	if k, ok := aliases[strings.ToLower(name)]; ok {
		return k
	}
	return Key(name)
}
