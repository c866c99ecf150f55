package key

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Element is the element a keystroke originated from.
//
// Implementations must be comparable (typically a pointer) since targets
// are matched by identity when suppressing later event phases.
type Element interface {
	// Editable reports whether the element accepts text input.
	Editable() bool
}

// Event represents a single keystroke.
type Event struct {
	// Key is the produced key value.
	Key Key

	// Code identifies the physical key, e.g. "KeyJ". It may be empty.
	Code string

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Target is the element that had focus. It may be nil.
	Target Element

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(k Key, mods Modifier) Event {
	return Event{
		Key:       k,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// Char creates an unmodified event for a single character.
func Char(r rune) Event {
	return Event{Key: Key(string(r))}
}

// IsChar returns true if this is a single-character key.
func (e Event) IsChar() bool {
	return e.Key.IsChar()
}

// HasModifiers returns true if any modifier, including Shift, is set.
func (e Event) HasModifiers() bool {
	return e.Modifiers != ModNone
}

// HasNonShiftModifiers returns true if Ctrl, Alt or Meta is set.
func (e Event) HasNonShiftModifiers() bool {
	return e.Modifiers.Without(ModShift) != ModNone
}

// IsSimple returns true for a character key without Ctrl, Alt or Meta.
func (e Event) IsSimple() bool {
	return e.IsChar() && !e.HasNonShiftModifiers()
}

// IsModifierOnly returns true if the event is a bare modifier key press.
func (e Event) IsModifierOnly() bool {
	return e.Key.IsModifierOnly()
}

// IsEscape returns true if this is an unmodified Escape key.
func (e Event) IsEscape() bool {
	return e.Key == KeyEscape && e.Modifiers == ModNone
}

// InTextInput reports whether the event originated from an editable element.
func (e Event) InTextInput() bool {
	return e.Target != nil && e.Target.Editable()
}

// Matches reports whether e, used as a binding key, matches the keystroke
// other. Shift is ignored when e is a single character.
func (e Event) Matches(other Event) bool {
	if e.Key != other.Key {
		return false
	}
	mask := ModAlt | ModCtrl | ModMeta | ModShift
	if e.IsChar() {
		mask = mask.Without(ModShift)
	}
	return e.Modifiers&mask == other.Modifiers&mask
}

// Normalize returns the event in the form used for binding lookup:
// target, code and timestamp dropped, and Shift cleared on characters.
func (e Event) Normalize() Event {
	n := Event{Key: e.Key, Modifiers: e.Modifiers}
	if n.IsChar() {
		n.Modifiers = n.Modifiers.Without(ModShift)
	}
	return n
}

// String returns the key-sequence form of the event, e.g. "j", "<C-f>",
// "<Space>" or "<AS-Tab>". Shift is omitted for single characters.
func (e Event) String() string {
	letters := e.Normalize().Modifiers.Letters()
	name := string(e.Key)
	bracket := e.Key.IsSpecial() || letters != ""
	switch e.Key {
	case KeySpace:
		name = "Space"
		bracket = true
	case "<":
		if bracket {
			break
		}
		// A bare "<" would open a bracket expression when re-parsed.
		name = "lt"
		bracket = true
	}
	if letters != "" {
		name = letters + "-" + name
	}
	if bracket {
		return "<" + name + ">"
	}
	return name
}

// Printable returns the form shown in a status indicator for an in-progress
// key: bare modifiers are hidden and modified or named keys are bracketed
// with dash-separated modifiers, e.g. "<C-A-x>".
func (e Event) Printable() string {
	if e.IsModifierOnly() {
		return ""
	}
	result := string(e.Key)
	if e.Modifiers.HasAlt() {
		result = "A-" + result
	}
	if e.Modifiers.HasCtrl() {
		result = "C-" + result
	}
	if e.Modifiers.HasShift() {
		result = "S-" + result
	}
	if utf8.RuneCountInString(result) > 1 {
		result = "<" + result + ">"
	}
	return result
}

// Equals returns true if two events have the same key and modifiers.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Modifiers == other.Modifiers
}

// WithModifier returns a copy with an additional modifier.
func (e Event) WithModifier(mod Modifier) Event {
	e.Modifiers = e.Modifiers.With(mod)
	return e
}

// WithTarget returns a copy originating from target.
func (e Event) WithTarget(target Element) Event {
	e.Target = target
	return e
}

// GoString returns a Go-syntax representation for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("key.Event{Key: %q, Code: %q, Modifiers: %q}",
		string(e.Key), e.Code, e.Modifiers.Letters())
}
