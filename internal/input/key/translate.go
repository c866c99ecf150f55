package key

import (
	"fmt"
	"unicode/utf8"
)

// TranslateMap maps single-character keys to replacement single-character
// keys, e.g. to make bindings work under a non-Latin keyboard layout.
type TranslateMap map[Key]Key

// Validate returns an error if any entry is not a single character on
// both sides.
func (m TranslateMap) Validate() error {
	for from, to := range m {
		if utf8.RuneCountInString(string(from)) != 1 || utf8.RuneCountInString(string(to)) != 1 {
			return fmt.Errorf("%w: translation %q -> %q must map single characters", ErrInvalidSpec, from, to)
		}
	}
	return nil
}

// Translate returns the event with its key replaced according to m. The
// modifiers, code and target are preserved.
func (m TranslateMap) Translate(e Event) Event {
	if to, ok := m[e.Key]; ok {
		e.Key = to
	}
	return e
}
