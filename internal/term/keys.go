package term

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tabstorm/internal/input/key"
)

var namedKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBacktab:    key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// ConvertKey converts a tcell key event to a keystroke. It returns false
// for keys that have no keystroke equivalent.
//
// Control letters are reported as the lowercase letter with Ctrl held.
// Tab, Enter, Backspace and Escape are always reported as the named key,
// even when the terminal sent them as Ctrl-I, Ctrl-M, Ctrl-H or Ctrl-[.
func ConvertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(ev.Modifiers())
	when := ev.When()
	if when.IsZero() {
		when = time.Now()
	}

	k := ev.Key()
	var out key.Event
	switch {
	case k == tcell.KeyRune:
		// The rune already reflects Shift.
		out = key.Event{Key: key.Key(string(ev.Rune())), Modifiers: mods.Without(key.ModShift)}
	case namedKeys[k] != key.KeyNone:
		out = key.Event{Key: namedKeys[k], Modifiers: mods}
		if k == tcell.KeyBacktab {
			out.Modifiers = out.Modifiers.With(key.ModShift)
		}
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		letter := rune('a' + (k - tcell.KeyCtrlA))
		out = key.Event{Key: key.Key(string(letter)), Modifiers: mods.With(key.ModCtrl)}
	case k == tcell.KeyCtrlSpace:
		out = key.Event{Key: key.KeySpace, Modifiers: mods.With(key.ModCtrl)}
	default:
		return key.Event{}, false
	}
	out.Timestamp = when
	return out, true
}

// convertMod converts a tcell modifier mask to key modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}
