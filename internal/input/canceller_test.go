package input

import (
	"testing"

	"github.com/dshills/tabstorm/internal/input/key"
)

func TestCancellerCancelsEachPhaseOnce(t *testing.T) {
	c := NewCanceller(0)
	ev := key.Event{Key: "j", Code: "KeyJ"}
	c.Push(ev)

	if !c.Cancel(ev, PhaseKeyPress) {
		t.Error("Cancel(keypress) = false, want true")
	}
	if c.Cancel(ev, PhaseKeyPress) {
		t.Error("second Cancel(keypress) = true, want false")
	}
	if !c.Cancel(ev, PhaseKeyUp) {
		t.Error("Cancel(keyup) = false, want true")
	}
	if c.Pending(PhaseKeyPress) != 0 || c.Pending(PhaseKeyUp) != 0 {
		t.Errorf("pending = %d/%d, want 0/0", c.Pending(PhaseKeyPress), c.Pending(PhaseKeyUp))
	}
}

func TestCancellerOutOfOrder(t *testing.T) {
	c := NewCanceller(0)
	a := key.Event{Key: "g", Code: "KeyG"}
	b := key.Event{Key: "j", Code: "KeyJ"}
	c.Push(a)
	c.Push(b)

	// b is released before a.
	if !c.Cancel(b, PhaseKeyUp) {
		t.Error("Cancel(b) = false, want true")
	}
	if !c.Cancel(a, PhaseKeyUp) {
		t.Error("Cancel(a) = false, want true")
	}
}

func TestCancellerMatching(t *testing.T) {
	field := &element{editable: true}
	pushed := key.Event{Key: "j", Code: "KeyJ", Modifiers: key.ModCtrl, Target: field}

	tests := []struct {
		name string
		ev   key.Event
		want bool
	}{
		{"same keystroke", pushed, true},
		{"key value differs but code matches", key.Event{Key: "J", Code: "KeyJ", Modifiers: key.ModCtrl, Target: field}, true},
		{"different modifiers", key.Event{Key: "j", Code: "KeyJ", Target: field}, false},
		{"different code", key.Event{Key: "j", Code: "KeyK", Modifiers: key.ModCtrl, Target: field}, false},
		{"different target", key.Event{Key: "j", Code: "KeyJ", Modifiers: key.ModCtrl, Target: &element{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanceller(0)
			c.Push(pushed)
			if got := c.Cancel(tt.ev, PhaseKeyUp); got != tt.want {
				t.Errorf("Cancel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCancellerWithoutCode(t *testing.T) {
	c := NewCanceller(0)
	c.Push(key.Char('x'))

	if c.Cancel(key.Char('y'), PhaseKeyUp) {
		t.Error("Cancel(y) = true, want false")
	}
	if !c.Cancel(key.Char('x'), PhaseKeyUp) {
		t.Error("Cancel(x) = false, want true")
	}
}

func TestCancellerBounded(t *testing.T) {
	c := NewCanceller(2)
	c.Push(key.Char('a'))
	c.Push(key.Char('b'))
	c.Push(key.Char('c'))

	if got := c.Pending(PhaseKeyPress); got != 2 {
		t.Errorf("Pending = %d, want 2", got)
	}
	if c.Cancel(key.Char('a'), PhaseKeyPress) {
		t.Error("oldest entry was kept, want it evicted")
	}

	c.Reset()
	if got := c.Pending(PhaseKeyUp); got != 0 {
		t.Errorf("Pending after Reset = %d, want 0", got)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseKeyUp.String() != "keyup" {
		t.Errorf("PhaseKeyUp.String() = %q", PhaseKeyUp.String())
	}
}
