package input

import (
	"sync"

	"github.com/dshills/tabstorm/internal/input/key"
)

// Phase identifies which host event a keystroke arrived as.
type Phase uint8

const (
	// PhaseKeyDown is the initial key press.
	PhaseKeyDown Phase = iota
	// PhaseKeyPress is the character-producing phase that follows key down.
	PhaseKeyPress
	// PhaseKeyUp is the key release.
	PhaseKeyUp
)

// String returns the host event name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseKeyDown:
		return "keydown"
	case PhaseKeyPress:
		return "keypress"
	case PhaseKeyUp:
		return "keyup"
	}
	return "unknown"
}

// DefaultMaxPending bounds each pending list of a Canceller.
const DefaultMaxPending = 64

// Canceller remembers consumed keystrokes so that the later phases of the
// same physical key can be suppressed too.
//
// Later phases may arrive out of order when several keys are held, so
// entries are matched by identity (modifiers, physical key and target)
// rather than by position.
type Canceller struct {
	mu         sync.Mutex
	pending    map[Phase][]key.Event
	maxPending int
}

// NewCanceller creates a Canceller holding at most maxPending entries per
// phase. A non-positive value selects DefaultMaxPending.
func NewCanceller(maxPending int) *Canceller {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	return &Canceller{
		pending:    make(map[Phase][]key.Event, 2),
		maxPending: maxPending,
	}
}

// Push records a consumed key-down event for both later phases.
func (c *Canceller) Push(ev key.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range []Phase{PhaseKeyPress, PhaseKeyUp} {
		list := append(c.pending[p], ev)
		if len(list) > c.maxPending {
			list = list[len(list)-c.maxPending:]
		}
		c.pending[p] = list
	}
}

// Cancel reports whether ev, arriving as phase, belongs to a consumed
// keystroke. The matching entry is removed so each is cancelled once.
func (c *Canceller) Cancel(ev key.Event, phase Phase) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.pending[phase]
	for i, p := range list {
		if sameKeystroke(p, ev) {
			c.pending[phase] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of entries waiting for phase.
func (c *Canceller) Pending(phase Phase) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending[phase])
}

// Reset forgets every pending entry.
func (c *Canceller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.pending)
}

// sameKeystroke compares two phases of a keystroke. The key value may
// differ between phases, so the physical code is used when present.
func sameKeystroke(a, b key.Event) bool {
	if a.Modifiers != b.Modifiers || a.Target != b.Target {
		return false
	}
	if a.Code != "" || b.Code != "" {
		return a.Code == b.Code
	}
	return a.Key == b.Key
}
