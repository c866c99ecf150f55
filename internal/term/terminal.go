// Package term hosts the interpreter in a terminal. It turns tcell key
// events into keystrokes, rings the bell for unmatched keys and draws a
// one-line status bar with the current mode and pending keys.
package term

import (
	"context"
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tabstorm/internal/input/key"
)

// ErrClosed is returned by Run when the screen was shut down.
var ErrClosed = errors.New("terminal closed")

// Terminal wraps a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	status  string
	message string
}

// NewTerminal creates a terminal on the controlling tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen creates a terminal on an existing screen, such as
// a simulation screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	t.screen.Clear()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Beep rings the terminal bell.
func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; terminal may not support beep
}

// SetStatus replaces the left side of the status bar, typically the mode
// and the pending key suffix.
func (t *Terminal) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = status
	t.drawLocked()
}

// SetMessage replaces the message line above the status bar.
func (t *Terminal) SetMessage(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.message = msg
	t.drawLocked()
}

func (t *Terminal) drawLocked() {
	width, height := t.screen.Size()
	if height == 0 {
		return
	}

	bar := tcell.StyleDefault.Reverse(true)
	drawLine(t.screen, height-1, width, t.status, bar)
	if height > 1 {
		drawLine(t.screen, height-2, width, t.message, tcell.StyleDefault)
	}
	t.screen.Show()
}

func drawLine(s tcell.Screen, y, width int, text string, style tcell.Style) {
	x := 0
	for _, r := range text {
		if x >= width {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// Run delivers keystrokes to fn until ctx is done, fn returns false or the
// screen is shut down. Mouse, paste and focus events are ignored.
func (t *Terminal) Run(ctx context.Context, fn func(ev key.Event) bool) error {
	stop := context.AfterFunc(ctx, func() {
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := t.screen.PollEvent()
		switch e := ev.(type) {
		case nil:
			return ErrClosed
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Sync()
			t.drawLocked()
			t.mu.Unlock()
		case *tcell.EventKey:
			kev, ok := ConvertKey(e)
			if !ok {
				continue
			}
			if !fn(kev) {
				return nil
			}
		}
	}
}
