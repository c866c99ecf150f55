package main

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/dshills/tabstorm/internal/config/notify"
	"github.com/dshills/tabstorm/internal/input"
	"github.com/dshills/tabstorm/internal/input/key"
	"github.com/dshills/tabstorm/internal/input/mode"
	"github.com/dshills/tabstorm/internal/term"
)

func runInteractive(ctx context.Context, opts *options) error {
	var logOut io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}

	s, err := newSession(ctx, opts, logOut)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := term.NewTerminal()
	if err != nil {
		return err
	}
	if err := t.Init(); err != nil {
		return err
	}
	defer t.Shutdown()

	return s.runTerminal(ctx, t)
}

// runTerminal feeds terminal keystrokes to the resolver until Ctrl-C or
// ctx is done.
func (s *session) runTerminal(ctx context.Context, t *term.Terminal) error {
	r := s.resolver
	refresh := func() { t.SetStatus(s.status()) }

	r.OnCommand(func(cmd string) {
		t.SetMessage(s.Dispatch(cmd))
		refresh()
	})
	r.OnSuffix(func(string) { refresh() })
	r.OnModeChange(func(_, _ mode.Mode) { refresh() })
	r.OnNoMatch(func(key.Event) { t.Beep() })
	r.OnError(func(err error) { t.SetMessage(err.Error()) })

	sub := s.cfg.Subscribe(func(ch notify.Change) {
		switch ch.Type {
		case notify.ChangeReload:
			t.SetMessage("settings reloaded")
		case notify.ChangeError:
			t.SetMessage(ch.Err.Error())
		}
	})
	defer sub.Unsubscribe()

	refresh()
	err := t.Run(ctx, func(ev key.Event) bool {
		if ev.Key == "c" && ev.Modifiers.HasCtrl() {
			return false
		}
		// A terminal reports whole keystrokes; replay the later phases so
		// the canceller does not accumulate entries.
		r.Handle(ev, input.PhaseKeyDown)
		r.Handle(ev, input.PhaseKeyPress)
		r.Handle(ev, input.PhaseKeyUp)
		return true
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// status renders the status bar: mode, pending keys and browser state.
func (s *session) status() string {
	var parts []string
	if label := s.resolver.Mode().Name.DisplayName(); label != "" {
		parts = append(parts, label)
	}
	if suffix := s.resolver.Suffix(); suffix != "" {
		parts = append(parts, suffix)
	}
	parts = append(parts, s.browser.Status())
	return strings.Join(parts, "  ")
}
