// Package input resolves keystrokes into command strings.
//
// The package turns a stream of keystrokes from one page context into
// resolved command strings, the way a modal browser interface does: "j"
// scrolls, "gg" jumps to the top and "5j" scrolls five times.
//
// # Architecture
//
// The input system consists of several cooperating pieces:
//
//   - key: keystrokes, modifiers and key-sequence strings
//   - keymap: binding tables per mode and the Source they are read through
//   - mode: the closed set of modes and the focus-driven switching rule
//   - Step: the pure resolution function over an explicit State
//   - Resolver: runs Step for one page context and reports outcomes
//   - Canceller: suppresses the later phases of consumed keystrokes
//
// # Resolution
//
// Each keystroke is appended to the buffer and the buffer is checked
// against the binding table of the active mode. Keys that cannot start any
// binding are dropped from the left one at a time, so a valid sequence
// typed after noise is still found. A leading count ("5" in "5j") is
// appended to the resolved command as its last argument.
//
// Step is deterministic: replaying the same events from the same State
// always yields the same results (see Replay).
//
// # Usage
//
//	registry := keymap.NewRegistry()
//	_ = keymap.LoadDefaults(registry)
//
//	r := input.NewResolver(registry, input.DefaultConfig())
//	r.OnCommand(func(cmd string) {
//		_, _ = dispatcher.Interpret(ctx, cmd)
//	})
//
//	if v := r.HandleKeyDown(ev); v.Suppress {
//		// keep the keystroke from the page
//	}
package input
