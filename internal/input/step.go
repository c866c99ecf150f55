package input

import (
	"github.com/dshills/tabstorm/internal/input/key"
	"github.com/dshills/tabstorm/internal/input/keymap"
	"github.com/dshills/tabstorm/internal/input/mode"
)

// State is the resolver state of one page context: the active mode and the
// keystrokes accumulated towards a binding.
//
// State is a value. Step never modifies the State it is given.
type State struct {
	Mode   mode.Mode
	Buffer key.Sequence
}

// NewState returns an empty state in mode m.
func NewState(m mode.Mode) State {
	return State{Mode: m}
}

// Suffix returns the in-progress keys as shown in a status indicator.
func (s State) Suffix() string {
	return s.Buffer.Printable()
}

// Result is the outcome of one keystroke.
type Result struct {
	// Keys is the buffer that remains pending after the keystroke.
	Keys key.Sequence

	// Command is the resolved command string, or empty while pending.
	Command string

	// IsMatch reports whether the keystroke was consumed, either by a
	// resolved command or by a surviving partial match. Consumed keystrokes
	// must not reach the page.
	IsMatch bool

	// Count is the numeric count captured before the binding, or 0.
	Count int
}

// Resolved reports whether the keystroke completed a command.
func (r Result) Resolved() bool {
	return r.Command != ""
}

// Parse resolves a buffer of keystrokes against a binding table.
//
// Bare modifier keys are dropped and a leading count is split off. While the
// remaining keys are not a prefix of any binding, the leftmost key is
// discarded; the count is discarded along with the first dropped key. An
// exact match resolves to the binding's command with the count appended.
func Parse(keys key.Sequence, km *keymap.ParsedKeymap) Result {
	prefix, rest := keys.StripModifierOnly().SplitCount()

	for len(rest) > 0 && !km.HasPrefix(rest) {
		rest = rest[1:]
		prefix = nil
	}

	if len(rest) > 0 {
		if pb, ok := km.Lookup(rest); ok {
			cmd := pb.Command
			if len(prefix) > 0 {
				cmd += " " + prefix.Digits()
			}
			return Result{
				Keys:    key.Sequence{},
				Command: cmd,
				IsMatch: true,
				Count:   prefix.CountValue(),
			}
		}
	}

	return Result{
		Keys:    prefix.Append(rest...),
		IsMatch: len(rest) > 0,
	}
}

// Step handles one keystroke and returns the next state.
//
// Focus rules are applied first, then the keystroke is routed by mode:
// gobble collects characters, nmode counts commands resolved in its wrapped
// mode, and every other mode resolves against its own binding table.
//
// When the active mode has no usable binding table Step returns a
// *keymap.ConfigurationError together with s, buffer cleared.
func Step(s State, ev key.Event, src keymap.Source) (State, Result, error) {
	s.Mode = mode.AutoSwitch(s.Mode, ev.InTextInput())

	switch s.Mode.Name {
	case mode.Gobble:
		next, res := stepGobble(s, ev)
		return next, res, nil
	case mode.NMode:
		return stepNMode(s, ev, src)
	}

	name := string(s.Mode.Name)
	km, err := src.Keymap(name)
	if err != nil {
		s.Buffer = key.Sequence{}
		return s, Result{Keys: key.Sequence{}}, err
	}
	ev = src.Translation(name).Translate(ev)

	res := Parse(s.Buffer.Append(ev), km)
	s.Buffer = res.Keys
	return s, res, nil
}

func stepGobble(s State, ev key.Event) (State, Result) {
	if ev.Key == key.KeyEscape {
		return State{Mode: mode.Of(mode.Normal), Buffer: key.Sequence{}},
			Result{Keys: key.Sequence{}, IsMatch: true}
	}
	if !ev.IsChar() {
		return s, Result{Keys: s.Buffer, IsMatch: ev.IsModifierOnly()}
	}

	g := s.Mode.Gobble
	g.Chars += string(ev.Key)
	g.Remaining--
	if g.Remaining > 0 {
		s.Mode.Gobble = g
		return s, Result{Keys: s.Buffer, IsMatch: true}
	}

	return State{Mode: mode.Of(mode.Normal), Buffer: key.Sequence{}},
		Result{Keys: key.Sequence{}, Command: g.EndCommand + " " + g.Chars, IsMatch: true}
}

func stepNMode(s State, ev key.Event, src keymap.Source) (State, Result, error) {
	n := s.Mode.NMode
	if ev.IsModifierOnly() {
		return s, Result{Keys: s.Buffer}, nil
	}

	inner := string(n.Mode)
	km, err := src.Keymap(inner)
	if err != nil {
		s.Buffer = key.Sequence{}
		return s, Result{Keys: key.Sequence{}}, err
	}
	ev = src.Translation(inner).Translate(ev)

	buf := s.Buffer.StripModifierOnly().Append(ev)
	if buf[0].Key == key.KeyEscape {
		return State{Mode: mode.Of(mode.Normal), Buffer: key.Sequence{}},
			Result{Keys: key.Sequence{}, Command: n.EndCommand, IsMatch: true}, nil
	}

	res := Parse(buf, km)
	if res.Resolved() || !res.IsMatch {
		n.Remaining--
	}
	if n.Remaining > 0 {
		s.Mode.NMode = n
		s.Buffer = res.Keys
		return s, res, nil
	}

	switch {
	case n.EndCommand == "":
	case res.Resolved():
		res.Command = "composite " + res.Command + "; " + n.EndCommand
	default:
		res.Command = n.EndCommand
	}
	res.Keys = key.Sequence{}
	res.IsMatch = true
	return State{Mode: mode.Of(mode.Normal), Buffer: key.Sequence{}}, res, nil
}

// Replay feeds events through Step starting from initial and returns the
// final state together with every intermediate result. It stops at the
// first error.
func Replay(initial State, events []key.Event, src keymap.Source) (State, []Result, error) {
	s := initial
	results := make([]Result, 0, len(events))
	for _, ev := range events {
		next, res, err := Step(s, ev, src)
		if err != nil {
			return next, results, err
		}
		s = next
		results = append(results, res)
	}
	return s, results, nil
}
