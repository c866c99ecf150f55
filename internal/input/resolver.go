package input

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/tabstorm/internal/input/key"
	"github.com/dshills/tabstorm/internal/input/keymap"
	"github.com/dshills/tabstorm/internal/input/mode"
	"github.com/dshills/tabstorm/internal/logging"
)

// ErrTransientMode is returned when a transient mode is selected by name.
// Gobble and nmode carry parameters and are entered with Gobble and NMode.
var ErrTransientMode = errors.New("transient mode cannot be selected by name")

// Config configures a Resolver.
type Config struct {
	// DefaultMode is the initial mode (default: normal).
	DefaultMode mode.Name

	// NoMatchIndicator reports discarded keystrokes through OnNoMatch.
	// It never fires in insert, input or ignore mode, where unmatched keys
	// are ordinary typing.
	NoMatchIndicator bool

	// MaxPending bounds the suppression lists of the Canceller.
	MaxPending int

	// Logger receives resolver diagnostics. Nil selects logging.Default().
	Logger *logging.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultMode:      mode.Normal,
		NoMatchIndicator: true,
		MaxPending:       DefaultMaxPending,
	}
}

// Verdict tells the host what to do with a keystroke.
type Verdict struct {
	// Suppress reports whether the page must not see the keystroke.
	Suppress bool

	// Result is the resolution outcome. It is zero for later phases.
	Result Result
}

// Hook observes keystrokes handled by a Resolver.
type Hook interface {
	// PreKeyDown is called before a key-down is resolved. Returning true
	// consumes the keystroke: it is suppressed and never resolved.
	PreKeyDown(ev key.Event, state State) bool

	// PostKeyDown is called with the outcome of a resolved key-down.
	PostKeyDown(ev key.Event, res Result, state State)
}

// Resolver runs Step for one page context and reports its outcomes.
//
// Keystrokes are handled strictly one at a time. Callbacks run after the
// internal lock is released, so they may call back into the Resolver.
type Resolver struct {
	mu sync.Mutex

	config    Config
	src       keymap.Source
	state     State
	suffix    string
	canceller *Canceller
	metrics   *Metrics
	logger    *logging.Logger
	hooks     []Hook

	onCommand    func(cmd string)
	onSuffix     func(suffix string)
	onModeChange func(from, to mode.Mode)
	onError      func(err error)
	onNoMatch    func(ev key.Event)
}

// NewResolver creates a resolver reading binding tables from src.
func NewResolver(src keymap.Source, config Config) *Resolver {
	if config.DefaultMode == "" {
		config.DefaultMode = mode.Normal
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{
		config:    config,
		src:       src,
		state:     NewState(mode.Of(config.DefaultMode)),
		canceller: NewCanceller(config.MaxPending),
		metrics:   NewMetrics(),
		logger:    logger.WithComponent("resolver"),
	}
}

// OnCommand sets the callback receiving resolved command strings.
func (r *Resolver) OnCommand(fn func(cmd string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCommand = fn
}

// OnSuffix sets the callback receiving the in-progress key indicator.
// It is called only when the indicator changes.
func (r *Resolver) OnSuffix(fn func(suffix string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSuffix = fn
}

// OnModeChange sets the callback invoked when the mode changes.
func (r *Resolver) OnModeChange(fn func(from, to mode.Mode)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onModeChange = fn
}

// OnError sets the callback receiving configuration errors.
func (r *Resolver) OnError(fn func(err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = fn
}

// OnNoMatch sets the callback invoked when a keystroke is discarded.
func (r *Resolver) OnNoMatch(fn func(ev key.Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onNoMatch = fn
}

// AddHook registers a hook.
func (r *Resolver) AddHook(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// notification is a callback queued while the lock is held.
type notification func()

func run(pending []notification) {
	for _, fn := range pending {
		fn()
	}
}

// HandleKeyDown resolves a key-down event.
func (r *Resolver) HandleKeyDown(ev key.Event) Verdict {
	r.mu.Lock()
	pending, verdict := r.handleKeyDownLocked(ev)
	r.mu.Unlock()

	run(pending)
	return verdict
}

func (r *Resolver) handleKeyDownLocked(ev key.Event) ([]notification, Verdict) {
	for _, h := range r.hooks {
		if h.PreKeyDown(ev, r.state) {
			r.canceller.Push(ev)
			r.metrics.RecordSuppressed()
			return nil, Verdict{Suppress: true}
		}
	}

	start := time.Now()
	prev := r.state
	next, res, err := Step(prev, ev, r.src)
	r.state = next
	r.metrics.RecordKeystroke(time.Since(start))

	var pending []notification
	if prev.Mode.Name != next.Mode.Name {
		pending = append(pending, r.modeChangeLocked(prev.Mode, next.Mode)...)
	}

	if err != nil {
		r.metrics.RecordConfigError()
		r.logger.WithField("mode", next.Mode.BindingMode()).Error("%v", err)
		if fn := r.onError; fn != nil {
			pending = append(pending, func() { fn(err) })
		}
		pending = append(pending, r.setSuffixLocked("")...)
		return pending, Verdict{Result: res}
	}

	verdict := Verdict{Result: res}
	if res.IsMatch {
		verdict.Suppress = true
		r.canceller.Push(ev)
		r.metrics.RecordSuppressed()
	} else if dropped := len(prev.Buffer.StripModifierOnly()) + 1 - len(res.Keys); dropped > 0 && !ev.IsModifierOnly() {
		r.metrics.RecordDiscarded(dropped)
		if r.config.NoMatchIndicator && reportsNoMatch(next.Mode.Name) {
			r.logger.Debug("no binding for %q in %s mode", ev.String(), next.Mode.BindingMode())
			if fn := r.onNoMatch; fn != nil {
				pending = append(pending, func() { fn(ev) })
			}
		}
	}

	if res.Resolved() {
		r.metrics.RecordResolved()
		r.logger.Debug("resolved %q in %s mode", res.Command, prev.Mode)
		pending = append(pending, r.setSuffixLocked("")...)
		if fn := r.onCommand; fn != nil {
			cmd := res.Command
			pending = append(pending, func() { fn(cmd) })
		}
	} else {
		pending = append(pending, r.setSuffixLocked(next.Suffix())...)
	}

	for _, h := range r.hooks {
		h.PostKeyDown(ev, res, next)
	}
	return pending, verdict
}

// reportsNoMatch reports whether discarded keys in mode n are surfaced.
func reportsNoMatch(n mode.Name) bool {
	switch n {
	case mode.Insert, mode.Input, mode.Ignore:
		return false
	}
	return true
}

// HandleKeyPress reports whether a key-press event must be suppressed.
func (r *Resolver) HandleKeyPress(ev key.Event) Verdict {
	return r.cancel(ev, PhaseKeyPress)
}

// HandleKeyUp reports whether a key-up event must be suppressed.
func (r *Resolver) HandleKeyUp(ev key.Event) Verdict {
	return r.cancel(ev, PhaseKeyUp)
}

func (r *Resolver) cancel(ev key.Event, phase Phase) Verdict {
	if !r.canceller.Cancel(ev, phase) {
		return Verdict{}
	}
	r.metrics.RecordSuppressed()
	return Verdict{Suppress: true}
}

// Handle routes an event by phase.
func (r *Resolver) Handle(ev key.Event, phase Phase) Verdict {
	switch phase {
	case PhaseKeyPress:
		return r.HandleKeyPress(ev)
	case PhaseKeyUp:
		return r.HandleKeyUp(ev)
	}
	return r.HandleKeyDown(ev)
}

func (r *Resolver) modeChangeLocked(from, to mode.Mode) []notification {
	r.logger.Debug("mode %s -> %s", from, to)
	fn := r.onModeChange
	if fn == nil {
		return nil
	}
	return []notification{func() { fn(from, to) }}
}

func (r *Resolver) setSuffixLocked(s string) []notification {
	if s == r.suffix {
		return nil
	}
	r.suffix = s
	fn := r.onSuffix
	if fn == nil {
		return nil
	}
	return []notification{func() { fn(s) }}
}

// SetMode switches to m and clears pending keys.
func (r *Resolver) SetMode(m mode.Mode) {
	r.mu.Lock()
	prev := r.state.Mode
	r.state = NewState(m)
	var pending []notification
	if prev != m {
		pending = r.modeChangeLocked(prev, m)
	}
	pending = append(pending, r.setSuffixLocked("")...)
	r.mu.Unlock()

	run(pending)
}

// SetModeName switches to a non-transient mode by name.
func (r *Resolver) SetModeName(name string) error {
	n, err := mode.ParseName(name)
	if err != nil {
		return err
	}
	if n.IsTransient() {
		return fmt.Errorf("%w: %s", ErrTransientMode, n)
	}
	r.SetMode(mode.Of(n))
	return nil
}

// Gobble enters gobble mode: the next n characters are appended to
// endCommand, which is then resolved.
func (r *Resolver) Gobble(n int, endCommand string) error {
	m, err := mode.NewGobble(n, endCommand)
	if err != nil {
		return err
	}
	r.SetMode(m)
	return nil
}

// NMode enters nmode: n commands are resolved in mode inner, then
// endCommand runs.
func (r *Resolver) NMode(inner mode.Name, n int, endCommand string) error {
	m, err := mode.NewNMode(inner, n, endCommand)
	if err != nil {
		return err
	}
	r.SetMode(m)
	return nil
}

// Mode returns the current mode.
func (r *Resolver) Mode() mode.Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Mode
}

// State returns a copy of the current state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state
	s.Buffer = s.Buffer.Clone()
	return s
}

// Suffix returns the current in-progress key indicator.
func (r *Resolver) Suffix() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.suffix
}

// Completions returns the bindings that could still complete the pending
// keys in the current mode.
func (r *Resolver) Completions() ([]keymap.ParsedBinding, error) {
	s := r.State()
	km, err := r.src.Keymap(string(s.Mode.BindingMode()))
	if err != nil {
		return nil, err
	}
	_, rest := s.Buffer.StripModifierOnly().SplitCount()
	return km.Completions(rest), nil
}

// Reset clears pending keys and suppression entries without changing mode.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.state.Buffer = key.Sequence{}
	pending := r.setSuffixLocked("")
	r.mu.Unlock()

	r.canceller.Reset()
	run(pending)
}

// Metrics returns the resolver metrics.
func (r *Resolver) Metrics() *Metrics {
	return r.metrics
}
