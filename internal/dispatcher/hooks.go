package dispatcher

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tidwall/match"

	"github.com/dshills/tabstorm/internal/dispatcher/transport"
	"github.com/dshills/tabstorm/internal/logging"
	"github.com/dshills/tabstorm/internal/metadata"
)

// Call is a command about to be delivered, after coercion.
type Call struct {
	transport.Message

	// Entry is the metadata the arguments were coerced against.
	Entry *metadata.Entry
}

// Outcome is the result of a delivered call.
type Outcome struct {
	Result   any
	Err      error
	Duration time.Duration
}

// Hook is the base interface for dispatch hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority.
	// Higher values run first for pre-hooks, last for post-hooks.
	Priority() int
}

// PreDispatchHook is called before a call is delivered.
type PreDispatchHook interface {
	Hook

	// PreDispatch may modify the call arguments.
	// Returns an error to cancel the dispatch.
	PreDispatch(ctx context.Context, call *Call) error
}

// PostDispatchHook is called after a call is delivered or failed.
type PostDispatchHook interface {
	Hook

	// PostDispatch may inspect or modify the outcome.
	PostDispatch(ctx context.Context, call *Call, out *Outcome)
}

// Standard hook priorities.
const (
	PriorityValidation = 1000
	PriorityAudit      = 500
	PriorityUser       = 0
)

// Hooks runs registered hooks in priority order.
type Hooks struct {
	mu   sync.RWMutex
	pre  []PreDispatchHook
	post []PostDispatchHook
}

// NewHooks creates an empty hook set.
func NewHooks() *Hooks {
	return &Hooks{}
}

// Register adds h as a pre-hook, a post-hook or both, replacing any hook
// of the same name.
func (m *Hooks) Register(h Hook) {
	m.Unregister(h.Name())

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := h.(PreDispatchHook); ok {
		m.pre = append(m.pre, p)
		sort.SliceStable(m.pre, func(i, j int) bool {
			return m.pre[i].Priority() > m.pre[j].Priority()
		})
	}
	if p, ok := h.(PostDispatchHook); ok {
		m.post = append(m.post, p)
		sort.SliceStable(m.post, func(i, j int) bool {
			return m.post[i].Priority() < m.post[j].Priority()
		})
	}
}

// Unregister removes the hooks with the given name.
// Returns true if any hook was removed.
func (m *Hooks) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := false
	pre := m.pre[:0]
	for _, h := range m.pre {
		if h.Name() == name {
			removed = true
			continue
		}
		pre = append(pre, h)
	}
	m.pre = pre

	post := m.post[:0]
	for _, h := range m.post {
		if h.Name() == name {
			removed = true
			continue
		}
		post = append(post, h)
	}
	m.post = post
	return removed
}

// Count returns the number of pre- and post-hooks.
func (m *Hooks) Count() (pre, post int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pre), len(m.post)
}

// RunPreDispatch runs pre-hooks until one cancels the call.
func (m *Hooks) RunPreDispatch(ctx context.Context, call *Call) error {
	m.mu.RLock()
	hooks := make([]PreDispatchHook, len(m.pre))
	copy(hooks, m.pre)
	m.mu.RUnlock()

	for _, h := range hooks {
		if err := h.PreDispatch(ctx, call); err != nil {
			return fmt.Errorf("%s: cancelled by %s: %w", call.Qualified(), h.Name(), err)
		}
	}
	return nil
}

// RunPostDispatch runs all post-hooks.
func (m *Hooks) RunPostDispatch(ctx context.Context, call *Call, out *Outcome) {
	m.mu.RLock()
	hooks := make([]PostDispatchHook, len(m.post))
	copy(hooks, m.post)
	m.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(ctx, call, out)
	}
}

// PreDispatchFunc wraps a function as a PreDispatchHook.
type PreDispatchFunc struct {
	name     string
	priority int
	fn       func(ctx context.Context, call *Call) error
}

// NewPreDispatchFunc creates a new PreDispatchFunc hook.
func NewPreDispatchFunc(name string, priority int, fn func(ctx context.Context, call *Call) error) *PreDispatchFunc {
	return &PreDispatchFunc{name: name, priority: priority, fn: fn}
}

// Name implements Hook.
func (f *PreDispatchFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PreDispatchFunc) Priority() int { return f.priority }

// PreDispatch implements PreDispatchHook.
func (f *PreDispatchFunc) PreDispatch(ctx context.Context, call *Call) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(ctx, call)
}

// PostDispatchFunc wraps a function as a PostDispatchHook.
type PostDispatchFunc struct {
	name     string
	priority int
	fn       func(ctx context.Context, call *Call, out *Outcome)
}

// NewPostDispatchFunc creates a new PostDispatchFunc hook.
func NewPostDispatchFunc(name string, priority int, fn func(ctx context.Context, call *Call, out *Outcome)) *PostDispatchFunc {
	return &PostDispatchFunc{name: name, priority: priority, fn: fn}
}

// Name implements Hook.
func (f *PostDispatchFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PostDispatchFunc) Priority() int { return f.priority }

// PostDispatch implements PostDispatchHook.
func (f *PostDispatchFunc) PostDispatch(ctx context.Context, call *Call, out *Outcome) {
	if f.fn != nil {
		f.fn(ctx, call, out)
	}
}

// LoggingHook logs each call and its outcome at debug level.
type LoggingHook struct {
	logger *logging.Logger
}

// NewLoggingHook creates a new logging hook.
func NewLoggingHook(logger *logging.Logger) *LoggingHook {
	return &LoggingHook{logger: logger}
}

// Name implements Hook.
func (h *LoggingHook) Name() string { return "logging" }

// Priority implements Hook.
func (h *LoggingHook) Priority() int { return PriorityAudit }

// PreDispatch implements PreDispatchHook.
func (h *LoggingHook) PreDispatch(_ context.Context, call *Call) error {
	h.logger.WithField("id", call.ID).Debug("dispatching %s %v", call.Qualified(), call.Args)
	return nil
}

// PostDispatch implements PostDispatchHook.
func (h *LoggingHook) PostDispatch(_ context.Context, call *Call, out *Outcome) {
	l := h.logger.WithField("id", call.ID).WithField("duration", out.Duration)
	if out.Err != nil {
		l.Warn("%s failed: %v", call.Qualified(), out.Err)
		return
	}
	l.Debug("%s -> %v", call.Qualified(), out.Result)
}

// DenyHook cancels calls whose qualified name matches a glob pattern
// ("*" and "?" wildcards), e.g. "native.*".
type DenyHook struct {
	patterns []string
}

// NewDenyHook creates a deny hook for the given patterns.
func NewDenyHook(patterns ...string) *DenyHook {
	return &DenyHook{patterns: patterns}
}

// Name implements Hook.
func (h *DenyHook) Name() string { return "deny" }

// Priority implements Hook.
func (h *DenyHook) Priority() int { return PriorityValidation }

// PreDispatch implements PreDispatchHook.
func (h *DenyHook) PreDispatch(_ context.Context, call *Call) error {
	q := call.Qualified()
	for _, p := range h.patterns {
		if match.Match(q, p) {
			return fmt.Errorf("%w: %s matches %q", ErrDenied, q, p)
		}
	}
	return nil
}
