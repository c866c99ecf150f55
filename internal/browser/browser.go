// Package browser is an in-memory browser the interpreter drives. It keeps
// tabs with navigation history, scroll positions and marks, and exposes
// them as commands.
//
// The commands are declared in commands.go. Their metadata table is
// generated from that file by metagen into zz_metadata.go.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/tabstorm/internal/dispatcher"
	"github.com/dshills/tabstorm/internal/input/mode"
	"github.com/dshills/tabstorm/internal/logging"
)

//go:generate go run github.com/dshills/tabstorm/cmd/metagen -o zz_metadata.go commands.go

// Errors returned by commands.
var (
	ErrNoBrowser     = errors.New("browser: no browser in context")
	ErrNoTab         = errors.New("browser: no such tab")
	ErrNoHistory     = errors.New("browser: no history in that direction")
	ErrNothingClosed = errors.New("browser: no closed tab to restore")
	ErrNoMark        = errors.New("browser: mark not set")
	ErrNoModes       = errors.New("browser: mode control unavailable")
)

// Page geometry used for scrolling.
const (
	LineHeight     = 20
	ViewportHeight = 600
	ViewportWidth  = 800
	PageHeight     = 6000
	PageWidth      = 1600
)

// ModeController switches the interpreter mode on behalf of commands. An
// *input.Resolver satisfies it.
type ModeController interface {
	SetModeName(name string) error
	Gobble(n int, endCommand string) error
	NMode(inner mode.Name, n int, endCommand string) error
}

// Point is a scroll position.
type Point struct {
	X, Y float64
}

// Tab is one open tab.
type Tab struct {
	ID     int
	Pinned bool
	Muted  bool
	Scroll Point
	Loads  int

	history []string
	pos     int
}

// URL returns the current URL of the tab.
func (t *Tab) URL() string {
	if len(t.history) == 0 {
		return ""
	}
	return t.history[t.pos]
}

func (t *Tab) navigate(url string) {
	t.history = append(t.history[:t.pos+1], url)
	t.pos = len(t.history) - 1
	t.Scroll = Point{}
	t.Loads++
}

func (t *Tab) clone() *Tab {
	c := *t
	c.history = append([]string(nil), t.history...)
	return &c
}

// Config configures a Browser.
type Config struct {
	// Home is the URL opened by home and by new tabs.
	Home string

	// SearchURL is the search engine URL; the query is appended.
	SearchURL string

	// Logger receives command activity. Nil discards it.
	Logger *logging.Logger
}

// DefaultConfig returns the default browser configuration.
func DefaultConfig() Config {
	return Config{
		Home:      "about:home",
		SearchURL: "https://duckduckgo.com/?q=",
	}
}

// Browser is the simulated browser state. It is safe for concurrent use.
type Browser struct {
	mu sync.Mutex

	config Config
	logger *logging.Logger
	modes  ModeController

	tabs      []*Tab
	active    int
	alternate int
	closed    []*Tab
	nextID    int

	marks     map[string]mark
	clipboard string
	cmdline   string
}

type mark struct {
	tab int
	url string
	at  Point
}

// New creates a browser with one tab showing the home page.
func New(config Config) *Browser {
	if config.Home == "" {
		config.Home = DefaultConfig().Home
	}
	if config.SearchURL == "" {
		config.SearchURL = DefaultConfig().SearchURL
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Null()
	}
	b := &Browser{
		config:    config,
		logger:    logger.WithComponent("browser"),
		marks:     make(map[string]mark),
		alternate: -1,
	}
	b.tabs = []*Tab{b.newTab(config.Home)}
	return b
}

func (b *Browser) newTab(url string) *Tab {
	b.nextID++
	t := &Tab{ID: b.nextID}
	t.navigate(url)
	return t
}

// SetModeController sets the target of the mode commands.
func (b *Browser) SetModeController(m ModeController) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modes = m
}

// Tabs returns copies of the open tabs in order.
func (b *Browser) Tabs() []Tab {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Tab, len(b.tabs))
	for i, t := range b.tabs {
		out[i] = *t.clone()
	}
	return out
}

// Active returns a copy of the active tab.
func (b *Browser) Active() Tab {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.tabs[b.active].clone()
}

// ActiveIndex returns the zero-based index of the active tab.
func (b *Browser) ActiveIndex() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Clipboard returns the clipboard contents.
func (b *Browser) Clipboard() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clipboard
}

// Cmdline returns the text last placed on the command line.
func (b *Browser) Cmdline() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cmdline
}

// Status returns a one-line summary of the active tab.
func (b *Browser) Status() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.tabs[b.active]
	return fmt.Sprintf("[%d/%d] %s %d%%", b.active+1, len(b.tabs), t.URL(), percent(t.Scroll.Y, PageHeight-ViewportHeight))
}

func percent(v, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(v / total * 100)
}

// update runs fn on the active tab with the lock held.
func (b *Browser) update(fn func(t *Tab) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fn(b.tabs[b.active])
}

func (b *Browser) scrollBy(dx, dy float64) {
	_ = b.update(func(t *Tab) error {
		t.Scroll.X = clamp(t.Scroll.X+dx, PageWidth-ViewportWidth)
		t.Scroll.Y = clamp(t.Scroll.Y+dy, PageHeight-ViewportHeight)
		return nil
	})
}

func clamp(v, maxV float64) float64 {
	return min(max(v, 0), maxV)
}

// selectLocked activates tab i, remembering the previous tab as the
// alternate.
func (b *Browser) selectLocked(i int) {
	if i == b.active {
		return
	}
	b.alternate = b.tabs[b.active].ID
	b.active = i
}

// resolveLocked maps a tab reference to an index. References are 1-based
// indexes, "#" for the alternate tab, or "" for the active tab.
func (b *Browser) resolveLocked(ref string) (int, error) {
	switch ref {
	case "":
		return b.active, nil
	case "#":
		for i, t := range b.tabs {
			if t.ID == b.alternate {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: #", ErrNoTab)
	}
	var n int
	if _, err := fmt.Sscanf(ref, "%d", &n); err != nil || n < 1 || n > len(b.tabs) {
		return 0, fmt.Errorf("%w: %s", ErrNoTab, ref)
	}
	return n - 1, nil
}

func (b *Browser) expand(words []string) string {
	text := strings.TrimSpace(strings.Join(words, " "))
	if query, ok := strings.CutPrefix(text, "search "); ok {
		return b.config.SearchURL + strings.ReplaceAll(strings.TrimSpace(query), " ", "+")
	}
	if strings.Contains(text, "://") || strings.HasPrefix(text, "about:") {
		return text
	}
	if !strings.Contains(text, " ") && strings.Contains(text, ".") {
		return "https://" + text
	}
	return b.config.SearchURL + strings.ReplaceAll(text, " ", "+")
}

type contextKey struct{}

// NewContext returns a context carrying b. Commands find their browser
// through the context they are dispatched with.
func NewContext(ctx context.Context, b *Browser) context.Context {
	return context.WithValue(ctx, contextKey{}, b)
}

// FromContext returns the browser carried by ctx.
func FromContext(ctx context.Context) (*Browser, error) {
	b, ok := ctx.Value(contextKey{}).(*Browser)
	if !ok || b == nil {
		return nil, ErrNoBrowser
	}
	return b, nil
}

// Register binds every browser command on d.
func Register(d *dispatcher.Dispatcher) error {
	for name, fn := range commands {
		if err := d.Bind(name, fn); err != nil {
			return fmt.Errorf("browser: bind %s: %w", name, err)
		}
	}
	return nil
}
