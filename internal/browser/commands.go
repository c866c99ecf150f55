package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/tabstorm/internal/input/mode"
)

// Axis selects a scroll axis.
type Axis string

const (
	AxisY Axis = "y"
	AxisX Axis = "x"
)

// MuteAction selects what mute does.
type MuteAction string

const (
	MuteToggle MuteAction = "toggle"
	MuteOn     MuteAction = "mute"
	MuteOff    MuteAction = "unmute"
)

// ClipboardAction selects what clipboard does.
type ClipboardAction string

const (
	ClipboardYank    ClipboardAction = "yank"
	ClipboardOpen    ClipboardAction = "open"
	ClipboardTabopen ClipboardAction = "tabopen"
)

var commands = map[string]any{
	"scrollline":   Scrollline,
	"scrollpx":     Scrollpx,
	"scrollto":     Scrollto,
	"scrollpage":   Scrollpage,
	"back":         Back,
	"forward":      Forward,
	"reload":       Reload,
	"open":         Open,
	"tabopen":      Tabopen,
	"home":         Home,
	"urlparent":    Urlparent,
	"urlroot":      Urlroot,
	"urlincrement": Urlincrement,
	"tab":          SelectTab,
	"tabclose":     Tabclose,
	"undo":         Undo,
	"tabnext":      Tabnext,
	"tabprev":      Tabprev,
	"tabfirst":     Tabfirst,
	"tablast":      Tablast,
	"tabmove":      Tabmove,
	"pin":          Pin,
	"mute":         Mute,
	"mode":         SetMode,
	"gobble":       Gobble,
	"nmode":        NMode,
	"markadd":      Markadd,
	"markjump":     Markjump,
	"clipboard":    Clipboard,
	"fillcmdline":  Fillcmdline,
	"echo":         Echo,
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Scrollline scrolls the page by n lines count times, down for positive n.
// @name scrollline
func Scrollline(ctx context.Context, n *int, count *int) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.scrollBy(0, float64(deref(n, 1)*deref(count, 1)*LineHeight))
	return nil
}

// Scrollpx scrolls the page by dx and dy pixels.
// @name scrollpx
func Scrollpx(ctx context.Context, dx float64, dy *float64) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.scrollBy(dx, deref(dy, 0))
	return nil
}

// Scrollto scrolls to a percentage of the page along an axis, vertical by
// default.
// @name scrollto
func Scrollto(ctx context.Context, percent float64, axis *Axis) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	p := min(max(percent, 0), 100) / 100
	return b.update(func(t *Tab) error {
		if deref(axis, AxisY) == AxisX {
			t.Scroll.X = p * (PageWidth - ViewportWidth)
		} else {
			t.Scroll.Y = p * (PageHeight - ViewportHeight)
		}
		return nil
	})
}

// Scrollpage scrolls by n viewport heights.
// @name scrollpage
func Scrollpage(ctx context.Context, n *float64) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.scrollBy(0, deref(n, 1)*ViewportHeight)
	return nil
}

func step(ctx context.Context, n int) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return b.update(func(t *Tab) error {
		pos := t.pos + n
		if pos < 0 || pos >= len(t.history) {
			return ErrNoHistory
		}
		t.pos = pos
		t.Scroll = Point{}
		t.Loads++
		return nil
	})
}

// Back goes n pages back in the tab history.
// @name back
func Back(ctx context.Context, n *int) error {
	return step(ctx, -deref(n, 1))
}

// Forward goes n pages forward in the tab history.
// @name forward
func Forward(ctx context.Context, n *int) error {
	return step(ctx, deref(n, 1))
}

// Reload reloads the current page.
// @name reload
func Reload(ctx context.Context) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return b.update(func(t *Tab) error {
		t.Loads++
		return nil
	})
}

// Open loads a URL or search query in the current tab.
//
// Words that do not form a URL are searched for; "search" forces a search.
// @name open
func Open(ctx context.Context, words ...string) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return errors.New("open: no URL given")
	}
	target := b.expand(words)
	b.logger.Debug("open %s", target)
	return b.update(func(t *Tab) error {
		t.navigate(target)
		return nil
	})
}

// Tabopen opens a URL or search query in a new tab after the current one.
// Without arguments the home page is opened.
// @name tabopen
func Tabopen(ctx context.Context, words ...string) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	target := b.config.Home
	if len(words) > 0 {
		target = b.expand(words)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.openTabLocked(target)
	return nil
}

func (b *Browser) openTabLocked(target string) {
	b.logger.Debug("tabopen %s", target)
	i := b.active + 1
	b.tabs = append(b.tabs[:i], append([]*Tab{b.newTab(target)}, b.tabs[i:]...)...)
	b.selectLocked(i)
}

// Home opens the home page, in a new tab if newTab is true.
// @name home
func Home(ctx context.Context, newTab *bool) error {
	if deref(newTab, false) {
		return Tabopen(ctx)
	}
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return b.update(func(t *Tab) error {
		t.navigate(b.config.Home)
		return nil
	})
}

func editURL(ctx context.Context, fn func(u *url.URL) error) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return b.update(func(t *Tab) error {
		u, err := url.Parse(t.URL())
		if err != nil {
			return fmt.Errorf("parse %s: %w", t.URL(), err)
		}
		if err := fn(u); err != nil {
			return err
		}
		t.navigate(u.String())
		return nil
	})
}

// Urlparent goes up n levels of the URL path.
// @name urlparent
func Urlparent(ctx context.Context, n *int) error {
	return editURL(ctx, func(u *url.URL) error {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if u.Path == "" || u.Path == "/" {
			segments = nil
		}
		keep := max(len(segments)-deref(n, 1), 0)
		u.Path = "/" + strings.Join(segments[:keep], "/")
		u.RawQuery, u.Fragment = "", ""
		return nil
	})
}

// Urlroot goes to the root of the current site.
// @name urlroot
func Urlroot(ctx context.Context) error {
	return editURL(ctx, func(u *url.URL) error {
		u.Path, u.RawQuery, u.Fragment = "/", "", ""
		return nil
	})
}

var lastNumber = regexp.MustCompile(`(\d+)(\D*)$`)

// Urlincrement adds n to the last number in the URL.
// @name urlincrement
func Urlincrement(ctx context.Context, n *int) error {
	return editURL(ctx, func(u *url.URL) error {
		s := u.String()
		m := lastNumber.FindStringSubmatchIndex(s)
		if m == nil {
			return fmt.Errorf("urlincrement: no number in %s", s)
		}
		v, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil {
			return err
		}
		next, err := url.Parse(s[:m[2]] + strconv.Itoa(max(v+deref(n, 1), 0)) + s[m[3]:])
		if err != nil {
			return err
		}
		*u = *next
		return nil
	})
}

// SelectTab activates a tab by 1-based index, or "#" for the previously
// active tab.
// @name tab
func SelectTab(ctx context.Context, ref string) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i, err := b.resolveLocked(ref)
	if err != nil {
		return err
	}
	b.selectLocked(i)
	return nil
}

// Tabclose closes a tab, the current one by default. Closing the last tab
// leaves a fresh home tab.
// @name tabclose
func Tabclose(ctx context.Context, ref *string) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	i, err := b.resolveLocked(deref(ref, ""))
	if err != nil {
		return err
	}
	b.closed = append(b.closed, b.tabs[i])
	b.tabs = append(b.tabs[:i], b.tabs[i+1:]...)

	switch {
	case len(b.tabs) == 0:
		b.tabs = []*Tab{b.newTab(b.config.Home)}
		b.active = 0
	case i < b.active:
		b.active--
	case i == b.active:
		b.active = min(i, len(b.tabs)-1)
	}
	return nil
}

// Undo reopens the most recently closed tab.
// @name undo
func Undo(ctx context.Context) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.closed) == 0 {
		return ErrNothingClosed
	}
	t := b.closed[len(b.closed)-1]
	b.closed = b.closed[:len(b.closed)-1]

	i := b.active + 1
	b.tabs = append(b.tabs[:i], append([]*Tab{t}, b.tabs[i:]...)...)
	b.selectLocked(i)
	return nil
}

func cycle(ctx context.Context, n int) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	count := len(b.tabs)
	b.selectLocked(((b.active+n)%count + count) % count)
	return nil
}

// Tabnext activates the tab n places to the right, wrapping around.
// @name tabnext
func Tabnext(ctx context.Context, n *int) error {
	return cycle(ctx, deref(n, 1))
}

// Tabprev activates the tab n places to the left, wrapping around.
// @name tabprev
func Tabprev(ctx context.Context, n *int) error {
	return cycle(ctx, -deref(n, 1))
}

// Tabfirst activates the first tab.
// @name tabfirst
func Tabfirst(ctx context.Context) error {
	return SelectTab(ctx, "1")
}

// Tablast activates the last tab.
// @name tablast
func Tablast(ctx context.Context) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selectLocked(len(b.tabs) - 1)
	return nil
}

// Tabmove moves the current tab. "+n" and "-n" move it relative to its
// position, "n" to the 1-based index n, "start" and "end" to either end.
// @name tabmove
func Tabmove(ctx context.Context, pos string) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	last := len(b.tabs) - 1
	var to int
	switch {
	case pos == "start":
		to = 0
	case pos == "end":
		to = last
	default:
		n, err := strconv.Atoi(pos)
		if err != nil {
			return fmt.Errorf("tabmove: bad position %q", pos)
		}
		if strings.HasPrefix(pos, "+") || strings.HasPrefix(pos, "-") {
			to = b.active + n
		} else {
			to = n - 1
		}
	}
	to = min(max(to, 0), last)

	t := b.tabs[b.active]
	b.tabs = append(b.tabs[:b.active], b.tabs[b.active+1:]...)
	b.tabs = append(b.tabs[:to], append([]*Tab{t}, b.tabs[to:]...)...)
	b.active = to
	return nil
}

// Pin toggles whether the current tab is pinned.
// @name pin
func Pin(ctx context.Context) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return b.update(func(t *Tab) error {
		t.Pinned = !t.Pinned
		return nil
	})
}

// Mute mutes, unmutes or toggles the sound of the current tab.
// @name mute
func Mute(ctx context.Context, action *MuteAction) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return b.update(func(t *Tab) error {
		switch deref(action, MuteOn) {
		case MuteOn:
			t.Muted = true
		case MuteOff:
			t.Muted = false
		default:
			t.Muted = !t.Muted
		}
		return nil
	})
}

func modes(ctx context.Context) (ModeController, error) {
	b, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.modes == nil {
		return nil, ErrNoModes
	}
	return b.modes, nil
}

// SetMode switches the interpreter to a mode.
// @name mode
func SetMode(ctx context.Context, name string) error {
	m, err := modes(ctx)
	if err != nil {
		return err
	}
	return m.SetModeName(name)
}

// Gobble reads the next n characters and appends them to cmd, which is
// then run.
// @name gobble
func Gobble(ctx context.Context, n int, cmd ...string) error {
	m, err := modes(ctx)
	if err != nil {
		return err
	}
	return m.Gobble(n, strings.Join(cmd, " "))
}

// NMode runs the next n commands in mode name, then runs cmd.
// @name nmode
func NMode(ctx context.Context, name string, n int, cmd ...string) error {
	m, err := modes(ctx)
	if err != nil {
		return err
	}
	inner, err := mode.ParseName(name)
	if err != nil {
		return err
	}
	return m.NMode(inner, n, strings.Join(cmd, " "))
}

// Markadd records the current tab and scroll position under key.
// @name markadd
func Markadd(ctx context.Context, key string) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.tabs[b.active]
	b.marks[key] = mark{tab: t.ID, url: t.URL(), at: t.Scroll}
	return nil
}

// Markjump returns to the position recorded under key, switching tabs if
// needed.
// @name markjump
func Markjump(ctx context.Context, key string) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.marks[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoMark, key)
	}
	for i, t := range b.tabs {
		if t.ID != m.tab {
			continue
		}
		b.selectLocked(i)
		if t.URL() != m.url {
			t.navigate(m.url)
		}
		t.Scroll = m.at
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNoTab, key)
}

// Clipboard copies text, or the current URL, to the clipboard, or opens
// the clipboard contents.
// @name clipboard
func Clipboard(ctx context.Context, action ClipboardAction, text ...string) error {
	b, err := FromContext(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch action {
	case ClipboardYank:
		if len(text) > 0 {
			b.clipboard = strings.Join(text, " ")
		} else {
			b.clipboard = b.tabs[b.active].URL()
		}
	case ClipboardOpen, ClipboardTabopen:
		if b.clipboard == "" {
			return errors.New("clipboard: empty")
		}
		target := b.expand([]string{b.clipboard})
		if action == ClipboardTabopen {
			b.openTabLocked(target)
		} else {
			b.tabs[b.active].navigate(target)
		}
	}
	return nil
}

// Fillcmdline places text on the command line and returns it.
// @name fillcmdline
func Fillcmdline(ctx context.Context, words ...string) (string, error) {
	b, err := FromContext(ctx)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cmdline = strings.Join(words, " ")
	return ":" + b.cmdline, nil
}

// Echo returns its arguments joined by spaces.
// @name echo
func Echo(words ...string) string {
	return strings.Join(words, " ")
}
