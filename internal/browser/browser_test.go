package browser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tabstorm/internal/browser"
	"github.com/dshills/tabstorm/internal/dispatcher"
	"github.com/dshills/tabstorm/internal/input/mode"
	"github.com/dshills/tabstorm/internal/metadata"
	"github.com/dshills/tabstorm/internal/metagen"
)

type fakeModes struct {
	calls []string
}

func (f *fakeModes) SetModeName(name string) error {
	if _, err := mode.ParseName(name); err != nil {
		return err
	}
	f.calls = append(f.calls, "mode "+name)
	return nil
}

func (f *fakeModes) Gobble(n int, endCommand string) error {
	f.calls = append(f.calls, "gobble "+endCommand)
	return nil
}

func (f *fakeModes) NMode(inner mode.Name, n int, endCommand string) error {
	f.calls = append(f.calls, "nmode "+string(inner)+" "+endCommand)
	return nil
}

type harness struct {
	b     *browser.Browser
	d     *dispatcher.Dispatcher
	modes *fakeModes
	ctx   context.Context
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := browser.New(browser.DefaultConfig())
	modes := &fakeModes{}
	b.SetModeController(modes)

	program := metadata.NewProgram(append(browser.Program.Files(), dispatcher.Builtins())...)
	d := dispatcher.New(program, dispatcher.DefaultConfig())
	if err := browser.Register(d); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return &harness{b: b, d: d, modes: modes, ctx: browser.NewContext(context.Background(), b)}
}

func (h *harness) run(t *testing.T, cmds ...string) {
	t.Helper()
	for _, cmd := range cmds {
		if _, err := h.d.Dispatch(h.ctx, cmd); err != nil {
			t.Fatalf("Dispatch(%q) error = %v", cmd, err)
		}
	}
}

func (h *harness) urls() []string {
	var out []string
	for _, tab := range h.b.Tabs() {
		out = append(out, tab.URL())
	}
	return out
}

func TestProgramMatchesSource(t *testing.T) {
	c := metagen.New(metagen.DefaultConfig())
	if err := c.AddFile("commands.go", nil); err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}
	compiled, err := c.Program()
	if err != nil {
		t.Fatalf("Program() error = %v", err)
	}

	type sig struct{ Doc, Type string }
	collect := func(p *metadata.Program) map[string]sig {
		out := make(map[string]sig)
		for _, s := range p.All() {
			out[s.Qualified()] = sig{s.Entry.Doc, s.Entry.Type.String()}
		}
		return out
	}
	if diff := cmp.Diff(collect(compiled), collect(browser.Program)); diff != "" {
		t.Errorf("zz_metadata.go is stale, run go generate (-source +generated):\n%s", diff)
	}
}

func TestRegisterBindsEveryCommand(t *testing.T) {
	h := newHarness(t)
	for _, s := range browser.Program.All() {
		if !h.d.Registry().Has(s.Qualified()) {
			t.Errorf("command %s has no implementation", s.Qualified())
		}
	}
	if got, want := h.d.Registry().Count(), browser.Program.Len(); got != want {
		t.Errorf("Registry().Count() = %d, want %d", got, want)
	}
}

func TestScrolling(t *testing.T) {
	tests := []struct {
		name string
		cmds []string
		want browser.Point
	}{
		{"lines", []string{"scrollline 10"}, browser.Point{Y: 200}},
		{"default line", []string{"scrollline"}, browser.Point{Y: 20}},
		{"with count", []string{"scrollline 10 3"}, browser.Point{Y: 600}},
		{"clamped at top", []string{"scrollline -10"}, browser.Point{}},
		{"pages", []string{"scrollpage 0.5", "scrollpage"}, browser.Point{Y: 900}},
		{"pixels", []string{"scrollpx 50 10"}, browser.Point{X: 50, Y: 10}},
		{"to bottom", []string{"scrollto 100"}, browser.Point{Y: browser.PageHeight - browser.ViewportHeight}},
		{"to right edge", []string{"scrollto 100 x"}, browser.Point{X: browser.PageWidth - browser.ViewportWidth}},
		{"back to top", []string{"scrollline 5", "scrollto 0"}, browser.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.run(t, tt.cmds...)
			if got := h.b.Active().Scroll; got != tt.want {
				t.Errorf("scroll = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScrolltoRejectsBadAxis(t *testing.T) {
	h := newHarness(t)
	_, err := h.d.Dispatch(h.ctx, "scrollto 50 z")
	var ace *dispatcher.ArgumentConversionError
	if !errors.As(err, &ace) {
		t.Fatalf("error = %v, want *ArgumentConversionError", err)
	}
	if ace.Token != "z" || ace.Position != 1 {
		t.Errorf("error = %+v, want token z at 1", ace)
	}
}

func TestNavigation(t *testing.T) {
	h := newHarness(t)
	h.run(t,
		"open example.com/a/b/c?x=1",
		"urlparent",
		"open search go modules",
		"back 2",
	)
	if got := h.b.Active().URL(); got != "https://example.com/a/b/c?x=1" {
		t.Errorf("after back 2: URL = %q", got)
	}

	h.run(t, "forward")
	if got := h.b.Active().URL(); got != "https://example.com/a/b" {
		t.Errorf("after forward: URL = %q", got)
	}

	h.run(t, "forward")
	if got := h.b.Active().URL(); got != "https://duckduckgo.com/?q=go+modules" {
		t.Errorf("search URL = %q", got)
	}

	if _, err := h.d.Dispatch(h.ctx, "forward"); !errors.Is(err, browser.ErrNoHistory) {
		t.Errorf("forward at end error = %v, want ErrNoHistory", err)
	}
}

func TestURLEditing(t *testing.T) {
	h := newHarness(t)
	h.run(t, "open https://example.com/pages/page9.html#top", "urlincrement")
	if got := h.b.Active().URL(); got != "https://example.com/pages/page10.html#top" {
		t.Errorf("urlincrement: URL = %q", got)
	}
	h.run(t, "urlincrement -3")
	if got := h.b.Active().URL(); got != "https://example.com/pages/page7.html#top" {
		t.Errorf("urlincrement -3: URL = %q", got)
	}
	h.run(t, "urlroot")
	if got := h.b.Active().URL(); got != "https://example.com/" {
		t.Errorf("urlroot: URL = %q", got)
	}
}

func TestTabs(t *testing.T) {
	h := newHarness(t)
	h.run(t, "tabopen a.com", "tabopen b.com", "tabopen c.com")

	want := []string{"about:home", "https://a.com", "https://b.com", "https://c.com"}
	if diff := cmp.Diff(want, h.urls()); diff != "" {
		t.Fatalf("tabs mismatch (-want +got):\n%s", diff)
	}
	if got := h.b.ActiveIndex(); got != 3 {
		t.Errorf("ActiveIndex() = %d, want 3", got)
	}

	h.run(t, "tabnext")
	if got := h.b.ActiveIndex(); got != 0 {
		t.Errorf("tabnext wraps: ActiveIndex() = %d, want 0", got)
	}
	h.run(t, "tab #")
	if got := h.b.ActiveIndex(); got != 3 {
		t.Errorf("tab #: ActiveIndex() = %d, want 3", got)
	}

	h.run(t, "tabmove start")
	want = []string{"https://c.com", "about:home", "https://a.com", "https://b.com"}
	if diff := cmp.Diff(want, h.urls()); diff != "" {
		t.Errorf("tabmove start mismatch (-want +got):\n%s", diff)
	}
	h.run(t, "tabmove +2")
	want = []string{"about:home", "https://a.com", "https://c.com", "https://b.com"}
	if diff := cmp.Diff(want, h.urls()); diff != "" {
		t.Errorf("tabmove +2 mismatch (-want +got):\n%s", diff)
	}

	h.run(t, "tabclose", "tabclose 1")
	want = []string{"https://a.com", "https://b.com"}
	if diff := cmp.Diff(want, h.urls()); diff != "" {
		t.Errorf("tabclose mismatch (-want +got):\n%s", diff)
	}

	h.run(t, "undo")
	if got := h.b.Active().URL(); got != "about:home" {
		t.Errorf("undo restored %q, want about:home", got)
	}

	if _, err := h.d.Dispatch(h.ctx, "tab 9"); !errors.Is(err, browser.ErrNoTab) {
		t.Errorf("tab 9 error = %v, want ErrNoTab", err)
	}
}

func TestCloseLastTab(t *testing.T) {
	h := newHarness(t)
	h.run(t, "open example.com", "tabclose")
	if diff := cmp.Diff([]string{"about:home"}, h.urls()); diff != "" {
		t.Errorf("tabs mismatch (-want +got):\n%s", diff)
	}
	h.run(t, "undo")
	if got := h.b.Active().URL(); got != "https://example.com" {
		t.Errorf("undo restored %q", got)
	}
	if _, err := h.d.Dispatch(h.ctx, "composite undo"); !errors.Is(err, browser.ErrNothingClosed) {
		t.Errorf("undo error = %v, want ErrNothingClosed", err)
	}
}

func TestPinAndMute(t *testing.T) {
	h := newHarness(t)
	h.run(t, "pin", "mute")
	tab := h.b.Active()
	if !tab.Pinned || !tab.Muted {
		t.Errorf("tab = %+v, want pinned and muted", tab)
	}
	h.run(t, "mute toggle", "pin")
	tab = h.b.Active()
	if tab.Pinned || tab.Muted {
		t.Errorf("tab = %+v, want unpinned and unmuted", tab)
	}
}

func TestMarks(t *testing.T) {
	h := newHarness(t)
	h.run(t, "scrollline 3", "markadd a", "tabopen", "scrollline 7")
	h.run(t, "markjump a")
	if got := h.b.ActiveIndex(); got != 0 {
		t.Errorf("ActiveIndex() = %d, want 0", got)
	}
	if got := h.b.Active().Scroll.Y; got != 60 {
		t.Errorf("scroll = %v, want 60", got)
	}
	if _, err := h.d.Dispatch(h.ctx, "markjump z"); !errors.Is(err, browser.ErrNoMark) {
		t.Errorf("markjump z error = %v, want ErrNoMark", err)
	}
}

func TestModeCommands(t *testing.T) {
	h := newHarness(t)
	h.run(t, "mode ignore", "gobble 1 markadd", "nmode normal 1 mode ignore")
	want := []string{"mode ignore", "gobble markadd", "nmode normal mode ignore"}
	if diff := cmp.Diff(want, h.modes.calls); diff != "" {
		t.Errorf("mode calls mismatch (-want +got):\n%s", diff)
	}

	if _, err := h.d.Dispatch(h.ctx, "nmode bogus 1 mode normal"); err == nil {
		t.Error("nmode with unknown mode succeeded")
	}
}

func TestClipboardPipeline(t *testing.T) {
	h := newHarness(t)
	h.run(t, "composite echo example.org | clipboard yank", "clipboard tabopen")
	if got := h.b.Clipboard(); got != "example.org" {
		t.Errorf("Clipboard() = %q", got)
	}
	if got := h.b.Active().URL(); got != "https://example.org" {
		t.Errorf("URL = %q", got)
	}

	h.run(t, "clipboard yank")
	if got := h.b.Clipboard(); got != "https://example.org" {
		t.Errorf("yank current URL: Clipboard() = %q", got)
	}
}

func TestFillcmdline(t *testing.T) {
	h := newHarness(t)
	if got := h.d.Interpret(h.ctx, "fillcmdline open search"); got != ":open search" {
		t.Errorf("Interpret() = %q, want %q", got, ":open search")
	}
	if got := h.b.Cmdline(); got != "open search" {
		t.Errorf("Cmdline() = %q", got)
	}
}

func TestMissingBrowser(t *testing.T) {
	h := newHarness(t)
	if _, err := h.d.Dispatch(context.Background(), "reload"); !errors.Is(err, browser.ErrNoBrowser) {
		t.Errorf("error = %v, want ErrNoBrowser", err)
	}
}

func TestMissingModeController(t *testing.T) {
	h := newHarness(t)
	h.b.SetModeController(nil)
	if _, err := h.d.Dispatch(h.ctx, "mode normal"); !errors.Is(err, browser.ErrNoModes) {
		t.Errorf("error = %v, want ErrNoModes", err)
	}
}
