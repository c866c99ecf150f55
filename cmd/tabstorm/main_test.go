package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tabstorm/internal/metadata"
	"github.com/dshills/tabstorm/internal/term"
	"github.com/dshills/tabstorm/internal/typedesc"
)

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExec(t *testing.T) {
	out := run(t, "--no-config", "exec", "tabopen example.com", "scrollline 10", "echo hi there")

	want := "hi there\n[2/2] https://example.com 3%\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestExecReportsErrors(t *testing.T) {
	out := run(t, "--no-config", "exec", "--stats", "scrollline x", "nosuchcommand", "scrollline 1", "tabclose 9")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("output = %q, want 7 lines", out)
	}
	if !strings.Contains(lines[0], `"x"`) {
		t.Errorf("conversion error = %q, want the bad token", lines[0])
	}
	if !strings.Contains(lines[1], "nosuchcommand") {
		t.Errorf("lookup error = %q, want the command name", lines[1])
	}
	if !strings.Contains(lines[2], "9") {
		t.Errorf("command error = %q, want the tab reference", lines[2])
	}
	// Only delivered calls are measured.
	if !strings.HasPrefix(lines[4], "2 dispatches, 1 errors, 0 panics") {
		t.Errorf("stats = %q", lines[4])
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[5]), "scrollline") || !strings.Contains(lines[6], "1 errors") {
		t.Errorf("per-command stats = %q", lines[5:])
	}
}

func TestKeys(t *testing.T) {
	out := run(t, "--no-config", "keys", "3j")

	if !strings.HasPrefix(out, "scrollline 10 3\n") {
		t.Errorf("output = %q, want the counted command first", out)
	}
	if !strings.HasSuffix(out, "[1/1] about:home 11%\n") {
		t.Errorf("output = %q, want scrolled status", out)
	}
}

func TestKeysGobble(t *testing.T) {
	out := run(t, "--no-config", "keys", "ma")

	for _, want := range []string{
		"gobble 1 markadd\n",
		"mode normal -> gobble(1, markadd)\n",
		"markadd a\n",
		"-> normal\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q, missing %q", out, want)
		}
	}
}

func TestKeysPending(t *testing.T) {
	out := run(t, "--no-config", "keys", "2g")

	if !strings.Contains(out, "pending 2g\n") {
		t.Errorf("output = %q, want pending keys", out)
	}
}

func TestKeysList(t *testing.T) {
	out := run(t, "--no-config", "keys", "--list", "g")

	if !strings.Contains(out, "scrollto 0") || !strings.Contains(out, "Scroll to top") {
		t.Errorf("listing = %q, want the gg binding", out)
	}
	if strings.Contains(out, "scrollline") {
		t.Errorf("listing = %q, includes bindings outside the prefix", out)
	}
}

func TestKeysConfiguredBinding(t *testing.T) {
	path := writeFile(t, "settings.toml", "[bindings.normal]\nj = \"scrollline 2\"\n")

	out := run(t, "--config", path, "keys", "j")
	if !strings.HasPrefix(out, "scrollline 2\n") {
		t.Errorf("output = %q, want the configured binding", out)
	}
}

func TestKeysBadMode(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--no-config", "keys", "--mode", "nosuchmode", "j"})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("keys --mode nosuchmode succeeded")
	}
}

func TestCommands(t *testing.T) {
	out := run(t, "--no-config", "commands", "tab*")

	for _, want := range []string{"tabopen ...words", "tabclose ref?", "tabmove pos"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing = %q, missing %q", out, want)
		}
	}
	if strings.Contains(out, "scrollline") {
		t.Errorf("listing = %q, includes commands outside the pattern", out)
	}
}

const hintScript = `
hint = {}
function hint.pipe(selectors, n)
	return selectors .. ":" .. tostring(n or 1)
end
`

func TestScriptNamespace(t *testing.T) {
	manifest, err := metadata.MarshalManifest(metadata.NewFile("hint.lua", "hint", nil, []*metadata.Entry{{
		Name: "pipe",
		Doc:  "Pipe joins selectors and a count.",
		Type: typedesc.NewFunction(typedesc.NewString(),
			typedesc.Param{Name: "selectors", Type: typedesc.NewString()},
			typedesc.Param{Name: "n", Type: typedesc.NewNumber(), Optional: true},
		),
	}}))
	if err != nil {
		t.Fatal(err)
	}
	manifestPath := writeFile(t, "hint.json", string(manifest))
	scriptPath := writeFile(t, "hint.lua", hintScript)

	args := []string{"--no-config", "--manifest", manifestPath, "--script", "hint=" + scriptPath}
	if out := run(t, append(args, "exec", "hint.pipe a 3")...); !strings.HasPrefix(out, "a:3\n") {
		t.Errorf("exec output = %q, want a:3", out)
	}
	if out := run(t, append(args, "commands", "hint.*")...); !strings.Contains(out, "hint.pipe selectors n?") {
		t.Errorf("commands output = %q, want hint.pipe", out)
	}
}

func TestBadScriptSpec(t *testing.T) {
	_, err := newSession(context.Background(), &options{noConfig: true, scripts: []string{"hint"}}, io.Discard)
	if err == nil {
		t.Error("newSession() accepted a script without a namespace")
	}
}

func TestRunTerminal(t *testing.T) {
	s, err := newSession(context.Background(), &options{noConfig: true}, io.Discard)
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	defer s.Close()

	screen := tcell.NewSimulationScreen("UTF-8")
	tm := term.NewTerminalWithScreen(screen)
	if err := tm.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer tm.Shutdown()
	screen.SetSize(60, 4)

	screen.InjectKey(tcell.KeyRune, 'j', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 't', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'g', tcell.ModNone)
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	if err := s.runTerminal(context.Background(), tm); err != nil {
		t.Fatalf("runTerminal() error = %v", err)
	}

	if y := s.browser.Active().Scroll.Y; y != 200 {
		t.Errorf("scroll = %v, want 200", y)
	}
	if got := s.browser.Cmdline(); got != "tabopen" {
		t.Errorf("command line = %q, want tabopen", got)
	}
	if got := s.status(); !strings.HasPrefix(got, "g  [1/1] about:home") {
		t.Errorf("status = %q, want pending g before the browser state", got)
	}
}

func TestComplete(t *testing.T) {
	if out := run(t, "--no-config", "complete", "mute t"); !strings.HasPrefix(out, "mute toggle") {
		t.Errorf("complete output = %q, want mute toggle first", out)
	}

	out := run(t, "--no-config", "complete", "--run", "tabopen example.com", "tab exa")
	if !strings.HasPrefix(out, "tab 2") || !strings.Contains(out, "https://example.com") {
		t.Errorf("complete output = %q, want tab 2 with its URL", out)
	}
}
