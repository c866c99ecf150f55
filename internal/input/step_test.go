package input

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tabstorm/internal/input/key"
	"github.com/dshills/tabstorm/internal/input/keymap"
	"github.com/dshills/tabstorm/internal/input/mode"
)

type element struct {
	editable bool
}

func (e *element) Editable() bool { return e.editable }

var testSource = keymap.StaticSource{
	"normal": {
		"j":     "scrollline 10",
		"gg":    "scrollto 0",
		"G":     "scrollto 100",
		"ba":    "buffer alt",
		"<C-f>": "scrollpage 1",
		"0":     "scrollto 0 x",
		"zz":    "",
	},
	"ignore": {
		"<S-Escape>": "mode normal",
	},
}

func replayString(t *testing.T, m mode.Mode, keys string) (State, []Result) {
	t.Helper()
	s, results, err := Replay(NewState(m), key.ParseSequence(keys), testSource)
	if err != nil {
		t.Fatalf("Replay(%q) error: %v", keys, err)
	}
	return s, results
}

func lastCommand(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	return results[len(results)-1].Command
}

func TestStepResolves(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"double key", "gg", "scrollto 0"},
		{"shrink to suffix", "gj", "scrollline 10"},
		{"count", "5j", "scrollline 10 5"},
		{"multi digit count", "12j", "scrollline 10 12"},
		{"zero inside count", "10j", "scrollline 10 10"},
		{"bare zero is a binding", "0", "scrollto 0 x"},
		{"count dropped after noise", "5xj", "scrollline 10"},
		{"modified key", "<C-f>", "scrollpage 1"},
		{"noise before sequence", "qqgg", "scrollto 0"},
		{"count before double key", "3gg", "scrollto 0 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, results := replayString(t, mode.Of(mode.Normal), tt.keys)
			if got := lastCommand(results); got != tt.want {
				t.Errorf("command = %q, want %q", got, tt.want)
			}
			if len(s.Buffer) != 0 {
				t.Errorf("buffer = %q after resolve, want empty", s.Buffer.String())
			}
		})
	}
}

func TestStepPending(t *testing.T) {
	s, results := replayString(t, mode.Of(mode.Normal), "g")

	res := results[0]
	if res.Resolved() {
		t.Fatalf("Resolved() = true, want pending")
	}
	if !res.IsMatch {
		t.Error("IsMatch = false, want true for a live prefix")
	}
	if got := s.Buffer.String(); got != "g" {
		t.Errorf("buffer = %q, want %q", got, "g")
	}
	if got := s.Suffix(); got != "g" {
		t.Errorf("Suffix() = %q, want %q", got, "g")
	}
}

func TestStepCountIsNotAMatch(t *testing.T) {
	s, results := replayString(t, mode.Of(mode.Normal), "5")

	if results[0].IsMatch {
		t.Error("IsMatch = true for a bare count, want false")
	}
	if got := s.Buffer.String(); got != "5" {
		t.Errorf("buffer = %q, want %q", got, "5")
	}

	_, results = replayString(t, mode.Of(mode.Normal), "5j")
	if results[1].Count != 5 {
		t.Errorf("Count = %d, want 5", results[1].Count)
	}
}

func TestStepShrinksOneKeyAtATime(t *testing.T) {
	// "bb" is no prefix; dropping only the first "b" keeps "b" alive so
	// that "a" completes "ba".
	_, results := replayString(t, mode.Of(mode.Normal), "bba")

	if results[1].Resolved() || !results[1].IsMatch {
		t.Fatalf("after bb: %+v, want pending match", results[1])
	}
	if got := results[1].Keys.String(); got != "b" {
		t.Errorf("after bb: keys = %q, want %q", got, "b")
	}
	if got := lastCommand(results); got != "buffer alt" {
		t.Errorf("command = %q, want %q", got, "buffer alt")
	}
}

func TestParseDiscardsGarbage(t *testing.T) {
	km, err := testSource.Keymap("normal")
	if err != nil {
		t.Fatalf("Keymap error: %v", err)
	}

	res := Parse(key.ParseSequence("xyq"), km)
	if res.IsMatch || res.Resolved() {
		t.Errorf("Parse(xyq) = %+v, want no match", res)
	}
	if len(res.Keys) != 0 {
		t.Errorf("Parse(xyq) keys = %q, want empty", res.Keys.String())
	}
}

func TestStepShiftOnCharacter(t *testing.T) {
	ev := key.Event{Key: "G", Modifiers: key.ModShift}
	_, res, err := Step(NewState(mode.Of(mode.Normal)), ev, testSource)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if res.Command != "scrollto 100" {
		t.Errorf("command = %q, want %q", res.Command, "scrollto 100")
	}
}

func TestStepIgnoresBareModifiers(t *testing.T) {
	events := key.Sequence{
		key.Char('g'),
		{Key: key.KeyShift, Modifiers: key.ModShift},
		{Key: key.KeyControl, Modifiers: key.ModCtrl},
		key.Char('g'),
	}
	_, results, err := Replay(NewState(mode.Of(mode.Normal)), events, testSource)
	if err != nil {
		t.Fatalf("Replay error: %v", err)
	}
	if got := lastCommand(results); got != "scrollto 0" {
		t.Errorf("command = %q, want %q", got, "scrollto 0")
	}
}

func TestStepUnboundEntryNeverResolves(t *testing.T) {
	_, results := replayString(t, mode.Of(mode.Normal), "zz")
	for i, res := range results {
		if res.Resolved() {
			t.Errorf("result %d resolved to %q, want nothing", i, res.Command)
		}
	}
}

func TestStepConfigurationError(t *testing.T) {
	s := State{Mode: mode.Of(mode.Visual), Buffer: key.ParseSequence("g")}

	next, res, err := Step(s, key.Char('j'), testSource)

	var cfgErr *keymap.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *keymap.ConfigurationError", err)
	}
	if !errors.Is(err, keymap.ErrNoBindings) {
		t.Errorf("error = %v, want ErrNoBindings", err)
	}
	if cfgErr.Table != "vmaps" {
		t.Errorf("Table = %q, want %q", cfgErr.Table, "vmaps")
	}
	if next.Mode.Name != mode.Visual {
		t.Errorf("mode = %s, want visual", next.Mode)
	}
	if len(next.Buffer) != 0 || res.Resolved() {
		t.Errorf("buffer = %q, result = %+v, want cleared", next.Buffer.String(), res)
	}
	if s.Buffer.String() != "g" {
		t.Errorf("input state modified: buffer = %q", s.Buffer.String())
	}
}

func TestStepFocusSwitchesMode(t *testing.T) {
	src := keymap.StaticSource{
		"normal": {"j": "scrollline 10"},
		"insert": {"<C-i>": "editor"},
		"input":  {"<Tab>": "focusinput -n"},
	}
	field := &element{editable: true}
	body := &element{editable: false}

	tests := []struct {
		name   string
		from   mode.Name
		target key.Element
		want   mode.Name
	}{
		{"normal to insert", mode.Normal, field, mode.Insert},
		{"insert to normal", mode.Insert, body, mode.Normal},
		{"insert stays", mode.Insert, field, mode.Insert},
		{"input stays in field", mode.Input, field, mode.Input},
		{"input leaves field", mode.Input, body, mode.Normal},
		{"ignore is exempt", mode.Ignore, field, mode.Ignore},
		{"nil target", mode.Normal, nil, mode.Normal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := key.Char('x').WithTarget(tt.target)
			next, _, _ := Step(NewState(mode.Of(tt.from)), ev, src)
			if next.Mode.Name != tt.want {
				t.Errorf("mode = %s, want %s", next.Mode.Name, tt.want)
			}
		})
	}
}

func TestStepTranslation(t *testing.T) {
	r := keymap.NewRegistry()
	if err := r.Register(keymap.FromMap("nmaps", map[string]string{"j": "scrollline 10"})); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := r.SetTranslation(key.TranslateMap{"о": "j"}, "nmaps"); err != nil {
		t.Fatalf("SetTranslation error: %v", err)
	}

	_, res, err := Step(NewState(mode.Of(mode.Normal)), key.Char('о'), r)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if res.Command != "scrollline 10" {
		t.Errorf("command = %q, want %q", res.Command, "scrollline 10")
	}
}

func TestStepGobble(t *testing.T) {
	m, err := mode.NewGobble(2, "markadd")
	if err != nil {
		t.Fatalf("NewGobble error: %v", err)
	}

	events := key.Sequence{
		key.Char('a'),
		{Key: key.KeyShift, Modifiers: key.ModShift},
		{Key: "B", Modifiers: key.ModShift},
	}
	s, results, err := Replay(NewState(m), events, testSource)
	if err != nil {
		t.Fatalf("Replay error: %v", err)
	}

	if results[0].Resolved() || !results[0].IsMatch {
		t.Errorf("first char: %+v, want consumed and pending", results[0])
	}
	if got := lastCommand(results); got != "markadd aB" {
		t.Errorf("command = %q, want %q", got, "markadd aB")
	}
	if s.Mode.Name != mode.Normal {
		t.Errorf("mode = %s, want normal", s.Mode)
	}
}

func TestStepGobbleEscape(t *testing.T) {
	m, _ := mode.NewGobble(3, "markadd")
	s, res, err := Step(NewState(m), key.Event{Key: key.KeyEscape}, testSource)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if res.Resolved() {
		t.Errorf("command = %q, want none", res.Command)
	}
	if s.Mode.Name != mode.Normal {
		t.Errorf("mode = %s, want normal", s.Mode)
	}
}

func TestStepNMode(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		keys     string
		want     string
		wantMode mode.Name
	}{
		{"one command", 1, "j", "composite scrollline 10; mode ignore", mode.Normal},
		{"garbage counts", 1, "x", "mode ignore", mode.Normal},
		{"pending does not count", 1, "g", "", mode.NMode},
		{"two commands", 2, "jgg", "composite scrollto 0; mode ignore", mode.Normal},
		{"escape ends", 3, "<Esc>", "mode ignore", mode.Normal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := mode.NewNMode(mode.Normal, tt.count, "mode ignore")
			if err != nil {
				t.Fatalf("NewNMode error: %v", err)
			}
			s, results := replayString(t, m, tt.keys)
			if got := lastCommand(results); got != tt.want {
				t.Errorf("command = %q, want %q", got, tt.want)
			}
			if s.Mode.Name != tt.wantMode {
				t.Errorf("mode = %s, want %s", s.Mode, tt.wantMode)
			}
		})
	}
}

func TestStepNModeInnerTable(t *testing.T) {
	m, _ := mode.NewNMode(mode.Ignore, 1, "mode normal")
	_, res, err := Step(NewState(m), key.Char('j'), testSource)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	// "j" is unbound in ignoremaps, so it counts as a finished command.
	if res.Command != "mode normal" {
		t.Errorf("command = %q, want %q", res.Command, "mode normal")
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	events := key.ParseSequence("q5gxjgg<C-f>3")
	start := NewState(mode.Of(mode.Normal))

	s1, r1, err1 := Replay(start, events, testSource)
	s2, r2, err2 := Replay(start, events, testSource)

	if err1 != nil || err2 != nil {
		t.Fatalf("Replay errors: %v, %v", err1, err2)
	}
	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Errorf("results differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(s1, s2); diff != "" {
		t.Errorf("states differ (-first +second):\n%s", diff)
	}
}

func TestStepDoesNotAliasBuffer(t *testing.T) {
	s := State{Mode: mode.Of(mode.Normal), Buffer: make(key.Sequence, 1, 8)}
	s.Buffer[0] = key.Char('g')

	a, _, _ := Step(s, key.Char('x'), testSource)
	b, _, _ := Step(s, key.Char('g'), testSource)

	if got := s.Buffer.String(); got != "g" {
		t.Errorf("original buffer = %q, want %q", got, "g")
	}
	if len(a.Buffer) != 0 {
		t.Errorf("after gx buffer = %q, want empty", a.Buffer.String())
	}
	if len(b.Buffer) != 0 {
		t.Errorf("after gg buffer = %q, want empty", b.Buffer.String())
	}
}
