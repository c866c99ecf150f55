package completion

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tabstorm/internal/metadata"
	"github.com/dshills/tabstorm/internal/typedesc"
)

func texts(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Text)
	}
	return out
}

func TestFilter(t *testing.T) {
	candidates := []Candidate{
		{Text: "scrollline"},
		{Text: "scrollpage"},
		{Text: "scrollto"},
		{Text: "tabopen"},
		{Text: "tabclose"},
	}

	tests := []struct {
		query     string
		wantFirst string
		wantCount int
	}{
		{"tabo", "tabopen", 2},
		{"TAB", "tabopen", 2},
		{"sto", "scrollto", 1},
		{"scroll", "scrollto", 3}, // shorter candidates rank first
		{"xyz", "", 0},
		{"", "scrollline", 5},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Filter(tt.query, candidates, 0)
			if len(got) != tt.wantCount {
				t.Fatalf("Filter(%q) = %v, want %d matches", tt.query, texts(got), tt.wantCount)
			}
			if tt.wantCount > 0 && got[0].Text != tt.wantFirst {
				t.Errorf("Filter(%q) first = %q, want %q", tt.query, got[0].Text, tt.wantFirst)
			}
		})
	}
}

func TestFilterLimit(t *testing.T) {
	candidates := []Candidate{{Text: "a1"}, {Text: "a2"}, {Text: "a3"}}
	if got := Filter("a", candidates, 2); len(got) != 2 {
		t.Errorf("Filter limit 2 = %d matches", len(got))
	}
	if got := Filter("", candidates, 1); len(got) != 1 {
		t.Errorf("Filter empty query limit 1 = %d matches", len(got))
	}
}

func TestFilterPositions(t *testing.T) {
	got := Filter("sp", []Candidate{{Text: "scrollpage"}}, 0)
	if len(got) != 1 {
		t.Fatalf("Filter() = %v", texts(got))
	}
	if diff := cmp.Diff([]int{0, 6}, got[0].Positions); diff != "" {
		t.Errorf("Positions mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterKey(t *testing.T) {
	candidates := []Candidate{
		{Text: "1", Key: "about:home"},
		{Text: "2", Key: "https://example.com"},
	}
	got := Filter("exa", candidates, 0)
	if len(got) != 1 || got[0].Text != "2" {
		t.Errorf("Filter(exa) = %v, want [2]", texts(got))
	}
}

func TestScoreBoundaries(t *testing.T) {
	// "hp" hits both word starts in "hint.pipe" but not in "hopper".
	got := Filter("hp", []Candidate{{Text: "hopper"}, {Text: "hint.pipe"}}, 0)
	if len(got) != 2 || got[0].Text != "hint.pipe" {
		t.Errorf("Filter(hp) = %v, want hint.pipe first", texts(got))
	}
}

func newCompleter() *Completer {
	void := typedesc.NewVoid()
	program := metadata.NewProgram(
		metadata.NewFile("commands.go", "", nil, []*metadata.Entry{
			{Name: "mute", Doc: "Mute mutes the tab.", Type: typedesc.NewFunction(void,
				typedesc.Param{Name: "action", Optional: true, Type: typedesc.NewUnion(
					typedesc.NewLiteral("toggle"), typedesc.NewLiteral("mute"), typedesc.NewLiteral("unmute"))},
			)},
			{Name: "scrollto", Doc: "Scrollto scrolls to a percentage.", Type: typedesc.NewFunction(void,
				typedesc.Param{Name: "percent", Type: typedesc.NewNumber()},
				typedesc.Param{Name: "axis", Optional: true, Type: typedesc.NewUnion(
					typedesc.NewLiteral("x"), typedesc.NewLiteral("y"))},
			)},
			{Name: "flags", Doc: "Flags takes switches.", Type: typedesc.NewFunction(void,
				typedesc.Param{Name: "on", Variadic: true, Type: typedesc.NewArray(typedesc.NewBoolean())},
			)},
			{Name: "open", Doc: "Open opens a URL.", Type: typedesc.NewFunction(void,
				typedesc.Param{Name: "words", Variadic: true, Type: typedesc.NewArray(typedesc.NewString())},
			)},
			{Name: "tab", Doc: "Tab selects a tab.", Type: typedesc.NewFunction(void,
				typedesc.Param{Name: "ref", Type: typedesc.NewString()},
			)},
			{Name: "secret", Doc: "Secret is hidden.", Hidden: true, Type: typedesc.NewFunction(void)},
		}),
		metadata.NewFile("hint.lua", "hint", nil, []*metadata.Entry{
			{Name: "pipe", Doc: "Pipe hints.", Type: typedesc.NewFunction(void)},
		}),
	)
	c := New(program)
	c.Register("tab", func() []Candidate {
		return []Candidate{
			{Text: "1", Detail: "about:home", Key: "about:home"},
			{Text: "2", Detail: "https://example.com", Key: "https://example.com"},
		}
	})
	return c
}

func TestComplete(t *testing.T) {
	c := newCompleter()

	tests := []struct {
		line string
		want []string
	}{
		{"mu", []string{"mute"}},
		{"hint.p", []string{"hint.pipe"}},
		{"sec", nil},
		{"mute ", []string{"mute toggle", "mute mute", "mute unmute"}},
		{"mute un", []string{"mute unmute"}},
		{"scrollto ", nil},
		{"scrollto 50 ", []string{"scrollto 50 x", "scrollto 50 y"}},
		{"scrollto 50 x ", nil},
		{"flags true ", []string{"flags true true", "flags true false"}},
		{"open ", nil},
		{"tab exa", []string{"tab 2"}},
		{"tab ", []string{"tab 1", "tab 2"}},
		{"nosuch ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := texts(c.Complete(tt.line, 0))
			if diff := cmp.Diff(tt.want, got, cmpEmpty); diff != "" {
				t.Errorf("Complete(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

// cmpEmpty treats nil and empty slices as equal.
var cmpEmpty = cmp.Comparer(func(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
})

func TestCompletePositions(t *testing.T) {
	c := newCompleter()

	got := c.Complete("mute un", 0)
	if len(got) != 1 {
		t.Fatalf("Complete() = %v", texts(got))
	}
	if diff := cmp.Diff([]int{5, 6}, got[0].Positions); diff != "" {
		t.Errorf("Positions mismatch (-want +got):\n%s", diff)
	}

	// Candidates matched on their key carry no positions.
	got = c.Complete("tab exa", 0)
	if len(got) != 1 || got[0].Positions != nil {
		t.Errorf("Complete(tab exa) = %+v, want no positions", got)
	}
}
