package key

import (
	"errors"
	"testing"
)

func TestParseSequencePlainCharacters(t *testing.T) {
	seq := ParseSequence("gg")
	if len(seq) != 2 {
		t.Fatalf("ParseSequence(gg) len = %d, want 2", len(seq))
	}
	for i, e := range seq {
		if e.Key != "g" || e.Modifiers != ModNone {
			t.Errorf("seq[%d] = %#v, want plain g", i, e)
		}
	}
}

func TestParseSequenceBracketExpressions(t *testing.T) {
	tests := []struct {
		spec    string
		wantKey Key
		wantMod Modifier
	}{
		{"<C-f>", "f", ModCtrl},
		{"<c-f>", "f", ModCtrl},
		{"<A-p>", "p", ModAlt},
		{"<CA-Escape>", KeyEscape, ModCtrl | ModAlt},
		{"<S-Insert>", KeyInsert, ModShift},
		{"<M-x>", "x", ModMeta},
		{"<C-[>", "[", ModCtrl},
		{"<F1>", KeyF1, ModNone},
		{"<Escape>", KeyEscape, ModNone},
		{"<escape>", KeyEscape, ModNone},
		{"<Esc>", KeyEscape, ModNone},
		{"<CR>", KeyEnter, ModNone},
		{"<Return>", KeyEnter, ModNone},
		{"<Space>", KeySpace, ModNone},
		{"<Bar>", "|", ModNone},
		{"<lt>", "<", ModNone},
		{"<BS>", KeyBackspace, ModNone},
		{"<Del>", KeyDelete, ModNone},
		{"<C-<>", "<", ModCtrl},
		{"<C->>", ">", ModCtrl},
		{"<C-->", "-", ModCtrl},
		{"<Up>", KeyUp, ModNone},
		{"<S-Tab>", KeyTab, ModShift},
	}

	for _, tt := range tests {
		seq := ParseSequence(tt.spec)
		if len(seq) != 1 {
			t.Errorf("ParseSequence(%q) len = %d, want 1", tt.spec, len(seq))
			continue
		}
		if seq[0].Key != tt.wantKey {
			t.Errorf("ParseSequence(%q) key = %q, want %q", tt.spec, seq[0].Key, tt.wantKey)
		}
		if seq[0].Modifiers != tt.wantMod {
			t.Errorf("ParseSequence(%q) modifiers = %v, want %v", tt.spec, seq[0].Modifiers, tt.wantMod)
		}
	}
}

func TestParseSequenceLiteralAngle(t *testing.T) {
	tests := []struct {
		spec string
		want []Key
	}{
		{"<", []Key{"<"}},
		{"<a", []Key{"<", "a"}},
		{"<>", []Key{"<", ">"}},
		{"< x>", []Key{"<", " ", "x", ">"}},
		{"a<C-x", []Key{"a", "<", "C", "-", "x"}},
	}

	for _, tt := range tests {
		seq := ParseSequence(tt.spec)
		if len(seq) != len(tt.want) {
			t.Errorf("ParseSequence(%q) len = %d, want %d", tt.spec, len(seq), len(tt.want))
			continue
		}
		for i, k := range tt.want {
			if seq[i].Key != k {
				t.Errorf("ParseSequence(%q)[%d] = %q, want %q", tt.spec, i, seq[i].Key, k)
			}
		}
	}
}

func TestParseSequenceMixed(t *testing.T) {
	seq := ParseSequence("<C-w>v;<Space>x")
	want := []string{"<C-w>", "v", ";", "<Space>", "x"}
	if len(seq) != len(want) {
		t.Fatalf("len = %d, want %d", len(seq), len(want))
	}
	for i, w := range want {
		if got := seq[i].String(); got != w {
			t.Errorf("seq[%d].String() = %q, want %q", i, got, w)
		}
	}
}

func TestParse(t *testing.T) {
	ev, err := Parse("<C-s>")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if ev.Key != "s" || !ev.Modifiers.HasCtrl() {
		t.Errorf("Parse(<C-s>) = %#v", ev)
	}

	if _, err := Parse(""); !errors.Is(err, ErrEmptySpec) {
		t.Errorf("Parse(\"\") error = %v, want ErrEmptySpec", err)
	}
	if _, err := Parse("gg"); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("Parse(gg) error = %v, want ErrInvalidSpec", err)
	}
}

func TestNormalizeSpec(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"gg", "gg"},
		{"<c-F>", "<C-F>"},
		{"<ca-escape>", "<AC-Escape>"},
		{"<space>", "<Space>"},
		{"<lt>", "<lt>"},
		{"<S-j>", "j"},
		{"<bar>", "|"},
		{"<CR>", "<Enter>"},
	}

	for _, tt := range tests {
		if got := NormalizeSpec(tt.spec); got != tt.want {
			t.Errorf("NormalizeSpec(%q) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	specs := []string{"gg", "<C-f>", "<AC-Escape>", "<Space>", "<lt>", "<C-<>", "<S-Tab>", "<F12>"}
	for _, spec := range specs {
		seq := ParseSequence(spec)
		again := ParseSequence(seq.String())
		if !seq.Equals(again) {
			t.Errorf("round trip %q -> %q changed sequence", spec, seq.String())
		}
	}
}
