package notify

import (
	"errors"
	"sync"
	"testing"
)

func TestChangeType_String(t *testing.T) {
	tests := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeSet, "set"},
		{ChangeReload, "reload"},
		{ChangeError, "error"},
		{ChangeType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("ChangeType(%d).String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestNotifier_Subscribe(t *testing.T) {
	n := New()

	var got []Change
	n.Subscribe(func(c Change) { got = append(got, c) })

	n.NotifySet("input.default_mode", "normal", "ignore", "user")
	n.NotifyReload("/conf/settings.toml")

	if len(got) != 2 {
		t.Fatalf("received %d changes, want 2", len(got))
	}
	if got[0].Type != ChangeSet || got[0].Path != "input.default_mode" || got[0].NewValue != "ignore" {
		t.Errorf("first change = %+v", got[0])
	}
	if got[1].Type != ChangeReload || got[1].Source != "/conf/settings.toml" {
		t.Errorf("second change = %+v", got[1])
	}
}

func TestNotifier_SubscribePath(t *testing.T) {
	n := New()

	var paths []string
	n.SubscribePath("bindings", func(c Change) { paths = append(paths, c.Path) })

	n.NotifySet("bindings.normal.j", nil, "scrollline 10", "user")
	n.NotifySet("bindingsx", nil, 1, "user")
	n.NotifySet("aliases.o", nil, "open", "user")
	n.NotifySet("bindings", nil, map[string]any{}, "user")
	n.NotifyReload("file")

	want := []string{"bindings.normal.j", "bindings", ""}
	if len(paths) != len(want) {
		t.Fatalf("paths = %q, want %q", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestNotifier_NotifyError(t *testing.T) {
	n := New()
	boom := errors.New("boom")

	var got Change
	n.Subscribe(func(c Change) { got = c })
	n.NotifyError("settings.toml", boom)

	if got.Type != ChangeError || !errors.Is(got.Err, boom) {
		t.Errorf("change = %+v, want error event wrapping boom", got)
	}
}

func TestNotifier_Order(t *testing.T) {
	n := New()

	var order []int
	for i := 0; i < 5; i++ {
		n.Subscribe(func(Change) { order = append(order, i) })
	}
	n.NotifyReload("x")

	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want subscription order", order)
		}
	}
}

func TestSubscription_Unsubscribe(t *testing.T) {
	n := New()

	count := 0
	sub := n.Subscribe(func(Change) { count++ })
	n.NotifyReload("x")
	sub.Unsubscribe()
	n.NotifyReload("x")

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestNotifier_Close(t *testing.T) {
	n := New()

	count := 0
	n.Subscribe(func(Change) { count++ })
	n.Close()
	n.Close()
	n.NotifyReload("x")

	if count != 0 {
		t.Errorf("count = %d, want 0 after Close", count)
	}
}

func TestMatchesPath(t *testing.T) {
	tests := []struct {
		sub, path string
		want      bool
	}{
		{"bindings", "bindings.normal", true},
		{"bindings", "bindings", true},
		{"bindings", "bindingsx", false},
		{"bindings.normal", "bindings", false},
		{"", "anything", true},
	}
	for _, tt := range tests {
		if got := matchesPath(tt.sub, tt.path); got != tt.want {
			t.Errorf("matchesPath(%q, %q) = %v, want %v", tt.sub, tt.path, got, tt.want)
		}
	}
}

func TestNotifier_ConcurrentAccess(t *testing.T) {
	n := New()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := n.Subscribe(func(Change) {})
			sub.Unsubscribe()
		}()
		go func() {
			defer wg.Done()
			n.NotifySet("input.default_mode", nil, "normal", "user")
		}()
	}
	wg.Wait()
}
