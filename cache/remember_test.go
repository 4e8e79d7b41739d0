package cache

import (
	"context"
	"errors"
	"testing"
)

type viewport struct {
	Offset int      `json:"offset"`
	Lines  []string `json:"lines"`
}

func TestLookup_Typed(t *testing.T) {
	s := NewStore()
	_ = s.Set("pane", "view", viewport{Offset: 3, Lines: []string{"a", "b"}})

	got, ok, err := Lookup[viewport](s, "pane", "view")
	if err != nil || !ok {
		t.Fatalf("Lookup() = %v, %v", ok, err)
	}
	if got.Offset != 3 || len(got.Lines) != 2 {
		t.Errorf("Lookup() = %+v", got)
	}

	miss, ok, err := Lookup[viewport](s, "pane", "missing")
	if ok || err != nil || miss.Offset != 0 {
		t.Errorf("Lookup() miss = %+v, %v, %v", miss, ok, err)
	}

	_ = s.Set("pane", "text", "not a viewport")
	if _, _, err := Lookup[viewport](s, "pane", "text"); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

// TestLookup_PreservesPointerSharing verifies a typed round trip keeps aliasing.
func TestLookup_PreservesPointerSharing(t *testing.T) {
	type pair struct {
		Left  *viewport `json:"left"`
		Right *viewport `json:"right"`
	}
	shared := &viewport{Offset: 9}

	s := NewStore()
	_ = s.Set("pane", "pair", pair{Left: shared, Right: shared})

	got, ok, err := Lookup[pair](s, "pane", "pair")
	if err != nil || !ok {
		t.Fatalf("Lookup() = %v, %v", ok, err)
	}
	if got.Left != got.Right {
		t.Error("shared pointer should decode to one value")
	}
	if got.Left == shared {
		t.Error("decoded pointer must be fresh")
	}
}

func TestRemember_ComputesOnce(t *testing.T) {
	s := NewStore()
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	for range 3 {
		v, err := Remember(s, "s", "k", compute)
		if err != nil || v != 42 {
			t.Fatalf("Remember() = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestRemember_ErrorsNotCached(t *testing.T) {
	s := NewStore()
	boom := errors.New("boom")

	if _, err := Remember(s, "s", "k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}
	if _, ok := s.Get("s", "k"); ok {
		t.Error("errors must not be cached")
	}
}

func TestRemember_RecomputesUndecodable(t *testing.T) {
	s := NewStore()
	_ = s.Set("s", "k", "text")

	v, err := Remember(s, "s", "k", func() (int, error) { return 5, nil })
	if err != nil || v != 5 {
		t.Fatalf("Remember() = %v, %v", v, err)
	}
	if got, _ := s.Get("s", "k"); got != 5 {
		t.Errorf("stale value not overwritten: %v", got)
	}
}

func TestRemember_Detached(t *testing.T) {
	acc := FromContext(context.Background())

	v, err := Remember(acc, "s", "k", func() (string, error) { return "fresh", nil })
	if v != "fresh" {
		t.Errorf("Remember() = %v; detached store should still compute", v)
	}
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("Remember() error = %v, want ErrNoProvider for the dropped write", err)
	}
}

func TestRemember_StoreFailureIgnored(t *testing.T) {
	s := NewStore(WithMaxValueBytes(8))

	v, err := Remember(s, "s", "k", func() (string, error) { return "much longer than eight bytes", nil })
	if err != nil {
		t.Errorf("Remember() error = %v; a rejected store should not fail the call", err)
	}
	if v != "much longer than eight bytes" {
		t.Errorf("Remember() = %q", v)
	}
}
