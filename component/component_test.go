package component

import (
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/componentstate/cache"
)

type scrollProps struct {
	Section string
	Offset  int
}

// layer renders every child in order, like a container component that knows
// nothing about state.
func layer[P any](children ...Component[P]) Component[P] {
	return func(ctx context.Context, props P, ref *Ref) error {
		for _, child := range children {
			if err := child(ctx, props, nil); err != nil {
				return err
			}
		}
		return nil
	}
}

// TestPropagation_ThreeLevelsDeep verifies sibling components deep in the tree
// share one store without threading it through intermediate layers.
func TestPropagation_ThreeLevelsDeep(t *testing.T) {
	var read any
	var found bool

	writer := WithComponentStateCache(func(ctx context.Context, p scrollProps, state cache.Accessor, ref *Ref) error {
		return state.Set("ui", "scrollY", 42)
	})
	reader := WithComponentStateCache(func(ctx context.Context, p scrollProps, state cache.Accessor, ref *Ref) error {
		read, found = state.Get("ui", "scrollY")
		return nil
	})

	tree := Provider(cache.NewStore(),
		layer(
			layer(
				layer(writer, reader),
			),
		),
	)

	if err := tree(context.Background(), scrollProps{}, nil); err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !found || read != 42 {
		t.Errorf("sibling Get() = %v, %v; want 42, true", read, found)
	}
}

type paneInstance struct {
	name string
}

// TestRefForwarding verifies a ref on an adapted component resolves to the
// inner instance, not to any wrapper.
func TestRefForwarding(t *testing.T) {
	var instance *paneInstance
	var seenRef *Ref

	pane := WithComponentStateCache(func(ctx context.Context, p scrollProps, state cache.Accessor, ref *Ref) error {
		seenRef = ref
		instance = &paneInstance{name: "pane"}
		ref.Attach(instance)
		return nil
	})
	tree := Provider(cache.NewStore(), Strict(pane))

	ref := NewRef()
	if err := tree(context.Background(), scrollProps{}, ref); err != nil {
		t.Fatal(err)
	}

	if seenRef != ref {
		t.Error("inner component should receive the caller's ref unchanged")
	}
	got, ok := RefAs[*paneInstance](ref)
	if !ok || got != instance {
		t.Errorf("ref resolves to %v, want the inner instance", ref.Current())
	}
}

func TestRef_NilSafe(t *testing.T) {
	var ref *Ref
	ref.Attach("ignored")
	if ref.Current() != nil {
		t.Error("nil ref should report nil")
	}
	if _, ok := RefAs[string](ref); ok {
		t.Error("RefAs on a nil ref should fail")
	}

	r := NewRef()
	r.Attach(1)
	if _, ok := RefAs[string](r); ok {
		t.Error("RefAs with the wrong type should fail")
	}
}

func TestProps_InjectsReservedProp(t *testing.T) {
	store := cache.NewStore()
	var received Props

	pane := WithComponentStateCache(func(ctx context.Context, p Props, state cache.Accessor, ref *Ref) error {
		received = p
		return p.State().Set("pane", "title", p["title"])
	})

	original := Props{"title": "inbox"}
	if err := Provider(store, pane)(context.Background(), original, nil); err != nil {
		t.Fatal(err)
	}

	if received["title"] != "inbox" {
		t.Errorf("props not forwarded: %v", received)
	}
	if _, ok := received[StateProp].(cache.Accessor); !ok {
		t.Errorf("%s prop missing: %v", StateProp, received)
	}
	if _, leaked := original[StateProp]; leaked {
		t.Error("caller's props must not be mutated")
	}
	if got, _ := store.Get("pane", "title"); got != "inbox" {
		t.Errorf("store Get() = %v", got)
	}
}

func TestProps_NilPropsStillInjected(t *testing.T) {
	var received Props
	pane := WithComponentStateCache(func(ctx context.Context, p Props, state cache.Accessor, ref *Ref) error {
		received = p
		return nil
	})

	if err := pane(context.Background(), nil, nil); err != nil {
		t.Fatal(err)
	}
	if !cache.IsDetached(received.State()) {
		t.Error("expected the detached accessor under StateProp")
	}
}

func TestProps_ReservedPropRejected(t *testing.T) {
	called := false
	pane := WithComponentStateCache(func(ctx context.Context, p Props, state cache.Accessor, ref *Ref) error {
		called = true
		return nil
	})

	err := Provider(cache.NewStore(), pane)(context.Background(), Props{StateProp: "mine"}, nil)
	if !errors.Is(err, ErrReservedProp) {
		t.Errorf("expected ErrReservedProp, got %v", err)
	}
	if called {
		t.Error("inner component must not render")
	}
}

func TestProps_StateWithoutInjection(t *testing.T) {
	if !cache.IsDetached(Props{}.State()) {
		t.Error("Props without StateProp should report the detached accessor")
	}
}

// TestDetached_NoProvider verifies the adapter degrades to the detached
// accessor when nothing is installed.
func TestDetached_NoProvider(t *testing.T) {
	var setErr error
	var got any
	var ok bool

	pane := WithComponentStateCache(func(ctx context.Context, p scrollProps, state cache.Accessor, ref *Ref) error {
		setErr = state.Set("ui", "scrollY", 1)
		got, ok = state.Get("ui", "scrollY")
		return nil
	})

	if err := pane(context.Background(), scrollProps{}, nil); err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !errors.Is(setErr, cache.ErrNoProvider) {
		t.Errorf("Set() = %v, want ErrNoProvider", setErr)
	}
	if ok || got != nil {
		t.Errorf("Get() = %v, %v; want nil, false", got, ok)
	}
}

func TestStrict_NoProvider(t *testing.T) {
	pane := Strict(WithComponentStateCache(func(ctx context.Context, p scrollProps, state cache.Accessor, ref *Ref) error {
		t.Error("inner component must not render")
		return nil
	}))

	if err := pane(context.Background(), scrollProps{}, nil); !errors.Is(err, cache.ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
}

func TestProvider_NestedProvidersScopeState(t *testing.T) {
	outer, inner := cache.NewStore(), cache.NewStore()

	write := WithComponentStateCache(func(ctx context.Context, p scrollProps, state cache.Accessor, ref *Ref) error {
		return state.Set(p.Section, "offset", p.Offset)
	})

	tree := Provider(outer, layer(
		write,
		Provider(inner, write),
	))
	if err := tree(context.Background(), scrollProps{Section: "pane", Offset: 7}, nil); err != nil {
		t.Fatal(err)
	}

	for name, s := range map[string]*cache.Store{"outer": outer, "inner": inner} {
		if got := s.Stats().Entries; got != 1 {
			t.Errorf("%s store entries = %d, want 1", name, got)
		}
	}
}

// TestRemount_StateSurvives verifies state written by one mount is visible to
// the next mount of the same component.
func TestRemount_StateSurvives(t *testing.T) {
	store := cache.NewStore()
	var restored int

	pane := WithComponentStateCache(func(ctx context.Context, p scrollProps, state cache.Accessor, ref *Ref) error {
		if v, ok, err := cache.Lookup[int](state, p.Section, "scrollY"); err != nil {
			return err
		} else if ok {
			restored = v
		}
		return state.Set(p.Section, "scrollY", p.Offset)
	})
	tree := Provider(store, pane)

	ctx := context.Background()
	if err := tree(ctx, scrollProps{Section: "pane", Offset: 30}, nil); err != nil {
		t.Fatal(err)
	}
	if err := tree(ctx, scrollProps{Section: "pane", Offset: 31}, nil); err != nil {
		t.Fatal(err)
	}
	if restored != 30 {
		t.Errorf("restored = %d, want 30", restored)
	}
}

func TestInnerErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	pane := WithComponentStateCache(func(ctx context.Context, p scrollProps, state cache.Accessor, ref *Ref) error {
		return boom
	})
	if err := Provider(cache.NewStore(), pane)(context.Background(), scrollProps{}, nil); !errors.Is(err, boom) {
		t.Errorf("expected inner error, got %v", err)
	}
}
