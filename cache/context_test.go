package cache

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jonwraymond/componentstate/observe"
)

func TestFromContext_NoProviderIsDetached(t *testing.T) {
	acc := FromContext(context.Background())

	if !IsDetached(acc) {
		t.Fatalf("expected detached accessor, got %T", acc)
	}
	if _, ok := acc.Get("s", "k"); ok {
		t.Error("detached Get() should miss")
	}
	if ok, err := acc.Load("s", "k", new(int)); ok || err != nil {
		t.Errorf("detached Load() = %v, %v", ok, err)
	}
	if acc.Remove("s", "k") || acc.RemoveSection("s") {
		t.Error("detached removals should report false")
	}
	if err := acc.Set("s", "k", 1); !errors.Is(err, ErrNoProvider) {
		t.Errorf("detached Set() = %v, want ErrNoProvider", err)
	}
}

func TestRequireFromContext(t *testing.T) {
	if _, err := RequireFromContext(context.Background()); !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}

	s := NewStore()
	acc, err := RequireFromContext(WithStore(context.Background(), s))
	if err != nil {
		t.Fatalf("RequireFromContext() error = %v", err)
	}
	_ = acc.Set("s", "k", 1)
	if got, _ := s.Get("s", "k"); got != 1 {
		t.Errorf("accessor should write through to the store, got %v", got)
	}
}

// TestWithStore_SharedByReference verifies every consumer under one provider
// sees the same store.
func TestWithStore_SharedByReference(t *testing.T) {
	ctx := WithStore(context.Background(), NewStore())

	type ctxKey struct{}
	left := context.WithValue(ctx, ctxKey{}, "left")
	right := context.WithValue(ctx, ctxKey{}, "right")

	if err := FromContext(left).Set("ui", "scrollY", 42); err != nil {
		t.Fatal(err)
	}
	got, ok := FromContext(right).Get("ui", "scrollY")
	if !ok || got != 42 {
		t.Errorf("sibling Get() = %v, %v; want 42, true", got, ok)
	}
}

func TestWithStore_NearestProviderWins(t *testing.T) {
	outer, inner := NewStore(), NewStore()
	ctx := WithStore(context.Background(), outer)
	ctx = WithStore(ctx, inner)

	_ = FromContext(ctx).Set("s", "k", "inner")

	if _, ok := outer.Get("s", "k"); ok {
		t.Error("outer store should be shadowed")
	}
	if got, _ := inner.Get("s", "k"); got != "inner" {
		t.Errorf("inner Get() = %v", got)
	}
}

func TestWithAccessor_NilShadowsProvider(t *testing.T) {
	ctx := WithStore(context.Background(), NewStore())
	ctx = WithAccessor(ctx, nil)

	if !IsDetached(FromContext(ctx)) {
		t.Error("nil accessor should detach the subtree")
	}
	if _, err := RequireFromContext(ctx); !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
}

// TestFromContext_BindsCallerContext verifies spans nest under the caller's span.
func TestFromContext_BindsCallerContext(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	mw := observe.NewMiddleware(observe.NewTracer(tracer), nil, nil)
	ctx := WithStore(context.Background(), NewStore(WithMiddleware(mw)))

	ctx, parent := tracer.Start(ctx, "render")
	_ = FromContext(ctx).Set("ui", "scrollY", 1)
	parent.End()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	set := spans[0]
	if set.Name() != "statecache.set" {
		t.Fatalf("unexpected first span %q", set.Name())
	}
	if set.Parent().SpanID() != parent.SpanContext().SpanID() {
		t.Error("store span should be a child of the caller's span")
	}
}

// plainAccessor is an Accessor that does not know how to bind.
type plainAccessor struct{ Accessor }

func TestWithAccessor_CustomAccessor(t *testing.T) {
	s := NewStore()
	ctx := WithAccessor(context.Background(), plainAccessor{s})

	acc := FromContext(ctx)
	if _, ok := acc.(plainAccessor); !ok {
		t.Fatalf("expected the installed accessor back, got %T", acc)
	}
}
