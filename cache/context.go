package cache

import (
	"context"
)

// Context keys for state cache values.
type contextKey int

const (
	accessorKey contextKey = iota
)

// binder is implemented by accessors that can run under a caller's context.
type binder interface {
	Bind(ctx context.Context) Accessor
}

// WithAccessor returns a new context carrying acc for every descendant.
// A nil acc shadows any provider above it with the detached accessor.
func WithAccessor(ctx context.Context, acc Accessor) context.Context {
	if acc == nil {
		acc = Detached()
	}
	return context.WithValue(ctx, accessorKey, acc)
}

// WithStore returns a new context in which s is the state provider.
func WithStore(ctx context.Context, s *Store) context.Context {
	if s == nil {
		return WithAccessor(ctx, nil)
	}
	return WithAccessor(ctx, s)
}

// FromContext returns the nearest accessor installed on ctx, bound to ctx.
// Without a provider it returns Detached().
func FromContext(ctx context.Context) Accessor {
	acc, ok := lookupAccessor(ctx)
	if !ok {
		return Detached()
	}
	return acc
}

// RequireFromContext is FromContext for callers that treat a missing
// provider as misconfiguration. It returns ErrNoProvider instead of the
// detached accessor.
func RequireFromContext(ctx context.Context) (Accessor, error) {
	acc, ok := lookupAccessor(ctx)
	if !ok {
		return nil, ErrNoProvider
	}
	return acc, nil
}

func lookupAccessor(ctx context.Context) (Accessor, bool) {
	if ctx == nil {
		return nil, false
	}
	acc, ok := ctx.Value(accessorKey).(Accessor)
	if !ok {
		return nil, false
	}
	if _, detached := acc.(detachedAccessor); detached {
		return nil, false
	}
	if b, ok := acc.(binder); ok {
		return b.Bind(ctx), true
	}
	return acc, true
}
