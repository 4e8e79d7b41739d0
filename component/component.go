package component

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/jonwraymond/componentstate/cache"
)

// StateProp is the reserved property name that carries the accessor for
// Props-based components.
const StateProp = "componentstate"

// ErrReservedProp indicates a caller passed StateProp explicitly.
var ErrReservedProp = errors.New("component: " + StateProp + " is a reserved prop")

// Component renders with its parent's context.
type Component[P any] func(ctx context.Context, props P, ref *Ref) error

// Stateful is a component that also receives the state accessor.
type Stateful[P any] func(ctx context.Context, props P, state cache.Accessor, ref *Ref) error

// Props is a dynamic property bag.
type Props map[string]any

// State returns the accessor injected under StateProp, or the detached
// accessor when there is none.
func (p Props) State() cache.Accessor {
	if acc, ok := p[StateProp].(cache.Accessor); ok {
		return acc
	}
	return cache.Detached()
}

// WithComponentStateCache adapts inner into a Component. Each render resolves
// the nearest accessor from ctx and calls inner with the same props and the
// same ref. When P is Props, inner receives a copy with the accessor stored
// under StateProp; supplying StateProp yourself fails with ErrReservedProp.
//
// Without a Provider above it inner receives cache.Detached(). Wrap the
// result in Strict to reject that instead.
func WithComponentStateCache[P any](inner Stateful[P]) Component[P] {
	return func(ctx context.Context, props P, ref *Ref) error {
		state := cache.FromContext(ctx)

		if p, ok := any(props).(Props); ok {
			if _, reserved := p[StateProp]; reserved {
				return ErrReservedProp
			}
			injected := maps.Clone(p)
			if injected == nil {
				injected = make(Props, 1)
			}
			injected[StateProp] = state
			props = any(injected).(P)
		}

		return inner(ctx, props, state, ref)
	}
}

// Provider renders child with store installed as the state provider for the
// whole subtree. Props and ref pass through unchanged.
func Provider[P any](store *cache.Store, child Component[P]) Component[P] {
	return func(ctx context.Context, props P, ref *Ref) error {
		return child(cache.WithStore(ctx, store), props, ref)
	}
}

// Strict fails rendering with cache.ErrNoProvider when no Provider is above c.
func Strict[P any](c Component[P]) Component[P] {
	return func(ctx context.Context, props P, ref *Ref) error {
		if _, err := cache.RequireFromContext(ctx); err != nil {
			return fmt.Errorf("component: %w", err)
		}
		return c(ctx, props, ref)
	}
}
