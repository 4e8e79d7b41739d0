// Package component threads the state cache through a tree of components.
//
// A component is a plain function that receives its parent's context, its
// props and an optional external Ref. Provider installs a cache.Store for the
// subtree it renders, and WithComponentStateCache adapts a Stateful component
// so it receives the nearest accessor alongside its usual props and ref:
//
//	pane := component.WithComponentStateCache(func(ctx context.Context, p Props, state cache.Accessor, ref *component.Ref) error {
//		ref.Attach(p.Self)
//		return state.Set("pane", "scrollY", p.Offset)
//	})
//	root := component.Provider(cache.NewStore(), pane)
//	err := root(ctx, props, ref)
//
// The ref passed to an adapted component reaches the inner component
// untouched, so whatever the inner component attaches is what the caller sees.
package component
