package component_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/componentstate/cache"
	"github.com/jonwraymond/componentstate/component"
)

func ExampleWithComponentStateCache() {
	type paneProps struct{ ID string }

	pane := component.WithComponentStateCache(func(ctx context.Context, p paneProps, state cache.Accessor, ref *component.Ref) error {
		visits, _, err := cache.Lookup[int](state, "pane:"+p.ID, "visits")
		if err != nil {
			return err
		}
		visits++
		fmt.Println(p.ID, "visit", visits)
		return state.Set("pane:"+p.ID, "visits", visits)
	})

	root := component.Provider(cache.NewStore(), pane)
	for range 2 {
		_ = root(context.Background(), paneProps{ID: "inbox"}, nil)
	}
	// Output:
	// inbox visit 1
	// inbox visit 2
}

func ExampleProps_State() {
	pane := component.WithComponentStateCache(func(ctx context.Context, p component.Props, _ cache.Accessor, ref *component.Ref) error {
		ref.Attach(p["name"])
		return p.State().Set("pane", "name", p["name"])
	})

	ref := component.NewRef()
	err := component.Provider(cache.NewStore(), pane)(context.Background(), component.Props{"name": "editor"}, ref)
	fmt.Println(ref.Current(), err)
	// Output:
	// editor <nil>
}
