package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/jonwraymond/componentstate/cache"
	"github.com/jonwraymond/componentstate/component"
)

const scrollKey = "scrollY"

// tabDef describes one tab.
type tabDef struct {
	Name  string
	Lines []string
}

type paneProps struct {
	Tab    tabDef
	Width  int
	Height int
}

// pane is a mounted tab. It keeps the accessor it was mounted with so it can
// save its scroll offset when it is unmounted.
type pane struct {
	name     string
	section  string
	state    cache.Accessor
	vp       viewport.Model
	restored bool
}

var sectionKeyer cache.SectionKeyer = cache.NewDefaultSectionKeyer()

// mountPane builds a pane and restores its scroll offset from the cache.
func mountPane(ctx context.Context, p paneProps, state cache.Accessor, ref *component.Ref) error {
	section, err := sectionKeyer.Section("pane", p.Tab.Name)
	if err != nil {
		return err
	}

	vp := viewport.New(p.Width, p.Height)
	vp.SetContent(strings.Join(p.Tab.Lines, "\n"))

	offset, ok, err := cache.Lookup[int](state, section, scrollKey)
	if err != nil {
		return fmt.Errorf("restore %s: %w", p.Tab.Name, err)
	}
	if ok {
		vp.SetYOffset(offset)
	}

	ref.Attach(&pane{
		name:     p.Tab.Name,
		section:  section,
		state:    state,
		vp:       vp,
		restored: ok,
	})
	return nil
}

// newPaneComponent wires mountPane under a provider for store.
func newPaneComponent(store *cache.Store) component.Component[paneProps] {
	return component.Provider(store, component.Strict(component.WithComponentStateCache(mountPane)))
}

func (p *pane) scroll(delta int) {
	p.vp.SetYOffset(p.vp.YOffset + delta)
}

func (p *pane) resize(width, height int) {
	p.vp.Width = width
	p.vp.Height = height
}

// unmount saves the scroll offset for the next mount.
func (p *pane) unmount() error {
	return p.state.Set(p.section, scrollKey, p.vp.YOffset)
}

func demoPanes() []tabDef {
	lines := func(prefix string, n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("%s line %02d", prefix, i+1)
		}
		return out
	}
	return []tabDef{
		{Name: "inbox", Lines: lines("inbox", 60)},
		{Name: "archive", Lines: lines("archive", 40)},
		{Name: "drafts", Lines: lines("drafts", 25)},
	}
}
