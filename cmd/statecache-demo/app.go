package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jonwraymond/componentstate/cache"
	"github.com/jonwraymond/componentstate/component"
	"github.com/jonwraymond/componentstate/health"
	"github.com/jonwraymond/componentstate/observe"
)

const chromeHeight = 4 // tabs, border and status line

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	paneStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// model is the bubbletea host. Switching tabs unmounts the active pane and
// mounts the next one, so scroll offsets only survive through the cache.
type model struct {
	ctx     context.Context
	mount   component.Component[paneProps]
	store   *cache.Store
	checker health.Checker
	logger  observe.Logger
	session string

	tabs    []tabDef
	active  int
	current *pane
	width   int
	height  int
	status  health.Status
	err     error
}

func newModel(ctx context.Context, store *cache.Store, checker health.Checker, logger observe.Logger, session string) *model {
	return &model{
		ctx:     ctx,
		mount:   newPaneComponent(store),
		store:   store,
		checker: checker,
		logger:  logger,
		session: session,
		tabs:    demoPanes(),
		width:   60,
		height:  20,
	}
}

func (m *model) Init() tea.Cmd {
	m.mountActive()
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.current != nil {
			m.current.resize(m.paneSize())
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.unmountActive()
			return m, tea.Quit
		case "tab", "right", "l":
			m.switchTo((m.active + 1) % len(m.tabs))
		case "shift+tab", "left", "h":
			m.switchTo((m.active + len(m.tabs) - 1) % len(m.tabs))
		case "down", "j":
			m.scroll(1)
		case "up", "k":
			m.scroll(-1)
		case "pgdown", " ":
			_, h := m.paneSize()
			m.scroll(h)
		case "pgup":
			_, h := m.paneSize()
			m.scroll(-h)
		}
	}
	return m, nil
}

func (m *model) View() string {
	tabs := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.active {
			tabs[i] = activeTabStyle.Render(tab.Name)
		} else {
			tabs[i] = inactiveTabStyle.Render(tab.Name)
		}
	}

	var body string
	if m.current != nil {
		body = paneStyle.Render(m.current.vp.View())
	}

	st := m.store.Stats()
	status := statusStyle.Render(fmt.Sprintf("session %s | %d sections, %d entries, %s | %s | tab: switch, j/k: scroll, q: quit",
		m.session[:8], st.Sections, st.Entries, humanize.Bytes(uint64(st.Bytes)), m.status))
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		body,
		status,
	)
}

func (m *model) paneSize() (int, int) {
	return max(m.width-2, 10), max(m.height-chromeHeight, 3)
}

func (m *model) scroll(delta int) {
	if m.current != nil {
		m.current.scroll(delta)
	}
}

func (m *model) switchTo(idx int) {
	if idx == m.active {
		return
	}
	m.unmountActive()
	m.active = idx
	m.mountActive()
}

func (m *model) mountActive() {
	width, height := m.paneSize()
	ref := component.NewRef()
	props := paneProps{Tab: m.tabs[m.active], Width: width, Height: height}

	if err := m.mount(m.ctx, props, ref); err != nil {
		m.fail("mount failed", err)
		return
	}
	p, ok := component.RefAs[*pane](ref)
	if !ok {
		m.fail("mount failed", fmt.Errorf("pane %s attached nothing", props.Tab.Name))
		return
	}
	m.current = p
	m.logger.Debug(m.ctx, "pane mounted",
		observe.Field{Key: "pane", Value: p.name},
		observe.Field{Key: "restored", Value: p.restored},
		observe.Field{Key: "offset", Value: p.vp.YOffset},
	)
}

func (m *model) unmountActive() {
	if m.current == nil {
		return
	}
	if err := m.current.unmount(); err != nil {
		m.fail("unmount failed", err)
	}
	m.current = nil
	m.status = m.checker.Check(m.ctx).Status
}

func (m *model) fail(msg string, err error) {
	m.err = err
	m.logger.Error(m.ctx, msg, observe.Field{Key: "error", Value: err.Error()})
}

// keys turns a comma separated script such as "j,j,tab" into key messages.
func keys(script string) []tea.KeyMsg {
	var out []tea.KeyMsg
	for _, k := range strings.Split(script, ",") {
		switch k = strings.TrimSpace(k); k {
		case "":
		case "tab":
			out = append(out, tea.KeyMsg{Type: tea.KeyTab})
		case "shift+tab":
			out = append(out, tea.KeyMsg{Type: tea.KeyShiftTab})
		case "down":
			out = append(out, tea.KeyMsg{Type: tea.KeyDown})
		case "up":
			out = append(out, tea.KeyMsg{Type: tea.KeyUp})
		default:
			out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
	return out
}

var _ tea.Model = (*model)(nil)
