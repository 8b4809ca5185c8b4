// Package overview provides the market overview tab.
package overview

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-demand-tui/internal/app"
	"github.com/j-veylop/flight-demand-tui/internal/ui/components"
)

const animationDuration = 1500 * time.Millisecond

type animationTickMsg time.Time

func animationTickCmd() tea.Cmd {
	return tea.Tick(40*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// keyMap defines the key bindings specific to the overview tab.
type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Top  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
	}
}

// shareAnimation eases the domestic share bar toward its latest value.
type shareAnimation struct {
	start   time.Time
	from    float64
	to      float64
	current float64
}

// retarget starts a new animation when target changed and reports whether
// one is running.
func (a *shareAnimation) retarget(target float64, now time.Time) bool {
	if target != a.to {
		a.from = a.current
		a.to = target
		a.start = now
	}
	return a.current != a.to
}

func (a *shareAnimation) step(now time.Time) {
	if a.current == a.to {
		return
	}
	elapsed := now.Sub(a.start)
	if elapsed >= animationDuration {
		a.current = a.to
		return
	}
	progress := elapsed.Seconds() / animationDuration.Seconds()
	ease := 1.0 - (1.0-progress)*(1.0-progress)
	a.current = a.from + (a.to-a.from)*ease
}

// Model represents the overview tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	shareBar components.ShareBar
	keys     keyMap
	viewport viewport.Model
	share    shareAnimation
	width    int
	height   int
}

// New creates a new overview model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Analyzing flights..."),
		shareBar: components.NewShareBar(),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.SnapshotUpdatedMsg, app.TabSwitchMsg:
		if m.syncShare(time.Now()) {
			cmds = append(cmds, animationTickCmd())
		}

	case animationTickMsg:
		now := time.Time(msg)
		animating := m.syncShare(now)
		m.share.step(now)
		if animating {
			cmds = append(cmds, animationTickCmd())
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// syncShare points the animation at the latest domestic percentage.
func (m *Model) syncShare(now time.Time) bool {
	snap := m.state.GetSnapshot()
	if snap == nil || snap.Insights == nil || snap.Insights.Summary == nil {
		return false
	}
	pct := snap.Insights.Summary.DomesticPercentage
	if pct == nil {
		return false
	}
	return m.share.retarget(*pct, now)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Top) {
		m.viewport.GotoTop()
		return nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// SetSize sets the available size for the overview.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Top}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Up, m.keys.Down, m.keys.Top}}
}
