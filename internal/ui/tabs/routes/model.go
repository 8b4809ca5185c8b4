// Package routes provides the route explorer tab.
package routes

import (
	"math"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-demand-tui/internal/analysis"
	"github.com/j-veylop/flight-demand-tui/internal/app"
	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/services"
)

// scope restricts routes by type.
type scope int

const (
	scopeAll scope = iota
	scopeDomestic
	scopeInternational
)

func (s scope) String() string {
	switch s {
	case scopeDomestic:
		return "Domestic"
	case scopeInternational:
		return "International"
	default:
		return "All"
	}
}

// noBand disables the price band filter.
const noBand = -1

type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	Domestic      key.Binding
	International key.Binding
	All           key.Binding
	PrevBand      key.Binding
	NextBand      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Domestic: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "domestic"),
		),
		International: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "international"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all routes"),
		),
		PrevBand: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev price band"),
		),
		NextBand: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next price band"),
		),
	}
}

// Model represents the routes tab state.
type Model struct {
	state    *app.State
	airports analysis.AirportLookup
	keys     keyMap
	viewport viewport.Model

	scope scope
	band  int

	// rows are recomputed whenever the snapshot or the filter changes.
	source   *services.Snapshot
	filtered *models.FlightTable
	rows     []analysis.RouteStat
	cursor   int

	width  int
	height int
}

// New creates a new routes model. airports may be nil.
func New(state *app.State, airports analysis.AirportLookup) *Model {
	return &Model{
		state:    state,
		airports: airports,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		band:     noBand,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.SnapshotUpdatedMsg:
		m.source = nil
		m.recompute()
	case app.TabSwitchMsg:
		m.recompute()
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(len(m.rows)-1, 0))
	case key.Matches(msg, m.keys.Domestic):
		m.setScope(scopeDomestic)
	case key.Matches(msg, m.keys.International):
		m.setScope(scopeInternational)
	case key.Matches(msg, m.keys.All):
		m.setScope(scopeAll)
	case key.Matches(msg, m.keys.PrevBand):
		m.setBand(m.band - 1)
	case key.Matches(msg, m.keys.NextBand):
		m.setBand(m.band + 1)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) setScope(s scope) {
	if m.scope == s {
		return
	}
	m.scope = s
	m.invalidate()
}

// setBand cycles through the price bands, with noBand between the last
// and the first.
func (m *Model) setBand(b int) {
	n := len(analysis.PriceBands)
	switch {
	case b < noBand:
		b = n - 1
	case b >= n:
		b = noBand
	}
	m.band = b
	m.invalidate()
}

func (m *Model) invalidate() {
	m.source = nil
	m.cursor = 0
	m.recompute()
}

// Filter returns the route filter for the current scope and price band.
func (m *Model) Filter() analysis.RouteFilter {
	var f analysis.RouteFilter
	switch m.scope {
	case scopeDomestic:
		f.Domestic = true
	case scopeInternational:
		f.International = true
	}
	if m.band != noBand {
		b := analysis.PriceBands[m.band]
		// Budget also takes prices below its lower bound.
		if m.band > 0 {
			f.MinPrice = models.Ptr(b.Lower)
		}
		if !math.IsInf(b.Upper, 1) {
			f.MaxPrice = models.Ptr(math.Nextafter(b.Upper, math.Inf(-1)))
		}
	}
	return f
}

// recompute rebuilds the route table when the snapshot changed.
func (m *Model) recompute() {
	snap := m.state.GetSnapshot()
	if snap == m.source && m.source != nil {
		return
	}
	m.source = snap
	if snap == nil || snap.Cleaned == nil {
		m.filtered, m.rows = nil, nil
		m.cursor = 0
		return
	}
	m.filtered = analysis.Filter(snap.Cleaned, m.Filter())
	m.rows = analysis.RouteTable(m.filtered, m.airports)
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
}

// Selected returns the highlighted route, or nil.
func (m *Model) Selected() *analysis.RouteStat {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

// SetSize sets the available size for the routes tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Domestic, m.keys.International, m.keys.All, m.keys.NextBand}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Domestic, m.keys.International, m.keys.All},
		{m.keys.PrevBand, m.keys.NextBand},
	}
}
