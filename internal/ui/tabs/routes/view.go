package routes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-demand-tui/internal/analysis"
	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/report"
	"github.com/j-veylop/flight-demand-tui/internal/ui/components"
	"github.com/j-veylop/flight-demand-tui/internal/ui/styles"
)

const (
	maxChartRoutes = 10
	tableRows      = 12
	sparkWidth     = 40
)

// View renders the routes tab.
func (m *Model) View() string {
	m.recompute()
	snap := m.state.GetSnapshot()
	if snap == nil {
		return styles.CenterBoth(styles.MutedStyle.Render("No routes yet. Press r to analyze flights."), m.width, m.height)
	}

	sections := []string{
		styles.TitleStyle.Render("Routes: " + snap.City),
		m.renderFilters(),
		"",
	}
	if snap.Insights != nil && len(snap.Insights.PopularRoutes) > 0 {
		sections = append(sections,
			styles.SubTitleStyle.Render("Most popular routes"),
			renderPopular(snap.Insights.PopularRoutes, max(m.width-6, 40)),
			"",
		)
	}
	sections = append(sections, m.renderTable())
	if detail := m.renderSelected(); detail != "" {
		sections = append(sections, "", detail)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return styles.DocStyle.Render(m.viewport.View())
}

func chip(label string, active bool) string {
	if active {
		return styles.FilterActiveStyle.Render(label)
	}
	return styles.FilterInactiveStyle.Render(label)
}

func (m *Model) renderFilters() string {
	chips := make([]string, 0, 8)
	for _, s := range []scope{scopeAll, scopeDomestic, scopeInternational} {
		chips = append(chips, chip(s.String(), m.scope == s))
	}
	chips = append(chips, styles.MutedStyle.Render(" │ "), chip("Any price", m.band == noBand))
	for i, b := range analysis.PriceBands {
		chips = append(chips, chip(b.Name, m.band == i))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func renderPopular(popular []models.RouteFrequency, width int) string {
	n := min(len(popular), maxChartRoutes)
	values := make([]float64, n)
	labels := make([]string, n)
	for i, r := range popular[:n] {
		values[i] = float64(r.Frequency)
		labels[i] = r.Origin + "→" + r.Destination
	}
	return components.RenderBarChart(values, labels, width, func(v float64) string {
		return report.Count(int(v))
	})
}

func (m *Model) renderTable() string {
	if len(m.rows) == 0 {
		return styles.MutedStyle.Render("No routes match the current filters.")
	}

	header := styles.TableHeaderStyle.Render(fmt.Sprintf("%-9s %-32s %7s %11s %11s %11s %11s  %-13s",
		"Route", "Cities", "Flights", "Avg", "Median", "Min", "Max", "Type"))

	start := 0
	if m.cursor >= tableRows {
		start = m.cursor - tableRows + 1
	}
	end := min(start+tableRows, len(m.rows))

	var medianAll float64
	if snap := m.state.GetSnapshot(); snap != nil && snap.Insights != nil && snap.Insights.PriceStats != nil {
		medianAll = snap.Insights.PriceStats.Median
	}

	lines := []string{header}
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, medianAll))
	}
	lines = append(lines, styles.MutedStyle.Render(fmt.Sprintf("%d-%d of %d routes, %s flights",
		start+1, end, len(m.rows), report.Count(m.filtered.Len()))))
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(r analysis.RouteStat, selected bool, median float64) string {
	cities := r.OriginCity + " → " + r.DestCity
	if r.OriginCity == "" || r.DestCity == "" {
		cities = ""
	}
	if runes := []rune(cities); len(runes) > 32 {
		cities = string(runes[:31]) + "…"
	}
	avg := report.Currency(r.AvgPrice)
	if r.AvgPrice != nil && !selected {
		avg = styles.GetPriceStyle(*r.AvgPrice, median).Render(fmt.Sprintf("%11s", avg))
	} else {
		avg = fmt.Sprintf("%11s", avg)
	}
	kind := styles.GetRouteTypeStyle(r.RouteType == analysis.RouteTypeDomestic).Render(fmt.Sprintf("%-13s", r.RouteType))
	if selected {
		kind = fmt.Sprintf("%-13s", r.RouteType)
	}

	line := fmt.Sprintf("%-9s %-32s %7d %s %11s %11s %11s  %s",
		r.Origin+"→"+r.Destination, cities, r.Flights, avg,
		report.Currency(r.MedianPrice), report.Currency(r.MinPrice), report.Currency(r.MaxPrice), kind)
	if selected {
		return styles.TableSelectedStyle.Render(line)
	}
	return line
}

// renderSelected plots the daily average price of the highlighted route.
func (m *Model) renderSelected() string {
	sel := m.Selected()
	if sel == nil || m.filtered == nil || sel.MedianPrice == nil {
		return ""
	}
	series := dailyAverages(m.filtered, models.RouteKey{Origin: sel.Origin, Destination: sel.Destination})
	if len(series) < 2 {
		return ""
	}
	return fmt.Sprintf("%s  %s  %s",
		styles.SubTitleStyle.Render(sel.Origin+"→"+sel.Destination+" daily avg"),
		components.RenderPriceSparkline(series, sparkWidth, *sel.MedianPrice),
		styles.MutedStyle.Render("median "+report.Currency(sel.MedianPrice)))
}

// dailyAverages returns the route's average price per flight date in
// ascending date order.
func dailyAverages(t *models.FlightTable, route models.RouteKey) []float64 {
	type acc struct {
		sum float64
		n   int
	}
	var order []string
	days := make(map[string]*acc)
	for i := range t.Records {
		r := t.Record(i)
		if r.Route() != route || r.Price == nil || r.FlightDate == nil {
			continue
		}
		k := r.DateKey()
		a, ok := days[k]
		if !ok {
			a = &acc{}
			days[k] = a
			order = append(order, k)
		}
		a.sum += *r.Price
		a.n++
	}
	slices.Sort(order)
	out := make([]float64, 0, len(order))
	for _, k := range order {
		out = append(out, days[k].sum/float64(days[k].n))
	}
	return out
}
