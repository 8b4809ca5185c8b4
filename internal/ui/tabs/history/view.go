package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/report"
	"github.com/j-veylop/flight-demand-tui/internal/ui/components"
	"github.com/j-veylop/flight-demand-tui/internal/ui/styles"
)

const maxTableRuns = 15

// View renders the history tab.
func (m *Model) View() string {
	if m.loading && m.history == nil {
		return m.renderLoading()
	}
	if m.errorMsg != "" {
		return m.renderError()
	}
	if !m.history.HasData() {
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(),
		m.renderPriceChart(),
		m.renderRuns(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.Render(styles.MutedStyle.Render("Loading run history..."))
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s",
		styles.ErrorTextStyle.Render("Error:"),
		m.errorMsg,
	)
	return styles.DocStyle.Render(content)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, styles.TitleStyle.Render("Run History"), "  ", m.rangeIndicator()),
		"",
		styles.MutedStyle.Render(fmt.Sprintf("No analysis runs recorded in the last %s.", strings.ToLower(m.timeRange.String()))),
		styles.MutedStyle.Render("Runs appear here after each refresh."),
	)
	return styles.DocStyle.Render(content)
}

func (m *Model) rangeIndicator() string {
	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.ColorPrimary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.ColorPrimary)

	return rangeStyle.Render(fmt.Sprintf("[t] %s", m.timeRange.String()))
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Run History")
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", m.rangeIndicator())

	runs := m.history.Runs
	oldest, latest := runs[len(runs)-1], runs[0]
	subtitle := styles.MutedStyle.Render(fmt.Sprintf("%d runs: %s → %s",
		len(runs),
		oldest.CreatedAt.Format("Jan 2, 2006 15:04"),
		latest.CreatedAt.Format("Jan 2, 2006 15:04"),
	))

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderPriceChart() string {
	cardWidth := max(m.width-6, 40)

	rows := []string{styles.CardTitleStyle.Render("Average Price per Run"), ""}

	series := m.history.AvgPriceSeries()
	if len(series) == 0 {
		rows = append(rows, styles.MutedStyle.Render("  No priced runs"))
	} else {
		chartWidth := max(cardWidth-12, 30)
		chart := components.RenderLineChart(series, chartWidth, 8, fmt.Sprintf("Last %d runs, oldest first", len(series)))
		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRuns() string {
	header := styles.TableHeaderStyle.Render(fmt.Sprintf("%-16s %-14s %-13s %7s %7s %11s %9s %6s  %-10s",
		"When", "City", "Source", "Raw", "Clean", "Avg", "Domestic", "Opps", "Busiest"))

	lines := []string{styles.SubTitleStyle.Render("Recent runs"), header}
	runs := m.history.Runs[:min(len(m.history.Runs), maxTableRuns)]
	for _, r := range runs {
		lines = append(lines, renderRun(r))
	}
	if extra := len(m.history.Runs) - len(runs); extra > 0 {
		lines = append(lines, styles.MutedStyle.Render(fmt.Sprintf("… and %d older runs", extra)))
	}
	return strings.Join(lines, "\n")
}

func renderRun(r models.AnalysisRun) string {
	busiest := r.BusiestDay
	if busiest == "" {
		busiest = "-"
	}
	return fmt.Sprintf("%-16s %-14s %-13s %7s %7s %11s %9s %6d  %-10s",
		humanize.Time(r.CreatedAt),
		truncate(r.City, 14),
		string(r.Source),
		report.Count(r.RawRows),
		report.Count(r.CleanRows),
		report.Currency(r.AvgPrice),
		report.Percent(r.DomesticPct),
		r.OpportunityCount,
		busiest,
	)
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
