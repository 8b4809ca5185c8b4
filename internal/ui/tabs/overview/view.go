package overview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/report"
	"github.com/j-veylop/flight-demand-tui/internal/services"
	"github.com/j-veylop/flight-demand-tui/internal/ui/components"
	"github.com/j-veylop/flight-demand-tui/internal/ui/styles"
)

const maxTopAirports = 5

// View renders the overview tab.
func (m *Model) View() string {
	snap := m.state.GetSnapshot()
	if snap == nil {
		if m.state.IsInitialLoading() {
			return components.RenderSpinnerCentered(&m.spinner, m.width, m.height)
		}
		return styles.CenterBoth(styles.MutedStyle.Render("No analysis yet. Press r to analyze flights."), m.width, m.height)
	}

	sections := []string{m.renderTitle(snap)}
	if sum := snap.Insights.Summary; sum != nil {
		sections = append(sections,
			m.renderCards(snap, sum),
			m.renderShare(sum),
			m.renderTopAirports(sum),
			m.renderBusiest(snap.Insights, sum),
		)
	} else {
		sections = append(sections, styles.MutedStyle.Render("No flights survived cleaning."))
	}
	if skipped := renderSkipped(snap.Insights.Skipped); skipped != "" {
		sections = append(sections, skipped)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderTitle(snap *services.Snapshot) string {
	title := styles.TitleStyle.Render("Flight Market Overview: " + snap.City)
	subtitle := styles.MutedStyle.Render(fmt.Sprintf("%s rows fetched from %s, %s after cleaning · updated %s",
		humanize.Comma(int64(snap.RawRows)), snap.Source,
		humanize.Comma(int64(snap.Cleaned.Len())), humanize.Time(snap.UpdatedAt)))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderCards(snap *services.Snapshot, sum *models.Summary) string {
	cardWidth := 22
	cards := []string{
		components.Card("Total flights", humanize.Comma(int64(sum.TotalFlights)), cardWidth),
		components.Card("Average price", report.Currency(sum.AvgPrice), cardWidth),
		components.Card("Median price", report.Currency(sum.MedianPrice), cardWidth),
		components.Card("Weekend premium", report.Percent(sum.WeekendPricePremium), cardWidth),
		components.Card("Opportunities", humanize.Comma(int64(len(snap.Insights.MarketOpportunities))), cardWidth),
	}
	return components.CardRow(cards, max(m.width-4, cardWidth)) + "\n"
}

func (m *Model) renderShare(sum *models.Summary) string {
	if sum.DomesticPercentage == nil {
		return ""
	}
	width := min(max(m.width-6, 40), 90)
	lines := []string{
		styles.SubTitleStyle.Render("Route mix"),
		m.shareBar.View("Domestic", m.share.current, width),
		m.shareBar.View("International", 100-m.share.current, width),
	}
	if sum.DomesticFlights != nil && sum.InternationalFlights != nil {
		lines = append(lines, styles.MutedStyle.Render(fmt.Sprintf("%s domestic (avg %s) · %s international (avg %s)",
			humanize.Comma(int64(*sum.DomesticFlights)), report.Currency(sum.AvgDomesticPrice),
			humanize.Comma(int64(*sum.InternationalFlights)), report.Currency(sum.AvgInternationalPrice))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m *Model) renderTopAirports(sum *models.Summary) string {
	origins := airportList("Top origins", sum.TopOrigins)
	dests := airportList("Top destinations", sum.TopDestinations)
	if origins == "" && dests == "" {
		return ""
	}
	column := lipgloss.NewStyle().Width(36)
	return lipgloss.JoinHorizontal(lipgloss.Top, column.Render(origins), column.Render(dests)) + "\n"
}

func airportList(title string, counts []models.AirportCount) string {
	if len(counts) == 0 {
		return ""
	}
	lines := []string{styles.SubTitleStyle.Render(title)}
	for i, c := range counts[:min(len(counts), maxTopAirports)] {
		name := c.Code
		if c.City != "" {
			name = fmt.Sprintf("%s (%s)", c.City, c.Code)
		}
		lines = append(lines, fmt.Sprintf("%d. %-22s %s", i+1, name, humanize.Comma(int64(c.Count))))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBusiest(doc *models.InsightsDocument, sum *models.Summary) string {
	lines := []string{styles.SubTitleStyle.Render("Busiest periods")}
	if sum.BusiestDay != nil {
		lines = append(lines, "Busiest day:    "+*sum.BusiestDay)
	}
	if sum.BusiestMonth != nil {
		lines = append(lines, "Busiest month:  "+*sum.BusiestMonth)
	}
	if len(doc.PeakTravelPeriods) > 0 {
		lines = append(lines, "Peak periods:   "+strings.Join(doc.PeakTravelPeriods, ", "))
	}
	if len(doc.MonthlyPatterns) > 0 {
		counts := make([]float64, 12)
		for _, p := range doc.MonthlyPatterns {
			if p.Month >= 1 && p.Month <= 12 {
				counts[p.Month-1] = float64(p.FlightCount)
			}
		}
		lines = append(lines, "Flights/month:  "+components.RenderMonthlyHeatmap(counts))
	}
	if len(lines) == 1 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func renderSkipped(skipped []models.SkippedPass) string {
	if len(skipped) == 0 {
		return ""
	}
	lines := []string{styles.WarningTextStyle.Render("Skipped analyses")}
	for _, s := range skipped {
		line := fmt.Sprintf("  %s: %s", s.Pass, strings.ReplaceAll(string(s.Kind), "_", " "))
		if s.Column != "" {
			line += " (" + s.Column + ")"
		}
		lines = append(lines, styles.MutedStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}
