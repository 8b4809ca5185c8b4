package prices

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-demand-tui/internal/analysis"
	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/report"
	"github.com/j-veylop/flight-demand-tui/internal/ui/components"
	"github.com/j-veylop/flight-demand-tui/internal/ui/styles"
)

const (
	chartHeight = 10
	maxWeeks    = 8
)

// View renders the prices tab.
func (m *Model) View() string {
	snap := m.state.GetSnapshot()
	if snap == nil || snap.Insights == nil {
		return styles.CenterBoth(styles.MutedStyle.Render("No price data yet. Press r to analyze flights."), m.width, m.height)
	}
	doc := snap.Insights
	if doc.PriceStats == nil && doc.DailyPriceTrends == nil {
		return styles.CenterBoth(styles.MutedStyle.Render("This dataset has no usable prices."), m.width, m.height)
	}

	width := max(m.width-6, 40)
	sections := []string{styles.TitleStyle.Render("Prices: " + snap.City)}
	if doc.PriceStats != nil {
		sections = append(sections, renderStats(doc.PriceStats, width))
	}
	if len(doc.DailyPriceTrends) > 0 {
		sections = append(sections, m.renderDaily(doc.DailyPriceTrends, width), "")
	}
	if len(doc.WeeklyPriceTrends) > 0 {
		sections = append(sections, renderWeekly(doc.WeeklyPriceTrends), "")
	}
	if len(doc.PriceCategories) > 0 {
		sections = append(sections, m.renderCategories(doc.PriceCategories, min(width, 80)), "")
	}
	if patterns := renderPatterns(doc); patterns != "" {
		sections = append(sections, patterns)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return styles.DocStyle.Render(m.viewport.View())
}

func renderStats(s *models.PriceStats, width int) string {
	cards := []string{
		components.Card("Min", report.Currency(&s.Min), 14),
		components.Card("Q1", report.Currency(&s.Q1), 14),
		components.Card("Median", report.Currency(&s.Median), 14),
		components.Card("Mean", report.Currency(&s.Mean), 14),
		components.Card("Q3", report.Currency(&s.Q3), 14),
		components.Card("Max", report.Currency(&s.Max), 14),
		components.Card("Std dev", report.Currency(s.Std), 14),
	}
	return components.CardRow(cards, width) + "\n"
}

func (m *Model) renderDaily(trends []models.DailyPriceTrend, width int) string {
	avg := make([]float64, len(trends))
	med := make([]float64, len(trends))
	for i, d := range trends {
		avg[i] = d.AvgPrice
		med[i] = d.MedianPrice
	}
	caption := fmt.Sprintf("%s to %s", trends[0].Date.Format("Jan 2"), trends[len(trends)-1].Date.Format("Jan 2"))

	chart := components.RenderLineChart(avg, width-10, chartHeight, caption)
	legend := []components.LegendItem{{Label: "Average", Color: styles.ColorPrimary}}
	if m.showMedian {
		chart = components.RenderDualLineChart(avg, med, width-10, chartHeight, caption)
		legend = []components.LegendItem{
			{Label: "Average", Color: styles.ColorPrimary},
			{Label: "Median", Color: styles.ColorSuccess},
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.SubTitleStyle.Render("Daily price trend"),
		chart,
		components.RenderLegend(legend),
	)
}

func renderWeekly(weeks []models.WeeklyPriceTrend) string {
	if len(weeks) > maxWeeks {
		weeks = weeks[len(weeks)-maxWeeks:]
	}
	lines := []string{
		styles.SubTitleStyle.Render("Weekly trend"),
		styles.TableHeaderStyle.Render(fmt.Sprintf("%-10s %11s %11s %8s", "Week", "Avg", "Median", "Flights")),
	}
	for _, w := range weeks {
		lines = append(lines, fmt.Sprintf("%-10s %11s %11s %8s",
			fmt.Sprintf("%d-W%02d", w.Year, w.Week),
			report.Currency(&w.AvgPrice), report.Currency(&w.MedianPrice), report.Count(w.FlightCount)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCategories(cats []models.PriceCategoryCount, width int) string {
	total := 0
	for _, c := range cats {
		total += c.Count
	}
	lines := []string{styles.SubTitleStyle.Render("Price bands")}
	for _, c := range cats {
		pct := 0.0
		if total > 0 {
			pct = float64(c.Count) / float64(total) * 100
		}
		label := fmt.Sprintf("%-8s %6s", c.Category, report.Count(c.Count))
		lines = append(lines, m.shareBar.View(label, pct, width))
	}
	return strings.Join(lines, "\n")
}

func renderPatterns(doc *models.InsightsDocument) string {
	var lines []string
	if len(doc.MonthlyPatterns) > 0 {
		months := make([]float64, 12)
		for _, p := range doc.MonthlyPatterns {
			if p.AvgPrice != nil && p.Month >= 1 && p.Month <= 12 {
				months[p.Month-1] = *p.AvgPrice
			}
		}
		lines = append(lines, "Avg price by month:    "+components.RenderMonthlyHeatmap(months))
	}
	if len(doc.DayOfWeekPatterns) > 0 {
		days := make([]float64, 7)
		names := make([]string, 7)
		for i := range names {
			names[i] = analysis.DayName(i)[:3]
		}
		for _, p := range doc.DayOfWeekPatterns {
			if p.AvgPrice != nil && p.DayOfWeek >= 0 && p.DayOfWeek < 7 {
				days[p.DayOfWeek] = *p.AvgPrice
			}
		}
		lines = append(lines, "Avg price by weekday:  "+components.RenderWeeklyPattern(days, names))
	}
	if len(lines) == 0 {
		return ""
	}
	return styles.SubTitleStyle.Render("Seasonality") + "\n" + strings.Join(lines, "\n")
}
