package insights

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/report"
	"github.com/j-veylop/flight-demand-tui/internal/services/narrative"
	"github.com/j-veylop/flight-demand-tui/internal/ui/styles"
)

// View renders the insights tab.
func (m *Model) View() string {
	snap := m.state.GetSnapshot()
	if snap == nil || snap.Insights == nil {
		return styles.CenterBoth(styles.MutedStyle.Render("No insights yet. Press r to analyze flights."), m.width, m.height)
	}

	listWidth := max(m.width/2-4, 30)
	opps := snap.Insights.MarketOpportunities
	cursor := min(m.cursor, max(len(opps)-1, 0))

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(renderList(opps, cursor)),
		"  ",
		renderDetail(opps, cursor, max(m.width-listWidth-8, 30)),
	)

	sections := []string{
		styles.TitleStyle.Render("Market Insights: " + snap.City),
		top,
		"",
		renderNarrative(snap.Narrative, max(m.width-6, 40)),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return styles.DocStyle.Render(m.viewport.View())
}

func renderList(opps []models.Opportunity, cursor int) string {
	header := styles.SubTitleStyle.Render(fmt.Sprintf("Market opportunities (%d)", len(opps)))
	if len(opps) == 0 {
		return header + "\n" + styles.MutedStyle.Render("No opportunities flagged for this dataset.")
	}

	lines := []string{header}
	for i, o := range opps {
		line := fmt.Sprintf("%2d. %-26s %s", i+1, shortTitle(o.Type), routeLabel(o))
		if i == cursor {
			line = styles.TableSelectedStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func shortTitle(t models.OpportunityType) string {
	return strings.TrimSuffix(t.Title(), " Opportunity")
}

func routeLabel(o models.Opportunity) string {
	if o.Destination == "" {
		return o.Origin
	}
	return o.Origin + "→" + o.Destination
}

func renderDetail(opps []models.Opportunity, cursor, width int) string {
	if len(opps) == 0 {
		return ""
	}
	o := opps[cursor]

	lines := []string{styles.CardValueStyle.Render(o.Type.Title())}
	lines = append(lines, report.OpportunityDetails(o)...)
	if o.Frequency != nil {
		lines = append(lines, "Flights: "+report.Count(*o.Frequency))
	}
	if o.WeekdayPrice != nil && o.WeekendPrice != nil {
		lines = append(lines,
			"Weekday Price: "+report.Currency(o.WeekdayPrice),
			"Weekend Price: "+report.Currency(o.WeekendPrice))
	}
	if o.PriceRatio != nil {
		lines = append(lines, "High/Low Ratio: "+strconv.FormatFloat(*o.PriceRatio, 'f', 2, 64)+"x")
	}
	lines = append(lines, "", styles.MutedStyle.Render(o.Description))

	return styles.CardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func renderNarrative(n narrative.Narrative, width int) string {
	if n.IsEmpty() {
		return styles.MutedStyle.Render("Not enough data for market commentary.")
	}

	wrap := lipgloss.NewStyle().Width(width)
	var sections []string
	if n.TrendSummary != "" {
		sections = append(sections, styles.SubTitleStyle.Render("Trend summary"), wrap.Render(n.TrendSummary), "")
	}
	for _, part := range []struct {
		title string
		items []string
	}{
		{"Market observations", n.MarketObservations},
		{"Hostel recommendations", n.HostelRecommendations},
		{"Seasonal strategies", n.SeasonalStrategies},
	} {
		if len(part.items) == 0 {
			continue
		}
		sections = append(sections, styles.SubTitleStyle.Render(part.title))
		for i, item := range part.items {
			sections = append(sections, wrap.Render(fmt.Sprintf("%d. %s", i+1, item)))
		}
		sections = append(sections, "")
	}
	return strings.TrimRight(strings.Join(sections, "\n"), "\n")
}
