package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-demand-tui/internal/ui/styles"
)

// ShareBar renders a labeled percentage bar, e.g. the domestic share of
// flights or one price band's share.
type ShareBar struct {
	progress progress.Model
}

// NewShareBar creates a share bar with the dashboard gradient.
func NewShareBar() ShareBar {
	return ShareBar{
		progress: progress.New(
			progress.WithScaledGradient("#5FAFFF", "#04B575"),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

// View renders label, bar and percent within width cells.
func (b ShareBar) View(label string, percent float64, width int) string {
	percent = min(max(percent, 0), 100)

	// Reserve space for label and percentage
	b.progress.Width = max(width-24, 10)
	bar := b.progress.ViewAs(percent / 100)

	labelStr := styles.CardTitleStyle.Width(16).Render(label)
	percentStr := styles.CardValueStyle.Width(7).Align(lipgloss.Right).Render(fmt.Sprintf("%.1f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, percentStr)
}

// Card renders a bordered headline number.
func Card(title, value string, width int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(title),
		styles.CardValueStyle.Render(value),
	)
	return styles.CardStyle.Width(max(width-2, 10)).Render(content)
}

// CardRow lays cards out side by side, wrapping to new rows to fit width.
func CardRow(cards []string, width int) string {
	var rows []string
	var current []string
	used := 0
	for _, c := range cards {
		w := lipgloss.Width(c)
		if used > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current, used = nil, 0
		}
		current = append(current, c)
		used += w
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
