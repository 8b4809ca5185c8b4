// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/flight-demand-tui/internal/ui/styles"
)

const (
	minChartWidth  = 20
	minChartHeight = 3
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

var monthInitials = []string{"J", "F", "M", "A", "M", "J", "J", "A", "S", "O", "N", "D"}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.MutedStyle.Render("No data available")
	}

	return asciigraph.Plot(data,
		asciigraph.Height(max(height, minChartHeight)),
		asciigraph.Width(max(width, minChartWidth)),
		asciigraph.Caption(caption),
	)
}

// RenderDualLineChart plots average and median prices on one chart. The
// shorter series is padded with its last value.
func RenderDualLineChart(avg, median []float64, width, height int, caption string) string {
	if len(avg) == 0 && len(median) == 0 {
		return styles.MutedStyle.Render("No data available")
	}

	n := max(len(avg), len(median))
	return asciigraph.PlotMany([][]float64{padSeries(avg, n), padSeries(median, n)},
		asciigraph.Height(max(height, minChartHeight)),
		asciigraph.Width(max(width, minChartWidth)),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
	)
}

func padSeries(s []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, s)
	if len(s) > 0 {
		for i := len(s); i < n; i++ {
			out[i] = s[len(s)-1]
		}
	}
	return out
}

// RenderBarChart creates a horizontal bar chart. format renders each value
// after its bar; nil uses "%.1f".
func RenderBarChart(values []float64, labels []string, width int, format func(float64) string) string {
	if len(values) == 0 {
		return ""
	}
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.1f", v) }
	}

	maxVal := slices.Max(values)
	if maxVal <= 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	// Leave room for label and value
	barWidth := max(width-maxLabelLen-12, 10)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		barLen := max(int(v/maxVal*float64(barWidth)), 0)
		bar := lipgloss.NewStyle().Foreground(styles.ColorPrimary).Render(strings.Repeat("█", barLen))
		lines = append(lines, fmt.Sprintf("%*s │%s %s", maxLabelLen, label, bar, format(v)))
	}

	return strings.Join(lines, "\n")
}

func intensity(v, maxVal float64, levels int) int {
	if maxVal <= 0 {
		return 0
	}
	return min(max(int(v/maxVal*float64(levels-1)), 0), levels-1)
}

// RenderMonthlyHeatmap shades twelve monthly values, January first.
func RenderMonthlyHeatmap(months []float64) string {
	padded := make([]float64, 12)
	copy(padded, months)
	maxVal := slices.Max(padded)

	var result strings.Builder
	for i, v := range padded {
		level := intensity(v, maxVal, len(HeatmapBlocks))

		var style lipgloss.Style
		switch level {
		case 0:
			style = lipgloss.NewStyle().Foreground(styles.ColorSubtle)
		case 1:
			style = lipgloss.NewStyle().Foreground(styles.ColorSuccess)
		case 2:
			style = lipgloss.NewStyle().Foreground(styles.ColorWarning)
		default:
			style = lipgloss.NewStyle().Foreground(styles.ColorError)
		}

		result.WriteString(monthInitials[i])
		result.WriteString(style.Render(string(HeatmapBlocks[level])))
		result.WriteString(" ")
	}

	return strings.TrimRight(result.String(), " ")
}

// RenderWeeklyPattern renders one sparkline cell per weekday, Monday first.
func RenderWeeklyPattern(patterns []float64, dayNames []string) string {
	padded := make([]float64, 7)
	copy(padded, patterns)
	if len(dayNames) != 7 {
		dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	}
	maxVal := slices.Max(padded)

	parts := make([]string, 0, 7)
	for i, v := range padded {
		spark := string(sparkChars[intensity(v, maxVal, len(sparkChars))])
		parts = append(parts, fmt.Sprintf("%s %s", dayNames[i], spark))
	}

	return strings.Join(parts, " ")
}

func sampled(values []float64, width int, each func(v, maxVal float64)) {
	maxVal := slices.Max(values)
	step := max(float64(len(values))/float64(width), 1)
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		each(values[int(float64(i)*step)], maxVal)
	}
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	var result strings.Builder
	sampled(values, width, func(v, maxVal float64) {
		result.WriteRune(sparkChars[intensity(v, maxVal, len(sparkChars))])
	})
	return result.String()
}

// RenderPriceSparkline colors each cell by its price against median.
func RenderPriceSparkline(values []float64, width int, median float64) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	var result strings.Builder
	sampled(values, width, func(v, maxVal float64) {
		cell := string(sparkChars[intensity(v, maxVal, len(sparkChars))])
		result.WriteString(styles.GetPriceStyle(v, median).Render(cell))
	})
	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
