package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/flight-demand-tui/internal/ui/styles"
	"github.com/j-veylop/flight-demand-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderSessionCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.MutedStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return styles.SuccessTextStyle.Render("yes")
	}
	return styles.MutedStyle.Render("no")
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if cfg := m.config; cfg != nil {
		rows = append(rows,
			renderRow("Database", cfg.DatabasePath),
			renderRow("Airports", orDefault(cfg.AirportsPath, "built-in")),
			renderRow("Report Dir", orDefault(cfg.ReportDir, ".")),
			renderRow("Watch File", orDefault(cfg.WatchPath, "disabled")),
			renderRow("Default City", cfg.DefaultCity),
			renderRow("Date Range", strconv.Itoa(cfg.DateRangeDays)+" days"),
			renderRow("Cache TTL", cfg.CacheDuration.String()),
			renderRow("Schedule", orDefault(cfg.RefreshSchedule, "disabled")),
			renderRow("API Key", yesNo(cfg.HasAPIKey())),
			renderRow("Postgres", yesNo(cfg.PostgresDSN != "")),
			renderRow("Log File", orDefault(cfg.LogFile, "stderr")),
		)
	} else {
		rows = append(rows, styles.MutedStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSessionCard() string {
	rows := []string{styles.CardTitleStyle.Render("Session"), ""}

	rows = append(rows, renderRow("City", orDefault(m.state.GetCity(), "-")))
	if updated := m.state.GetLastUpdated(); !updated.IsZero() {
		rows = append(rows, renderRow("Last Analysis", humanize.Time(updated)))
	} else {
		rows = append(rows, renderRow("Last Analysis", "never"))
	}
	if snap := m.state.GetSnapshot(); snap != nil {
		rows = append(rows,
			renderRow("Source", string(snap.Source)),
			renderRow("Flights", fmt.Sprintf("%s raw, %s clean",
				humanize.Comma(int64(snap.RawRows)), humanize.Comma(int64(snap.Cleaned.Len())))),
		)
	}
	rows = append(rows, renderRow("Last Report", orDefault(m.state.GetLastReport(), "none")))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderRow renders a configuration key-value row.
func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.ColorTextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.ColorText)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About Flight Demand TUI"),
		"",
		version.Info(),
		renderRow("Go Version", runtime.Version()),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
