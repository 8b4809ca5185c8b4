package prices

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-demand-tui/internal/app"
	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/services/servicestest"
)

func TestModel_View_Empty(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 20)
	if !strings.Contains(m.View(), "No price data yet") {
		t.Error("expected empty state")
	}
}

func TestModel_View_NoPrices(t *testing.T) {
	state := app.NewState()
	snap := servicestest.Snapshot("SYD", 3)
	snap.Insights = models.NewInsightsDocument()
	state.SetSnapshot(snap)

	m := New(state)
	m.SetSize(80, 20)
	if !strings.Contains(m.View(), "no usable prices") {
		t.Error("expected no-prices notice")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	state.SetSnapshot(servicestest.Snapshot("SYD", 21))

	m := New(state)
	m.SetSize(140, 120)

	view := m.View()
	for _, want := range []string{
		"Prices: Sydney",
		"Median",
		"Daily price trend",
		"Weekly trend",
		"2024-W49",
		"Price bands",
		"Budget",
		"Avg price by weekday",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ToggleMedian(t *testing.T) {
	state := app.NewState()
	state.SetSnapshot(servicestest.Snapshot("SYD", 7))
	m := New(state)
	m.SetSize(140, 120)

	if !strings.Contains(m.View(), "Median") {
		t.Fatal("median legend should be shown by default")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if m.showMedian {
		t.Fatal("m should hide the median series")
	}
	if strings.Contains(m.View(), "■ Median") {
		t.Error("median legend should be hidden")
	}
}

func TestRenderWeekly_KeepsLatest(t *testing.T) {
	weeks := make([]models.WeeklyPriceTrend, 12)
	for i := range weeks {
		weeks[i] = models.WeeklyPriceTrend{Year: 2024, Week: i + 1, AvgPrice: 100, MedianPrice: 100, FlightCount: 1}
	}

	out := renderWeekly(weeks)
	if strings.Contains(out, "2024-W04") {
		t.Error("oldest weeks should be dropped")
	}
	if !strings.Contains(out, "2024-W05") || !strings.Contains(out, "2024-W12") {
		t.Error("latest weeks should be kept")
	}
}
