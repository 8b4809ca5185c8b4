package info

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-demand-tui/internal/app"
	"github.com/j-veylop/flight-demand-tui/internal/config"
	"github.com/j-veylop/flight-demand-tui/internal/services/servicestest"
)

func TestNew(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), &config.Config{})

	updated, cmd := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
	if cmd != nil {
		t.Error("non-key messages should be ignored")
	}
	if updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown}); updated == nil {
		t.Error("Update returned nil model")
	}
}

func TestModel_View_Config(t *testing.T) {
	cfg := &config.Config{
		DatabasePath:     "/tmp/flights.db",
		DefaultCity:      "Sydney",
		DateRangeDays:    30,
		AviationStackKey: "secret",
	}
	m := New(app.NewState(), cfg)
	m.SetSize(100, 60)

	view := m.View()
	for _, want := range []string{"/tmp/flights.db", "built-in", "disabled", "30 days", "never", "none", "fdt "} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "secret") {
		t.Error("API key must not be displayed")
	}
}

func TestModel_View_NoConfig(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(80, 40)
	if !strings.Contains(m.View(), "Configuration not loaded") {
		t.Error("expected missing config notice")
	}
}

func TestModel_View_Session(t *testing.T) {
	state := app.NewState()
	state.SetSnapshot(servicestest.Snapshot("MEL", 3))
	state.SetLastReport("reports/flight_analysis_melbourne.pdf")

	m := New(state, &config.Config{})
	m.SetSize(100, 60)

	view := m.View()
	for _, want := range []string{"Melbourne", "mock", "raw", "flight_analysis_melbourne.pdf"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
