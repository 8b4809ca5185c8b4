package overview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-demand-tui/internal/app"
	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/services/servicestest"
)

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestModel_View_Empty(t *testing.T) {
	state := app.NewState()
	state.SetLoading(app.ResourceInitial, false)
	m := New(state)
	m.SetSize(100, 30)

	view := m.View()
	if !strings.Contains(view, "No analysis yet") {
		t.Errorf("expected empty state, got %q", view)
	}
}

func TestModel_View_Snapshot(t *testing.T) {
	state := app.NewState()
	state.SetLoading(app.ResourceInitial, false)
	state.SetSnapshot(servicestest.Snapshot("SYD", 10))

	m := New(state)
	m.SetSize(120, 80)

	view := m.View()
	for _, want := range []string{
		"Flight Market Overview: Sydney",
		"Total flights",
		"Median price",
		"Top destinations",
		"Busiest day",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_View_NoSummary(t *testing.T) {
	state := app.NewState()
	snap := servicestest.Snapshot("SYD", 1)
	snap.Insights = models.NewInsightsDocument()
	snap.Insights.Skipped = []models.SkippedPass{{Pass: "summary", Kind: models.SkipEmptyInput}}
	state.SetSnapshot(snap)

	m := New(state)
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "No flights survived cleaning") {
		t.Error("expected no-summary notice")
	}
	if !strings.Contains(view, "empty input") {
		t.Error("expected skipped pass to be listed")
	}
}

func TestModel_Update_StartsAnimation(t *testing.T) {
	state := app.NewState()
	state.SetSnapshot(servicestest.Snapshot("SYD", 10))
	m := New(state)

	_, cmd := m.Update(app.SnapshotUpdatedMsg{Snapshot: state.GetSnapshot()})
	if cmd == nil {
		t.Fatal("expected animation tick command")
	}

	pct := *state.GetSnapshot().Insights.Summary.DomesticPercentage
	if m.share.to != pct {
		t.Errorf("animation target = %v, want %v", m.share.to, pct)
	}

	m.Update(animationTickMsg(m.share.start.Add(2 * animationDuration)))
	if m.share.current != pct {
		t.Errorf("animation should settle at %v, got %v", pct, m.share.current)
	}
}

func TestShareAnimation_Step(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var a shareAnimation
	if !a.retarget(80, start) {
		t.Fatal("retarget should report a running animation")
	}

	a.step(start.Add(animationDuration / 2))
	if a.current <= 0 || a.current >= 80 {
		t.Errorf("midway value out of range: %v", a.current)
	}
	// ease-out covers more than half the distance by the midpoint
	if a.current < 40 {
		t.Errorf("expected ease-out, got %v", a.current)
	}

	a.step(start.Add(animationDuration))
	if a.current != 80 {
		t.Errorf("final value = %v, want 80", a.current)
	}
	if a.retarget(80, start) {
		t.Error("unchanged target should not animate")
	}
}

func TestModel_Update_Keys(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 10)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	if updated == nil {
		t.Fatal("Update returned nil model")
	}
	if len(m.ShortHelp()) != 3 || len(m.FullHelp()) != 1 {
		t.Error("unexpected help bindings")
	}
}
