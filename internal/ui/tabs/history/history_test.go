package history

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-demand-tui/internal/app"
	"github.com/j-veylop/flight-demand-tui/internal/db"
	"github.com/j-veylop/flight-demand-tui/internal/models"
)

type fakeSource struct {
	runs  []models.AnalysisRun
	err   error
	calls []models.TimeRange
}

func (f *fakeSource) RunHistory(_ context.Context, tr models.TimeRange) (*models.RunHistory, error) {
	f.calls = append(f.calls, tr)
	if f.err != nil {
		return nil, f.err
	}
	return &models.RunHistory{Runs: f.runs, TimeRange: tr}, nil
}

func sampleRuns() []models.AnalysisRun {
	now := time.Now()
	return []models.AnalysisRun{
		{ID: "b", CreatedAt: now.Add(-time.Hour), City: "Sydney", Source: models.SourceMock, RawRows: 420, CleanRows: 400, AvgPrice: models.Ptr(612.5), DomesticPct: models.Ptr(55.2), OpportunityCount: 3, BusiestDay: "Saturday"},
		{ID: "a", CreatedAt: now.Add(-48 * time.Hour), City: "Melbourne", Source: models.SourceFile, RawRows: 90, CleanRows: 88, AvgPrice: models.Ptr(480.0), OpportunityCount: 1},
	}
}

// run executes cmd and feeds the resulting message back into m.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	m.Update(cmd())
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.timeRange != models.TimeRange30Days {
		t.Errorf("default range = %v, want 30 days", m.timeRange)
	}
}

func TestModel_Init_NoSource(t *testing.T) {
	m := New(app.NewState(), nil)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init returned nil")
	}
	if _, ok := cmd().(historyErrorMsg); !ok {
		t.Error("expected an error without a source")
	}
}

func TestModel_Load(t *testing.T) {
	src := &fakeSource{runs: sampleRuns()}
	m := New(app.NewState(), src)
	m.SetSize(140, 80)

	run(m, m.Init())
	if m.loading {
		t.Error("loading should be cleared")
	}
	if !m.history.HasData() {
		t.Fatal("expected history data")
	}

	view := m.View()
	for _, want := range []string{"Run History", "30 Days", "2 runs", "Sydney", "Melbourne", "$612.50", "55.2%", "Saturday"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_Empty(t *testing.T) {
	m := New(app.NewState(), &fakeSource{})
	m.SetSize(100, 30)
	run(m, m.Init())

	if !strings.Contains(m.View(), "No analysis runs recorded") {
		t.Error("expected empty state")
	}
}

func TestModel_Error(t *testing.T) {
	m := New(app.NewState(), &fakeSource{err: errors.New("disk on fire")})
	m.SetSize(100, 30)

	msg := m.Init()()
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Error("expected a notification command")
	}
	if !strings.Contains(m.View(), "disk on fire") {
		t.Error("view should show the error")
	}
}

func TestModel_ToggleRange(t *testing.T) {
	src := &fakeSource{runs: sampleRuns()}
	m := New(app.NewState(), src)
	run(m, m.Init())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if m.timeRange != models.TimeRangeAllTime {
		t.Fatalf("range = %v, want All Time", m.timeRange)
	}
	run(m, cmd)

	if got := src.calls[len(src.calls)-1]; got != models.TimeRangeAllTime {
		t.Errorf("last query used %v", got)
	}
	if m.history.TimeRange != models.TimeRangeAllTime {
		t.Error("history should reflect the new range")
	}
}

func TestModel_StaleResultReloads(t *testing.T) {
	src := &fakeSource{runs: sampleRuns()}
	m := New(app.NewState(), src)

	_, cmd := m.Update(historyLoadedMsg{history: &models.RunHistory{TimeRange: models.TimeRange7Days}})
	if cmd == nil {
		t.Fatal("result for another range should trigger a reload")
	}
	if m.history != nil {
		t.Error("stale result must not be kept")
	}
}

func TestModel_ReloadsOnSnapshot(t *testing.T) {
	src := &fakeSource{runs: sampleRuns()}
	m := New(app.NewState(), src)
	run(m, m.Init())
	calls := len(src.calls)

	_, cmd := m.Update(app.SnapshotUpdatedMsg{})
	run(m, cmd)
	if len(src.calls) != calls+1 {
		t.Error("new snapshot should reload history")
	}
}

func TestModel_WithDatabase(t *testing.T) {
	database, err := db.New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	for _, r := range sampleRuns() {
		if err := database.RecordRun(context.Background(), &r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	m := New(app.NewState(), database)
	m.SetSize(140, 80)
	run(m, m.Init())

	if m.errorMsg != "" {
		t.Fatalf("unexpected error: %s", m.errorMsg)
	}
	if len(m.history.Runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(m.history.Runs))
	}
	if m.history.Runs[0].City != "Sydney" {
		t.Error("runs should be newest first")
	}
	if series := m.history.AvgPriceSeries(); len(series) != 2 || series[0] != 480 {
		t.Errorf("avg price series = %v", series)
	}
}
