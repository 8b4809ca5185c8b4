package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-demand-tui/internal/config"
	"github.com/j-veylop/flight-demand-tui/internal/dataset"
	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/services"
	"github.com/j-veylop/flight-demand-tui/internal/services/servicestest"
)

func TestCommands_Tick(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.Tick(time.Millisecond) == nil {
		t.Error("Tick returned nil")
	}
	if cmds.DefaultTick() == nil {
		t.Error("DefaultTick returned nil")
	}
}

func TestCommands_RefreshWithoutManager(t *testing.T) {
	if NewCommands(nil).Refresh("Sydney") != nil {
		t.Error("Refresh without a manager should return nil")
	}
}

func TestCommands_Notifications(t *testing.T) {
	cmds := NewCommands(nil)

	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
		dur  time.Duration
	}{
		{"Success", cmds.NotifySuccess, NotificationSuccess, DefaultNotificationDuration},
		{"Error", cmds.NotifyError, NotificationError, LongNotificationDuration},
		{"Warning", cmds.NotifyWarning, NotificationWarning, DefaultNotificationDuration},
		{"Info", cmds.NotifyInfo, NotificationInfo, QuickNotificationDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.fn("msg")()

			addMsg, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration != tt.dur {
				t.Errorf("Duration = %v, want %v", addMsg.Duration, tt.dur)
			}
		})
	}
}

func TestCommands_ClearNotification(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.ClearNotification("id", time.Millisecond) == nil {
		t.Error("ClearNotification returned nil")
	}
	if cmds.Delayed(time.Millisecond, ToggleHelpMsg{}) == nil {
		t.Error("Delayed returned nil")
	}
}

func TestNextCity(t *testing.T) {
	cities := []string{"Sydney", "Melbourne", "Brisbane"}

	tests := []struct {
		current string
		want    string
	}{
		{"Sydney", "Melbourne"},
		{"brisbane", "Sydney"},
		{"Atlantis", "Sydney"},
		{"", "Sydney"},
	}
	for _, tt := range tests {
		if got := nextCity(cities, tt.current); got != tt.want {
			t.Errorf("nextCity(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}

	if got := nextCity(nil, "Perth"); got != "Perth" {
		t.Errorf("nextCity with no cities = %q, want Perth", got)
	}
}

func TestOutputPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")
	snap := &services.Snapshot{City: "Gold Coast", UpdatedAt: time.Date(2024, 12, 24, 18, 30, 5, 0, time.UTC)}

	path, err := outputPath(dir, snap, "pdf")
	if err != nil {
		t.Fatalf("outputPath: %v", err)
	}
	if want := filepath.Join(dir, "flight_analysis_gold_coast_20241224_183005.pdf"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Error("output directory should be created")
	}
}

func TestExportCmd_NoSnapshot(t *testing.T) {
	msg := exportCmd(nil, nil, t.TempDir(), FormatCSV)()
	res, ok := msg.(ExportResultMsg)
	if !ok {
		t.Fatalf("Expected ExportResultMsg, got %T", msg)
	}
	if !errors.Is(res.Error, errNoAnalysis) {
		t.Errorf("Error = %v, want errNoAnalysis", res.Error)
	}

	report, ok := writeReportCmd(nil, nil, t.TempDir())().(ReportWrittenMsg)
	if !ok || !errors.Is(report.Error, errNoAnalysis) {
		t.Errorf("writeReportCmd without snapshot = %+v", report)
	}
}

func TestExportCmd_CSV(t *testing.T) {
	dir := t.TempDir()
	snap := servicestest.Snapshot("SYD", 5)

	msg := exportCmd(nil, snap, dir, FormatCSV)()
	res := msg.(ExportResultMsg)
	if res.Error != nil {
		t.Fatalf("export failed: %v", res.Error)
	}
	if !strings.HasSuffix(res.Path, ".csv") {
		t.Errorf("Path = %q, want .csv", res.Path)
	}

	table, err := dataset.ReadCSVFile(res.Path)
	if err != nil {
		t.Fatalf("ReadCSVFile: %v", err)
	}
	if table.Len() != snap.Cleaned.Len() {
		t.Errorf("exported %d rows, want %d", table.Len(), snap.Cleaned.Len())
	}
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	res := exportCmd(nil, servicestest.Snapshot("SYD", 1), t.TempDir(), "parquet")().(ExportResultMsg)
	if res.Error == nil || !strings.Contains(res.Error.Error(), "unsupported") {
		t.Errorf("Error = %v, want unsupported format", res.Error)
	}
}

func TestWaitForServiceEventCmd(t *testing.T) {
	ch := make(chan services.ServiceEvent, 1)
	ch <- services.ErrorEvent{Service: "flights", Error: errors.New("boom")}

	msg := waitForServiceEventCmd(ch)()
	ev, ok := msg.(ServiceEventMsg)
	if !ok {
		t.Fatalf("Expected ServiceEventMsg, got %T", msg)
	}
	if e, ok := ev.Event.(services.ErrorEvent); !ok || e.Service != "flights" {
		t.Errorf("unexpected event %#v", ev.Event)
	}

	close(ch)
	if waitForServiceEventCmd(ch)() != nil {
		t.Error("closed channel should yield nil")
	}
}

func TestLoadInitialData_File(t *testing.T) {
	dir := t.TempDir()
	mgr, err := services.NewManager(&config.Config{
		DatabasePath:  filepath.Join(dir, "test.db"),
		DefaultCity:   "Sydney",
		DateRangeDays: 5,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	path := filepath.Join(dir, "flights.csv")
	csv := "flight_date,origin,destination,price,airline\n" +
		"2024-06-01,SYD,MEL,150,Qantas\n" +
		"2024-06-02,SYD,AKL,480,Qantas\n"
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}

	msg, ok := loadInitialData(mgr, path)().(AnalysisLoadedMsg)
	if !ok {
		t.Fatal("expected AnalysisLoadedMsg")
	}
	if msg.Error != nil {
		t.Fatalf("load failed: %v", msg.Error)
	}
	if msg.Snapshot.Source != models.SourceFile {
		t.Errorf("Source = %v, want %v", msg.Snapshot.Source, models.SourceFile)
	}
	if msg.Snapshot.Cleaned.Len() != 2 {
		t.Errorf("Cleaned rows = %d, want 2", msg.Snapshot.Cleaned.Len())
	}

	missing := loadInitialData(mgr, filepath.Join(dir, "missing.csv"))().(AnalysisLoadedMsg)
	if missing.Error == nil {
		t.Error("expected error for missing file")
	}
}
