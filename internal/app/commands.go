package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-demand-tui/internal/dataset"
	"github.com/j-veylop/flight-demand-tui/internal/report"
	"github.com/j-veylop/flight-demand-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	refreshTimeout = 2 * time.Minute
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var errNoAnalysis = errors.New("no analysis to export yet")

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData runs the first analysis, from file when one is given and
// for the configured city otherwise.
func loadInitialData(mgr *services.Manager, file string) tea.Cmd {
	if file != "" {
		return loadFileCmd(mgr, file)
	}
	return refreshCmd(mgr, "")
}

// loadFileCmd analyzes a flight CSV.
func loadFileCmd(mgr *services.Manager, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		snap, err := mgr.LoadFile(ctx, path)
		return AnalysisLoadedMsg{Snapshot: snap, Error: err}
	}
}

// refreshCmd fetches and analyzes flights for city.
func refreshCmd(mgr *services.Manager, city string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		snap, err := mgr.Refresh(ctx, city)
		return AnalysisLoadedMsg{Snapshot: snap, Error: err}
	}
}

// writeReportCmd renders the snapshot as a PDF inside dir.
func writeReportCmd(mgr *services.Manager, snap *services.Snapshot, dir string) tea.Cmd {
	return func() tea.Msg {
		if snap == nil {
			return ReportWrittenMsg{Error: errNoAnalysis}
		}
		path, err := outputPath(dir, snap, "pdf")
		if err != nil {
			return ReportWrittenMsg{Error: err}
		}
		if err := report.WritePDFFile(path, snap.ReportData(mgr.Airports())); err != nil {
			return ReportWrittenMsg{Error: err}
		}
		return ReportWrittenMsg{Path: path}
	}
}

// exportCmd writes the snapshot as CSV (cleaned flights) or XLSX (workbook).
func exportCmd(mgr *services.Manager, snap *services.Snapshot, dir, format string) tea.Cmd {
	return func() tea.Msg {
		if snap == nil {
			return ExportResultMsg{Format: format, Error: errNoAnalysis}
		}
		path, err := outputPath(dir, snap, format)
		if err != nil {
			return ExportResultMsg{Format: format, Error: err}
		}

		switch format {
		case FormatCSV:
			err = dataset.WriteCSVFile(path, snap.Cleaned)
		case FormatXLSX:
			err = report.WriteXLSXFile(path, snap.ReportData(mgr.Airports()))
		default:
			err = fmt.Errorf("unsupported export format %q", format)
		}
		if err != nil {
			return ExportResultMsg{Format: format, Error: err}
		}
		return ExportResultMsg{Format: format, Path: path}
	}
}

func outputPath(dir string, snap *services.Snapshot, ext string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(dir, report.FileName(snap.City, snap.UpdatedAt, ext)), nil
}

// nextCity returns the city after current in cities, wrapping around.
func nextCity(cities []string, current string) string {
	if len(cities) == 0 {
		return current
	}
	i := slices.IndexFunc(cities, func(c string) bool {
		return strings.EqualFold(c, current)
	})
	return cities[(i+1)%len(cities)]
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// delayedCmd returns a command that sends a message after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return msg
	})
}

// Commands exposes command constructors to the tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// Refresh returns a command that reanalyzes city.
func (c *Commands) Refresh(city string) tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return refreshCmd(c.manager, city)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Delayed returns a command that sends a message after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return delayedCmd(delay, msg)
}
