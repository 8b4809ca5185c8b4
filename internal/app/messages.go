package app

import (
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// RefreshMsg requests a new analysis run. An empty City keeps the current one.
type RefreshMsg struct {
	City string
}

// AnalysisLoadedMsg carries the result of a refresh or file import.
type AnalysisLoadedMsg struct {
	Snapshot *services.Snapshot
	Error    error
}

// SnapshotUpdatedMsg tells tabs that State holds a new snapshot.
type SnapshotUpdatedMsg struct {
	Snapshot *services.Snapshot
}

// ReportWrittenMsg contains the result of writing the PDF report.
type ReportWrittenMsg struct {
	Path  string
	Error error
}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Format string
	Path   string
	Error  error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
