package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/services"
	"github.com/j-veylop/flight-demand-tui/internal/services/servicestest"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if s.GetSnapshot() != nil {
		t.Error("Snapshot should be nil")
	}
	if s.Loading.Initial != true {
		t.Error("Initial loading should be true")
	}
	if s.TimeSinceUpdate() != 0 {
		t.Error("TimeSinceUpdate should be 0 before the first analysis")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading(ResourceAnalysis, true)
	if !s.Loading.Analysis {
		t.Error("Analysis loading should be true")
	}
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true")
	}

	s.SetLoading(ResourceAnalysis, false)
	// Initial is still true
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading(ResourceInitial, false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}
	if s.IsInitialLoading() {
		t.Error("IsInitialLoading should be false")
	}

	resources := s.GetLoadingResources()
	if len(resources) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", resources)
	}

	s.SetLoading(ResourceReport, true)
	s.SetLoading(ResourceExport, true)
	resources = s.GetLoadingResources()
	if len(resources) != 2 || resources[0] != ResourceReport || resources[1] != ResourceExport {
		t.Errorf("GetLoadingResources = %v, want [report export]", resources)
	}

	s.SetLoading("unknown", true)
	if len(s.GetLoadingResources()) != 2 {
		t.Error("unknown resources should be ignored")
	}
}

func TestState_Snapshot(t *testing.T) {
	s := NewState()

	s.SetSnapshot(nil)
	if s.GetSnapshot() != nil {
		t.Error("nil snapshot should be ignored")
	}

	snap := servicestest.Snapshot("SYD", 3)
	s.SetSnapshot(snap)

	if s.GetSnapshot() != snap {
		t.Error("GetSnapshot should return the stored snapshot")
	}
	if s.GetCity() != "Sydney" {
		t.Errorf("GetCity = %q, want Sydney", s.GetCity())
	}
	if !s.GetLastUpdated().Equal(snap.UpdatedAt) {
		t.Errorf("LastUpdated = %v, want %v", s.GetLastUpdated(), snap.UpdatedAt)
	}
	if s.TimeSinceUpdate() <= 0 {
		t.Error("TimeSinceUpdate should be > 0")
	}
}

func TestState_SnapshotWithoutTimestamp(t *testing.T) {
	s := NewState()
	before := time.Now()

	s.SetSnapshot(&services.Snapshot{City: "Perth"})

	if s.GetLastUpdated().Before(before) {
		t.Error("LastUpdated should default to now")
	}
}

func TestState_LastReport(t *testing.T) {
	s := NewState()
	if s.GetLastReport() != "" {
		t.Error("LastReport should start empty")
	}
	s.SetLastReport("out/report.pdf")
	if s.GetLastReport() != "out/report.pdf" {
		t.Errorf("GetLastReport = %q", s.GetLastReport())
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}
	other := s.AddNotification(NotificationInfo, "again", time.Minute)
	if other == id {
		t.Error("notification IDs should be unique")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 2 {
		t.Fatalf("GetNotifications len = %d, want 2", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 1 {
		t.Error("Notification should be removed")
	}

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications should remove everything")
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()
	for i := 0; i < maxNotifications+5; i++ {
		s.AddNotification(NotificationInfo, fmt.Sprintf("n%d", i), time.Minute)
	}

	notifs := s.GetNotifications()
	if len(notifs) != maxNotifications {
		t.Fatalf("len = %d, want %d", len(notifs), maxNotifications)
	}
	if notifs[0].Message != "n5" {
		t.Errorf("oldest kept = %s, want n5", notifs[0].Message)
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	// Expired
	s.notifications = append(s.notifications, Notification{
		ID:        "expired",
		CreatedAt: time.Now().Add(-2 * time.Minute),
		Duration:  time.Minute,
	})

	// Active
	s.notifications = append(s.notifications, Notification{
		ID:        "active",
		CreatedAt: time.Now(),
		Duration:  time.Minute,
	})

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != "active" {
		t.Errorf("Expected active notification, got %s", notifs[0].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID {
		t.Errorf("Expected ID %s, got %s", LoadingNotificationID, notifs[0].ID)
	}
	if notifs[0].Type != NotificationLoading {
		t.Errorf("Expected loading type, got %v", notifs[0].Type)
	}

	// Update message
	s.SetLoadingNotification("still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification after update")
	}
	if notifs[0].Message != "still loading..." {
		t.Errorf("Expected message still loading..., got %s", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
