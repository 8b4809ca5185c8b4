// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/flight-demand-tui/internal/analysis"
	"github.com/j-veylop/flight-demand-tui/internal/config"
	"github.com/j-veylop/flight-demand-tui/internal/dataset"
	"github.com/j-veylop/flight-demand-tui/internal/db"
	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/report"
	"github.com/j-veylop/flight-demand-tui/internal/services/flights"
	"github.com/j-veylop/flight-demand-tui/internal/services/narrative"
)

type (
	// AnalysisStartedEvent is emitted when a refresh begins.
	AnalysisStartedEvent struct {
		City   string
		Source models.DataSource
	}

	// AnalysisCompletedEvent is emitted when a run finished and was recorded.
	AnalysisCompletedEvent struct {
		Snapshot         *Snapshot
		NewOpportunities []models.Opportunity
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (AnalysisStartedEvent) isServiceEvent()   {}
func (AnalysisCompletedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()             {}

// Snapshot is the outcome of the latest pipeline run.
type Snapshot struct {
	UpdatedAt time.Time
	Cleaned   *models.FlightTable
	Insights  *models.InsightsDocument
	Narrative narrative.Narrative
	Run       *models.AnalysisRun
	City      string
	Source    models.DataSource
	RawRows   int
}

// ReportData converts the snapshot into report input.
func (s *Snapshot) ReportData(airports analysis.AirportLookup) report.Data {
	return report.Data{
		GeneratedAt: s.UpdatedAt,
		City:        s.City,
		Insights:    s.Insights,
		Narrative:   s.Narrative,
		Cleaned:     s.Cleaned,
		Airports:    airports,
	}
}

// Manager orchestrates data acquisition, analysis and event routing.
type Manager struct {
	mu          sync.RWMutex
	refreshMu   sync.Mutex
	cfg         *config.Config
	airports    *config.Airports
	database    *db.DB
	flights     *flights.Service
	engine      *analysis.Engine
	watcher     *csvWatcher
	notify      func(title, body string) error
	subscribers []chan<- ServiceEvent
	snapshot    *Snapshot
	city        string
	knownOpps   map[string]bool
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	airports, err := config.LoadAirports(cfg.AirportsPath)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:      cfg,
		airports: airports,
		engine:   analysis.NewEngine(airports, analysis.WithTopRoutes(cfg.TopRoutes)),
		city:     cfg.DefaultCity,
		notify: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
	if m.city == "" {
		m.city = "Sydney"
	}

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if cfg.CacheDuration > 0 {
		if n, err := m.database.PruneFlightCache(context.Background(), cfg.CacheDuration); err != nil {
			logger.Warn("failed to prune flight cache", "error", err)
		} else if n > 0 {
			logger.Debug("pruned stale cached flights", "rows", n)
			if err := m.database.Vacuum(); err != nil {
				logger.Warn("failed to vacuum database", "error", err)
			}
		}
	}

	m.flights = flights.NewService(cfg, airports, m.database)

	if cfg.WatchPath != "" {
		m.watcher, err = newCSVWatcher(cfg.WatchPath, m.handleWatchedFile)
		if err != nil {
			_ = m.database.Close()
			return nil, fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	return m, nil
}

// Refresh acquires flights for city (the current city when empty),
// analyzes them and records the run.
func (m *Manager) Refresh(ctx context.Context, city string) (*Snapshot, error) {
	if city == "" {
		city = m.City()
	}
	m.broadcast(AnalysisStartedEvent{City: city})

	raw, source, err := m.flights.Fetch(ctx, flights.Query{City: city, Days: m.cfg.DateRangeDays})
	if err != nil {
		m.broadcast(ErrorEvent{Service: "flights", Error: err})
		return nil, err
	}

	m.mu.Lock()
	m.city = city
	m.mu.Unlock()

	return m.analyze(ctx, city, source, raw)
}

// LoadFile analyzes a flight CSV instead of fetching.
func (m *Manager) LoadFile(ctx context.Context, path string) (*Snapshot, error) {
	m.broadcast(AnalysisStartedEvent{City: m.City(), Source: models.SourceFile})

	raw, err := dataset.ReadCSVFile(path)
	if err != nil {
		err = fmt.Errorf("failed to load %s: %w", path, err)
		m.broadcast(ErrorEvent{Service: "dataset", Error: err})
		return nil, err
	}
	return m.analyze(ctx, m.City(), models.SourceFile, raw)
}

func (m *Manager) analyze(ctx context.Context, city string, source models.DataSource, raw *models.FlightTable) (*Snapshot, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	res := m.engine.Run(raw)
	snap := &Snapshot{
		UpdatedAt: time.Now(),
		Cleaned:   res.Cleaned,
		Insights:  res.Insights,
		Narrative: narrative.Generate(res.Insights),
		City:      city,
		Source:    source,
		RawRows:   raw.Len(),
	}
	snap.Run = newRun(snap)

	if err := m.database.RecordRun(ctx, snap.Run); err != nil {
		logger.Error("failed to record analysis run", "error", err)
		m.broadcast(ErrorEvent{Service: "db", Error: err})
	}

	fresh := m.newOpportunities(res.Insights.MarketOpportunities)

	m.mu.Lock()
	m.snapshot = snap
	m.mu.Unlock()

	logger.Info("analysis run recorded", "city", city, "source", source, "raw_rows", snap.RawRows,
		"clean_rows", res.Cleaned.Len(), "opportunities", len(res.Insights.MarketOpportunities))

	m.broadcast(AnalysisCompletedEvent{Snapshot: snap, NewOpportunities: fresh})
	return snap, nil
}

func newRun(s *Snapshot) *models.AnalysisRun {
	run := &models.AnalysisRun{
		CreatedAt:        s.UpdatedAt,
		City:             s.City,
		Source:           s.Source,
		RawRows:          s.RawRows,
		CleanRows:        s.Cleaned.Len(),
		OpportunityCount: len(s.Insights.MarketOpportunities),
	}
	if sum := s.Insights.Summary; sum != nil {
		run.AvgPrice = sum.AvgPrice
		run.DomesticPct = sum.DomesticPercentage
		if sum.BusiestDay != nil {
			run.BusiestDay = *sum.BusiestDay
		}
		if sum.BusiestMonth != nil {
			run.BusiestMonth = *sum.BusiestMonth
		}
	}
	return run
}

// newOpportunities returns the opportunities not flagged by any earlier
// run and notifies about them. The first run only seeds the known set.
func (m *Manager) newOpportunities(opps []models.Opportunity) []models.Opportunity {
	m.mu.Lock()
	first := m.knownOpps == nil
	if first {
		m.knownOpps = make(map[string]bool)
	}
	var fresh []models.Opportunity
	for _, o := range opps {
		key := string(o.Type) + ":" + o.Route().String()
		if !m.knownOpps[key] {
			m.knownOpps[key] = true
			if !first {
				fresh = append(fresh, o)
			}
		}
	}
	m.mu.Unlock()

	if len(fresh) > 0 && m.cfg.Notifications && m.notify != nil {
		title := fmt.Sprintf("New market opportunities: %d", len(fresh))
		body := fmt.Sprintf("%s (%s)", fresh[0].Route(), fresh[0].Type.Title())
		if err := m.notify(title, body); err != nil {
			logger.Debug("desktop notification failed", "error", err)
		}
	}
	return fresh
}

func (m *Manager) handleWatchedFile(path string) {
	if _, err := m.LoadFile(context.Background(), path); err != nil {
		logger.Error("failed to reload watched file", "path", path, "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Snapshot returns the latest run, or nil before the first one.
func (m *Manager) Snapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// City returns the city the next refresh will use.
func (m *Manager) City() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.city
}

// Airports returns the loaded airport tables.
func (m *Manager) Airports() *config.Airports {
	return m.airports
}

// Engine returns the analysis engine.
func (m *Manager) Engine() *analysis.Engine {
	return m.engine
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// RunHistory returns the recorded runs inside a time range.
func (m *Manager) RunHistory(ctx context.Context, tr models.TimeRange) (*models.RunHistory, error) {
	if m.database == nil {
		return nil, errors.New("database not initialized")
	}
	return m.database.RunHistory(ctx, tr)
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
