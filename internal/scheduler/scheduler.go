// Package scheduler runs periodic refreshes and writes a PDF report after
// each one.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron"

	"github.com/j-veylop/flight-demand-tui/internal/analysis"
	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/report"
	"github.com/j-veylop/flight-demand-tui/internal/services"
)

const jobTimeout = 5 * time.Minute

// Refresher produces a fresh analysis snapshot.
type Refresher interface {
	Refresh(ctx context.Context, city string) (*services.Snapshot, error)
}

// Scheduler triggers refreshes on a cron spec with a seconds field, for
// example "0 0 6 * * *" for 06:00 every day.
type Scheduler struct {
	mu        sync.Mutex
	cron      *cron.Cron
	refresher Refresher
	airports  analysis.AirportLookup
	reportDir string
	city      string
	lastPath  string
	lastErr   error
}

// New validates spec and registers the refresh job. Call Start to run it.
func New(spec string, refresher Refresher, airports analysis.AirportLookup, reportDir, city string) (*Scheduler, error) {
	if _, err := cron.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}

	s := &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		airports:  airports,
		reportDir: reportDir,
		city:      city,
	}
	if err := s.cron.AddFunc(spec, s.runJob); err != nil {
		return nil, fmt.Errorf("failed to schedule refresh: %w", err)
	}
	return s, nil
}

// Start begins running the job in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("refresh scheduler started", "city", s.city, "report_dir", s.reportDir)
}

// Stop halts future runs. A run in progress completes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Next returns the next scheduled run time.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Last returns the path written by the latest run and its error.
func (s *Scheduler) Last() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPath, s.lastErr
}

func (s *Scheduler) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	path, err := s.RunOnce(ctx)
	if err != nil {
		logger.Error("scheduled refresh failed", "error", err)
	}

	s.mu.Lock()
	s.lastPath, s.lastErr = path, err
	s.mu.Unlock()
}

// RunOnce refreshes and writes the PDF report, returning its path.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	snap, err := s.refresher.Refresh(ctx, s.city)
	if err != nil {
		return "", fmt.Errorf("failed to refresh: %w", err)
	}

	if err := os.MkdirAll(s.reportDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(s.reportDir, ReportFileName(snap.City, snap.UpdatedAt))
	if err := report.WritePDFFile(path, snap.ReportData(s.airports)); err != nil {
		return "", err
	}
	logger.Info("scheduled report written", "path", path, "source", snap.Source)
	return path, nil
}

// ReportFileName returns the PDF file name for a report generated at ts.
func ReportFileName(city string, ts time.Time) string {
	return report.FileName(city, ts, "pdf")
}
