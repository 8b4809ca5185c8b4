package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const runColumns = `id, created_at, city, source, raw_rows, clean_rows, avg_price,
	domestic_pct, opportunity_count, busiest_day, busiest_month`

// RecordRun stores a pipeline run, assigning an ID and timestamp when unset.
func (db *DB) RecordRun(ctx context.Context, run *models.AnalysisRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	query := `INSERT INTO analysis_runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		run.ID,
		run.CreatedAt.UTC().Format(sqlTimeFormat),
		run.City,
		string(run.Source),
		run.RawRows,
		run.CleanRows,
		nullPtr(run.AvgPrice),
		nullPtr(run.DomesticPct),
		run.OpportunityCount,
		nullString(run.BusiestDay),
		nullString(run.BusiestMonth),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return nil
}

// GetRun returns a run by ID, or nil when it does not exist.
func (db *DB) GetRun(ctx context.Context, id string) (*models.AnalysisRun, error) {
	row := db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM analysis_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	query := `SELECT ` + runColumns + ` FROM analysis_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`
	return db.queryRuns(ctx, query, limit)
}

// RunHistory returns the runs inside tr, newest first.
func (db *DB) RunHistory(ctx context.Context, tr models.TimeRange) (*models.RunHistory, error) {
	var (
		runs []models.AnalysisRun
		err  error
	)
	if days := tr.Days(); days > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(sqlTimeFormat)
		query := `SELECT ` + runColumns + ` FROM analysis_runs WHERE created_at >= ? ORDER BY created_at DESC, rowid DESC`
		runs, err = db.queryRuns(ctx, query, cutoff)
	} else {
		query := `SELECT ` + runColumns + ` FROM analysis_runs ORDER BY created_at DESC, rowid DESC`
		runs, err = db.queryRuns(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	return &models.RunHistory{Runs: runs, TimeRange: tr}, nil
}

func (db *DB) queryRuns(ctx context.Context, query string, args ...any) ([]models.AnalysisRun, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var runs []models.AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.AnalysisRun, error) {
	var (
		run        models.AnalysisRun
		created    string
		source     string
		avgPrice   sql.NullFloat64
		domestic   sql.NullFloat64
		busiestDay sql.NullString
		busiestMon sql.NullString
	)
	err := row.Scan(
		&run.ID,
		&created,
		&run.City,
		&source,
		&run.RawRows,
		&run.CleanRows,
		&avgPrice,
		&domestic,
		&run.OpportunityCount,
		&busiestDay,
		&busiestMon,
	)
	if err != nil {
		return nil, err
	}

	run.CreatedAt, _ = time.ParseInLocation(sqlTimeFormat, created, time.UTC)
	run.Source = models.DataSource(source)
	if avgPrice.Valid {
		run.AvgPrice = models.Ptr(avgPrice.Float64)
	}
	if domestic.Valid {
		run.DomesticPct = models.Ptr(domestic.Float64)
	}
	run.BusiestDay = busiestDay.String
	run.BusiestMonth = busiestMon.String
	return &run, nil
}
