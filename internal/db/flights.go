package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/models"
)

// SaveFlights replaces the cached rows for key with table.
func (db *DB) SaveFlights(ctx context.Context, key string, table *models.FlightTable, fetchedAt time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM flight_cache WHERE cache_key = ?", key); err != nil {
		return fmt.Errorf("failed to clear cached flights: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO flight_cache (
			cache_key, fetched_at, columns, flight_date, flight_time, origin,
			destination, price, airline, duration, is_domestic
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare flight insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	ts := fetchedAt.UTC().Format(sqlTimeFormat)
	for i := 0; i < table.Len(); i++ {
		r := table.Record(i)
		_, err := stmt.ExecContext(ctx,
			key,
			ts,
			int64(table.Columns),
			nullString(r.DateKey()),
			nullPtr(r.FlightTime),
			r.Origin,
			r.Destination,
			nullPtr(r.Price),
			nullPtr(r.Airline),
			nullPtr(r.Duration),
			nullPtr(r.IsDomestic),
		)
		if err != nil {
			return fmt.Errorf("failed to insert cached flight: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cached flights: %w", err)
	}
	return nil
}

// FreshFlights returns the rows cached for key if they were fetched within
// maxAge. It returns a nil table when nothing fresh is cached.
func (db *DB) FreshFlights(ctx context.Context, key string, maxAge time.Duration) (*models.FlightTable, time.Time, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(sqlTimeFormat)
	query := `
		SELECT fetched_at, columns, flight_date, flight_time, origin, destination,
			   price, airline, duration, is_domestic
		FROM flight_cache
		WHERE cache_key = ? AND fetched_at >= ?
		ORDER BY id
	`

	rows, err := db.QueryContext(ctx, query, key, cutoff)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to query cached flights: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var (
		records   []models.FlightRecord
		cols      int64
		fetchedAt time.Time
	)
	for rows.Next() {
		var (
			r          models.FlightRecord
			fetched    string
			date, tod  sql.NullString
			airline    sql.NullString
			price      sql.NullFloat64
			duration   sql.NullInt64
			isDomestic sql.NullBool
		)
		err := rows.Scan(&fetched, &cols, &date, &tod, &r.Origin, &r.Destination,
			&price, &airline, &duration, &isDomestic)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan cached flight: %w", err)
		}

		fetchedAt, _ = time.Parse(sqlTimeFormat, fetched)
		r.RawDate = date.String
		if d, err := time.Parse(sqlDateFormat, date.String); err == nil {
			r.FlightDate = &d
		}
		if tod.Valid {
			r.FlightTime = models.Ptr(tod.String)
		}
		if price.Valid {
			r.Price = models.Ptr(price.Float64)
		}
		if airline.Valid {
			r.Airline = models.Ptr(airline.String)
		}
		if duration.Valid {
			r.Duration = models.Ptr(int(duration.Int64))
		}
		if isDomestic.Valid {
			r.IsDomestic = models.Ptr(isDomestic.Bool)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	if len(records) == 0 {
		return nil, time.Time{}, nil
	}

	return models.NewFlightTable(models.ColumnSet(cols), records), fetchedAt, nil
}

// PruneFlightCache deletes cached rows older than maxAge.
func (db *DB) PruneFlightCache(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(sqlTimeFormat)
	res, err := db.ExecContext(ctx, "DELETE FROM flight_cache WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune flight cache: %w", err)
	}
	return res.RowsAffected()
}

// CacheKey builds the cache key for an origin and day window.
func CacheKey(origin string, days int) string {
	return fmt.Sprintf("%s:%d", strings.ToUpper(origin), days)
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullPtr converts an optional value into a driver value.
func nullPtr[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
