// Package warehouse exports analyzed flights and opportunities to
// PostgreSQL for downstream reporting.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS flights (
	id          BIGSERIAL PRIMARY KEY,
	run_id      TEXT          NOT NULL,
	flight_date DATE,
	flight_time TEXT,
	origin      VARCHAR(8)    NOT NULL,
	destination VARCHAR(8)    NOT NULL,
	price       NUMERIC(10,2),
	airline     TEXT,
	duration    INTEGER,
	is_domestic BOOLEAN,
	day_of_week SMALLINT,
	month       SMALLINT,
	is_weekend  BOOLEAN,
	exported_at TIMESTAMPTZ   NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_flights_run   ON flights (run_id);
CREATE INDEX IF NOT EXISTS idx_flights_route ON flights (origin, destination);

CREATE TABLE IF NOT EXISTS market_opportunities (
	id               BIGSERIAL PRIMARY KEY,
	run_id           TEXT         NOT NULL,
	type             VARCHAR(32)  NOT NULL,
	origin           VARCHAR(8)   NOT NULL,
	destination      VARCHAR(8)   NOT NULL,
	description      TEXT         NOT NULL,
	frequency        INTEGER,
	median_price     NUMERIC(10,2),
	weekday_price    NUMERIC(10,2),
	weekend_price    NUMERIC(10,2),
	price_difference NUMERIC(10,2),
	high_price_month TEXT,
	low_price_month  TEXT,
	price_ratio      NUMERIC(8,3),
	exported_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	UNIQUE (run_id, type, origin, destination)
);
`

var flightColumns = []string{
	"run_id", "flight_date", "flight_time", "origin", "destination", "price", "airline",
	"duration", "is_domestic", "day_of_week", "month", "is_weekend",
}

// Postgres writes exports into a PostgreSQL database.
type Postgres struct {
	db *sql.DB
}

// Open connects to dsn and ensures the export tables exist.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("connected to postgres warehouse")
	return p, nil
}

// EnsureSchema creates the export tables if they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create warehouse tables: %w", err)
	}
	return nil
}

// ExportFlights bulk-copies the cleaned table in one transaction.
func (p *Postgres) ExportFlights(ctx context.Context, runID string, t *models.FlightTable) (n int, err error) {
	if t.IsEmpty() {
		return 0, nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("flights", flightColumns...))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare copy: %w", err)
	}

	for i := range t.Records {
		if _, err = stmt.ExecContext(ctx, flightArgs(runID, t.Record(i))...); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("failed to copy flight %d: %w", i, err)
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return 0, fmt.Errorf("failed to flush copy: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return 0, fmt.Errorf("failed to close copy: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	logger.Info("exported flights to postgres", "run_id", runID, "rows", t.Len())
	return t.Len(), nil
}

// ExportOpportunities inserts the run's opportunities, skipping ones
// already exported for the same run.
func (p *Postgres) ExportOpportunities(ctx context.Context, runID string, opps []models.Opportunity) (n int, err error) {
	if len(opps) == 0 {
		return 0, nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO market_opportunities (run_id, type, origin, destination, description, frequency,
			median_price, weekday_price, weekend_price, price_difference, high_price_month,
			low_price_month, price_ratio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (run_id, type, origin, destination) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range opps {
		res, execErr := stmt.ExecContext(ctx, opportunityArgs(runID, o)...)
		if execErr != nil {
			err = fmt.Errorf("failed to insert opportunity %s: %w", o.Route(), execErr)
			return 0, err
		}
		if affected, _ := res.RowsAffected(); affected > 0 {
			n++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	logger.Info("exported opportunities to postgres", "run_id", runID, "inserted", n, "total", len(opps))
	return n, nil
}

// Close closes the database connection.
func (p *Postgres) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

func flightArgs(runID string, r *models.FlightRecord) []any {
	var date any
	if r.FlightDate != nil {
		date = r.FlightDate.Format(time.DateOnly)
	}
	return []any{
		runID,
		date,
		deref(r.FlightTime),
		r.Origin,
		r.Destination,
		deref(r.Price),
		deref(r.Airline),
		deref(r.Duration),
		deref(r.IsDomestic),
		deref(r.DayOfWeek),
		deref(r.Month),
		deref(r.IsWeekend),
	}
}

func opportunityArgs(runID string, o models.Opportunity) []any {
	return []any{
		runID,
		string(o.Type),
		o.Origin,
		o.Destination,
		o.Description,
		deref(o.Frequency),
		deref(o.MedianPrice),
		deref(o.WeekdayPrice),
		deref(o.WeekendPrice),
		deref(o.PriceDifference),
		deref(o.HighPriceMonth),
		deref(o.LowPriceMonth),
		deref(o.PriceRatio),
	}
}

// deref maps nil to SQL NULL.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
