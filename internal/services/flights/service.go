package flights

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/config"
	"github.com/j-veylop/flight-demand-tui/internal/db"
	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const defaultDays = 30

// Cache stores fetched tables between runs.
type Cache interface {
	SaveFlights(ctx context.Context, key string, table *models.FlightTable, fetchedAt time.Time) error
	FreshFlights(ctx context.Context, key string, maxAge time.Duration) (*models.FlightTable, time.Time, error)
}

// Query selects the flights to acquire.
type Query struct {
	City string
	Days int
}

// Service acquires raw flight tables for a departure city.
type Service struct {
	cache    Cache
	client   *Client
	gen      *Generator
	airports *config.Airports
	now      func() time.Time
	maxAge   time.Duration
	days     int
}

// NewService wires the cache, the API client (only when a key is
// configured) and the mock generator. cache may be nil.
func NewService(cfg *config.Config, airports *config.Airports, cache Cache) *Service {
	s := &Service{
		cache:    cache,
		gen:      NewGenerator(airports, nil),
		airports: airports,
		now:      time.Now,
		maxAge:   cfg.CacheDuration,
		days:     cfg.DateRangeDays,
	}
	if s.days <= 0 {
		s.days = defaultDays
	}
	if cfg.HasAPIKey() {
		s.client = NewClient(cfg.AviationStackURL, cfg.AviationStackKey, cfg.RequestTimeout, cfg.RequestsPerSecond, cfg.MaxAPIRetries)
	}
	return s
}

// WithClient replaces the API client.
func (s *Service) WithClient(c *Client) *Service {
	s.client = c
	return s
}

// WithRand seeds the mock generator.
func (s *Service) WithRand(rng *rand.Rand) *Service {
	s.gen = NewGenerator(s.airports, rng)
	return s
}

// Fetch returns the raw table for q. Fresh cached rows win; otherwise the
// API is asked when configured, and the mock generator covers any
// failure or empty answer.
func (s *Service) Fetch(ctx context.Context, q Query) (*models.FlightTable, models.DataSource, error) {
	code, ok := s.airports.Resolve(q.City)
	if !ok {
		return nil, "", fmt.Errorf("unknown city or airport %q", q.City)
	}
	days := q.Days
	if days <= 0 {
		days = s.days
	}
	key := db.CacheKey(code, days)

	if s.cache != nil && s.maxAge > 0 {
		table, fetchedAt, err := s.cache.FreshFlights(ctx, key, s.maxAge)
		if err != nil {
			logger.Warn("flight cache lookup failed", "key", key, "error", err)
		} else if !table.IsEmpty() {
			logger.Debug("serving flights from cache", "key", key, "fetched_at", fetchedAt, "rows", table.Len())
			return table, models.SourceCache, nil
		}
	}

	if s.client != nil {
		table, err := s.fetchAPI(ctx, code)
		switch {
		case err == nil && !table.IsEmpty():
			if s.cache != nil {
				if err := s.cache.SaveFlights(ctx, key, table, s.now()); err != nil {
					logger.Warn("failed to cache flights", "key", key, "error", err)
				}
			}
			return table, models.SourceAPI, nil
		case ctx.Err() != nil:
			return nil, "", ctx.Err()
		case err != nil:
			logger.Warn("aviationstack fetch failed, using generated data", "airport", code, "error", err)
		default:
			logger.Warn("aviationstack returned no flights, using generated data", "airport", code)
		}
	}

	table := s.gen.Generate(code, s.now(), days)
	logger.Info("generated mock flights", "airport", code, "days", days, "rows", table.Len())
	return table, models.SourceMock, nil
}

func (s *Service) fetchAPI(ctx context.Context, code string) (*models.FlightTable, error) {
	flights, err := s.client.Departures(ctx, code, defaultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch departures for %s: %w", code, err)
	}
	return ToTable(flights), nil
}
