// Package servicestest builds deterministic analysis snapshots for UI tests.
package servicestest

import (
	"math/rand"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/analysis"
	"github.com/j-veylop/flight-demand-tui/internal/config"
	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/services"
	"github.com/j-veylop/flight-demand-tui/internal/services/flights"
	"github.com/j-veylop/flight-demand-tui/internal/services/narrative"
)

// Start is the first flight date of generated snapshots.
var Start = time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)

// Snapshot analyzes days of seeded mock departures from origin.
func Snapshot(origin string, days int) *services.Snapshot {
	airports := config.DefaultAirports()
	raw := flights.NewGenerator(airports, rand.New(rand.NewSource(1))).Generate(origin, Start, days)
	res := analysis.NewEngine(airports).Run(raw)

	city := airports.CityName(origin)
	if city == "" {
		city = origin
	}
	return &services.Snapshot{
		UpdatedAt: Start.AddDate(0, 0, days),
		Cleaned:   res.Cleaned,
		Insights:  res.Insights,
		Narrative: narrative.Generate(res.Insights),
		City:      city,
		Source:    models.SourceMock,
		RawRows:   raw.Len(),
	}
}
