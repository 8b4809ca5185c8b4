package analysis

import (
	"math/rand"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

type fakeAirports struct {
	domestic map[string]bool
	cities   map[string]string
}

func (f fakeAirports) IsDomestic(code string) bool { return f.domestic[code] }
func (f fakeAirports) CityName(code string) string { return f.cities[code] }

func australia() fakeAirports {
	return fakeAirports{
		domestic: map[string]bool{"SYD": true, "MEL": true, "BNE": true, "PER": true},
		cities:   map[string]string{"SYD": "Sydney", "MEL": "Melbourne", "BNE": "Brisbane", "LAX": "Los Angeles"},
	}
}

func price(p float64) *float64 { return &p }

func day(s string) *time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &d
}

func route(origin, dest string, p *float64) models.FlightRecord {
	return models.FlightRecord{Origin: origin, Destination: dest, Price: p}
}

func dated(date, origin, dest string, p float64) models.FlightRecord {
	return models.FlightRecord{RawDate: date, Origin: origin, Destination: dest, Price: price(p)}
}

var routeCols = models.NewColumnSet(models.ColOrigin, models.ColDestination, models.ColPrice)

var datedCols = models.NewColumnSet(models.ColFlightDate, models.ColOrigin, models.ColDestination, models.ColPrice)

func newRand(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }
