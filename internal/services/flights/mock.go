package flights

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

var mockAirlines = []string{"Qantas", "Virgin Australia", "Jetstar", "Tiger Air", "Emirates", "Singapore Airlines"}

// Airports is the airport information the generator needs.
type Airports interface {
	IsDomestic(code string) bool
	Codes() []string
	DomesticCodes() []string
}

// Generator synthesizes plausible flight tables. Seeding rng makes the
// output reproducible.
type Generator struct {
	rng      *rand.Rand
	airports Airports
}

// NewGenerator creates a generator. A nil rng uses a time-seeded source.
func NewGenerator(airports Airports, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng, airports: airports}
}

// Generate returns flights departing origin on each of days consecutive
// days starting at start. Weekends and holiday months are busier and
// pricier.
func (g *Generator) Generate(origin string, start time.Time, days int) *models.FlightTable {
	destinations := g.destinations(origin)
	cols := models.NewColumnSet(
		models.ColFlightDate, models.ColFlightTime, models.ColOrigin, models.ColDestination,
		models.ColPrice, models.ColAirline, models.ColDuration, models.ColIsDomestic,
	)
	if len(destinations) == 0 {
		return models.NewFlightTable(cols, nil)
	}

	originDomestic := g.airports.IsDomestic(origin)
	var records []models.FlightRecord
	for d := 0; d < days; d++ {
		date := time.Date(start.Year(), start.Month(), start.Day()+d, 0, 0, 0, 0, time.UTC)
		weekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
		month := date.Month()

		n := g.between(8, 20)
		if weekend {
			n = g.between(15, 30)
		}
		switch month {
		case time.December, time.January:
			n = int(float64(n) * 1.5)
		case time.June, time.July:
			n = int(float64(n) * 1.3)
		}

		for i := 0; i < n; i++ {
			dest := destinations[g.rng.Intn(len(destinations))]
			domestic := originDomestic && g.airports.IsDomestic(dest)

			var price, duration int
			if domestic {
				price = g.between(120, 500)
				duration = g.between(60, 180)
			} else {
				price = g.between(500, 2000)
				duration = g.between(180, 900)
			}
			if weekend {
				price = int(float64(price) * 1.2)
			}
			if isPeakMonth(month) {
				price = int(float64(price) * 1.3)
			}
			price = max(100, price+g.between(-50, 100))

			records = append(records, models.FlightRecord{
				FlightDate:  models.Ptr(date),
				RawDate:     date.Format(time.DateOnly),
				FlightTime:  models.Ptr(fmt.Sprintf("%02d:%02d", g.between(6, 22), g.rng.Intn(60))),
				Origin:      origin,
				Destination: dest,
				Price:       models.Ptr(float64(price)),
				Airline:     models.Ptr(mockAirlines[g.rng.Intn(len(mockAirlines))]),
				Duration:    models.Ptr(duration),
				IsDomestic:  models.Ptr(domestic),
			})
		}
	}
	return models.NewFlightTable(cols, records)
}

// destinations lists every known airport but origin for a home-country
// origin, and only home-country airports otherwise.
func (g *Generator) destinations(origin string) []string {
	var pool []string
	if g.airports.IsDomestic(origin) {
		pool = g.airports.Codes()
	} else {
		pool = g.airports.DomesticCodes()
	}
	return slices.DeleteFunc(slices.Clone(pool), func(c string) bool { return c == origin })
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func isPeakMonth(m time.Month) bool {
	switch m {
	case time.December, time.January, time.June, time.July:
		return true
	}
	return false
}
