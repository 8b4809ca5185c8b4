package analysis

import (
	"cmp"
	"slices"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

// DefaultTopRoutes is the number of routes kept by the popular routes pass.
const DefaultTopRoutes = 10

const passPopularRoutes = "popular_routes"

type routeCount struct {
	key   models.RouteKey
	count int
	rows  []int
}

// countRoutes returns route frequencies in first-seen order.
func countRoutes(t *models.FlightTable) []routeCount {
	groups := groupRecords(t, func(i int) (models.RouteKey, bool) {
		return t.Record(i).Route(), true
	})
	out := make([]routeCount, 0, len(groups.keys))
	for _, k := range groups.keys {
		out = append(out, routeCount{key: k, count: len(groups.rows[k]), rows: groups.rows[k]})
	}
	return out
}

// routesByKey returns route groups in ascending origin, destination order.
func routesByKey(t *models.FlightTable) []routeCount {
	routes := countRoutes(t)
	slices.SortFunc(routes, func(a, b routeCount) int {
		if c := cmp.Compare(a.key.Origin, b.key.Origin); c != 0 {
			return c
		}
		return cmp.Compare(a.key.Destination, b.key.Destination)
	})
	return routes
}

// popularRoutes ranks routes by frequency. Ties keep first-seen order.
func (e *Engine) popularRoutes(t *models.FlightTable, doc *models.InsightsDocument) *SkipError {
	if skip := requireColumns(passPopularRoutes, t, models.ColOrigin, models.ColDestination); skip != nil {
		return skip
	}

	routes := countRoutes(t)
	slices.SortStableFunc(routes, func(a, b routeCount) int {
		return cmp.Compare(b.count, a.count)
	})
	if len(routes) > e.topRoutes {
		routes = routes[:e.topRoutes]
	}

	out := make([]models.RouteFrequency, 0, len(routes))
	for _, r := range routes {
		out = append(out, models.RouteFrequency{
			Origin:      r.key.Origin,
			Destination: r.key.Destination,
			Frequency:   r.count,
			IsDomestic:  e.isDomesticRoute(r.key),
		})
	}
	doc.PopularRoutes = out
	return nil
}

func (e *Engine) isDomesticRoute(k models.RouteKey) bool {
	if e.airports == nil {
		return false
	}
	return e.airports.IsDomestic(k.Origin) && e.airports.IsDomestic(k.Destination)
}
