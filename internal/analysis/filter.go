package analysis

import (
	"cmp"
	"slices"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

// RouteFilter narrows a cleaned table. Zero values disable a constraint;
// setting both Domestic and International keeps every route.
type RouteFilter struct {
	Domestic      bool
	International bool
	MinPrice      *float64
	MaxPrice      *float64
}

// Active reports whether the filter excludes anything.
func (f RouteFilter) Active() bool {
	return f.Domestic != f.International || f.MinPrice != nil || f.MaxPrice != nil
}

func (f RouteFilter) keep(r *models.FlightRecord, priced bool) bool {
	if f.Domestic != f.International && r.IsDomestic != nil && *r.IsDomestic != f.Domestic {
		return false
	}
	if !priced {
		return true
	}
	if f.MinPrice != nil && (r.Price == nil || *r.Price < *f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && (r.Price == nil || *r.Price > *f.MaxPrice) {
		return false
	}
	return true
}

// Filter returns a copy of t holding only rows accepted by f. Price bounds
// are inclusive and ignored when t has no price column.
func Filter(t *models.FlightTable, f RouteFilter) *models.FlightTable {
	if t == nil {
		return nil
	}
	priced := t.Has(models.ColPrice)
	out := &models.FlightTable{Columns: t.Columns, DateParsed: t.DateParsed}
	for i := range t.Records {
		if f.keep(t.Record(i), priced) {
			out.Records = append(out.Records, t.Records[i])
		}
	}
	return out.Clone()
}

// Route types shown in route tables.
const (
	RouteTypeDomestic      = "Domestic"
	RouteTypeInternational = "International"
)

// RouteStat is one row of the route table.
type RouteStat struct {
	Origin      string   `json:"origin"`
	OriginCity  string   `json:"origin_city"`
	Destination string   `json:"destination"`
	DestCity    string   `json:"destination_city"`
	Flights     int      `json:"flights"`
	AvgPrice    *float64 `json:"avg_price,omitempty"`
	MedianPrice *float64 `json:"median_price,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	RouteType   string   `json:"route_type"`
}

// RouteTable summarizes every route by flight count, busiest first. Ties
// keep first-seen order.
func RouteTable(t *models.FlightTable, airports AirportLookup) []RouteStat {
	e := &Engine{airports: airports}
	routes := countRoutes(t)

	out := make([]RouteStat, 0, len(routes))
	for _, r := range routes {
		stat := RouteStat{
			Origin:      r.key.Origin,
			OriginCity:  e.cityName(r.key.Origin),
			Destination: r.key.Destination,
			DestCity:    e.cityName(r.key.Destination),
			Flights:     r.count,
			RouteType:   RouteTypeInternational,
		}
		if e.isDomesticRoute(r.key) {
			stat.RouteType = RouteTypeDomestic
		}
		if prices := pricesOf(t, r.rows); len(prices) > 0 {
			lo, hi, _ := minMax(prices)
			med, _ := median(prices)
			stat.AvgPrice = models.Ptr(roundTo(mean(prices), 2))
			stat.MedianPrice = models.Ptr(med)
			stat.MinPrice = models.Ptr(lo)
			stat.MaxPrice = models.Ptr(hi)
		}
		out = append(out, stat)
	}
	slices.SortStableFunc(out, func(a, b RouteStat) int {
		return cmp.Compare(b.Flights, a.Flights)
	})
	return out
}
