package analysis

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const (
	passOpportunities     = "market_opportunities"
	ruleHighDemand        = "market_opportunities.high_demand_high_price"
	ruleWeekendPremium    = "market_opportunities.weekend_premium"
	ruleSeasonalVariation = "market_opportunities.seasonal_variation"

	maxHighDemand      = 5
	maxWeekendPremium  = 5
	weekendRatioCutoff = 1.3
	seasonalRatioCut   = 1.5
)

// marketOpportunities runs the opportunity rules in a fixed order. A rule
// that cannot run is recorded and the others continue.
func (e *Engine) marketOpportunities(t *models.FlightTable, doc *models.InsightsDocument) *SkipError {
	doc.MarketOpportunities = []models.Opportunity{}

	rules := []func(*models.FlightTable) ([]models.Opportunity, *SkipError){
		highDemandHighPrice,
		weekendPremium,
		seasonalVariation,
	}
	for _, rule := range rules {
		found, skip := rule(t)
		if skip != nil {
			e.recordSkip(doc, skip)
			continue
		}
		doc.MarketOpportunities = append(doc.MarketOpportunities, found...)
	}
	return nil
}

type routeMedian struct {
	key    models.RouteKey
	count  int
	median float64
}

// highDemandHighPrice flags routes busier than the median route whose
// median price is above the median of those busy routes. Routes are taken
// in ascending origin, destination order before the cap.
func highDemandHighPrice(t *models.FlightTable) ([]models.Opportunity, *SkipError) {
	if skip := requireColumns(ruleHighDemand, t, models.ColPrice); skip != nil {
		return nil, skip
	}

	routes := routesByKey(t)
	freqs := make([]float64, 0, len(routes))
	for _, r := range routes {
		freqs = append(freqs, float64(r.count))
	}
	medianFreq, ok := median(freqs)
	if !ok {
		return nil, nil
	}

	busy := make([]routeMedian, 0, len(routes))
	for _, r := range routes {
		if float64(r.count) <= medianFreq {
			continue
		}
		m, ok := median(pricesOf(t, r.rows))
		if !ok {
			continue
		}
		busy = append(busy, routeMedian{key: r.key, count: r.count, median: m})
	}

	joined := make([]float64, 0, len(busy))
	for _, r := range busy {
		joined = append(joined, r.median)
	}
	cutoff, ok := median(joined)
	if !ok {
		return nil, nil
	}

	var out []models.Opportunity
	for _, r := range busy {
		if r.median <= cutoff {
			continue
		}
		out = append(out, models.Opportunity{
			Type:        models.OpportunityHighDemandHighPrice,
			Origin:      r.key.Origin,
			Destination: r.key.Destination,
			Description: "High demand route with above-average prices",
			Frequency:   models.Ptr(r.count),
			MedianPrice: models.Ptr(r.median),
		})
		if len(out) == maxHighDemand {
			break
		}
	}
	return out, nil
}

type weekendSplit struct {
	key     models.RouteKey
	weekday float64
	weekend float64
}

// weekendPremium flags routes whose weekend median price exceeds the
// weekday median by the cutoff ratio. Equal differences keep ascending
// route order.
func weekendPremium(t *models.FlightTable) ([]models.Opportunity, *SkipError) {
	if skip := calendarSkip(ruleWeekendPremium, t, models.ColIsWeekend); skip != nil {
		return nil, skip
	}
	if skip := requireColumns(ruleWeekendPremium, t, models.ColPrice); skip != nil {
		return nil, skip
	}

	var splits []weekendSplit
	for _, r := range routesByKey(t) {
		var weekday, weekend []float64
		for _, i := range r.rows {
			rec := t.Record(i)
			if rec.Price == nil || rec.IsWeekend == nil {
				continue
			}
			if *rec.IsWeekend {
				weekend = append(weekend, *rec.Price)
			} else {
				weekday = append(weekday, *rec.Price)
			}
		}
		wd, okWD := median(weekday)
		we, okWE := median(weekend)
		if !okWD || !okWE || wd <= 0 {
			continue
		}
		if we/wd > weekendRatioCutoff {
			splits = append(splits, weekendSplit{key: r.key, weekday: wd, weekend: we})
		}
	}

	slices.SortStableFunc(splits, func(a, b weekendSplit) int {
		return cmp.Compare(b.weekend-b.weekday, a.weekend-a.weekday)
	})
	if len(splits) > maxWeekendPremium {
		splits = splits[:maxWeekendPremium]
	}

	out := make([]models.Opportunity, 0, len(splits))
	for _, s := range splits {
		out = append(out, models.Opportunity{
			Type:            models.OpportunityWeekendPremium,
			Origin:          s.key.Origin,
			Destination:     s.key.Destination,
			Description:     "Significant price premium on weekends",
			WeekdayPrice:    models.Ptr(s.weekday),
			WeekendPrice:    models.Ptr(s.weekend),
			PriceDifference: models.Ptr(s.weekend - s.weekday),
		})
	}
	return out, nil
}

type routeMonth struct {
	dest  string
	month int
}

// seasonalVariation compares monthly median prices across all destinations
// of an origin. Origins are visited in ascending order; within an origin,
// groups are ordered by destination then month and the first extreme wins.
func seasonalVariation(t *models.FlightTable) ([]models.Opportunity, *SkipError) {
	if skip := calendarSkip(ruleSeasonalVariation, t, models.ColMonth); skip != nil {
		return nil, skip
	}
	if skip := requireColumns(ruleSeasonalVariation, t, models.ColPrice); skip != nil {
		return nil, skip
	}

	origins := groupRecords(t, func(i int) (string, bool) {
		return t.Record(i).Origin, true
	})
	origins.sortKeys(cmp.Compare[string])

	var out []models.Opportunity
	for _, origin := range origins.keys {
		groups := newOrderedGroups[routeMonth]()
		for _, i := range origins.rows[origin] {
			rec := t.Record(i)
			if rec.Month == nil {
				continue
			}
			groups.add(routeMonth{dest: rec.Destination, month: *rec.Month}, i)
		}
		if len(groups.keys) < 2 {
			continue
		}
		groups.sortKeys(func(a, b routeMonth) int {
			if c := cmp.Compare(a.dest, b.dest); c != 0 {
				return c
			}
			return cmp.Compare(a.month, b.month)
		})

		var hi, lo routeMonth
		var hiPrice, loPrice float64
		seen := false
		for _, k := range groups.keys {
			m, ok := median(pricesOf(t, groups.rows[k]))
			if !ok {
				continue
			}
			if !seen || m > hiPrice {
				hi, hiPrice = k, m
			}
			if !seen || m < loPrice {
				lo, loPrice = k, m
			}
			seen = true
		}
		if !seen || loPrice <= 0 {
			continue
		}

		ratio := hiPrice / loPrice
		if ratio <= seasonalRatioCut {
			continue
		}
		out = append(out, models.Opportunity{
			Type:           models.OpportunitySeasonalVariation,
			Origin:         origin,
			Destination:    hi.dest,
			Description:    fmt.Sprintf("Significant seasonal price variation (ratio: %.2fx)", ratio),
			HighPriceMonth: models.Ptr(MonthName(hi.month)),
			LowPriceMonth:  models.Ptr(MonthName(lo.month)),
			PriceRatio:     models.Ptr(ratio),
		})
	}
	return out, nil
}
