package analysis

import (
	"cmp"
	"slices"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const (
	passSummary  = "summary"
	topAirports    = 5
	pctPrecision   = 1
	pricePrecision = 2
)

// summary computes the headline numbers. Every optional field depends only
// on the columns it reads.
func (e *Engine) summary(t *models.FlightTable, doc *models.InsightsDocument) *SkipError {
	s := &models.Summary{TotalFlights: t.Len()}

	if t.Has(models.ColIsDomestic) {
		var domestic, international []int
		for i := range t.Records {
			if d := t.Record(i).IsDomestic; d != nil && *d {
				domestic = append(domestic, i)
			} else {
				international = append(international, i)
			}
		}
		s.DomesticFlights = models.Ptr(len(domestic))
		s.InternationalFlights = models.Ptr(len(international))
		if s.TotalFlights > 0 {
			s.DomesticPercentage = models.Ptr(roundTo(float64(len(domestic))/float64(s.TotalFlights)*100, pctPrecision))
		}

		if t.Has(models.ColPrice) && len(domestic) > 0 && len(international) > 0 {
			dp, ip := pricesOf(t, domestic), pricesOf(t, international)
			if len(dp) > 0 && len(ip) > 0 {
				s.AvgDomesticPrice = models.Ptr(roundTo(mean(dp), pricePrecision))
				s.AvgInternationalPrice = models.Ptr(roundTo(mean(ip), pricePrecision))
			}
		}
	}

	if t.Has(models.ColPrice) {
		prices := t.Prices()
		if med, ok := median(prices); ok {
			s.AvgPrice = models.Ptr(roundTo(mean(prices), pricePrecision))
			s.MedianPrice = models.Ptr(roundTo(med, pricePrecision))
		}
	}

	s.TopOrigins = e.topAirports(t, func(r *models.FlightRecord) string { return r.Origin })
	s.TopDestinations = e.topAirports(t, func(r *models.FlightRecord) string { return r.Destination })

	if t.Has(models.ColDayOfWeek) {
		if day, ok := busiest(t, func(r *models.FlightRecord) *int { return r.DayOfWeek }); ok {
			s.BusiestDay = models.Ptr(DayName(day))
		}
	}
	if t.Has(models.ColMonth) {
		if month, ok := busiest(t, func(r *models.FlightRecord) *int { return r.Month }); ok {
			s.BusiestMonth = models.Ptr(MonthName(month))
		}
	}

	if t.Has(models.ColIsWeekend) && t.Has(models.ColPrice) {
		s.WeekendPricePremium = weekendPricePremium(t)
	}

	doc.Summary = s
	return nil
}

// topAirports ranks airport codes by frequency. Ties keep first-seen order.
func (e *Engine) topAirports(t *models.FlightTable, code func(*models.FlightRecord) string) []models.AirportCount {
	groups := groupRecords(t, func(i int) (string, bool) {
		return code(t.Record(i)), true
	})
	out := make([]models.AirportCount, 0, len(groups.keys))
	for _, k := range groups.keys {
		out = append(out, models.AirportCount{Code: k, City: e.cityName(k), Count: len(groups.rows[k])})
	}
	slices.SortStableFunc(out, func(a, b models.AirportCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(out) > topAirports {
		out = out[:topAirports]
	}
	return out
}

func (e *Engine) cityName(code string) string {
	if e.airports == nil {
		return code
	}
	if name := e.airports.CityName(code); name != "" {
		return name
	}
	return code
}

// busiest returns the most frequent value. Ties go to the lowest value.
func busiest(t *models.FlightTable, field func(*models.FlightRecord) *int) (int, bool) {
	counts := make(map[int]int)
	for i := range t.Records {
		if v := field(t.Record(i)); v != nil {
			counts[*v]++
		}
	}
	if len(counts) == 0 {
		return 0, false
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, true
}

// weekendPricePremium returns the percentage by which the mean weekend
// price exceeds the mean weekday price.
func weekendPricePremium(t *models.FlightTable) *float64 {
	var weekday, weekend []float64
	for i := range t.Records {
		r := t.Record(i)
		if r.Price == nil || r.IsWeekend == nil {
			continue
		}
		if *r.IsWeekend {
			weekend = append(weekend, *r.Price)
		} else {
			weekday = append(weekday, *r.Price)
		}
	}
	if len(weekday) == 0 || len(weekend) == 0 {
		return nil
	}
	wd := mean(weekday)
	if wd == 0 {
		return nil
	}
	return models.Ptr(roundTo((mean(weekend)/wd-1)*100, pctPrecision))
}
