package analysis

import (
	"cmp"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const passPriceTrends = "price_trends"

type isoWeek struct {
	year int
	week int
}

// priceTrends aggregates prices per calendar date and per ISO week.
func priceTrends(t *models.FlightTable, doc *models.InsightsDocument) *SkipError {
	if skip := requireColumns(passPriceTrends, t, models.ColPrice, models.ColFlightDate); skip != nil {
		return skip
	}
	if !t.DateParsed {
		return &SkipError{Pass: passPriceTrends, Kind: models.SkipUnparseableDate, Column: models.ColFlightDate}
	}

	daily := groupRecords(t, func(i int) (time.Time, bool) {
		d := t.Record(i).FlightDate
		if d == nil {
			return time.Time{}, false
		}
		return *d, true
	})
	daily.sortKeys(func(a, b time.Time) int { return a.Compare(b) })

	doc.DailyPriceTrends = make([]models.DailyPriceTrend, 0, len(daily.keys))
	for _, day := range daily.keys {
		prices := pricesOf(t, daily.rows[day])
		med, _ := median(prices)
		doc.DailyPriceTrends = append(doc.DailyPriceTrends, models.DailyPriceTrend{
			Date:        day,
			AvgPrice:    mean(prices),
			MedianPrice: med,
			FlightCount: len(prices),
		})
	}

	weekly := groupRecords(t, func(i int) (isoWeek, bool) {
		d := t.Record(i).FlightDate
		if d == nil {
			return isoWeek{}, false
		}
		y, w := d.ISOWeek()
		return isoWeek{year: y, week: w}, true
	})
	weekly.sortKeys(func(a, b isoWeek) int {
		if c := cmp.Compare(a.year, b.year); c != 0 {
			return c
		}
		return cmp.Compare(a.week, b.week)
	})

	doc.WeeklyPriceTrends = make([]models.WeeklyPriceTrend, 0, len(weekly.keys))
	for _, wk := range weekly.keys {
		prices := pricesOf(t, weekly.rows[wk])
		med, _ := median(prices)
		doc.WeeklyPriceTrends = append(doc.WeeklyPriceTrends, models.WeeklyPriceTrend{
			Year:        wk.year,
			Week:        wk.week,
			AvgPrice:    mean(prices),
			MedianPrice: med,
			FlightCount: len(prices),
		})
	}
	return nil
}
