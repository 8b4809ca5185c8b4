package analysis

import (
	"cmp"
	"slices"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const (
	passSeasonal = "seasonal_patterns"
	peakMonths   = 2
)

// calendarSkip explains why a derived calendar column is missing.
func calendarSkip(pass string, t *models.FlightTable, col models.Column) *SkipError {
	if t.Has(col) {
		return nil
	}
	if t.Has(models.ColFlightDate) && !t.DateParsed {
		return &SkipError{Pass: pass, Kind: models.SkipUnparseableDate, Column: models.ColFlightDate}
	}
	return missingColumn(pass, col)
}

// priceAggregates returns mean and median, or nils when the table carries
// no prices.
func priceAggregates(t *models.FlightTable, rows []int) (avg, med *float64) {
	if !t.Has(models.ColPrice) {
		return nil, nil
	}
	prices := pricesOf(t, rows)
	m, ok := median(prices)
	if !ok {
		return nil, nil
	}
	return models.Ptr(mean(prices)), models.Ptr(m)
}

// seasonalPatterns aggregates by month and by weekday and picks the peak
// travel months.
func seasonalPatterns(t *models.FlightTable, doc *models.InsightsDocument) *SkipError {
	if skip := calendarSkip(passSeasonal, t, models.ColMonth); skip != nil {
		return skip
	}

	months := groupRecords(t, func(i int) (int, bool) {
		m := t.Record(i).Month
		if m == nil {
			return 0, false
		}
		return *m, true
	})
	months.sortKeys(cmp.Compare[int])

	monthly := make([]models.MonthlyPattern, 0, len(months.keys))
	for _, m := range months.keys {
		rows := months.rows[m]
		avg, med := priceAggregates(t, rows)
		monthly = append(monthly, models.MonthlyPattern{
			Month:       m,
			AvgPrice:    avg,
			MedianPrice: med,
			FlightCount: len(rows),
		})
	}
	doc.MonthlyPatterns = monthly

	if t.Has(models.ColDayOfWeek) {
		days := groupRecords(t, func(i int) (int, bool) {
			d := t.Record(i).DayOfWeek
			if d == nil {
				return 0, false
			}
			return *d, true
		})
		days.sortKeys(cmp.Compare[int])

		weekday := make([]models.DayOfWeekPattern, 0, len(days.keys))
		for _, d := range days.keys {
			rows := days.rows[d]
			avg, med := priceAggregates(t, rows)
			weekday = append(weekday, models.DayOfWeekPattern{
				DayOfWeek:   d,
				DayName:     DayName(d),
				AvgPrice:    avg,
				MedianPrice: med,
				FlightCount: len(rows),
			})
		}
		doc.DayOfWeekPatterns = weekday
	}

	doc.PeakTravelPeriods = peakTravelPeriods(monthly)
	return nil
}

// peakTravelPeriods names the busiest months. Ties keep ascending month
// order.
func peakTravelPeriods(monthly []models.MonthlyPattern) []string {
	ranked := slices.Clone(monthly)
	slices.SortStableFunc(ranked, func(a, b models.MonthlyPattern) int {
		return cmp.Compare(b.FlightCount, a.FlightCount)
	})
	if len(ranked) > peakMonths {
		ranked = ranked[:peakMonths]
	}
	names := make([]string, 0, len(ranked))
	for _, m := range ranked {
		names = append(names, MonthName(m.Month))
	}
	return names
}
