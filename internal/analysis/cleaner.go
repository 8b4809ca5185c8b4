package analysis

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/models"
)

// dedupMinColumns is the column count a table must exceed before rows are
// deduplicated.
const dedupMinColumns = 3

// outlierFence is the IQR multiplier for the outlier fences.
const outlierFence = 1.5

// Cleaner normalizes raw flight tables.
type Cleaner struct {
	airports AirportLookup
}

// NewCleaner creates a cleaner. A nil lookup leaves is_domestic as provided
// by the input.
func NewCleaner(airports AirportLookup) *Cleaner {
	return &Cleaner{airports: airports}
}

// Clean returns a cleaned copy of raw. Empty input is returned unchanged.
func (c *Cleaner) Clean(raw *models.FlightTable) *models.FlightTable {
	if raw.IsEmpty() {
		logger.Warn("no data to clean")
		return raw
	}

	t := raw.Clone()
	imputePrices(t)
	normalizeDates(t)
	if t.Columns.Len() > dedupMinColumns {
		dedupe(t)
	}
	removeOutliers(t)
	deriveCalendar(t)
	c.classifyRoutes(t)

	logger.Debug("cleaned flight table", "raw_rows", raw.Len(), "clean_rows", t.Len())
	return t
}

// imputePrices fills missing prices with the route median, falling back to
// the global median.
func imputePrices(t *models.FlightTable) {
	if !t.Has(models.ColPrice) {
		return
	}

	global, ok := median(t.Prices())
	if !ok {
		logger.Warn("price column has no values, dropping it")
		t.Columns = t.Columns.Without(models.ColPrice)
		return
	}

	routes := groupRecords(t, func(i int) (models.RouteKey, bool) {
		return t.Record(i).Route(), true
	})

	filled := 0
	for _, key := range routes.keys {
		rows := routes.rows[key]
		fill, ok := median(pricesOf(t, rows))
		if !ok {
			fill = global
		}
		for _, i := range rows {
			r := t.Record(i)
			if r.Price == nil {
				r.Price = models.Ptr(fill)
				filled++
			}
		}
	}
	if filled > 0 {
		logger.Debug("imputed missing prices", "count", filled)
	}
}

// normalizeDates parses flight_date for every row. A single failure leaves
// the column unparsed. Once parsed, rows without a date are dropped.
func normalizeDates(t *models.FlightTable) {
	if !t.Has(models.ColFlightDate) {
		return
	}

	parsed := make([]*time.Time, t.Len())
	for i := range t.Records {
		r := t.Record(i)
		if r.FlightDate != nil {
			d := truncateToDate(*r.FlightDate)
			parsed[i] = &d
			continue
		}
		raw := strings.TrimSpace(r.RawDate)
		if raw == "" {
			continue
		}
		ts, err := dateparse.ParseAny(raw)
		if err != nil {
			logger.Warn("could not convert flight_date to a date", "value", raw, "error", err)
			t.DateParsed = false
			return
		}
		d := truncateToDate(ts)
		parsed[i] = &d
	}

	kept := t.Records[:0]
	for i := range t.Records {
		if parsed[i] == nil {
			continue
		}
		r := t.Records[i]
		r.FlightDate = parsed[i]
		kept = append(kept, r)
	}
	if dropped := len(t.Records) - len(kept); dropped > 0 {
		logger.Debug("dropped rows without a flight date", "count", dropped)
	}
	t.Records = kept
	t.DateParsed = true
}

func truncateToDate(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

type identityKey struct {
	date       string
	time       string
	hasTime    bool
	origin     string
	dest       string
	airline    string
	hasAirline bool
}

func identityOf(r *models.FlightRecord) identityKey {
	k := identityKey{date: r.DateKey(), origin: r.Origin, dest: r.Destination}
	if r.FlightTime != nil {
		k.time, k.hasTime = *r.FlightTime, true
	}
	if r.Airline != nil {
		k.airline, k.hasAirline = *r.Airline, true
	}
	return k
}

// dedupe keeps the first row for each identity key.
func dedupe(t *models.FlightTable) {
	seen := make(map[identityKey]struct{}, t.Len())
	kept := t.Records[:0]
	for i := range t.Records {
		k := identityOf(&t.Records[i])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, t.Records[i])
	}
	if dropped := len(t.Records) - len(kept); dropped > 0 {
		logger.Debug("removed duplicate flights", "count", dropped)
	}
	t.Records = kept
}

// priceFences returns the outlier bounds of the given prices.
func priceFences(prices []float64) (lower, upper float64, ok bool) {
	q1, ok1 := quantile(prices, 0.25)
	q3, ok3 := quantile(prices, 0.75)
	if !ok1 || !ok3 {
		return 0, 0, false
	}
	iqr := q3 - q1
	return q1 - outlierFence*iqr, q3 + outlierFence*iqr, true
}

// removeOutliers drops rows priced outside the IQR fences.
func removeOutliers(t *models.FlightTable) {
	if !t.Has(models.ColPrice) {
		return
	}
	lower, upper, ok := priceFences(t.Prices())
	if !ok {
		return
	}

	kept := t.Records[:0]
	for i := range t.Records {
		p := t.Records[i].Price
		if p == nil || *p < lower || *p > upper {
			continue
		}
		kept = append(kept, t.Records[i])
	}
	if dropped := len(t.Records) - len(kept); dropped > 0 {
		logger.Debug("removed price outliers", "count", dropped, "lower", lower, "upper", upper)
	}
	t.Records = kept
}

// deriveCalendar adds day_of_week, month and is_weekend from parsed dates.
func deriveCalendar(t *models.FlightTable) {
	if !t.Has(models.ColFlightDate) || !t.DateParsed {
		return
	}
	for i := range t.Records {
		r := t.Record(i)
		day := mondayIndex(r.FlightDate.Weekday())
		r.DayOfWeek = models.Ptr(day)
		r.Month = models.Ptr(int(r.FlightDate.Month()))
		r.IsWeekend = models.Ptr(day >= 5)
	}
	t.Columns = t.Columns.With(models.ColDayOfWeek).With(models.ColMonth).With(models.ColIsWeekend)
}

// classifyRoutes sets is_domestic from the configured domestic airports.
func (c *Cleaner) classifyRoutes(t *models.FlightTable) {
	if c.airports == nil {
		return
	}
	for i := range t.Records {
		r := t.Record(i)
		r.IsDomestic = models.Ptr(c.airports.IsDomestic(r.Origin) && c.airports.IsDomestic(r.Destination))
	}
	t.Columns = t.Columns.With(models.ColIsDomestic)
}
