package analysis

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

func TestClean_EmptyInputReturnedUnchanged(t *testing.T) {
	c := NewCleaner(australia())

	assert.Nil(t, c.Clean(nil))

	empty := models.NewFlightTable(routeCols, nil)
	assert.Same(t, empty, c.Clean(empty))
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	raw := models.NewFlightTable(routeCols, []models.FlightRecord{
		route("SYD", "MEL", price(150)),
		route("SYD", "MEL", nil),
	})

	cleaned := NewCleaner(australia()).Clean(raw)

	require.Equal(t, 2, cleaned.Len())
	assert.Nil(t, raw.Records[1].Price)
	assert.Nil(t, raw.Records[0].IsDomestic)
	assert.False(t, raw.Has(models.ColIsDomestic))
}

func TestClean_ImputesRouteMedian(t *testing.T) {
	raw := models.NewFlightTable(routeCols, []models.FlightRecord{
		route("SYD", "MEL", price(150)),
		route("SYD", "MEL", price(160)),
		route("SYD", "LAX", price(1200)),
		route("SYD", "LAX", nil),
	})

	cleaned := NewCleaner(australia()).Clean(raw)

	require.Equal(t, 4, cleaned.Len())
	require.NotNil(t, cleaned.Records[3].Price)
	assert.Equal(t, 1200.0, *cleaned.Records[3].Price)
}

func TestClean_ImputesGlobalMedianForUnpricedRoute(t *testing.T) {
	raw := models.NewFlightTable(routeCols, []models.FlightRecord{
		route("SYD", "MEL", price(100)),
		route("SYD", "MEL", price(200)),
		route("SYD", "BNE", price(300)),
		route("MEL", "PER", nil),
	})

	cleaned := NewCleaner(australia()).Clean(raw)

	require.Equal(t, 4, cleaned.Len())
	require.NotNil(t, cleaned.Records[3].Price)
	assert.Equal(t, 200.0, *cleaned.Records[3].Price)
}

func TestClean_DropsAllNullPriceColumn(t *testing.T) {
	raw := models.NewFlightTable(routeCols, []models.FlightRecord{
		route("SYD", "MEL", nil),
		route("SYD", "LAX", nil),
	})

	cleaned := NewCleaner(nil).Clean(raw)

	assert.False(t, cleaned.Has(models.ColPrice))
	assert.Equal(t, 2, cleaned.Len())
}

func TestClean_RemovesOutliers(t *testing.T) {
	records := make([]models.FlightRecord, 0, 11)
	for _, p := range []float64{100, 110, 120, 130, 140, 150, 160, 170, 180, 190} {
		records = append(records, route("SYD", "MEL", price(p)))
	}
	records = append(records, route("SYD", "MEL", price(5000)))

	cleaned := NewCleaner(nil).Clean(models.NewFlightTable(routeCols, records))

	assert.Equal(t, 10, cleaned.Len())
	for _, p := range cleaned.Prices() {
		assert.Less(t, p, 5000.0)
	}
}

func TestClean_Deduplicates(t *testing.T) {
	airline := "Qantas"
	rec := func(date string, p float64) models.FlightRecord {
		r := dated(date, "SYD", "MEL", p)
		r.Airline = &airline
		return r
	}
	cols := datedCols.With(models.ColAirline)
	raw := models.NewFlightTable(cols, []models.FlightRecord{
		rec("2024-03-01", 150),
		rec("2024-03-01", 155),
		rec("2024-03-02", 160),
	})

	cleaned := NewCleaner(nil).Clean(raw)

	require.Equal(t, 2, cleaned.Len())
	assert.Equal(t, 150.0, *cleaned.Records[0].Price)
}

func TestClean_SkipsDedupOnNarrowTables(t *testing.T) {
	raw := models.NewFlightTable(routeCols, []models.FlightRecord{
		route("SYD", "MEL", price(150)),
		route("SYD", "MEL", price(150)),
	})

	assert.Equal(t, 2, NewCleaner(nil).Clean(raw).Len())
}

func TestClean_DerivesCalendar(t *testing.T) {
	raw := models.NewFlightTable(datedCols, []models.FlightRecord{
		dated("2024-06-01", "SYD", "MEL", 200), // Saturday
		dated("2024/06/03", "SYD", "MEL", 210),
		dated("", "SYD", "MEL", 220),
	})

	cleaned := NewCleaner(nil).Clean(raw)

	require.True(t, cleaned.DateParsed)
	require.Equal(t, 2, cleaned.Len())
	assert.True(t, cleaned.Has(models.ColDayOfWeek))
	assert.True(t, cleaned.Has(models.ColMonth))
	assert.True(t, cleaned.Has(models.ColIsWeekend))

	sat := cleaned.Records[0]
	assert.Equal(t, 5, *sat.DayOfWeek)
	assert.Equal(t, 6, *sat.Month)
	assert.True(t, *sat.IsWeekend)

	mon := cleaned.Records[1]
	assert.Equal(t, 0, *mon.DayOfWeek)
	assert.False(t, *mon.IsWeekend)
	assert.Equal(t, "2024-06-03", mon.DateKey())
}

func TestClean_UnparseableDatesAreNonFatal(t *testing.T) {
	raw := models.NewFlightTable(datedCols, []models.FlightRecord{
		dated("2024-06-01", "SYD", "MEL", 200),
		dated("not a date", "SYD", "MEL", 210),
	})

	cleaned := NewCleaner(nil).Clean(raw)

	assert.False(t, cleaned.DateParsed)
	assert.Equal(t, 2, cleaned.Len())
	assert.False(t, cleaned.Has(models.ColMonth))
	assert.Nil(t, cleaned.Records[0].FlightDate)
}

func TestClean_IdempotentWhenFencesAreStable(t *testing.T) {
	raw := models.NewFlightTable(datedCols, []models.FlightRecord{
		dated("2024-06-01", "SYD", "MEL", 200),
		dated("2024-06-02", "SYD", "MEL", 210),
		dated("2024-06-03", "SYD", "LAX", 220),
		dated("2024-06-04", "MEL", "BNE", 230),
		dated("2024-06-05", "MEL", "BNE", 240),
		dated("2024-06-06", "MEL", "BNE", 5000),
	})
	c := NewCleaner(australia())

	once := c.Clean(raw)
	twice := c.Clean(once)

	assert.Equal(t, []float64{200, 210, 220, 230, 240}, once.Prices())
	assert.Equal(t, once.Columns, twice.Columns)
	assert.Equal(t, once.DateParsed, twice.DateParsed)
	assert.Equal(t, once.Records, twice.Records)
}

func TestClean_RepeatedPassesCanTrimMore(t *testing.T) {
	prices := []float64{10, 10, 10, 10, 11, 12, 20}
	records := make([]models.FlightRecord, 0, len(prices))
	for i, p := range prices {
		records = append(records, dated(fmt.Sprintf("2024-06-%02d", i+1), "SYD", "MEL", p))
	}
	c := NewCleaner(australia())

	once := c.Clean(models.NewFlightTable(datedCols, records))
	twice := c.Clean(once)

	assert.Equal(t, []float64{10, 10, 10, 10, 11, 12}, once.Prices())
	assert.Equal(t, []float64{10, 10, 10, 10, 11}, twice.Prices())
}

func randomTable(rng *rand.Rand, n int) *models.FlightTable {
	codes := []string{"SYD", "MEL", "BNE", "PER", "LAX", "SIN", "AKL"}
	records := make([]models.FlightRecord, 0, n)
	for i := 0; i < n; i++ {
		r := models.FlightRecord{
			RawDate:     fmt.Sprintf("2024-%02d-%02d", rng.Intn(12)+1, rng.Intn(28)+1),
			Origin:      codes[rng.Intn(len(codes))],
			Destination: codes[rng.Intn(len(codes))],
		}
		if rng.Intn(5) > 0 {
			r.Price = price(50 + rng.Float64()*1500)
		}
		records = append(records, r)
	}
	return models.NewFlightTable(datedCols, records)
}

func TestClean_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	lookup := australia()

	for _, n := range []int{1, 2, 5, 20, 200} {
		t.Run(fmt.Sprintf("rows=%d", n), func(t *testing.T) {
			raw := randomTable(rng, n)
			hadPrice := len(raw.Prices()) > 0

			cleaned := NewCleaner(lookup).Clean(raw)

			for _, r := range cleaned.Records {
				if hadPrice {
					assert.NotNil(t, r.Price, "price must be imputed")
				}
				require.NotNil(t, r.IsDomestic)
				want := lookup.IsDomestic(r.Origin) && lookup.IsDomestic(r.Destination)
				assert.Equal(t, want, *r.IsDomestic, "route %s", r.Route())
				assert.NotNil(t, r.FlightDate)
			}
		})
	}
}

func TestRemoveOutliers_WithinFences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	records := make([]models.FlightRecord, 0, 100)
	for i := 0; i < 100; i++ {
		records = append(records, route("SYD", "MEL", price(rng.ExpFloat64()*300)))
	}
	table := models.NewFlightTable(routeCols, records)
	lower, upper, ok := priceFences(table.Prices())
	require.True(t, ok)

	removeOutliers(table)

	for _, p := range table.Prices() {
		assert.GreaterOrEqual(t, p, lower)
		assert.LessOrEqual(t, p, upper)
	}
}
