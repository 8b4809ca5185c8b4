package dataset

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const sample = `flight_date,origin,destination,price,airline,duration,is_domestic,notes
2024-06-01,syd,MEL,150.5,Qantas,85,true,x
2024-06-02,SYD,LAX,,Emirates,,False,
06/03/2024,SYD,MEL,NA,,90,,
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"flight_date", "origin", "destination", "price", "airline", "duration", "is_domestic"}, table.Columns.Names())
	assert.False(t, table.DateParsed)

	first := table.Records[0]
	assert.Equal(t, "SYD", first.Origin)
	assert.Equal(t, 150.5, *first.Price)
	assert.Equal(t, "Qantas", *first.Airline)
	assert.Equal(t, 85, *first.Duration)
	assert.True(t, *first.IsDomestic)
	require.NotNil(t, first.FlightDate)
	assert.Equal(t, "2024-06-01", first.DateKey())

	second := table.Records[1]
	assert.Nil(t, second.Price)
	assert.Nil(t, second.Duration)
	assert.False(t, *second.IsDomestic)

	third := table.Records[2]
	assert.Nil(t, third.Price)
	assert.Nil(t, third.Airline)
	assert.Nil(t, third.FlightDate)
	assert.Equal(t, "06/03/2024", third.RawDate)
}

func TestReadCSV_MissingRoute(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("flight_date,origin,price\n2024-06-01,SYD,100\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestWriteCSV_ReadBack(t *testing.T) {
	price := 199.99
	domestic := true
	date, err := models.ParseDate("2024-06-01")
	require.NoError(t, err)

	cols := models.NewColumnSet(models.ColFlightDate, models.ColOrigin, models.ColDestination, models.ColPrice,
		models.ColIsDomestic, models.ColDayOfWeek, models.ColMonth, models.ColIsWeekend)
	table := models.NewFlightTable(cols, []models.FlightRecord{
		{
			FlightDate: &date, Origin: "SYD", Destination: "MEL", Price: &price, IsDomestic: &domestic,
			DayOfWeek: models.Ptr(5), Month: models.Ptr(6), IsWeekend: models.Ptr(true),
		},
		{
			FlightDate: &date, Origin: "SYD", Destination: "AKL",
			DayOfWeek: models.Ptr(5), Month: models.Ptr(6), IsWeekend: models.Ptr(true),
		},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "flight_date,origin,destination,price,is_domestic,day_of_week,month,is_weekend", lines[0])
	assert.Equal(t, "2024-06-01,SYD,MEL,199.99,true,5,6,true", lines[1])

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.True(t, back.DateParsed)
	assert.Equal(t, table.Columns, back.Columns)
	assert.Nil(t, back.Records[1].Price)
	assert.Equal(t, 6, *back.Records[0].Month)
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.csv")
	table := models.NewFlightTable(models.NewColumnSet(models.ColOrigin, models.ColDestination), []models.FlightRecord{
		{Origin: "SYD", Destination: "MEL"},
	})

	require.NoError(t, WriteCSVFile(path, table))

	back, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, back.Len())
}

func TestWriteCSV_NoColumns(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteCSV(&buf, nil))
	assert.Error(t, WriteCSV(&buf, &models.FlightTable{}))
}
