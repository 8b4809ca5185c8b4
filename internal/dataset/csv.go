// Package dataset converts flight tables to and from tabular files.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/models"
)

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing required column")

// nullValues are read as missing.
var nullValues = []string{"", "NA", "NaN", "nan", "null", "None", "<nil>"}

// ReadCSV loads a flight table from CSV with a header row. Columns are
// matched by name; unknown columns are ignored.
func ReadCSV(r io.Reader) (*models.FlightTable, error) {
	df := dataframe.ReadCSV(r,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nullValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", df.Err)
	}
	return FromDataFrame(df)
}

// ReadCSVFile loads a flight table from a CSV file.
func ReadCSVFile(path string) (*models.FlightTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// FromDataFrame converts a string-typed data frame into a flight table.
func FromDataFrame(df dataframe.DataFrame) (*models.FlightTable, error) {
	var cols models.ColumnSet
	byCol := make(map[models.Column]series.Series)
	for _, name := range df.Names() {
		c, ok := models.ParseColumn(name)
		if !ok {
			logger.Debug("ignoring unknown column", "column", name)
			continue
		}
		cols = cols.With(c)
		byCol[c] = df.Col(name)
	}
	for _, c := range []models.Column{models.ColOrigin, models.ColDestination} {
		if !cols.Has(c) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	n := df.Nrow()
	records := make([]models.FlightRecord, n)
	for i := 0; i < n; i++ {
		r := &records[i]
		for c, s := range byCol {
			e := s.Elem(i)
			if e.IsNA() {
				continue
			}
			setField(r, c, strings.TrimSpace(e.String()))
		}
	}

	t := models.NewFlightTable(cols, records)
	if t.Has(models.ColDayOfWeek) && t.Has(models.ColMonth) {
		t.DateParsed = allDated(records)
	}
	return t, nil
}

func allDated(records []models.FlightRecord) bool {
	for i := range records {
		if records[i].FlightDate == nil {
			return false
		}
	}
	return true
}

func setField(r *models.FlightRecord, c models.Column, v string) {
	switch c {
	case models.ColFlightDate:
		r.RawDate = v
		if d, err := models.ParseDate(v); err == nil {
			r.FlightDate = &d
		}
	case models.ColFlightTime:
		r.FlightTime = models.Ptr(v)
	case models.ColOrigin:
		r.Origin = strings.ToUpper(v)
	case models.ColDestination:
		r.Destination = strings.ToUpper(v)
	case models.ColPrice:
		if p, err := strconv.ParseFloat(strings.TrimPrefix(v, "$"), 64); err == nil {
			r.Price = models.Ptr(p)
		}
	case models.ColAirline:
		r.Airline = models.Ptr(v)
	case models.ColDuration:
		if d, err := strconv.ParseFloat(v, 64); err == nil {
			r.Duration = models.Ptr(int(d))
		}
	case models.ColIsDomestic:
		if b, err := strconv.ParseBool(v); err == nil {
			r.IsDomestic = models.Ptr(b)
		}
	case models.ColDayOfWeek:
		if d, err := strconv.Atoi(v); err == nil {
			r.DayOfWeek = models.Ptr(d)
		}
	case models.ColMonth:
		if m, err := strconv.Atoi(v); err == nil {
			r.Month = models.Ptr(m)
		}
	case models.ColIsWeekend:
		if b, err := strconv.ParseBool(v); err == nil {
			r.IsWeekend = models.Ptr(b)
		}
	}
}

// ToDataFrame converts a flight table into a string-typed data frame with
// columns in canonical order. Missing values become empty cells.
func ToDataFrame(t *models.FlightTable) dataframe.DataFrame {
	cols := t.Columns.Columns()
	list := make([]series.Series, 0, len(cols))
	for _, c := range cols {
		values := make([]string, t.Len())
		for i := range values {
			values[i] = fieldString(t.Record(i), c)
		}
		list = append(list, series.New(values, series.String, c.String()))
	}
	return dataframe.New(list...)
}

// WriteCSV writes t as CSV with a header row.
func WriteCSV(w io.Writer, t *models.FlightTable) error {
	if t == nil || t.Columns.Len() == 0 {
		return errors.New("nothing to write: table has no columns")
	}
	if err := ToDataFrame(t).WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes t to path, replacing any existing file.
func WriteCSVFile(path string, t *models.FlightTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fieldString(r *models.FlightRecord, c models.Column) string {
	switch c {
	case models.ColFlightDate:
		return r.DateKey()
	case models.ColFlightTime:
		return deref(r.FlightTime, func(s string) string { return s })
	case models.ColOrigin:
		return r.Origin
	case models.ColDestination:
		return r.Destination
	case models.ColPrice:
		return deref(r.Price, func(p float64) string { return strconv.FormatFloat(p, 'f', -1, 64) })
	case models.ColAirline:
		return deref(r.Airline, func(s string) string { return s })
	case models.ColDuration:
		return deref(r.Duration, strconv.Itoa)
	case models.ColIsDomestic:
		return deref(r.IsDomestic, strconv.FormatBool)
	case models.ColDayOfWeek:
		return deref(r.DayOfWeek, strconv.Itoa)
	case models.ColMonth:
		return deref(r.Month, strconv.Itoa)
	case models.ColIsWeekend:
		return deref(r.IsWeekend, strconv.FormatBool)
	}
	return ""
}

func deref[T any](p *T, format func(T) string) string {
	if p == nil {
		return ""
	}
	return format(*p)
}
