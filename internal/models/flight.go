// Package models defines data structures and domain types.
package models

import (
	"strings"
	"time"
)

// Column identifies one column of the canonical flight table.
type Column uint16

const (
	// ColFlightDate is the departure date column.
	ColFlightDate Column = 1 << iota
	// ColFlightTime is the departure time-of-day column.
	ColFlightTime
	// ColOrigin is the departure airport code column.
	ColOrigin
	// ColDestination is the arrival airport code column.
	ColDestination
	// ColPrice is the ticket price column.
	ColPrice
	// ColAirline is the carrier name column.
	ColAirline
	// ColDuration is the flight duration column, in minutes.
	ColDuration
	// ColIsDomestic is the derived domestic route flag.
	ColIsDomestic
	// ColDayOfWeek is the derived weekday index (0=Monday).
	ColDayOfWeek
	// ColMonth is the derived calendar month (1-12).
	ColMonth
	// ColIsWeekend is the derived weekend flag.
	ColIsWeekend
)

var columnNames = []struct {
	col  Column
	name string
}{
	{ColFlightDate, "flight_date"},
	{ColFlightTime, "flight_time"},
	{ColOrigin, "origin"},
	{ColDestination, "destination"},
	{ColPrice, "price"},
	{ColAirline, "airline"},
	{ColDuration, "duration"},
	{ColIsDomestic, "is_domestic"},
	{ColDayOfWeek, "day_of_week"},
	{ColMonth, "month"},
	{ColIsWeekend, "is_weekend"},
}

// String returns the canonical column name.
func (c Column) String() string {
	for _, cn := range columnNames {
		if cn.col == c {
			return cn.name
		}
	}
	return "unknown"
}

// ParseColumn maps a header name to its column. Matching ignores case and
// surrounding whitespace.
func ParseColumn(name string) (Column, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, cn := range columnNames {
		if cn.name == name {
			return cn.col, true
		}
	}
	return 0, false
}

// ColumnSet is a bit set of the columns a table carries.
type ColumnSet uint16

// NewColumnSet builds a set from the given columns.
func NewColumnSet(cols ...Column) ColumnSet {
	var s ColumnSet
	for _, c := range cols {
		s = s.With(c)
	}
	return s
}

// Has reports whether the set contains c.
func (s ColumnSet) Has(c Column) bool {
	return s&ColumnSet(c) != 0
}

// With returns a copy of the set including c.
func (s ColumnSet) With(c Column) ColumnSet {
	return s | ColumnSet(c)
}

// Without returns a copy of the set excluding c.
func (s ColumnSet) Without(c Column) ColumnSet {
	return s &^ ColumnSet(c)
}

// Len returns the number of columns in the set.
func (s ColumnSet) Len() int {
	n := 0
	for _, cn := range columnNames {
		if s.Has(cn.col) {
			n++
		}
	}
	return n
}

// Names returns the column names in canonical order.
func (s ColumnSet) Names() []string {
	var names []string
	for _, cn := range columnNames {
		if s.Has(cn.col) {
			names = append(names, cn.name)
		}
	}
	return names
}

// Columns returns the columns in canonical order.
func (s ColumnSet) Columns() []Column {
	var cols []Column
	for _, cn := range columnNames {
		if s.Has(cn.col) {
			cols = append(cols, cn.col)
		}
	}
	return cols
}

// FlightRecord is one row of the flight table. Optional values are nil
// when absent.
type FlightRecord struct {
	FlightDate  *time.Time
	RawDate     string
	FlightTime  *string
	Origin      string
	Destination string
	Price       *float64
	Airline     *string
	Duration    *int
	IsDomestic  *bool

	DayOfWeek *int
	Month     *int
	IsWeekend *bool
}

// RouteKey identifies a directed origin/destination pair.
type RouteKey struct {
	Origin      string
	Destination string
}

// String returns the route as "SYD-MEL".
func (k RouteKey) String() string {
	return k.Origin + "-" + k.Destination
}

// Less orders routes by origin, then destination.
func (k RouteKey) Less(other RouteKey) bool {
	if k.Origin != other.Origin {
		return k.Origin < other.Origin
	}
	return k.Destination < other.Destination
}

// ParseDate parses an ISO calendar date such as 2024-06-01.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(s))
}

// Route returns the record's route key.
func (r *FlightRecord) Route() RouteKey {
	return RouteKey{Origin: r.Origin, Destination: r.Destination}
}

// DateKey returns the identity value used for the flight date: the
// normalized date when parsed, otherwise the raw text.
func (r *FlightRecord) DateKey() string {
	if r.FlightDate != nil {
		return r.FlightDate.Format(time.DateOnly)
	}
	return r.RawDate
}

// FlightTable is the in-memory table the pipeline operates on.
type FlightTable struct {
	Records    []FlightRecord
	Columns    ColumnSet
	DateParsed bool
}

// NewFlightTable creates a table carrying the given columns.
func NewFlightTable(cols ColumnSet, records []FlightRecord) *FlightTable {
	return &FlightTable{Columns: cols, Records: records}
}

// Len returns the number of rows.
func (t *FlightTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Record returns a pointer to row i.
func (t *FlightTable) Record(i int) *FlightRecord {
	return &t.Records[i]
}

// IsEmpty reports whether the table is nil or has no rows.
func (t *FlightTable) IsEmpty() bool {
	return t.Len() == 0
}

// Has reports whether the table carries column c.
func (t *FlightTable) Has(c Column) bool {
	return t != nil && t.Columns.Has(c)
}

// Clone returns a deep copy so callers can mutate rows without aliasing.
func (t *FlightTable) Clone() *FlightTable {
	if t == nil {
		return nil
	}
	out := &FlightTable{
		Columns:    t.Columns,
		DateParsed: t.DateParsed,
		Records:    make([]FlightRecord, len(t.Records)),
	}
	for i := range t.Records {
		out.Records[i] = t.Records[i].clone()
	}
	return out
}

// Prices returns the non-null prices in row order.
func (t *FlightTable) Prices() []float64 {
	if t == nil {
		return nil
	}
	prices := make([]float64, 0, len(t.Records))
	for i := range t.Records {
		if p := t.Records[i].Price; p != nil {
			prices = append(prices, *p)
		}
	}
	return prices
}

func (r FlightRecord) clone() FlightRecord {
	out := r
	out.FlightDate = clonePtr(r.FlightDate)
	out.FlightTime = clonePtr(r.FlightTime)
	out.Price = clonePtr(r.Price)
	out.Airline = clonePtr(r.Airline)
	out.Duration = clonePtr(r.Duration)
	out.IsDomestic = clonePtr(r.IsDomestic)
	out.DayOfWeek = clonePtr(r.DayOfWeek)
	out.Month = clonePtr(r.Month)
	out.IsWeekend = clonePtr(r.IsWeekend)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
