// Package analysis implements the flight market-demand pipeline: cleaning a
// raw flight table and deriving the insights document from it.
package analysis

import (
	"fmt"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

// AirportLookup classifies airports and names their cities.
type AirportLookup interface {
	IsDomestic(code string) bool
	CityName(code string) string
}

// SkipError reports that a pass produced no output and why.
type SkipError struct {
	Pass   string
	Kind   models.SkipKind
	Column models.Column
}

func (e *SkipError) Error() string {
	if e.Column != 0 {
		return fmt.Sprintf("%s skipped: %s %s", e.Pass, e.Kind, e.Column)
	}
	return fmt.Sprintf("%s skipped: %s", e.Pass, e.Kind)
}

// Skipped converts the error into its document entry.
func (e *SkipError) Skipped() models.SkippedPass {
	s := models.SkippedPass{Pass: e.Pass, Kind: e.Kind}
	if e.Column != 0 {
		s.Column = e.Column.String()
	}
	return s
}

func missingColumn(pass string, col models.Column) *SkipError {
	return &SkipError{Pass: pass, Kind: models.SkipMissingColumn, Column: col}
}

// requireColumns returns a skip for the first absent column.
func requireColumns(pass string, t *models.FlightTable, cols ...models.Column) *SkipError {
	for _, c := range cols {
		if !t.Has(c) {
			return missingColumn(pass, c)
		}
	}
	return nil
}

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName maps 0=Monday..6=Sunday to its English name.
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return ""
	}
	return dayNames[day]
}

// MonthName maps 1..12 to its English name.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// mondayIndex converts Go's Sunday-first weekday to a Monday-first index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
