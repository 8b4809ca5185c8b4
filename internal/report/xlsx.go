package report

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/j-veylop/flight-demand-tui/internal/analysis"
	"github.com/j-veylop/flight-demand-tui/internal/dataset"
)

// Sheet names in workbook order.
const (
	SheetSummary       = "Summary"
	SheetRoutes        = "Routes"
	SheetMonthly       = "Monthly"
	SheetOpportunities = "Opportunities"
	SheetFlights       = "Flights"
)

// WriteXLSX renders the report data as a workbook.
func WriteXLSX(w io.Writer, d Data) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for _, name := range []string{SheetRoutes, SheetMonthly, SheetOpportunities, SheetFlights} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{SheetSummary, []string{"Metric", "Value"}, summaryRows(d)},
		{SheetRoutes, []string{"Origin", "Origin City", "Destination", "Destination City", "Flights",
			"Avg Price", "Median Price", "Min Price", "Max Price", "Type"}, routeRows(d)},
		{SheetMonthly, []string{"Month", "Month Name", "Flights", "Avg Price", "Median Price"}, monthlyRows(d)},
		{SheetOpportunities, []string{"Type", "Origin", "Destination", "Opportunity", "Frequency",
			"Median Price", "Weekday Price", "Weekend Price", "Price Difference",
			"High Price Month", "Low Price Month", "Price Ratio"}, opportunityRows(d)},
	}
	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.header, s.rows); err != nil {
			return err
		}
	}
	if err := writeFlights(f, d); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteXLSXFile renders the workbook to path.
func WriteXLSXFile(path string, d Data) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteXLSX(out, d)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for i, name := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
	}
	for r, row := range rows {
		for c, val := range row {
			if val == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, r+1, err)
			}
		}
	}
	return nil
}

func writeFlights(f *excelize.File, d Data) error {
	if d.Cleaned == nil || d.Cleaned.Columns.Len() == 0 {
		return nil
	}
	records := dataset.ToDataFrame(d.Cleaned).Records()
	if len(records) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]any, len(rec))
		for i, v := range rec {
			if v != "" {
				row[i] = v
			}
		}
		rows = append(rows, row)
	}
	return writeSheet(f, SheetFlights, records[0], rows)
}

// value unwraps optional cells so absent values stay blank.
func value[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func summaryRows(d Data) [][]any {
	if d.Insights == nil || d.Insights.Summary == nil {
		return [][]any{{"City", d.City}}
	}
	s := d.Insights.Summary
	return [][]any{
		{"City", d.City},
		{"Total Flights", s.TotalFlights},
		{"Domestic Flights", value(s.DomesticFlights)},
		{"International Flights", value(s.InternationalFlights)},
		{"Domestic Percentage", value(s.DomesticPercentage)},
		{"Average Price", value(s.AvgPrice)},
		{"Median Price", value(s.MedianPrice)},
		{"Average Domestic Price", value(s.AvgDomesticPrice)},
		{"Average International Price", value(s.AvgInternationalPrice)},
		{"Busiest Day", value(s.BusiestDay)},
		{"Busiest Month", value(s.BusiestMonth)},
		{"Weekend Price Premium", value(s.WeekendPricePremium)},
	}
}

func routeRows(d Data) [][]any {
	if d.Cleaned.IsEmpty() {
		return nil
	}
	stats := analysis.RouteTable(d.Cleaned, d.Airports)
	rows := make([][]any, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []any{
			st.Origin, st.OriginCity, st.Destination, st.DestCity, st.Flights,
			value(st.AvgPrice), value(st.MedianPrice), value(st.MinPrice), value(st.MaxPrice), st.RouteType,
		})
	}
	return rows
}

func monthlyRows(d Data) [][]any {
	if d.Insights == nil {
		return nil
	}
	rows := make([][]any, 0, len(d.Insights.MonthlyPatterns))
	for _, m := range d.Insights.MonthlyPatterns {
		rows = append(rows, []any{m.Month, analysis.MonthName(m.Month), m.FlightCount, value(m.AvgPrice), value(m.MedianPrice)})
	}
	return rows
}

func opportunityRows(d Data) [][]any {
	if d.Insights == nil {
		return nil
	}
	rows := make([][]any, 0, len(d.Insights.MarketOpportunities))
	for _, o := range d.Insights.MarketOpportunities {
		rows = append(rows, []any{
			string(o.Type), o.Origin, o.Destination, o.Description, value(o.Frequency),
			value(o.MedianPrice), value(o.WeekdayPrice), value(o.WeekendPrice), value(o.PriceDifference),
			value(o.HighPriceMonth), value(o.LowPriceMonth), value(o.PriceRatio),
		})
	}
	return rows
}
