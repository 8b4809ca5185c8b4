package report

import (
	"fmt"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/analysis"
	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/services/narrative"
)

const (
	maxReportRoutes        = 8
	maxReportOpportunities = 5
	maxNarrativeItems      = 5
)

// Data is everything a report renders.
type Data struct {
	GeneratedAt time.Time
	City        string
	Insights    *models.InsightsDocument
	Narrative   narrative.Narrative
	Cleaned     *models.FlightTable
	Airports    analysis.AirportLookup
}

// Title returns the report heading.
func (d Data) Title() string {
	return "Flight Market Analysis Report: " + d.City
}

// SummaryLines returns the "Market Summary" lines.
func (d Data) SummaryLines() []string {
	if d.Insights == nil || d.Insights.Summary == nil {
		return nil
	}
	s := d.Insights.Summary
	lines := []string{"Total Flights Analyzed: " + Count(s.TotalFlights)}
	if s.DomesticPercentage != nil {
		lines = append(lines, "Domestic Flight Percentage: "+Percent(s.DomesticPercentage))
	}
	if s.AvgPrice != nil {
		lines = append(lines, "Average Flight Price: "+Currency(s.AvgPrice))
	}
	if s.BusiestDay != nil && s.BusiestMonth != nil {
		lines = append(lines, "Busiest Day: "+*s.BusiestDay, "Peak Month: "+*s.BusiestMonth)
	}
	return lines
}

// RouteRow is one row of the "Top Flight Routes" table.
type RouteRow struct {
	Origin      string
	Destination string
	Frequency   int
	AvgPrice    string
	Type        string
}

// TopRoutes returns the busiest routes with their average prices.
func (d Data) TopRoutes() []RouteRow {
	if d.Insights == nil {
		return nil
	}
	avg := make(map[models.RouteKey]*float64)
	if !d.Cleaned.IsEmpty() {
		for _, st := range analysis.RouteTable(d.Cleaned, d.Airports) {
			avg[models.RouteKey{Origin: st.Origin, Destination: st.Destination}] = st.AvgPrice
		}
	}

	routes := d.Insights.PopularRoutes
	rows := make([]RouteRow, 0, min(maxReportRoutes, len(routes)))
	for _, r := range routes[:min(maxReportRoutes, len(routes))] {
		row := RouteRow{
			Origin:      r.Origin,
			Destination: r.Destination,
			Frequency:   r.Frequency,
			AvgPrice:    Currency(avg[models.RouteKey{Origin: r.Origin, Destination: r.Destination}]),
			Type:        analysis.RouteTypeInternational,
		}
		if r.IsDomestic {
			row.Type = analysis.RouteTypeDomestic
		}
		rows = append(rows, row)
	}
	return rows
}

// OpportunityDetails returns the detail lines printed under an opportunity.
func OpportunityDetails(o models.Opportunity) []string {
	details := []string{fmt.Sprintf("Route: %s to %s", o.Origin, o.Destination)}
	if o.MedianPrice != nil {
		details = append(details, "Median Price: "+Currency(o.MedianPrice))
	}
	if o.PriceDifference != nil {
		details = append(details, "Weekend Price Premium: "+Currency(o.PriceDifference))
	}
	if o.HighPriceMonth != nil && o.LowPriceMonth != nil {
		details = append(details, "High Price Month: "+*o.HighPriceMonth, "Low Price Month: "+*o.LowPriceMonth)
	}
	return details
}

func (d Data) opportunities() []models.Opportunity {
	if d.Insights == nil {
		return nil
	}
	opps := d.Insights.MarketOpportunities
	return opps[:min(maxReportOpportunities, len(opps))]
}

func (d Data) generatedAt() time.Time {
	if d.GeneratedAt.IsZero() {
		return time.Now()
	}
	return d.GeneratedAt
}
