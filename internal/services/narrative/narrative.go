// Package narrative turns an insights document into plain-language
// observations and recommendations.
package narrative

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const (
	domesticThreshold = 70.0
	maxObservations   = 5
	maxRecommended    = 3
	maxPeakMonths     = 2
)

const shoulderSeasonStrategy = "Consider offering package deals with local attractions during shoulder seasons to boost occupancy rates."

// Narrative is the generated commentary for one run.
type Narrative struct {
	TrendSummary          string   `json:"trend_summary"`
	MarketObservations    []string `json:"market_observations"`
	HostelRecommendations []string `json:"hostel_recommendations"`
	SeasonalStrategies    []string `json:"seasonal_strategies"`
}

// IsEmpty reports whether nothing was generated.
func (n Narrative) IsEmpty() bool {
	return n.TrendSummary == "" && len(n.MarketObservations) == 0 &&
		len(n.HostelRecommendations) == 0 && len(n.SeasonalStrategies) == 0
}

// Generate builds the narrative from whatever keys doc carries.
func Generate(doc *models.InsightsDocument) Narrative {
	var n Narrative
	if doc == nil {
		return n
	}
	n.TrendSummary = trendSummary(doc.Summary)

	for _, r := range doc.PopularRoutes[:min(maxObservations, len(doc.PopularRoutes))] {
		n.MarketObservations = append(n.MarketObservations, fmt.Sprintf(
			"High demand observed between %s and %s, suggesting strong traveler interest in this route.",
			r.Origin, r.Destination))
	}

	for _, o := range doc.MarketOpportunities[:min(maxRecommended, len(doc.MarketOpportunities))] {
		switch o.Type {
		case models.OpportunityHighDemandHighPrice:
			n.HostelRecommendations = append(n.HostelRecommendations, fmt.Sprintf(
				"Consider expanding hostel capacity near %s airport due to high demand and premium pricing in this market.",
				o.Destination))
		case models.OpportunitySeasonalVariation:
			month := ""
			if o.HighPriceMonth != nil {
				month = *o.HighPriceMonth
			}
			n.HostelRecommendations = append(n.HostelRecommendations, fmt.Sprintf(
				"Implement dynamic pricing for hostels near %s during %s to capitalize on peak travel season pricing.",
				o.Destination, month))
		}
	}

	if doc.MonthlyPatterns != nil {
		for _, m := range peakMonths(doc.MonthlyPatterns) {
			n.SeasonalStrategies = append(n.SeasonalStrategies, fmt.Sprintf(
				"Increase hostel capacity and rates during %s, which shows significantly higher travel volume.",
				time.Month(m)))
		}
		n.SeasonalStrategies = append(n.SeasonalStrategies, shoulderSeasonStrategy)
	}
	return n
}

func trendSummary(s *models.Summary) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	if s.DomesticPercentage != nil {
		pct := formatNumber(*s.DomesticPercentage)
		if *s.DomesticPercentage > domesticThreshold {
			fmt.Fprintf(&b, "The market is predominantly domestic (%s%% of flights), suggesting strong intra-Australian travel demand. ", pct)
		} else {
			fmt.Fprintf(&b, "There's a healthy mix of domestic (%s%%) and international flights, indicating diverse travel patterns. ", pct)
		}
	}
	if s.BusiestDay != nil && s.BusiestMonth != nil {
		fmt.Fprintf(&b, "%s is the most popular day for flights, and %s shows the highest travel activity. ", *s.BusiestDay, *s.BusiestMonth)
	}
	if s.WeekendPricePremium != nil {
		fmt.Fprintf(&b, "Weekend flights command a %s%% price premium over weekday flights. ", formatNumber(*s.WeekendPricePremium))
	}
	return strings.TrimSpace(b.String())
}

// peakMonths returns the busiest months, ties in calendar order.
func peakMonths(patterns []models.MonthlyPattern) []int {
	sorted := slices.Clone(patterns)
	slices.SortStableFunc(sorted, func(a, b models.MonthlyPattern) int {
		if c := cmp.Compare(b.FlightCount, a.FlightCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
	months := make([]int, 0, maxPeakMonths)
	for _, p := range sorted[:min(maxPeakMonths, len(sorted))] {
		months = append(months, p.Month)
	}
	return months
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
