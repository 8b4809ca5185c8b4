package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

func TestGenerate_Nil(t *testing.T) {
	n := Generate(nil)
	assert.True(t, n.IsEmpty())
}

func TestGenerate_TrendSummary(t *testing.T) {
	tests := []struct {
		name    string
		summary *models.Summary
		want    string
	}{
		{
			name:    "predominantly domestic",
			summary: &models.Summary{DomesticPercentage: models.Ptr(85.5)},
			want:    "The market is predominantly domestic (85.5% of flights), suggesting strong intra-Australian travel demand.",
		},
		{
			name:    "mixed at threshold",
			summary: &models.Summary{DomesticPercentage: models.Ptr(70.0)},
			want:    "There's a healthy mix of domestic (70.0%) and international flights, indicating diverse travel patterns.",
		},
		{
			name:    "whole percentage keeps one decimal",
			summary: &models.Summary{DomesticPercentage: models.Ptr(50.0)},
			want:    "There's a healthy mix of domestic (50.0%) and international flights, indicating diverse travel patterns.",
		},
		{
			name: "busiest periods and premium",
			summary: &models.Summary{
				BusiestDay:          models.Ptr("Saturday"),
				BusiestMonth:        models.Ptr("December"),
				WeekendPricePremium: models.Ptr(12.3),
			},
			want: "Saturday is the most popular day for flights, and December shows the highest travel activity. " +
				"Weekend flights command a 12.3% price premium over weekday flights.",
		},
		{
			name:    "busiest day without month",
			summary: &models.Summary{BusiestDay: models.Ptr("Saturday")},
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Generate(&models.InsightsDocument{Summary: tt.summary})
			assert.Equal(t, tt.want, n.TrendSummary)
		})
	}
}

func TestGenerate_ObservationsAndRecommendations(t *testing.T) {
	doc := &models.InsightsDocument{
		MarketOpportunities: []models.Opportunity{
			{Type: models.OpportunityWeekendPremium, Origin: "SYD", Destination: "MEL"},
			{Type: models.OpportunityHighDemandHighPrice, Origin: "SYD", Destination: "BNE"},
			{Type: models.OpportunitySeasonalVariation, Origin: "SYD", Destination: "PER", HighPriceMonth: models.Ptr("July")},
			{Type: models.OpportunityHighDemandHighPrice, Origin: "SYD", Destination: "ADL"},
		},
	}
	for _, d := range []string{"MEL", "BNE", "PER", "ADL", "DRW", "CNS"} {
		doc.PopularRoutes = append(doc.PopularRoutes, models.RouteFrequency{Origin: "SYD", Destination: d, Frequency: 1})
	}

	n := Generate(doc)
	require.Len(t, n.MarketObservations, 5)
	assert.Equal(t, "High demand observed between SYD and MEL, suggesting strong traveler interest in this route.", n.MarketObservations[0])

	require.Len(t, n.HostelRecommendations, 2)
	assert.Contains(t, n.HostelRecommendations[0], "near BNE airport")
	assert.Equal(t, "Implement dynamic pricing for hostels near PER during July to capitalize on peak travel season pricing.", n.HostelRecommendations[1])
	assert.Nil(t, n.SeasonalStrategies)
}

func TestGenerate_SeasonalStrategies(t *testing.T) {
	doc := &models.InsightsDocument{
		MonthlyPatterns: []models.MonthlyPattern{
			{Month: 1, FlightCount: 30},
			{Month: 6, FlightCount: 50},
			{Month: 7, FlightCount: 30},
		},
	}
	n := Generate(doc)
	assert.Equal(t, []string{
		"Increase hostel capacity and rates during June, which shows significantly higher travel volume.",
		"Increase hostel capacity and rates during January, which shows significantly higher travel volume.",
		shoulderSeasonStrategy,
	}, n.SeasonalStrategies)

	empty := Generate(&models.InsightsDocument{MonthlyPatterns: []models.MonthlyPattern{}})
	assert.Equal(t, []string{shoulderSeasonStrategy}, empty.SeasonalStrategies)
}
