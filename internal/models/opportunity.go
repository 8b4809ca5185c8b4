package models

// OpportunityType names the rule that flagged an opportunity.
type OpportunityType string

const (
	// OpportunityHighDemandHighPrice flags busy routes with above-median prices.
	OpportunityHighDemandHighPrice OpportunityType = "high_demand_high_price"
	// OpportunityWeekendPremium flags routes priced much higher on weekends.
	OpportunityWeekendPremium OpportunityType = "weekend_premium"
	// OpportunitySeasonalVariation flags origins with large month-to-month swings.
	OpportunitySeasonalVariation OpportunityType = "seasonal_variation"
)

// Title returns the heading used in reports.
func (t OpportunityType) Title() string {
	switch t {
	case OpportunityHighDemandHighPrice:
		return "High Demand & High Price Opportunity"
	case OpportunityWeekendPremium:
		return "Weekend Price Premium Opportunity"
	case OpportunitySeasonalVariation:
		return "Seasonal Price Variation Opportunity"
	default:
		return "Market Opportunity"
	}
}

// Opportunity is a flagged route or time pattern. Type-specific fields are
// nil for other types.
type Opportunity struct {
	Type        OpportunityType `json:"type"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Description string          `json:"opportunity"`

	// high_demand_high_price
	Frequency   *int     `json:"frequency,omitempty"`
	MedianPrice *float64 `json:"median_price,omitempty"`

	// weekend_premium
	WeekdayPrice    *float64 `json:"weekday_price,omitempty"`
	WeekendPrice    *float64 `json:"weekend_price,omitempty"`
	PriceDifference *float64 `json:"price_difference,omitempty"`

	// seasonal_variation
	HighPriceMonth *string  `json:"high_price_month,omitempty"`
	LowPriceMonth  *string  `json:"low_price_month,omitempty"`
	PriceRatio     *float64 `json:"price_ratio,omitempty"`
}

// Route returns the opportunity's route key.
func (o Opportunity) Route() RouteKey {
	return RouteKey{Origin: o.Origin, Destination: o.Destination}
}
