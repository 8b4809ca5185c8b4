package models

import "time"

// Insights document keys.
const (
	KeyPopularRoutes       = "popular_routes"
	KeyDailyPriceTrends    = "daily_price_trends"
	KeyWeeklyPriceTrends   = "weekly_price_trends"
	KeyMonthlyPatterns     = "monthly_patterns"
	KeyDayOfWeekPatterns   = "day_of_week_patterns"
	KeyPeakTravelPeriods   = "peak_travel_periods"
	KeyPriceStats          = "price_stats"
	KeyPriceCategories     = "price_categories"
	KeyMarketOpportunities = "market_opportunities"
	KeySummary             = "summary"
)

// RouteFrequency is one entry of the popular routes ranking.
type RouteFrequency struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Frequency   int    `json:"frequency"`
	IsDomestic  bool   `json:"is_domestic"`
}

// DailyPriceTrend aggregates prices for one calendar date.
type DailyPriceTrend struct {
	Date        time.Time `json:"date"`
	AvgPrice    float64   `json:"avg_price"`
	MedianPrice float64   `json:"median_price"`
	FlightCount int       `json:"flight_count"`
}

// WeeklyPriceTrend aggregates prices for one ISO week.
type WeeklyPriceTrend struct {
	Year        int     `json:"year"`
	Week        int     `json:"week"`
	AvgPrice    float64 `json:"avg_price"`
	MedianPrice float64 `json:"median_price"`
	FlightCount int     `json:"flight_count"`
}

// MonthlyPattern aggregates flights for one calendar month. Price fields
// are nil when the table has no price column.
type MonthlyPattern struct {
	Month       int      `json:"month"`
	AvgPrice    *float64 `json:"avg_price,omitempty"`
	MedianPrice *float64 `json:"median_price,omitempty"`
	FlightCount int      `json:"flight_count"`
}

// DayOfWeekPattern aggregates flights for one weekday.
type DayOfWeekPattern struct {
	DayOfWeek   int      `json:"day_of_week"`
	DayName     string   `json:"day_name"`
	AvgPrice    *float64 `json:"avg_price,omitempty"`
	MedianPrice *float64 `json:"median_price,omitempty"`
	FlightCount int      `json:"flight_count"`
}

// PriceStats describes the price distribution. Std is nil with fewer than
// two prices.
type PriceStats struct {
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	Std    *float64 `json:"std"`
	Q1     float64  `json:"q1"`
	Q3     float64  `json:"q3"`
}

// PriceCategoryCount is the number of flights in one price band.
type PriceCategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// AirportCount is a frequency entry of the summary top lists.
type AirportCount struct {
	Code  string `json:"code"`
	City  string `json:"city"`
	Count int    `json:"count"`
}

// Summary holds the headline numbers of a run.
type Summary struct {
	TotalFlights          int            `json:"total_flights"`
	DomesticFlights       *int           `json:"domestic_flights,omitempty"`
	InternationalFlights  *int           `json:"international_flights,omitempty"`
	DomesticPercentage    *float64       `json:"domestic_percentage,omitempty"`
	AvgPrice              *float64       `json:"avg_price,omitempty"`
	MedianPrice           *float64       `json:"median_price,omitempty"`
	AvgDomesticPrice      *float64       `json:"avg_domestic_price,omitempty"`
	AvgInternationalPrice *float64       `json:"avg_international_price,omitempty"`
	TopOrigins            []AirportCount `json:"top_origins,omitempty"`
	TopDestinations       []AirportCount `json:"top_destinations,omitempty"`
	BusiestDay            *string        `json:"busiest_day,omitempty"`
	BusiestMonth          *string        `json:"busiest_month,omitempty"`
	WeekendPricePremium   *float64       `json:"weekend_price_premium,omitempty"`
}

// SkipKind classifies why a pass produced no output.
type SkipKind string

const (
	// SkipMissingColumn means a required column is absent.
	SkipMissingColumn SkipKind = "missing_column"
	// SkipEmptyInput means the table has no rows.
	SkipEmptyInput SkipKind = "empty_input"
	// SkipUnparseableDate means flight_date could not be parsed.
	SkipUnparseableDate SkipKind = "unparseable_date"
	// SkipDegenerateStatistics means the input cannot support the statistic.
	SkipDegenerateStatistics SkipKind = "degenerate_statistics"
)

// SkippedPass records a pass, or part of one, that produced no output.
type SkippedPass struct {
	Pass   string   `json:"pass"`
	Kind   SkipKind `json:"kind"`
	Column string   `json:"column,omitempty"`
}

// InsightsDocument is the output of one pipeline run. A nil field means the
// corresponding pass did not produce it.
type InsightsDocument struct {
	PopularRoutes       []RouteFrequency     `json:"popular_routes,omitempty"`
	DailyPriceTrends    []DailyPriceTrend    `json:"daily_price_trends,omitempty"`
	WeeklyPriceTrends   []WeeklyPriceTrend   `json:"weekly_price_trends,omitempty"`
	MonthlyPatterns     []MonthlyPattern     `json:"monthly_patterns,omitempty"`
	DayOfWeekPatterns   []DayOfWeekPattern   `json:"day_of_week_patterns,omitempty"`
	PeakTravelPeriods   []string             `json:"peak_travel_periods,omitempty"`
	PriceStats          *PriceStats          `json:"price_stats,omitempty"`
	PriceCategories     []PriceCategoryCount `json:"price_categories,omitempty"`
	MarketOpportunities []Opportunity        `json:"market_opportunities"`
	Summary             *Summary             `json:"summary,omitempty"`

	Skipped []SkippedPass `json:"skipped,omitempty"`
}

// NewInsightsDocument returns an empty document.
func NewInsightsDocument() *InsightsDocument {
	return &InsightsDocument{}
}

// Keys lists the populated keys in canonical order.
func (d *InsightsDocument) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, 10)
	add := func(ok bool, key string) {
		if ok {
			keys = append(keys, key)
		}
	}
	add(d.PopularRoutes != nil, KeyPopularRoutes)
	add(d.DailyPriceTrends != nil, KeyDailyPriceTrends)
	add(d.WeeklyPriceTrends != nil, KeyWeeklyPriceTrends)
	add(d.MonthlyPatterns != nil, KeyMonthlyPatterns)
	add(d.DayOfWeekPatterns != nil, KeyDayOfWeekPatterns)
	add(d.PeakTravelPeriods != nil, KeyPeakTravelPeriods)
	add(d.PriceStats != nil, KeyPriceStats)
	add(d.PriceCategories != nil, KeyPriceCategories)
	add(d.MarketOpportunities != nil, KeyMarketOpportunities)
	add(d.Summary != nil, KeySummary)
	return keys
}

// Has reports whether key is populated.
func (d *InsightsDocument) Has(key string) bool {
	for _, k := range d.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no key is populated.
func (d *InsightsDocument) IsEmpty() bool {
	return len(d.Keys()) == 0
}
