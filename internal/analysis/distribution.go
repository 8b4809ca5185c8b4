package analysis

import (
	"math"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const passPriceDistribution = "price_distribution"

// PriceBand is a left-closed, right-open price range.
type PriceBand struct {
	Name  string
	Lower float64
	Upper float64
}

// PriceBands are the price categories in ascending order. Prices below the
// first lower bound count as Budget.
var PriceBands = []PriceBand{
	{Name: "Budget", Lower: 0, Upper: 200},
	{Name: "Economy", Lower: 200, Upper: 500},
	{Name: "Premium", Lower: 500, Upper: 1000},
	{Name: "Luxury", Lower: 1000, Upper: math.Inf(1)},
}

// Categorize returns the band name for a price.
func Categorize(price float64) string {
	for _, b := range PriceBands {
		if price < b.Upper {
			return b.Name
		}
	}
	return PriceBands[len(PriceBands)-1].Name
}

// priceDistribution computes descriptive price statistics and band counts.
func priceDistribution(t *models.FlightTable, doc *models.InsightsDocument) *SkipError {
	if skip := requireColumns(passPriceDistribution, t, models.ColPrice); skip != nil {
		return skip
	}
	prices := t.Prices()
	if len(prices) == 0 {
		return &SkipError{Pass: passPriceDistribution, Kind: models.SkipDegenerateStatistics, Column: models.ColPrice}
	}

	lo, hi, _ := minMax(prices)
	med, _ := median(prices)
	q1, _ := quantile(prices, 0.25)
	q3, _ := quantile(prices, 0.75)
	stats := &models.PriceStats{
		Min:    lo,
		Max:    hi,
		Mean:   mean(prices),
		Median: med,
		Q1:     q1,
		Q3:     q3,
	}
	if std, ok := sampleStd(prices); ok {
		stats.Std = models.Ptr(std)
	}
	doc.PriceStats = stats

	counts := make(map[string]int, len(PriceBands))
	for _, p := range prices {
		counts[Categorize(p)]++
	}
	categories := make([]models.PriceCategoryCount, 0, len(PriceBands))
	for _, b := range PriceBands {
		categories = append(categories, models.PriceCategoryCount{Category: b.Name, Count: counts[b.Name]})
	}
	doc.PriceCategories = categories
	return nil
}
