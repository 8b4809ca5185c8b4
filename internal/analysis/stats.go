package analysis

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// sampleStd returns the sample standard deviation (n-1 denominator). ok is
// false with fewer than two values.
func sampleStd(xs []float64) (std float64, ok bool) {
	if len(xs) < 2 {
		return 0, false
	}
	return stat.StdDev(xs, nil), true
}

// median returns the middle value, averaging the two middle values for an
// even count. ok is false for an empty slice.
func median(xs []float64) (float64, bool) {
	return quantile(xs, 0.5)
}

// quantile returns the q-th quantile using linear interpolation between the
// closest ranks: position (n-1)*q in the sorted data.
func quantile(xs []float64, q float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	pos := float64(len(sorted)-1) * q
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], true
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, true
}

func minMax(xs []float64) (lo, hi float64, ok bool) {
	if len(xs) == 0 {
		return 0, 0, false
	}
	return floats.Min(xs), floats.Max(xs), true
}

// roundTo rounds half to even at the given number of decimal places.
func roundTo(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.RoundToEven(x*scale) / scale
}

// orderedGroups keeps groups in first-seen key order.
type orderedGroups[K comparable] struct {
	keys []K
	rows map[K][]int
}

func newOrderedGroups[K comparable]() *orderedGroups[K] {
	return &orderedGroups[K]{rows: make(map[K][]int)}
}

func (g *orderedGroups[K]) add(key K, row int) {
	if _, ok := g.rows[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.rows[key] = append(g.rows[key], row)
}

func (g *orderedGroups[K]) sortKeys(less func(a, b K) int) {
	slices.SortStableFunc(g.keys, less)
}

// groupRecords indexes rows by key. keyFn returns ok=false to leave a row
// out of every group.
func groupRecords[K comparable](t *models.FlightTable, keyFn func(i int) (K, bool)) *orderedGroups[K] {
	g := newOrderedGroups[K]()
	for i := 0; i < t.Len(); i++ {
		if k, ok := keyFn(i); ok {
			g.add(k, i)
		}
	}
	return g
}

// pricesOf collects non-null prices for the given rows.
func pricesOf(t *models.FlightTable, rows []int) []float64 {
	prices := make([]float64, 0, len(rows))
	for _, i := range rows {
		if p := t.Record(i).Price; p != nil {
			prices = append(prices, *p)
		}
	}
	return prices
}
