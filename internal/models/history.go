package models

import "time"

// TimeRange represents the selected history time range.
type TimeRange int

const (
	// TimeRange24Hours shows runs from the last 24 hours.
	TimeRange24Hours TimeRange = iota
	// TimeRange7Days shows runs from the last 7 days.
	TimeRange7Days
	// TimeRange30Days shows runs from the last 30 days.
	TimeRange30Days
	// TimeRangeAllTime shows every recorded run.
	TimeRangeAllTime
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange24Hours:
		return "24 Hours"
	case TimeRange7Days:
		return "7 Days"
	case TimeRange30Days:
		return "30 Days"
	case TimeRangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Days returns the number of days for the time range (0 = unlimited).
func (t TimeRange) Days() int {
	switch t {
	case TimeRange24Hours:
		return 1
	case TimeRange7Days:
		return 7
	case TimeRange30Days:
		return 30
	case TimeRangeAllTime:
		return 0
	default:
		return 30
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}

// DataSource names where a run's raw flights came from.
type DataSource string

const (
	// SourceAPI means rows were fetched from AviationStack.
	SourceAPI DataSource = "aviationstack"
	// SourceCache means rows were served from the local fetch cache.
	SourceCache DataSource = "cache"
	// SourceMock means rows were synthesized by the mock generator.
	SourceMock DataSource = "mock"
	// SourceFile means rows were imported from a CSV file.
	SourceFile DataSource = "file"
)

// AnalysisRun is the persisted summary of one pipeline run.
type AnalysisRun struct {
	CreatedAt        time.Time
	AvgPrice         *float64
	ID               string
	City             string
	Source           DataSource
	RawRows          int
	CleanRows        int
	DomesticPct      *float64
	OpportunityCount int
	BusiestDay       string
	BusiestMonth     string
}

// RunHistory is the set of runs inside a time range.
type RunHistory struct {
	Runs      []AnalysisRun
	TimeRange TimeRange
}

// HasData returns true if at least one run was recorded.
func (h *RunHistory) HasData() bool {
	return h != nil && len(h.Runs) > 0
}

// AvgPriceSeries returns average prices oldest first, skipping runs without
// prices.
func (h *RunHistory) AvgPriceSeries() []float64 {
	if h == nil {
		return nil
	}
	series := make([]float64, 0, len(h.Runs))
	for i := len(h.Runs) - 1; i >= 0; i-- {
		if p := h.Runs[i].AvgPrice; p != nil {
			series = append(series, *p)
		}
	}
	return series
}

// Latest returns the most recent run, or nil.
func (h *RunHistory) Latest() *AnalysisRun {
	if !h.HasData() {
		return nil
	}
	return &h.Runs[0]
}
