package analysis

import (
	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/models"
)

// Result is the output of one pipeline run. Both values are owned by the
// caller and share nothing with the raw input.
type Result struct {
	Cleaned  *models.FlightTable
	Insights *models.InsightsDocument
}

// Engine cleans flight tables and runs the aggregation passes over them.
// An Engine holds no per-run state and may be shared between goroutines.
type Engine struct {
	airports  AirportLookup
	topRoutes int
	cleaner   *Cleaner
}

// Option configures an Engine.
type Option func(*Engine)

// WithTopRoutes sets how many routes the popular routes pass keeps.
func WithTopRoutes(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topRoutes = n
		}
	}
}

// NewEngine creates an engine using airports for route classification and
// city names. airports may be nil.
func NewEngine(airports AirportLookup, opts ...Option) *Engine {
	e := &Engine{
		airports:  airports,
		topRoutes: DefaultTopRoutes,
		cleaner:   NewCleaner(airports),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clean runs only the cleaning stage.
func (e *Engine) Clean(raw *models.FlightTable) *models.FlightTable {
	return e.cleaner.Clean(raw)
}

// Run cleans raw and analyzes the result.
func (e *Engine) Run(raw *models.FlightTable) Result {
	if raw.IsEmpty() {
		logger.Warn("no flight data to analyze")
		var cols models.ColumnSet
		if raw != nil {
			cols = raw.Columns
		}
		return Result{Cleaned: models.NewFlightTable(cols, nil), Insights: models.NewInsightsDocument()}
	}
	cleaned := e.cleaner.Clean(raw)
	return Result{Cleaned: cleaned, Insights: e.Analyze(cleaned)}
}

// Analyze runs every aggregation pass over an already cleaned table. An
// empty table yields an empty document.
func (e *Engine) Analyze(t *models.FlightTable) *models.InsightsDocument {
	doc := models.NewInsightsDocument()
	if t.IsEmpty() {
		logger.Warn("cleaned flight table is empty, skipping analysis")
		return doc
	}

	passes := []func(*models.FlightTable, *models.InsightsDocument) *SkipError{
		e.popularRoutes,
		priceTrends,
		seasonalPatterns,
		priceDistribution,
		e.marketOpportunities,
		e.summary,
	}
	for _, pass := range passes {
		if skip := pass(t, doc); skip != nil {
			e.recordSkip(doc, skip)
		}
	}

	logger.Info("analysis complete", "rows", t.Len(), "keys", len(doc.Keys()), "skipped", len(doc.Skipped))
	return doc
}

func (e *Engine) recordSkip(doc *models.InsightsDocument, skip *SkipError) {
	attrs := []any{"pass", skip.Pass, "kind", string(skip.Kind)}
	if skip.Column != 0 {
		attrs = append(attrs, "column", skip.Column.String())
	}
	logger.Warn("analysis pass skipped", attrs...)
	doc.Skipped = append(doc.Skipped, skip.Skipped())
}
