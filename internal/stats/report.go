package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/store"
)

// DefaultTrendWindow is the rolling window for the accuracy trend.
const DefaultTrendWindow = 10

// ReportConfig filters the history a report is built from.
type ReportConfig struct {
	Since       *time.Time
	Last        int
	TrendWindow int
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Aggregator *Aggregator
	Snapshot   Snapshot
	Trend      []float64
}

// BuildReport loads the outcome log and aggregates it.
func BuildReport(ctx context.Context, st *store.Store, cat *catalog.Catalog, cfg ReportConfig) (Report, error) {
	events, err := st.ListOutcomes(ctx, store.ListOptions{Since: cfg.Since, Last: cfg.Last})
	if err != nil {
		return Report{}, err
	}
	window := cfg.TrendWindow
	if window <= 0 {
		window = DefaultTrendWindow
	}
	agg := NewAggregator(cat, events...)
	return Report{
		Aggregator: agg,
		Snapshot:   agg.Snapshot(),
		Trend:      AccuracyTrend(events, window),
	}, nil
}
