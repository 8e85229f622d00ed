package relational

import (
	"context"

	"opsboard/internal/insight"
	"opsboard/internal/inventory"
)

// =============================================================================
// CORE INTERFACES
// =============================================================================

// SampleWriter persists metric series.
type SampleWriter interface {
	InsertSamples(ctx context.Context, series string, points []inventory.TimeDataPoint) error
}

// ReportReader lists stored insight outcomes.
type ReportReader interface {
	QueryReports(ctx context.Context, kind string, limit int) ([]ReportSummary, error)
	GetReport(ctx context.Context, id string) (*ReportSummary, error)
	CountReports(ctx context.Context) (map[string]int, error)
}

// HistoryStore is everything the binaries need from the history database.
type HistoryStore interface {
	insight.Recorder
	SampleWriter
	ReportReader
	Migrate(ctx context.Context) error
	SeriesAverage(ctx context.Context, series string) (int, error)
}

var _ HistoryStore = (*Repo)(nil)
