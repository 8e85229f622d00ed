package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"opsboard/internal/insight"
	"opsboard/internal/inventory"
	"opsboard/internal/stats"
)

// Series names used in metric_samples.
const (
	SeriesCPU     = "cpu_usage"
	SeriesLatency = "network_latency"
)

// ErrReportNotFound is returned by GetReport for an unknown id.
var ErrReportNotFound = errors.New("report not found")

// =============================================================================
// SCHEMA SQL
// =============================================================================

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS insight_reports (
  report_id   VARCHAR PRIMARY KEY,
  kind        VARCHAR NOT NULL,
  state       VARCHAR NOT NULL,
  prompt      VARCHAR,
  body        VARCHAR NOT NULL,
  created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS metric_samples (
  series      VARCHAR NOT NULL,
  sampled_at  TIMESTAMP NOT NULL,
  value       DOUBLE NOT NULL,
  PRIMARY KEY (series, sampled_at)
);
`

// =============================================================================
// REPO IMPLEMENTATION
// =============================================================================

type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// RecordOutcome stores a terminal insight outcome. It satisfies
// insight.Recorder.
func (r *Repo) RecordOutcome(ctx context.Context, o insight.Outcome) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO insight_reports(report_id, kind, state, prompt, body, created_at) VALUES(?,?,?,?,?,?)`,
		uuid.NewString(), string(o.Kind), string(o.State), nullEmpty(o.Prompt), o.Text, r.now(),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// InsertSamples upserts a series. Re-inserting a timestamp replaces its value.
func (r *Repo) InsertSamples(ctx context.Context, series string, points []inventory.TimeDataPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO metric_samples(series, sampled_at, value) VALUES(?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare samples: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, series, p.Time.UTC(), p.Value); err != nil {
			return fmt.Errorf("insert sample %s@%s: %w", series, p.Time.Format(time.RFC3339), err)
		}
	}
	return tx.Commit()
}

// SeriesAverage returns the rounded mean of a stored series, or
// stats.ErrNoSamples when nothing is stored under that name.
func (r *Repo) SeriesAverage(ctx context.Context, series string) (int, error) {
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `SELECT AVG(value) FROM metric_samples WHERE series = ?`, series).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average %s: %w", series, err)
	}
	if !avg.Valid {
		return 0, stats.ErrNoSamples
	}
	return stats.Round(avg.Float64), nil
}

// SeriesPoints returns the most recent points of a series in time order.
func (r *Repo) SeriesPoints(ctx context.Context, series string, limit int) ([]inventory.TimeDataPoint, error) {
	limit = clampLimit(limit)

	rows, err := r.db.QueryContext(ctx, `
		SELECT sampled_at, value FROM (
			SELECT sampled_at, value FROM metric_samples
			WHERE series = ?
			ORDER BY sampled_at DESC LIMIT ?
		) ORDER BY sampled_at ASC`, series, limit)
	if err != nil {
		return nil, fmt.Errorf("query series %s: %w", series, err)
	}
	defer rows.Close()

	points := []inventory.TimeDataPoint{}
	for rows.Next() {
		var p inventory.TimeDataPoint
		if err := rows.Scan(&p.Time, &p.Value); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100 // Safety limit
	}
	return limit
}

func nullEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
