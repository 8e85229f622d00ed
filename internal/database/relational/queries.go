package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ReportSummary is one stored insight outcome.
type ReportSummary struct {
	ReportID  string    `json:"report_id"`
	Kind      string    `json:"kind"`
	State     string    `json:"state"`
	Body      string    `json:"body"`
	Prompt    string    `json:"prompt,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// QueryReports retrieves recent reports, newest first. An empty kind matches
// every kind. Prompts are left out to keep listings small.
func (r *Repo) QueryReports(ctx context.Context, kind string, limit int) ([]ReportSummary, error) {
	limit = clampLimit(limit)

	query := `
		SELECT report_id, kind, state, body, created_at
		FROM insight_reports
		WHERE 1=1
	`
	args := []any{}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports failed: %w", err)
	}
	defer rows.Close()

	reports := []ReportSummary{} // Initialize as empty slice, not nil
	for rows.Next() {
		var s ReportSummary
		if err := rows.Scan(&s.ReportID, &s.Kind, &s.State, &s.Body, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report failed: %w", err)
		}
		reports = append(reports, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return reports, nil
}

// GetReport retrieves one report including its prompt.
func (r *Repo) GetReport(ctx context.Context, id string) (*ReportSummary, error) {
	var s ReportSummary
	var prompt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT report_id, kind, state, body, prompt, created_at FROM insight_reports WHERE report_id = ?`, id,
	).Scan(&s.ReportID, &s.Kind, &s.State, &s.Body, &prompt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	s.Prompt = prompt.String
	return &s, nil
}

// CountReports returns how many reports exist per kind.
func (r *Repo) CountReports(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM insight_reports GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count reports failed: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count failed: %w", err)
		}
		counts[kind] = int(n)
	}
	return counts, rows.Err()
}
