package relational

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsboard/internal/insight"
	"opsboard/internal/inventory"
	"opsboard/internal/stats"
)

var base = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func setupRepo(t *testing.T) *Repo {
	t.Helper()
	client, err := Open("", WithThreads(1))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.True(t, client.InMemory())

	repo := client.Repo()
	require.NoError(t, repo.Migrate(context.Background()))

	tick := base
	repo.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return repo
}

func TestMigrateIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, repo.Migrate(context.Background()))
}

func TestRecordAndQueryReports(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	outcomes := []insight.Outcome{
		{Kind: insight.KindDEXReport, State: insight.StateFallback, Text: "dex body", Prompt: "dex prompt"},
		{Kind: insight.KindTicketSuggestion, State: insight.StateFailed, Text: insight.KindTicketSuggestion.ErrorMessage()},
		{Kind: insight.KindDEXReport, State: insight.StateSucceeded, Text: "second dex"},
	}
	for _, o := range outcomes {
		require.NoError(t, repo.RecordOutcome(ctx, o))
	}

	all, err := repo.QueryReports(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "second dex", all[0].Body, "newest first")
	assert.Empty(t, all[0].Prompt)

	dex, err := repo.QueryReports(ctx, string(insight.KindDEXReport), 10)
	require.NoError(t, err)
	require.Len(t, dex, 2)
	for _, r := range dex {
		assert.Equal(t, string(insight.KindDEXReport), r.Kind)
		assert.Len(t, r.ReportID, 36)
	}

	full, err := repo.GetReport(ctx, dex[1].ReportID)
	require.NoError(t, err)
	assert.Equal(t, "dex prompt", full.Prompt)
	assert.Equal(t, string(insight.StateFallback), full.State)

	_, err = repo.GetReport(ctx, "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)

	counts, err := repo.CountReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"dex_report": 2, "ticket_suggestion": 1}, counts)
}

func TestCountReportsByKind(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	counts, err := repo.CountReports(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	require.NoError(t, repo.RecordOutcome(ctx, insight.Outcome{Kind: insight.KindDEXReport, State: insight.StateFallback, Text: "a"}))
	require.NoError(t, repo.RecordOutcome(ctx, insight.Outcome{Kind: insight.KindMaintenancePlan, State: insight.StateFallback, Text: "b"}))

	counts, err = repo.CountReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"dex_report": 1, "maintenance_plan": 1}, counts)
}

func TestQueryReportsEmpty(t *testing.T) {
	repo := setupRepo(t)
	reports, err := repo.QueryReports(context.Background(), "", 5)
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 10}, {-3, 10}, {25, 25}, {500, 100},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSamples(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.SeriesAverage(ctx, SeriesLatency)
	assert.ErrorIs(t, err, stats.ErrNoSamples)

	points := []inventory.TimeDataPoint{
		{Time: base.Add(-2 * time.Hour), Value: 10},
		{Time: base.Add(-1 * time.Hour), Value: 20},
		{Time: base, Value: 25},
	}
	require.NoError(t, repo.InsertSamples(ctx, SeriesLatency, points))

	avg, err := repo.SeriesAverage(ctx, SeriesLatency)
	require.NoError(t, err)
	assert.Equal(t, 18, avg)

	// Replacing a timestamp keeps the row count stable.
	require.NoError(t, repo.InsertSamples(ctx, SeriesLatency, []inventory.TimeDataPoint{{Time: base, Value: 30}}))
	avg, err = repo.SeriesAverage(ctx, SeriesLatency)
	require.NoError(t, err)
	assert.Equal(t, 20, avg)

	got, err := repo.SeriesPoints(ctx, SeriesLatency, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Time.Equal(base.Add(-time.Hour)))
	assert.Equal(t, 30.0, got[1].Value)

	require.NoError(t, repo.InsertSamples(ctx, SeriesCPU, nil))
	_, err = repo.SeriesAverage(ctx, SeriesCPU)
	assert.ErrorIs(t, err, stats.ErrNoSamples)
}

func TestOpenRejectsClosedConfigure(t *testing.T) {
	var c DuckDBClient
	assert.Error(t, c.Configure(DatabaseConfig{Threads: 2}))
	assert.Error(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
