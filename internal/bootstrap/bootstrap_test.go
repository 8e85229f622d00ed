package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsboard/internal/config"
	"opsboard/internal/database/relational"
	"opsboard/internal/engine"
	"opsboard/internal/insight"
	"opsboard/internal/logger"
)

func TestOpenDefaultRuntime(t *testing.T) {
	cfg := config.Default().WithFallbackDelay(time.Millisecond)
	ctx := context.Background()

	rt, err := Open(ctx, cfg, logger.NewTestLogger())
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Graph, "neo4j is disabled by default")
	assert.Nil(t, rt.RAG)
	assert.False(t, rt.Insights.Available())
	assert.Len(t, rt.Store.Devices(), 9)
	assert.True(t, rt.DuckDB.InMemory())

	o := rt.Insights.GenerateMaintenancePlan(ctx, rt.Store.Devices())
	assert.Equal(t, insight.StateFallback, o.State)

	reports, err := rt.History.QueryReports(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, reports, 1, "outcomes are recorded in the history store")
	assert.Equal(t, string(insight.KindMaintenancePlan), reports[0].Kind)

	require.NoError(t, rt.Worker.PullOnce(ctx))
	avg, err := rt.History.SeriesAverage(ctx, relational.SeriesLatency)
	require.NoError(t, err)
	assert.Equal(t, rt.Worker.Last().Summary.AvgLatencyMs, avg)
}

func TestOpenWiresChecksIntoWorker(t *testing.T) {
	cfg := config.Default().WithFallbackDelay(time.Millisecond)
	ctx := context.Background()

	rt, err := Open(ctx, cfg, logger.NewTestLogger())
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, engine.DefaultConfig(), rt.Checks)
	require.NoError(t, rt.Worker.PullOnce(ctx))
	last := rt.Worker.Last()
	assert.Equal(t, engine.Evaluate(last.Summary, rt.Checks), last.Checks)
}

func TestOpenUnreachableNeo4jDegrades(t *testing.T) {
	cfg := config.Default().
		WithFallbackDelay(time.Millisecond).
		WithNeo4j("bolt://127.0.0.1:1", "neo4j", "nope")

	rt, err := Open(context.Background(), cfg, logger.NewTestLogger())
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Graph)
	assert.NotNil(t, rt.Worker)
}

func TestCloseIsSafeOnEmptyRuntime(t *testing.T) {
	assert.NoError(t, (&Runtime{}).Close())
}
