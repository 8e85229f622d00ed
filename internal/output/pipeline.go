package output

import (
	"time"

	"opsboard/internal/engine"
	"opsboard/internal/inventory"
	"opsboard/internal/stats"
	"opsboard/internal/topology"
)

// Payload is one consistent view of the dataset: the raw entities plus
// everything derived from them. The sync worker pushes its Graph to Neo4j
// and its latency series to DuckDB.
type Payload struct {
	CollectedAt time.Time
	Data        inventory.Dataset
	Summary     stats.Summary
	Checks      []engine.CheckResult
	Graph       topology.Graph
}

// DataSource yields dataset snapshots. *inventory.Store satisfies it.
type DataSource interface {
	Snapshot() inventory.Dataset
}

// BuildPayload runs Snapshot -> Summarize -> Evaluate -> Project.
func BuildPayload(src DataSource, cfg engine.Config, now time.Time) *Payload {
	data := src.Snapshot()
	summary := stats.Summarize(data)

	return &Payload{
		CollectedAt: now,
		Data:        data,
		Summary:     summary,
		Checks:      engine.Evaluate(summary, cfg),
		Graph:       topology.Project(data.Devices, data.Connections),
	}
}

// Dashboard is a shortcut for BuildDashboard over the payload.
func (p *Payload) Dashboard() DashboardView {
	return BuildDashboard(p.Checks, p.Summary)
}
