package state

import (
	"fmt"
	"time"

	"opsboard/internal/engine"
	"opsboard/internal/insight"
	"opsboard/internal/inventory"
	"opsboard/internal/stats"
	"opsboard/internal/topology"
)

type Page int

const (
	PageMenu Page = iota
	PageDashboard
	PageDevices
	PageTopology
	PageMaintenance
	PageSupport
	PageDEX
	PageActivity
)

const maxActivity = 200

// AppState holds the UI's own copies of the dataset. Edits made here are
// never written back to the store.
type AppState struct {
	Data       inventory.Dataset
	Graph      topology.Graph
	Summary    stats.Summary
	Results    []engine.CheckResult
	LastUpdate time.Time
	Err        error

	SelectedNode   int
	SelectedTicket int
	Reports        map[insight.Kind]*insight.Slot

	ActivityLog []string
	CurrentPage Page
}

// New seeds the state from a dataset snapshot.
func New(d inventory.Dataset) AppState {
	s := AppState{
		Data:        d,
		Graph:       topology.Project(d.Devices, d.Connections),
		CurrentPage: PageMenu,
		Reports:     make(map[insight.Kind]*insight.Slot, 3),
	}
	for _, k := range insight.AllKinds() {
		s.Reports[k] = &insight.Slot{}
	}
	return s
}

// Recompute refreshes the summary and checks after an edit.
func (s *AppState) Recompute(cfg engine.Config, now time.Time) {
	s.Summary = stats.Summarize(s.Data)
	s.Results = engine.Evaluate(s.Summary, cfg)
	s.LastUpdate = now
}

// Logf appends a timestamped line to the activity log.
func (s *AppState) Logf(now time.Time, format string, args ...any) {
	line := fmt.Sprintf("[%s] %s", now.Format("15:04:05"), fmt.Sprintf(format, args...))
	s.ActivityLog = append(s.ActivityLog, line)
	if len(s.ActivityLog) > maxActivity {
		s.ActivityLog = s.ActivityLog[1:]
	}
}

// SelectedNodeID returns the id of the highlighted topology node, or "".
func (s AppState) SelectedNodeID() string {
	if s.SelectedNode < 0 || s.SelectedNode >= len(s.Graph.Nodes) {
		return ""
	}
	return s.Graph.Nodes[s.SelectedNode].ID
}

// CurrentTicket returns the highlighted ticket.
func (s AppState) CurrentTicket() (inventory.SupportTicket, bool) {
	if s.SelectedTicket < 0 || s.SelectedTicket >= len(s.Data.Tickets) {
		return inventory.SupportTicket{}, false
	}
	return s.Data.Tickets[s.SelectedTicket], true
}
