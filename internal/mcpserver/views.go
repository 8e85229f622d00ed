package mcpserver

import (
	"time"

	"opsboard/internal/database/relational"
	"opsboard/internal/engine"
	"opsboard/internal/inventory"
	"opsboard/internal/stats"
	"opsboard/internal/topology"
)

// Tool outputs use flat view types so the inferred output schemas stay
// simple: timestamps are RFC 3339 strings.

type DeviceView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IPAddress  string `json:"ipAddress"`
	MACAddress string `json:"macAddress"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	Location   string `json:"location"`
	LastSeen   string `json:"lastSeen"`
	OS         string `json:"os"`
}

func deviceView(d inventory.Device) DeviceView {
	return DeviceView{
		ID:         d.ID,
		Name:       d.Name,
		IPAddress:  d.IPAddress,
		MACAddress: d.MACAddress,
		Type:       string(d.Type),
		Status:     string(d.Status),
		Location:   d.Location,
		LastSeen:   d.LastSeen.UTC().Format(time.RFC3339),
		OS:         d.OS,
	}
}

func deviceViews(ds []inventory.Device) []DeviceView {
	out := make([]DeviceView, 0, len(ds))
	for _, d := range ds {
		out = append(out, deviceView(d))
	}
	return out
}

type CheckView struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

type SummaryView struct {
	TotalDevices int          `json:"totalDevices"`
	Online       int          `json:"online"`
	Warning      int          `json:"warning"`
	Offline      int          `json:"offline"`
	Maintenance  int          `json:"maintenance"`
	OpenTickets  int          `json:"openTickets"`
	AvgLatencyMs *int         `json:"avgLatencyMs,omitempty" jsonschema:"average latency, absent when there are no samples"`
	DEXScore     *int         `json:"dexScore,omitempty" jsonschema:"overall DEX score, absent when there are no metrics"`
	Attention    []DeviceView `json:"attention"`
	Checks       []CheckView  `json:"checks"`
	Overall      string       `json:"overall" jsonschema:"worst check status: OK, WARN or CRIT"`
}

func summaryView(s stats.Summary, checks []engine.CheckResult) SummaryView {
	v := SummaryView{
		TotalDevices: s.TotalDevices,
		Online:       s.Online,
		Warning:      s.Warning,
		Offline:      s.Offline,
		Maintenance:  s.Maintenance,
		OpenTickets:  s.OpenTickets,
		Attention:    deviceViews(s.Attention),
		Checks:       make([]CheckView, 0, len(checks)),
		Overall:      engine.Worst(checks),
	}
	if s.HasLatency {
		avg := s.AvgLatencyMs
		v.AvgLatencyMs = &avg
	}
	if s.HasDEX {
		score := s.DEXScore
		v.DEXScore = &score
	}
	for _, c := range checks {
		v.Checks = append(v.Checks, CheckView{Name: c.Name, Value: c.Value, Status: c.Status})
	}
	return v
}

type NodeView struct {
	ID     string     `json:"id"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Device DeviceView `json:"device"`
}

type EdgeView struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	UserAdded bool   `json:"userAdded"`
}

func edgeViews(es []topology.Edge) []EdgeView {
	out := make([]EdgeView, 0, len(es))
	for _, e := range es {
		out = append(out, EdgeView{ID: e.ID, Source: e.Source, Target: e.Target, UserAdded: e.UserAdded})
	}
	return out
}

func nodeViews(ns []topology.Node) []NodeView {
	out := make([]NodeView, 0, len(ns))
	for _, n := range ns {
		out = append(out, NodeView{ID: n.ID, X: n.Position.X, Y: n.Position.Y, Device: deviceView(n.Device)})
	}
	return out
}

type ReportView struct {
	ReportID  string `json:"reportId"`
	Kind      string `json:"kind"`
	State     string `json:"state"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

func reportViews(rs []relational.ReportSummary) []ReportView {
	out := make([]ReportView, 0, len(rs))
	for _, r := range rs {
		out = append(out, ReportView{
			ReportID:  r.ReportID,
			Kind:      r.Kind,
			State:     r.State,
			Body:      r.Body,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
