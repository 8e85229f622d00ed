package stats

import "opsboard/internal/inventory"

// Summary is the set of headline figures shown on the dashboard.
type Summary struct {
	TotalDevices int `json:"totalDevices"`
	Online       int `json:"online"`
	Warning      int `json:"warning"`
	Offline      int `json:"offline"`
	Maintenance  int `json:"maintenance"`
	OpenTickets  int `json:"openTickets"`

	// AvgLatencyMs is only meaningful when HasLatency is set.
	AvgLatencyMs int  `json:"avgLatencyMs"`
	HasLatency   bool `json:"hasLatency"`

	DEXScore int  `json:"dexScore"`
	HasDEX   bool `json:"hasDex"`

	Attention []inventory.Device `json:"attention"`
}

// Summarize computes the dashboard summary for a dataset. Empty latency or
// metric inputs leave the corresponding Has flag unset instead of failing.
func Summarize(d inventory.Dataset) Summary {
	counts := StatusBreakdown(d.Devices)
	s := Summary{
		TotalDevices: len(d.Devices),
		Online:       counts[inventory.StatusOnline],
		Warning:      counts[inventory.StatusWarning],
		Offline:      counts[inventory.StatusOffline],
		Maintenance:  counts[inventory.StatusMaintenance],
		OpenTickets:  OpenTicketCount(d.Tickets),
		Attention:    DevicesNeedingAttention(d.Devices),
	}
	if avg, err := AverageLatency(d.NetworkLatency); err == nil {
		s.AvgLatencyMs, s.HasLatency = avg, true
	}
	if score, err := OverallDEXScore(d.DEXMetrics); err == nil {
		s.DEXScore, s.HasDEX = score, true
	}
	return s
}
