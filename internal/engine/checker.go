// Package engine grades dashboard figures against warning and critical
// thresholds.
package engine

import (
	"fmt"

	"opsboard/internal/inventory"
	"opsboard/internal/stats"
)

const (
	StatusHealthy  = "OK"
	StatusWarning  = "WARN"
	StatusCritical = "CRIT"
)

// Check names, also used as keys by the output layer.
const (
	CheckAvgLatency     = "Avg Latency"
	CheckDEXScore       = "DEX Score"
	CheckOfflineDevices = "Offline Devices"
	CheckWarningDevices = "Warning Devices"
	CheckOpenTickets    = "Open Tickets"
)

// Thresholds defines warning and critical levels for one figure.
type Thresholds struct {
	Warning  float64
	Critical float64
}

type Config struct {
	Latency        Thresholds // ms, higher is worse
	DEX            Thresholds // score, lower is worse
	OfflineDevices Thresholds
	WarningDevices Thresholds
	OpenTickets    Thresholds
}

func DefaultConfig() Config {
	return Config{
		Latency:        Thresholds{Warning: 100, Critical: 150},
		DEX:            Thresholds{Warning: 85, Critical: 70},
		OfflineDevices: Thresholds{Warning: 0, Critical: 2},
		WarningDevices: Thresholds{Warning: 0, Critical: 3},
		OpenTickets:    Thresholds{Warning: 3, Critical: 6},
	}
}

type CheckResult struct {
	Name   string
	Value  float64
	Status string
}

func getStatus(value float64, t Thresholds) string {
	if value > t.Critical {
		return StatusCritical
	}
	if value > t.Warning {
		return StatusWarning
	}
	return StatusHealthy
}

func getStatusBelow(value float64, t Thresholds) string {
	if value < t.Critical {
		return StatusCritical
	}
	if value < t.Warning {
		return StatusWarning
	}
	return StatusHealthy
}

// Evaluate grades a summary. Latency and DEX checks are skipped when the
// summary has no data for them.
func Evaluate(s stats.Summary, cfg Config) []CheckResult {
	var result []CheckResult

	if s.HasLatency {
		v := float64(s.AvgLatencyMs)
		result = append(result, CheckResult{Name: CheckAvgLatency, Value: v, Status: getStatus(v, cfg.Latency)})
	}

	if s.HasDEX {
		v := float64(s.DEXScore)
		result = append(result, CheckResult{Name: CheckDEXScore, Value: v, Status: getStatusBelow(v, cfg.DEX)})
	}

	offline := float64(s.Offline)
	result = append(result, CheckResult{
		Name:   CheckOfflineDevices,
		Value:  offline,
		Status: getStatus(offline, cfg.OfflineDevices),
	})

	warning := float64(s.Warning)
	result = append(result, CheckResult{
		Name:   CheckWarningDevices,
		Value:  warning,
		Status: getStatus(warning, cfg.WarningDevices),
	})

	open := float64(s.OpenTickets)
	result = append(result, CheckResult{
		Name:   CheckOpenTickets,
		Value:  open,
		Status: getStatus(open, cfg.OpenTickets),
	})

	// Per-device findings
	for _, d := range s.Attention {
		status := StatusWarning
		if d.Status == inventory.StatusOffline {
			status = StatusCritical
		}
		result = append(result, CheckResult{
			Name:   fmt.Sprintf("Device %s", d.Name),
			Value:  0,
			Status: status,
		})
	}

	return result
}

// Worst returns the most severe status among results.
func Worst(results []CheckResult) string {
	worst := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusCritical:
			return StatusCritical
		case StatusWarning:
			worst = StatusWarning
		}
	}
	return worst
}
