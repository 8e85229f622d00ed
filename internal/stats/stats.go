// Package stats derives the dashboard's summary figures from the entity set.
// Every function here is pure and independent of input order.
package stats

import (
	"errors"
	"math"

	"opsboard/internal/inventory"
)

var (
	// ErrNoSamples is returned when a mean is requested over an empty series.
	ErrNoSamples = errors.New("stats: no samples")
	// ErrNoMetrics is returned when the DEX score is requested with no metrics.
	ErrNoMetrics = errors.New("stats: no dex metrics")
)

// Round rounds to the nearest integer with halves going up: 2.5 is 3 and
// -2.5 is -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// CountByStatus counts devices in the given status.
func CountByStatus(devices []inventory.Device, status inventory.DeviceStatus) int {
	n := 0
	for _, d := range devices {
		if d.Status == status {
			n++
		}
	}
	return n
}

// StatusBreakdown counts devices per status. Every known status is present.
func StatusBreakdown(devices []inventory.Device) map[inventory.DeviceStatus]int {
	out := make(map[inventory.DeviceStatus]int, 4)
	for _, s := range inventory.AllDeviceStatuses() {
		out[s] = 0
	}
	for _, d := range devices {
		out[d.Status]++
	}
	return out
}

// AverageLatency is the rounded mean of the sample values.
func AverageLatency(samples []inventory.TimeDataPoint) (int, error) {
	if len(samples) == 0 {
		return 0, ErrNoSamples
	}
	var sum float64
	for _, s := range samples {
		sum += s.Value
	}
	return Round(sum / float64(len(samples))), nil
}

// OverallDEXScore is the rounded mean of the metric scores.
func OverallDEXScore(metrics []inventory.DEXMetric) (int, error) {
	if len(metrics) == 0 {
		return 0, ErrNoMetrics
	}
	sum := 0
	for _, m := range metrics {
		sum += m.Score
	}
	return Round(float64(sum) / float64(len(metrics))), nil
}

// OpenTicketCount counts tickets that are Open or In Progress.
func OpenTicketCount(tickets []inventory.SupportTicket) int {
	n := 0
	for _, t := range tickets {
		if t.Status.IsOpen() {
			n++
		}
	}
	return n
}

// DevicesNeedingAttention returns Warning and Offline devices in input order.
func DevicesNeedingAttention(devices []inventory.Device) []inventory.Device {
	out := []inventory.Device{}
	for _, d := range devices {
		if d.Status == inventory.StatusWarning || d.Status == inventory.StatusOffline {
			out = append(out, d)
		}
	}
	return out
}
