package stats

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsboard/internal/fixtures"
	"opsboard/internal/inventory"
)

func devicesWith(statuses ...inventory.DeviceStatus) []inventory.Device {
	out := make([]inventory.Device, len(statuses))
	for i, s := range statuses {
		out[i] = inventory.Device{ID: string(rune('a' + i)), Status: s}
	}
	return out
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{88.8, 89},
		{2.5, 3},
		{2.49, 2},
		{0, 0},
		{-2.5, -2},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCountByStatus(t *testing.T) {
	devices := devicesWith(inventory.StatusOnline, inventory.StatusOnline, inventory.StatusWarning, inventory.StatusOffline)

	assert.Equal(t, 2, CountByStatus(devices, inventory.StatusOnline))
	assert.Equal(t, 1, CountByStatus(devices, inventory.StatusWarning))
	assert.Equal(t, 0, CountByStatus(devices, inventory.StatusMaintenance))
	assert.Equal(t, 0, CountByStatus(nil, inventory.StatusOnline))
}

func TestStatusCountsPartitionDevices(t *testing.T) {
	ds := fixtures.Dataset(time.Now())
	total := 0
	for _, s := range inventory.AllDeviceStatuses() {
		total += CountByStatus(ds.Devices, s)
	}
	assert.Equal(t, len(ds.Devices), total)

	breakdown := StatusBreakdown(ds.Devices)
	assert.Len(t, breakdown, 4)
	assert.Equal(t, 6, breakdown[inventory.StatusOnline])
	assert.Equal(t, 1, breakdown[inventory.StatusWarning])
	assert.Equal(t, 1, breakdown[inventory.StatusOffline])
	assert.Equal(t, 1, breakdown[inventory.StatusMaintenance])
}

func TestAverageLatency(t *testing.T) {
	pts := []inventory.TimeDataPoint{{Value: 10}, {Value: 20}, {Value: 25}}
	avg, err := AverageLatency(pts)
	require.NoError(t, err)
	assert.Equal(t, 18, avg) // 18.33

	_, err = AverageLatency(nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestAverageLatencyPermutationInvariant(t *testing.T) {
	ds := fixtures.Dataset(time.Now())
	want, err := AverageLatency(ds.NetworkLatency)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 10; i++ {
		shuffled := append([]inventory.TimeDataPoint(nil), ds.NetworkLatency...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := AverageLatency(shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestOverallDEXScore(t *testing.T) {
	metrics := []inventory.DEXMetric{{Score: 98}, {Score: 92}, {Score: 78}, {Score: 85}, {Score: 91}}
	score, err := OverallDEXScore(metrics)
	require.NoError(t, err)
	assert.Equal(t, 89, score)
	assert.GreaterOrEqual(t, score, 78)
	assert.LessOrEqual(t, score, 98)

	_, err = OverallDEXScore([]inventory.DEXMetric{})
	assert.ErrorIs(t, err, ErrNoMetrics)
}

func TestOpenTicketCount(t *testing.T) {
	tickets := []inventory.SupportTicket{
		{Status: inventory.TicketOpen},
		{Status: inventory.TicketInProgress},
		{Status: inventory.TicketResolved},
		{Status: inventory.TicketClosed},
		{Status: inventory.TicketInProgress},
	}
	assert.Equal(t, 3, OpenTicketCount(tickets))
	assert.Equal(t, 0, OpenTicketCount(nil))
}

func TestDevicesNeedingAttention(t *testing.T) {
	devices := devicesWith(inventory.StatusOffline, inventory.StatusOnline, inventory.StatusWarning, inventory.StatusMaintenance)
	got := DevicesNeedingAttention(devices)
	require.Len(t, got, 2)
	assert.Equal(t, inventory.StatusOffline, got[0].Status)
	assert.Equal(t, inventory.StatusWarning, got[1].Status)
}

func TestSummarize(t *testing.T) {
	ds := fixtures.Dataset(time.Now())
	s := Summarize(ds)

	assert.Equal(t, 9, s.TotalDevices)
	assert.Equal(t, 6, s.Online)
	assert.Equal(t, 1, s.Warning)
	assert.Equal(t, 3, s.OpenTickets)
	assert.True(t, s.HasDEX)
	assert.Equal(t, 89, s.DEXScore)
	assert.True(t, s.HasLatency)
	assert.Len(t, s.Attention, 2)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(inventory.Dataset{})
	assert.Zero(t, s.TotalDevices)
	assert.False(t, s.HasLatency)
	assert.False(t, s.HasDEX)
	assert.NotNil(t, s.Attention)
}
