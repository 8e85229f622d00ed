package inventory

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	done := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return Dataset{
		Devices: []Device{
			{ID: "d1", Name: "Core Router 1", IPAddress: "10.1.1.1", Type: TypeRouter, Status: StatusOnline},
			{ID: "d2", Name: "Core Switch 1", IPAddress: "10.1.1.2", Type: TypeSwitch, Status: StatusWarning},
		},
		Connections: []Connection{{Source: "d1", Target: "d2"}},
		Tickets: []SupportTicket{
			{ID: "t1", Subject: "wiki down", Assignee: StringPtr("Alice (IT)"), Status: TicketOpen, Priority: PriorityHigh},
		},
		Maintenance: []MaintenanceTask{
			{ID: "m1", DeviceID: "d1", Status: MaintenanceCompleted, CompletedAt: &done},
		},
		DEXMetrics: []DEXMetric{{Name: "App Stability", Score: 98}},
	}
}

func TestStoreAccessorsReturnCopies(t *testing.T) {
	store := NewStore(sampleDataset())

	devices := store.Devices()
	devices[0].Name = "mutated"
	assert.Equal(t, "Core Router 1", store.Devices()[0].Name)

	tickets := store.Tickets()
	*tickets[0].Assignee = "Mallory"
	assert.Equal(t, "Alice (IT)", *store.Tickets()[0].Assignee)

	tasks := store.MaintenanceTasks()
	*tasks[0].CompletedAt = time.Time{}
	assert.False(t, store.MaintenanceTasks()[0].CompletedAt.IsZero())
}

func TestStoreIsolatedFromSourceDataset(t *testing.T) {
	ds := sampleDataset()
	store := NewStore(ds)
	ds.Devices[0].Status = StatusOffline

	d, ok := store.Device("d1")
	require.True(t, ok)
	assert.Equal(t, StatusOnline, d.Status)
}

func TestStoreLookups(t *testing.T) {
	store := NewStore(sampleDataset())

	_, ok := store.Device("missing")
	assert.False(t, ok)

	tk, ok := store.Ticket("t1")
	require.True(t, ok)
	assert.Equal(t, "wiki down", tk.Subject)

	assert.Equal(t, "Core Switch 1", DeviceName(store.Devices(), "d2"))
	assert.Equal(t, "Unknown Device", DeviceName(store.Devices(), "d42"))
}

func TestEmptyStoreAccessorsAreNonNil(t *testing.T) {
	store := NewStore(Dataset{})
	assert.NotNil(t, store.Devices())
	assert.Empty(t, store.Devices())
	assert.NotNil(t, store.NetworkLatency())
}

func TestEnumJSON(t *testing.T) {
	var d Device
	err := json.Unmarshal([]byte(`{"id":"x","type":"Server","status":"Online"}`), &d)
	require.NoError(t, err)
	assert.Equal(t, TypeServer, d.Type)

	err = json.Unmarshal([]byte(`{"id":"x","type":"Toaster","status":"Online"}`), &d)
	assert.True(t, errors.Is(err, ErrUnknownEnum))

	var tk SupportTicket
	require.NoError(t, json.Unmarshal([]byte(`{"status":"In Progress","priority":"Critical","assignee":null}`), &tk))
	assert.Equal(t, TicketInProgress, tk.Status)
	assert.Nil(t, tk.Assignee)
	assert.Equal(t, "Unassigned", tk.AssigneeName())
}

func TestParseDeviceStatus(t *testing.T) {
	for _, s := range AllDeviceStatuses() {
		got, err := ParseDeviceStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseDeviceStatus("online")
	assert.ErrorIs(t, err, ErrUnknownEnum)
}

func TestTicketStatusIsOpen(t *testing.T) {
	tests := []struct {
		status TicketStatus
		open   bool
	}{
		{TicketOpen, true},
		{TicketInProgress, true},
		{TicketResolved, false},
		{TicketClosed, false},
	}
	for _, tt := range tests {
		if got := tt.status.IsOpen(); got != tt.open {
			t.Errorf("IsOpen(%q) = %v, want %v", tt.status, got, tt.open)
		}
	}
}

func TestValidateDevice(t *testing.T) {
	valid := Device{Name: "n", IPAddress: "1.2.3.4", Type: TypeLaptop, Status: StatusOnline}

	tests := []struct {
		name    string
		mutate  func(*Device)
		wantErr bool
	}{
		{"valid", func(*Device) {}, false},
		{"missing name", func(d *Device) { d.Name = "  " }, true},
		{"missing ip", func(d *Device) { d.IPAddress = "" }, true},
		{"bad type", func(d *Device) { d.Type = "" }, true},
		{"bad status", func(d *Device) { d.Status = "Sleeping" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := ValidateDevice(d)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDevice)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddDevice(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	devices := sampleDataset().Devices

	out, added, err := AddDevice(devices, Device{Name: "New", IPAddress: "10.0.0.9", Type: TypeDesktop, Status: StatusOnline}, now)
	require.NoError(t, err)
	assert.Len(t, devices, 2, "input must not grow")
	require.Len(t, out, 3)
	assert.Equal(t, "d1700000000000", added.ID)
	assert.Equal(t, PlaceholderMAC, added.MACAddress)
	assert.True(t, added.LastSeen.Equal(now))

	out, again, err := AddDevice(out, Device{Name: "Twin", IPAddress: "10.0.0.10", Type: TypeDesktop, Status: StatusOnline}, now)
	require.NoError(t, err)
	assert.Equal(t, "d1700000000000-2", again.ID)
	assert.Len(t, out, 4)

	_, _, err = AddDevice(out, Device{Name: "bad"}, now)
	assert.ErrorIs(t, err, ErrInvalidDevice)
}

func TestReplaceAndRemoveDevice(t *testing.T) {
	devices := sampleDataset().Devices

	updated := devices[1]
	updated.Status = StatusOnline
	out, ok := ReplaceDevice(devices, updated)
	require.True(t, ok)
	assert.Equal(t, StatusOnline, out[1].Status)
	assert.Equal(t, StatusWarning, devices[1].Status)

	_, ok = ReplaceDevice(devices, Device{ID: "nope"})
	assert.False(t, ok)

	out, ok = RemoveDevice(devices, "d1")
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "d2", out[0].ID)
	assert.Len(t, devices, 2)

	_, ok = RemoveDevice(devices, "nope")
	assert.False(t, ok)
}

func TestTicketUpdates(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tickets := sampleDataset().Tickets

	out, ok := AssignTicket(tickets, "t1", "", now)
	require.True(t, ok)
	assert.Nil(t, out[0].Assignee)
	assert.NotNil(t, tickets[0].Assignee)
	assert.True(t, out[0].UpdatedAt.Equal(now))

	out, ok = SetTicketStatus(out, "t1", TicketResolved, now)
	require.True(t, ok)
	assert.Equal(t, TicketResolved, out[0].Status)

	_, ok = SetTicketStatus(out, "t1", "Lost", now)
	assert.False(t, ok)
	_, ok = AssignTicket(out, "t9", "Bob", now)
	assert.False(t, ok)
}
