package inventory

import "time"

// Dataset is the full set of entities the dashboard works from.
type Dataset struct {
	Devices        []Device          `json:"devices"`
	Connections    []Connection      `json:"connections"`
	Tickets        []SupportTicket   `json:"tickets"`
	Maintenance    []MaintenanceTask `json:"maintenance"`
	DEXMetrics     []DEXMetric       `json:"dexMetrics"`
	CPUUsage       []TimeDataPoint   `json:"cpuUsage"`
	NetworkLatency []TimeDataPoint   `json:"networkLatency"`
}

// Clone returns a deep copy of the dataset, including nullable fields.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Devices:        cloneSlice(d.Devices),
		Connections:    cloneSlice(d.Connections),
		Tickets:        cloneTickets(d.Tickets),
		Maintenance:    cloneTasks(d.Maintenance),
		DEXMetrics:     cloneSlice(d.DEXMetrics),
		CPUUsage:       cloneSlice(d.CPUUsage),
		NetworkLatency: cloneSlice(d.NetworkLatency),
	}
}

// Store serves a fixed dataset. It is populated once and never mutated, so
// concurrent readers need no locking. Every accessor returns a fresh copy.
type Store struct {
	data Dataset
}

// NewStore copies d into a new Store.
func NewStore(d Dataset) *Store {
	return &Store{data: d.Clone()}
}

// Snapshot returns a deep copy of everything in the store.
func (s *Store) Snapshot() Dataset {
	return s.data.Clone()
}

func (s *Store) Devices() []Device { return cloneSlice(s.data.Devices) }
func (s *Store) Connections() []Connection { return cloneSlice(s.data.Connections) }
func (s *Store) Tickets() []SupportTicket { return cloneTickets(s.data.Tickets) }
func (s *Store) MaintenanceTasks() []MaintenanceTask { return cloneTasks(s.data.Maintenance) }
func (s *Store) DEXMetrics() []DEXMetric { return cloneSlice(s.data.DEXMetrics) }
func (s *Store) CPUUsage() []TimeDataPoint { return cloneSlice(s.data.CPUUsage) }
func (s *Store) NetworkLatency() []TimeDataPoint { return cloneSlice(s.data.NetworkLatency) }

// Device looks up a device by id.
func (s *Store) Device(id string) (Device, bool) {
	return FindDevice(s.data.Devices, id)
}

// Ticket looks up a support ticket by id.
func (s *Store) Ticket(id string) (SupportTicket, bool) {
	for _, t := range s.data.Tickets {
		if t.ID == id {
			return cloneTicket(t), true
		}
	}
	return SupportTicket{}, false
}

// FindDevice returns the first device in devices with the given id.
func FindDevice(devices []Device, id string) (Device, bool) {
	for _, d := range devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// DeviceName resolves a device id to its display name, or "Unknown Device".
func DeviceName(devices []Device, id string) string {
	if d, ok := FindDevice(devices, id); ok {
		return d.Name
	}
	return "Unknown Device"
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneTicket(t SupportTicket) SupportTicket {
	if t.Assignee != nil {
		a := *t.Assignee
		t.Assignee = &a
	}
	return t
}

func cloneTickets(in []SupportTicket) []SupportTicket {
	out := make([]SupportTicket, len(in))
	for i, t := range in {
		out[i] = cloneTicket(t)
	}
	return out
}

func cloneTasks(in []MaintenanceTask) []MaintenanceTask {
	out := make([]MaintenanceTask, len(in))
	for i, m := range in {
		if m.CompletedAt != nil {
			c := *m.CompletedAt
			m.CompletedAt = &c
		}
		out[i] = m
	}
	return out
}

// StringPtr is a convenience for building nullable string fields.
func StringPtr(s string) *string { return &s }

// TimePtr is a convenience for building nullable time fields.
func TimePtr(t time.Time) *time.Time { return &t }
