package inventory

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrInvalidDevice is wrapped by ValidateDevice failures.
var ErrInvalidDevice = errors.New("invalid device")

// PlaceholderMAC is assigned to devices added by hand.
const PlaceholderMAC = "00:00:00:00:00:00"

// The helpers below operate on caller-owned copies. None of them touch a
// Store; edits made through them are never merged back.

// ValidateDevice checks the fields a device form must supply.
func ValidateDevice(d Device) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidDevice)
	case strings.TrimSpace(d.IPAddress) == "":
		return fmt.Errorf("%w: ip address is required", ErrInvalidDevice)
	case !d.Type.Valid():
		return fmt.Errorf("%w: type %q", ErrInvalidDevice, d.Type)
	case !d.Status.Valid():
		return fmt.Errorf("%w: status %q", ErrInvalidDevice, d.Status)
	}
	return nil
}

// AddDevice validates d, stamps it with a time-derived id, a placeholder MAC
// and LastSeen=now, and returns a new slice with it appended.
func AddDevice(devices []Device, d Device, now time.Time) ([]Device, Device, error) {
	if err := ValidateDevice(d); err != nil {
		return devices, Device{}, err
	}

	base := fmt.Sprintf("d%d", now.UnixMilli())
	id := base
	for n := 2; ; n++ {
		if _, taken := FindDevice(devices, id); !taken {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}

	d.ID = id
	d.MACAddress = PlaceholderMAC
	d.LastSeen = now

	out := make([]Device, 0, len(devices)+1)
	out = append(out, devices...)
	out = append(out, d)
	return out, d, nil
}

// ReplaceDevice swaps in d for the device with the same id.
func ReplaceDevice(devices []Device, d Device) ([]Device, bool) {
	i := slices.IndexFunc(devices, func(x Device) bool { return x.ID == d.ID })
	if i < 0 {
		return devices, false
	}
	out := slices.Clone(devices)
	out[i] = d
	return out, true
}

// RemoveDevice drops the device with the given id.
func RemoveDevice(devices []Device, id string) ([]Device, bool) {
	i := slices.IndexFunc(devices, func(x Device) bool { return x.ID == id })
	if i < 0 {
		return devices, false
	}
	out := make([]Device, 0, len(devices)-1)
	out = append(out, devices[:i]...)
	out = append(out, devices[i+1:]...)
	return out, true
}

// AssignTicket sets the assignee of one ticket. An empty assignee clears it.
func AssignTicket(tickets []SupportTicket, id, assignee string, now time.Time) ([]SupportTicket, bool) {
	return updateTicket(tickets, id, now, func(t *SupportTicket) {
		if assignee == "" {
			t.Assignee = nil
			return
		}
		t.Assignee = StringPtr(assignee)
	})
}

// SetTicketStatus moves one ticket to a new status.
func SetTicketStatus(tickets []SupportTicket, id string, status TicketStatus, now time.Time) ([]SupportTicket, bool) {
	if !status.Valid() {
		return tickets, false
	}
	return updateTicket(tickets, id, now, func(t *SupportTicket) {
		t.Status = status
	})
}

func updateTicket(tickets []SupportTicket, id string, now time.Time, apply func(*SupportTicket)) ([]SupportTicket, bool) {
	i := slices.IndexFunc(tickets, func(t SupportTicket) bool { return t.ID == id })
	if i < 0 {
		return tickets, false
	}
	out := cloneTickets(tickets)
	apply(&out[i])
	out[i].UpdatedAt = now
	return out, true
}
