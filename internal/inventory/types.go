// Package inventory holds the dashboard's entity model and the in-memory store
// that serves it.
package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownEnum is returned when a wire value does not name a known
// enumeration member.
var ErrUnknownEnum = errors.New("unknown enum value")

// =============================================================================
// ENUMERATIONS
// =============================================================================

// DeviceStatus is the operational state of a device.
type DeviceStatus string

const (
	StatusOnline      DeviceStatus = "Online"
	StatusOffline     DeviceStatus = "Offline"
	StatusWarning     DeviceStatus = "Warning"
	StatusMaintenance DeviceStatus = "Maintenance"
)

// AllDeviceStatuses lists every DeviceStatus in display order.
func AllDeviceStatuses() []DeviceStatus {
	return []DeviceStatus{StatusOnline, StatusOffline, StatusWarning, StatusMaintenance}
}

func (s DeviceStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusWarning, StatusMaintenance:
		return true
	}
	return false
}

func (s *DeviceStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, "device status")
}

// DeviceType is the hardware class of a device.
type DeviceType string

const (
	TypeServer   DeviceType = "Server"
	TypeRouter   DeviceType = "Router"
	TypeSwitch   DeviceType = "Switch"
	TypeLaptop   DeviceType = "Laptop"
	TypeDesktop  DeviceType = "Desktop"
	TypeFirewall DeviceType = "Firewall"
)

// AllDeviceTypes lists every DeviceType.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{TypeServer, TypeRouter, TypeSwitch, TypeLaptop, TypeDesktop, TypeFirewall}
}

func (t DeviceType) Valid() bool {
	switch t {
	case TypeServer, TypeRouter, TypeSwitch, TypeLaptop, TypeDesktop, TypeFirewall:
		return true
	}
	return false
}

func (t *DeviceType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, t, "device type")
}

// TicketStatus is the workflow state of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "Open"
	TicketInProgress TicketStatus = "In Progress"
	TicketResolved   TicketStatus = "Resolved"
	TicketClosed     TicketStatus = "Closed"
)

// AllTicketStatuses lists every TicketStatus.
func AllTicketStatuses() []TicketStatus {
	return []TicketStatus{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}
}

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// IsOpen reports whether the ticket still needs work.
func (s TicketStatus) IsOpen() bool {
	return s == TicketOpen || s == TicketInProgress
}

func (s *TicketStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, "ticket status")
}

// TicketPriority ranks a support ticket.
type TicketPriority string

const (
	PriorityLow      TicketPriority = "Low"
	PriorityMedium   TicketPriority = "Medium"
	PriorityHigh     TicketPriority = "High"
	PriorityCritical TicketPriority = "Critical"
)

// AllTicketPriorities lists every TicketPriority from lowest to highest.
func AllTicketPriorities() []TicketPriority {
	return []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func (p *TicketPriority) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, p, "ticket priority")
}

// MaintenanceStatus is the state of a scheduled maintenance task.
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "Scheduled"
	MaintenanceInProgress MaintenanceStatus = "In Progress"
	MaintenanceCompleted  MaintenanceStatus = "Completed"
	MaintenanceCancelled  MaintenanceStatus = "Cancelled"
)

// AllMaintenanceStatuses lists every MaintenanceStatus.
func AllMaintenanceStatuses() []MaintenanceStatus {
	return []MaintenanceStatus{MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled}
}

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	}
	return false
}

func (s *MaintenanceStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, "maintenance status")
}

// ParseDeviceStatus converts a wire string into a DeviceStatus.
func ParseDeviceStatus(v string) (DeviceStatus, error) {
	s := DeviceStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: device status %q", ErrUnknownEnum, v)
	}
	return s, nil
}

// ParseDeviceType converts a wire string into a DeviceType.
func ParseDeviceType(v string) (DeviceType, error) {
	t := DeviceType(v)
	if !t.Valid() {
		return "", fmt.Errorf("%w: device type %q", ErrUnknownEnum, v)
	}
	return t, nil
}

type enum interface {
	~string
	Valid() bool
}

func unmarshalEnum[T enum](b []byte, dst *T, kind string) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v := T(raw)
	if !v.Valid() {
		return fmt.Errorf("%w: %s %q", ErrUnknownEnum, kind, raw)
	}
	*dst = v
	return nil
}

// =============================================================================
// ENTITIES
// =============================================================================

// Device is a managed piece of network or end-user hardware.
type Device struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	IPAddress  string       `json:"ipAddress"`
	MACAddress string       `json:"macAddress"`
	Type       DeviceType   `json:"type"`
	Status     DeviceStatus `json:"status"`
	Location   string       `json:"location"`
	LastSeen   time.Time    `json:"lastSeen"`
	OS         string       `json:"os"`
}

// Connection is a directed link between two devices. Endpoints are not
// checked against the device list.
type Connection struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// SupportTicket is a help-desk request.
type SupportTicket struct {
	ID          string         `json:"id"`
	Subject     string         `json:"subject"`
	Description string         `json:"description"`
	Reporter    string         `json:"reporter"`
	Assignee    *string        `json:"assignee"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// AssigneeName returns the assignee or "Unassigned".
func (t SupportTicket) AssigneeName() string {
	if t.Assignee == nil || *t.Assignee == "" {
		return "Unassigned"
	}
	return *t.Assignee
}

// MaintenanceTask is a scheduled piece of work against one device.
type MaintenanceTask struct {
	ID          string            `json:"id"`
	DeviceID    string            `json:"deviceId"`
	Title       string            `json:"title"`
	ScheduledAt time.Time         `json:"scheduledAt"`
	CompletedAt *time.Time        `json:"completedAt"`
	Status      MaintenanceStatus `json:"status"`
	Notes       string            `json:"notes"`
}

// DEXMetric is one digital-experience score in the range 0-100.
type DEXMetric struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// TimeDataPoint is one sample of a time series.
type TimeDataPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}
