// Package fixtures builds the seeded demo dataset the dashboard starts from.
// The same seed and reference time always produce the same dataset.
package fixtures

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"opsboard/internal/inventory"
)

const (
	// DefaultSeed is used when no seed is configured.
	DefaultSeed uint64 = 1

	SeriesPoints = 24
	CPUMax       = 100
	LatencyMax   = 200
)

// Generator produces randomized fixture values from a fixed seed.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// New returns a generator anchored at now.
func New(seed uint64, now time.Time) *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: now,
	}
}

// Dataset builds the demo dataset with the default seed.
func Dataset(now time.Time) inventory.Dataset {
	return New(DefaultSeed, now).Dataset()
}

// MAC returns a random colon-separated hardware address.
func (g *Generator) MAC() string {
	parts := make([]string, 6)
	for i := range parts {
		parts[i] = fmt.Sprintf("%02x", g.rng.IntN(256))
	}
	return strings.Join(parts, ":")
}

// Series returns points hourly samples ending one hour before now, each an
// integer in [0, max).
func (g *Generator) Series(points, max int) []inventory.TimeDataPoint {
	out := make([]inventory.TimeDataPoint, points)
	for i := range out {
		out[i] = inventory.TimeDataPoint{
			Time:  g.now.Add(-time.Duration(points-i) * time.Hour),
			Value: float64(g.rng.IntN(max)),
		}
	}
	return out
}

func rackIP(i int) string {
	return fmt.Sprintf("10.1.1.%d", i+1)
}

// Dataset builds the full demo dataset.
func (g *Generator) Dataset() inventory.Dataset {
	now := g.now
	hoursAgo := func(h int) time.Time { return now.Add(-time.Duration(h) * time.Hour) }
	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }

	device := func(id, name, ip string, typ inventory.DeviceType, status inventory.DeviceStatus, loc string, seen time.Time, os string) inventory.Device {
		return inventory.Device{
			ID: id, Name: name, IPAddress: ip, MACAddress: g.MAC(),
			Type: typ, Status: status, Location: loc, LastSeen: seen, OS: os,
		}
	}

	devices := []inventory.Device{
		device("d1", "Core Router 1", rackIP(0), inventory.TypeRouter, inventory.StatusOnline, "Data Center A", now, "Cisco IOS"),
		device("d2", "Core Switch 1", rackIP(1), inventory.TypeSwitch, inventory.StatusOnline, "Data Center A", now, "Junos OS"),
		device("d3", "Web Server 1 (Prod)", rackIP(2), inventory.TypeServer, inventory.StatusOnline, "Data Center A", now, "Ubuntu 22.04 LTS"),
		device("d4", "Web Server 2 (Prod)", rackIP(3), inventory.TypeServer, inventory.StatusWarning, "Data Center A", now, "Ubuntu 22.04 LTS"),
		device("d5", "DB Server 1 (Prod)", rackIP(4), inventory.TypeServer, inventory.StatusOnline, "Data Center A", now, "CentOS 9"),
		device("d6", "Firewall A", rackIP(5), inventory.TypeFirewall, inventory.StatusOnline, "Data Center A", now, "Palo Alto PAN-OS"),
		device("d7", "Dev Laptop - Alice", "192.168.1.10", inventory.TypeLaptop, inventory.StatusOffline, "Office Wing B", hoursAgo(5), "macOS Sonoma"),
		device("d8", "Marketing Desktop - Bob", "192.168.1.15", inventory.TypeDesktop, inventory.StatusOnline, "Office Wing C", now, "Windows 11"),
		device("d9", "Backup Server", rackIP(6), inventory.TypeServer, inventory.StatusMaintenance, "Data Center B", hoursAgo(2), "TrueNAS"),
	}

	connections := []inventory.Connection{
		{Source: "d1", Target: "d2"},
		{Source: "d1", Target: "d6"},
		{Source: "d2", Target: "d3"},
		{Source: "d2", Target: "d4"},
		{Source: "d2", Target: "d5"},
		{Source: "d5", Target: "d9"},
		{Source: "d8", Target: "d2"},
	}

	tickets := []inventory.SupportTicket{
		{
			ID: "t1", Subject: "Cannot access internal wiki",
			Description: "When I try to access wiki.company.com, I get a 503 error. This has been happening since this morning.",
			Reporter:    "Bob (Marketing)", Assignee: inventory.StringPtr("Alice (IT)"),
			Status: inventory.TicketInProgress, Priority: inventory.PriorityHigh,
			CreatedAt: hoursAgo(4), UpdatedAt: hoursAgo(1),
		},
		{
			ID: "t2", Subject: "Printer in Wing C not working",
			Description: `The color printer "CP-301" is showing an error code "E-005". Multiple people have reported this.`,
			Reporter:    "Carol (HR)",
			Status:      inventory.TicketOpen, Priority: inventory.PriorityMedium,
			CreatedAt: hoursAgo(2), UpdatedAt: hoursAgo(2),
		},
		{
			ID: "t3", Subject: "Request for new software license",
			Description: "I need a license for Adobe Photoshop for a new project. Project code is MKT-2024-Q3.",
			Reporter:    "Dave (Marketing)", Assignee: inventory.StringPtr("Alice (IT)"),
			Status: inventory.TicketResolved, Priority: inventory.PriorityLow,
			CreatedAt: daysAgo(2), UpdatedAt: daysAgo(1),
		},
		{
			ID: "t4", Subject: "Web Server 2 is slow",
			Description: "Our application monitoring shows high latency on Web Server 2. CPU usage is spiking to 95%.",
			Reporter:    "System Alert", Assignee: inventory.StringPtr("Eve (DevOps)"),
			Status: inventory.TicketInProgress, Priority: inventory.PriorityCritical,
			CreatedAt: hoursAgo(1), UpdatedAt: hoursAgo(1),
		},
	}

	tasks := []inventory.MaintenanceTask{
		{
			ID: "m1", DeviceID: "d5", Title: "Apply kernel security patches",
			ScheduledAt: daysAgo(-3), Status: inventory.MaintenanceScheduled,
			Notes: "Critical CVE patch. Requires reboot.",
		},
		{
			ID: "m2", DeviceID: "d9", Title: "Monthly backup verification",
			ScheduledAt: now, Status: inventory.MaintenanceInProgress,
			Notes: "Verifying integrity of last month's full backup.",
		},
		{
			ID: "m3", DeviceID: "d1", Title: "Upgrade router firmware",
			ScheduledAt: daysAgo(7), CompletedAt: inventory.TimePtr(daysAgo(7)),
			Status: inventory.MaintenanceCompleted,
			Notes:  "Firmware upgraded to v12.4. All tests passed.",
		},
	}

	metrics := []inventory.DEXMetric{
		{Name: "App Stability", Score: 98, Description: "Percentage of user sessions that are crash-free."},
		{Name: "Login Speed", Score: 92, Description: "Average time for users to successfully log in."},
		{Name: "Resource Usage", Score: 78, Description: "Efficiency of device CPU/Memory usage during work hours."},
		{Name: "Network Health", Score: 85, Description: "Overall quality of network connections for end-users."},
		{Name: "User Sentiment", Score: 91, Description: "AI-driven analysis of support tickets and surveys."},
	}

	return inventory.Dataset{
		Devices:        devices,
		Connections:    connections,
		Tickets:        tickets,
		Maintenance:    tasks,
		DEXMetrics:     metrics,
		CPUUsage:       g.Series(SeriesPoints, CPUMax),
		NetworkLatency: g.Series(SeriesPoints, LatencyMax),
	}
}
