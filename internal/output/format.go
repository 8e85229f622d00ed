package output

import (
	"strings"

	"opsboard/internal/engine"
	"opsboard/internal/stats"
)

// Section constants to avoid hardcoded strings
const (
	SectionDevices = "devices"
	SectionTickets = "tickets"
	SectionNetwork = "network"
	SectionDEX     = "dex"
)

// UI/view-model types (no printing here)
type Item struct {
	Key    string
	Label  string
	Value  float64
	Unit   string
	Status string
	Note   string
}

type Section struct {
	ID    string // devices/tickets/network/dex
	Title string
	Items []Item
}

type DashboardView struct {
	Sections     []Section
	TotalDevices int
	Overall      string
}

// BuildDashboard converts check results and the summary into UI-ready sections.
func BuildDashboard(results []engine.CheckResult, s stats.Summary) DashboardView {
	sec := map[string]*Section{
		SectionDevices: {ID: SectionDevices, Title: "Devices"},
		SectionTickets: {ID: SectionTickets, Title: "Tickets"},
		SectionNetwork: {ID: SectionNetwork, Title: "Network"},
		SectionDEX:     {ID: SectionDEX, Title: "Digital Experience"},
	}

	for _, r := range results {
		name := strings.ToLower(r.Name)

		it := Item{
			Key:    strings.ReplaceAll(name, " ", "_"),
			Label:  r.Name,
			Value:  r.Value,
			Status: r.Status,
		}

		switch {
		case strings.Contains(name, "latency"):
			it.Unit = "ms"
			sec[SectionNetwork].Items = append(sec[SectionNetwork].Items, it)
		case strings.Contains(name, "dex"):
			sec[SectionDEX].Items = append(sec[SectionDEX].Items, it)
		case strings.Contains(name, "ticket"):
			sec[SectionTickets].Items = append(sec[SectionTickets].Items, it)
		case strings.HasPrefix(name, "device "):
			it.Note = "needs attention"
			sec[SectionDevices].Items = append(sec[SectionDevices].Items, it)
		case strings.Contains(name, "device"):
			sec[SectionDevices].Items = append(sec[SectionDevices].Items, it)
		}
	}

	// ------------------------------------------------------------------------
	// Informational figures (not graded)
	// ------------------------------------------------------------------------

	sec[SectionDevices].Items = append(sec[SectionDevices].Items,
		Item{Key: "online", Label: "Online", Value: float64(s.Online)},
		Item{Key: "maintenance", Label: "Maintenance", Value: float64(s.Maintenance)},
	)

	if !s.HasLatency {
		sec[SectionNetwork].Items = append(sec[SectionNetwork].Items,
			Item{Key: "avg_latency", Label: engine.CheckAvgLatency, Note: "no samples"})
	}
	if !s.HasDEX {
		sec[SectionDEX].Items = append(sec[SectionDEX].Items,
			Item{Key: "dex_score", Label: engine.CheckDEXScore, Note: "no metrics"})
	}

	return DashboardView{
		Sections: []Section{
			*sec[SectionDevices],
			*sec[SectionTickets],
			*sec[SectionNetwork],
			*sec[SectionDEX],
		},
		TotalDevices: s.TotalDevices,
		Overall:      engine.Worst(results),
	}
}

func (v DashboardView) SectionByID(id string) *Section {
	for i := range v.Sections {
		if v.Sections[i].ID == id {
			return &v.Sections[i]
		}
	}
	return nil
}

func (s Section) ItemByKey(key string) *Item {
	for i := range s.Items {
		if s.Items[i].Key == key {
			return &s.Items[i]
		}
	}
	return nil
}
