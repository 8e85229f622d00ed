package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"opsboard/internal/inventory"
	"opsboard/internal/topology"
	"opsboard/ui/tui/state"
	"opsboard/ui/tui/styles"
)

type TopologyView struct{}

func (v TopologyView) Render(s state.AppState, props ViewProps) string {
	header := pageHeader("Network Topology", props.Width)
	selected := s.SelectedNodeID()

	var nodes strings.Builder
	for _, n := range s.Graph.Nodes {
		marker := "  "
		style := lipgloss.NewStyle()
		if n.ID == selected {
			marker = "> "
			style = style.Bold(true).Foreground(BrandColor)
		}
		dot := lipgloss.NewStyle().Foreground(styles.DeviceStatusColor(n.Device.Status)).Render("●")
		fmt.Fprintf(&nodes, "%s%s %s\n", marker, dot,
			style.Render(fmt.Sprintf("%-4s %-26s (%4.0f, %4.0f)", n.ID, n.Device.Name, n.Position.X, n.Position.Y)))
	}

	var edges strings.Builder
	for _, e := range s.Graph.Edges {
		line := fmt.Sprintf("%-14s %s → %s", e.ID,
			inventory.DeviceName(s.Data.Devices, e.Source), inventory.DeviceName(s.Data.Devices, e.Target))
		if e.Source == selected || e.Target == selected {
			line = lipgloss.NewStyle().Foreground(BrandColor).Render(line)
		}
		if e.UserAdded {
			line += lipgloss.NewStyle().Foreground(styles.Special).Render(" (added)")
		}
		edges.WriteString(line + "\n")
	}

	var neighbors []string
	for _, d := range topology.Neighbors(s.Graph, selected) {
		neighbors = append(neighbors, d.Name)
	}
	neighborLine := "Neighbors: none"
	if len(neighbors) > 0 {
		neighborLine = "Neighbors: " + strings.Join(neighbors, ", ")
	}

	nodeBox := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Nodes (%d)", len(s.Graph.Nodes))),
		nodes.String(),
		neighborLine,
	))
	edgeBox := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Links (%d)", len(s.Graph.Edges))),
		edges.String(),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, nodeBox, edgeBox),
		footer("[tab/shift+tab] Select node • [←/↑/→/↓] Move • [c] Connect to next • [b] Back"),
	)
}
