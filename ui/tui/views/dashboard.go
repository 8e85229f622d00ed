package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"opsboard/internal/output"
	"opsboard/ui/tui/state"
	"opsboard/ui/tui/styles"
)

type DashboardView struct{}

func (v DashboardView) Render(s state.AppState, props ViewProps) string {
	if s.Err != nil {
		return fmt.Sprintf("Error: %v", s.Err)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Left,
		props.SpinnerView,
		styles.TitleStyle.Render("OpsBoard"),
		fmt.Sprintf(" Last Update: %s", s.LastUpdate.Format("15:04:05")),
	)

	dashboard := output.BuildDashboard(s.Results, s.Summary)

	renderSection := func(sec *output.Section) string {
		var b strings.Builder
		for _, item := range sec.Items {
			valStr := fmt.Sprintf("%.0f%s", item.Value, item.Unit)
			if item.Note != "" {
				valStr = item.Note
			}
			if item.Status != "" {
				valStr = ColorForStatus(item.Status).Render(fmt.Sprintf("%s [%s]", valStr, item.Status))
			}
			fmt.Fprintf(&b, "%-24s : %s\n", item.Label, valStr)
		}
		return b.String()
	}

	card := func(id, title string, extra ...string) string {
		sec := dashboard.SectionByID(id)
		if sec == nil {
			return ""
		}
		parts := append([]string{lipgloss.NewStyle().Bold(true).Render(title), renderSection(sec)}, extra...)
		return zone.Mark(id+"_box", styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}

	devCol := card(output.SectionDevices, "Devices", props.CPUChart)
	ticketCol := card(output.SectionTickets, "Support")
	netCol := card(output.SectionNetwork, "Network", props.LatencyChart)
	dexCol := card(output.SectionDEX, "Digital Experience")

	overall := ColorForStatus(dashboard.Overall).Render("Overall: " + dashboard.Overall)

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, devCol, ticketCol)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, netCol, dexCol)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().PaddingLeft(2).Render(overall),
		row1,
		row2,
		lipgloss.NewStyle().Foreground(styles.Subtle).Render("\nPress 'b' to go back • 'q' to quit"),
	))
}
