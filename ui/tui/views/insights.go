package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"opsboard/internal/insight"
	"opsboard/internal/inventory"
	"opsboard/internal/stats"
	"opsboard/ui/tui/state"
	"opsboard/ui/tui/styles"
)

// =============================================================================
// MAINTENANCE
// =============================================================================

type MaintenanceView struct{}

func (v MaintenanceView) Render(s state.AppState, props ViewProps) string {
	header := pageHeader("Predictive Maintenance", props.Width)

	var tasks strings.Builder
	for _, t := range s.Data.Maintenance {
		fmt.Fprintf(&tasks, "%-12s %-32s %s\n",
			t.Status, t.Title, inventory.DeviceName(s.Data.Devices, t.DeviceID))
		fmt.Fprintf(&tasks, "%-12s %s\n", "", lipgloss.NewStyle().Foreground(styles.Grey).Render(
			t.ScheduledAt.Format("2006-01-02")+"  "+t.Notes))
	}

	taskBox := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("Scheduled Tasks"),
		tasks.String(),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		taskBox,
		lipgloss.NewStyle().Bold(true).PaddingLeft(2).Render(insight.KindMaintenancePlan.Title()),
		renderReport(s.Reports[insight.KindMaintenancePlan], props.SpinnerView, props.Width),
		footer("[g] Generate plan • [b] Back"),
	)
}

// =============================================================================
// SUPPORT
// =============================================================================

type SupportView struct{}

func (v SupportView) Render(s state.AppState, props ViewProps) string {
	header := pageHeader(fmt.Sprintf("Support Desk (%d open)", stats.OpenTicketCount(s.Data.Tickets)), props.Width)

	var list strings.Builder
	for i, t := range s.Data.Tickets {
		marker := "  "
		subject := t.Subject
		if i == s.SelectedTicket {
			marker = "> "
			subject = lipgloss.NewStyle().Bold(true).Foreground(BrandColor).Render(subject)
		}
		fmt.Fprintf(&list, "%s%s %-11s %s\n", marker,
			styles.Badge(string(t.Priority), styles.TicketPriorityColor(t.Priority)), t.Status, subject)
	}

	var detail string
	if t, ok := s.CurrentTicket(); ok {
		detail = styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(t.Subject),
			fmt.Sprintf("Reporter: %s", t.Reporter),
			fmt.Sprintf("Assignee: %s", t.AssigneeName()),
			fmt.Sprintf("Updated:  %s", t.UpdatedAt.Format("2006-01-02 15:04")),
			"",
			lipgloss.NewStyle().Width(60).Render(t.Description),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, styles.CardStyle.Render(list.String()), detail),
		lipgloss.NewStyle().Bold(true).PaddingLeft(2).Render(insight.KindTicketSuggestion.Title()),
		renderReport(s.Reports[insight.KindTicketSuggestion], props.SpinnerView, props.Width),
		footer("[↑/↓] Select ticket • [g] Suggest steps • [a] Assign to me • [r] Resolve • [b] Back"),
	)
}

// =============================================================================
// DEX
// =============================================================================

type DEXView struct{}

func (v DEXView) Render(s state.AppState, props ViewProps) string {
	header := pageHeader("Digital Experience (DEX)", props.Width)

	overall := "n/a"
	if s.Summary.HasDEX {
		overall = fmt.Sprintf("%d", s.Summary.DEXScore)
	}

	var rows []string
	for _, m := range s.Data.DEXMetrics {
		rows = append(rows, fmt.Sprintf("%-16s [%s] %3d", m.Name, scoreBar(m.Score, 20), m.Score))
		rows = append(rows, lipgloss.NewStyle().Foreground(styles.Grey).Render("  "+m.Description))
	}

	metrics := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("Overall DEX Score: "+overall),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		metrics,
		lipgloss.NewStyle().Bold(true).PaddingLeft(2).Render(insight.KindDEXReport.Title()),
		renderReport(s.Reports[insight.KindDEXReport], props.SpinnerView, props.Width),
		footer("[g] Generate report • [b] Back"),
	)
}
