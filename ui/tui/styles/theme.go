package styles

import (
	"github.com/charmbracelet/lipgloss"

	"opsboard/internal/insight"
	"opsboard/internal/inventory"
)

var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	Special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	Green = lipgloss.Color("46")
	Gold  = lipgloss.Color("220")
	Red   = lipgloss.Color("196")
	Blue  = lipgloss.Color("39")
	Grey  = lipgloss.Color("245")

	TitleStyle = lipgloss.NewStyle().
			MarginLeft(1).
			MarginRight(5).
			Padding(0, 1).
			Italic(true).
			Foreground(lipgloss.Color("#FFF7DB"))

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(1, 2).
			Margin(1, 1)

	StatusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))
)

// DeviceStatusColor is the badge color of a device status.
func DeviceStatusColor(s inventory.DeviceStatus) lipgloss.Color {
	switch s {
	case inventory.StatusOnline:
		return Green
	case inventory.StatusWarning:
		return Gold
	case inventory.StatusOffline:
		return Red
	case inventory.StatusMaintenance:
		return Blue
	}
	return Grey
}

// TicketPriorityColor is the badge color of a ticket priority.
func TicketPriorityColor(p inventory.TicketPriority) lipgloss.Color {
	switch p {
	case inventory.PriorityLow:
		return Grey
	case inventory.PriorityMedium:
		return Blue
	case inventory.PriorityHigh:
		return Gold
	case inventory.PriorityCritical:
		return Red
	}
	return Grey
}

// InsightStateLabel is the short badge shown next to a report.
func InsightStateLabel(s insight.State) (string, lipgloss.Color) {
	switch s {
	case insight.StateIdle:
		return "not generated", Grey
	case insight.StateRequesting:
		return "generating", Blue
	case insight.StateSucceeded:
		return "AI", Green
	case insight.StateFallback:
		return "demo", Gold
	case insight.StateFailed:
		return "failed", Red
	}
	return string(s), Grey
}

// Badge renders text on a colored background.
func Badge(text string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000")).Background(c).Padding(0, 1).Render(text)
}
