package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"opsboard/internal/engine"
	"opsboard/internal/insight"
	"opsboard/ui/tui/styles"
)

func ColorForStatus(status string) lipgloss.Style {
	sStyle := styles.StatusStyle
	switch status {
	case engine.StatusWarning:
		return sStyle.Foreground(styles.Gold)
	case engine.StatusCritical:
		return sStyle.Foreground(styles.Red)
	}
	return sStyle.Foreground(styles.Green)
}

func pageHeader(title string, width int) string {
	return MenuHeaderStyle.Width(width).Render(title)
}

func footer(text string) string {
	return lipgloss.NewStyle().Padding(1, 2).Foreground(lipgloss.Color("#555")).Render(text)
}

// scoreBar draws a 0-100 score as a fixed-width bar.
func scoreBar(score, width int) string {
	filled := width * score / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	color := styles.Green
	if score < 70 {
		color = styles.Red
	} else if score < 85 {
		color = styles.Gold
	}
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

// renderReport shows the state of one insight slot and its text.
func renderReport(slot *insight.Slot, spinnerView string, width int) string {
	st, o := slot.Current()
	label, color := styles.InsightStateLabel(st)

	head := fmt.Sprintf("Status: %s", styles.Badge(label, color))
	var body string
	switch st {
	case insight.StateIdle:
		body = "Press 'g' to generate."
	case insight.StateRequesting:
		body = spinnerView + " Working..."
	default:
		body = o.Text
	}

	w := width - 8
	if w < 40 {
		w = 40
	}
	return styles.CardStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, head, "", body))
}
