package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"opsboard/ui/tui/state"
)

// ActivityView is a scrollable log of edits and insight results.
type ActivityView struct{}

func (v ActivityView) Render(s state.AppState, props ViewProps) string {
	header := pageHeader("Activity Log", props.Width)

	availableHeight := props.Height - lipgloss.Height(header) - 4
	if availableHeight < 1 {
		availableHeight = 1
	}

	lines := s.ActivityLog
	if len(lines) == 0 {
		lines = []string{"No activity yet."}
	}
	totalLines := len(lines)

	scrollY := ClampScroll(props.ScrollY, totalLines, availableHeight)
	end := scrollY + availableHeight
	if end > totalLines {
		end = totalLines
	}

	box := lipgloss.NewStyle().
		Width(props.Width-4).
		Height(availableHeight).
		Padding(0, 1).
		Render(strings.Join(lines[scrollY:end], "\n"))

	footerText := fmt.Sprintf("Scroll: %d/%d • Press 'b' to go back", scrollY, totalLines)
	if totalLines > availableHeight {
		footerText += " • Use ↑/↓ to scroll"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Padding(1, 2).Render(box),
		lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("#555")).Render(footerText),
	)
}

// ClampScroll keeps a scroll offset within [0, total-visible].
func ClampScroll(scrollY, total, visible int) int {
	if scrollY > total-visible {
		scrollY = total - visible
	}
	if scrollY < 0 {
		scrollY = 0
	}
	return scrollY
}
