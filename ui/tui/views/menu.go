package views

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"opsboard/ui/tui/state"
)

// MenuOptions are the pages reachable from the menu, in cursor order.
var MenuOptions = []struct {
	Label string
	Page  state.Page
}{
	{"Operations Dashboard", state.PageDashboard},
	{"Device Inventory", state.PageDevices},
	{"Network Topology", state.PageTopology},
	{"Predictive Maintenance", state.PageMaintenance},
	{"Support Desk", state.PageSupport},
	{"Digital Experience (DEX)", state.PageDEX},
	{"Activity Log", state.PageActivity},
}

type MenuView struct{}

func (v MenuView) Render(s state.AppState, props ViewProps) string {
	header := MenuHeaderStyle.Width(props.Width).Render("OPSBOARD // IT OPERATIONS")

	var menuItems []string
	listStartY := 6

	for i, option := range MenuOptions {
		dist := math.Abs(float64(i) - props.AnimCursor)
		selectionStrength := 0.0
		if dist < 1.0 {
			selectionStrength = 1.0 - dist
		}

		// Items near the mouse brighten before they are selected.
		itemCenterY := listStartY + (i * 3) + 1
		mouseDistY := math.Abs(float64(props.MouseY - itemCenterY))

		borderColor := BaseColor
		if mouseDistY < 10 {
			ratio := 1.0 - (mouseDistY / 10.0)
			if ratio > 0.5 {
				borderColor = lipgloss.Color("#aaa")
			}
		}

		if selectionStrength > 0.1 || i == props.MenuCursor {
			borderColor = BrandColor
		}

		popOut := int(selectionStrength * 2)

		boxStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1).
			MarginLeft(2 + popOut).
			Width(40)

		if i == props.MenuCursor {
			boxStyle = boxStyle.Bold(true).Foreground(lipgloss.Color("#FFF"))
		} else {
			boxStyle = boxStyle.Foreground(lipgloss.Color("#AAA"))
		}

		text := fmt.Sprintf("%02d. %s", i+1, option.Label)
		menuItems = append(menuItems, zone.Mark(fmt.Sprintf("menu_%d", i), boxStyle.Render(text)))
	}

	menuList := lipgloss.JoinVertical(lipgloss.Left, menuItems...)

	menuContent := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(2).Foreground(BrandColor).Render("WORKSPACES"),
		CopyStyle.Render("Select a workspace to open."),
		menuList,
	)

	summary := fmt.Sprintf("%d devices • %d online • %d open tickets",
		s.Summary.TotalDevices, s.Summary.Online, s.Summary.OpenTickets)

	footer := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#666")).Render(summary),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#333")).Render("\n[↑/↓] Navigate • [Enter] Select • [Q] Quit"),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		MenuBoxStyle.Render(menuContent),
		lipgloss.NewStyle().PaddingLeft(2).Render(footer),
	)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

var (
	BrandColor = lipgloss.Color("#f27b24")
	BaseColor  = lipgloss.Color("#444")

	MenuHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(BrandColor).
			Align(lipgloss.Left).
			Padding(1, 2)

	MenuBoxStyle = lipgloss.NewStyle().
			Padding(1, 0).
			MarginTop(1)

	CopyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888")).
			Italic(true).
			MarginBottom(1).
			PaddingLeft(2)
)
