package components

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"opsboard/internal/inventory"
	"opsboard/ui/tui/styles"
)

// Column indexes of the device table.
const (
	ColID = iota
	ColName
	ColType
	ColStatus
	ColIP
	ColLocation
)

// NewDeviceTable builds a focused table listing devices.
func NewDeviceTable(devices []inventory.Device, height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 26},
			{Title: "Type", Width: 9},
			{Title: "Status", Width: 12},
			{Title: "IP Address", Width: 15},
			{Title: "Location", Width: 15},
		}),
		table.WithRows(DeviceRows(devices)),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Highlight).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFF")).
		Background(styles.Highlight).
		Bold(false)
	t.SetStyles(s)
	return t
}

// DeviceRows converts devices to table rows in input order.
func DeviceRows(devices []inventory.Device) []table.Row {
	rows := make([]table.Row, len(devices))
	for i, d := range devices {
		rows[i] = table.Row{d.ID, d.Name, string(d.Type), string(d.Status), d.IPAddress, d.Location}
	}
	return rows
}
