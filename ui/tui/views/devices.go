package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"opsboard/internal/inventory"
	"opsboard/ui/tui/state"
	"opsboard/ui/tui/styles"
)

// DevicesView lists the UI's device copy. The table itself is rendered by
// the controller and passed in through props.
type DevicesView struct {
	Selected      string
	Form          string // rendered add/edit form, empty when closed
	PendingDelete string
}

func (v DevicesView) Render(s state.AppState, props ViewProps) string {
	header := pageHeader(fmt.Sprintf("Device Inventory (%d)", len(s.Data.Devices)), props.Width)

	breakdown := make([]string, 0, len(inventory.AllDeviceStatuses()))
	counts := make(map[inventory.DeviceStatus]int)
	for _, d := range s.Data.Devices {
		counts[d.Status]++
	}
	for _, st := range inventory.AllDeviceStatuses() {
		breakdown = append(breakdown, styles.Badge(fmt.Sprintf("%s %d", st, counts[st]), styles.DeviceStatusColor(st)))
	}

	var detail string
	if v.Form != "" {
		detail = v.Form
	} else if d, ok := inventory.FindDevice(s.Data.Devices, v.Selected); ok {
		detail = styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(d.Name),
			fmt.Sprintf("Status:    %s", lipgloss.NewStyle().Foreground(styles.DeviceStatusColor(d.Status)).Render(string(d.Status))),
			fmt.Sprintf("Type:      %s", d.Type),
			fmt.Sprintf("OS:        %s", d.OS),
			fmt.Sprintf("IP:        %s", d.IPAddress),
			fmt.Sprintf("MAC:       %s", d.MACAddress),
			fmt.Sprintf("Location:  %s", d.Location),
			fmt.Sprintf("Last seen: %s", d.LastSeen.Format("2006-01-02 15:04")),
		))
	}

	help := "[↑/↓] Select • [n] New • [e] Edit • [x] Delete device • [b] Back"
	if v.PendingDelete != "" {
		help = lipgloss.NewStyle().Foreground(styles.Red).Bold(true).Render(
			fmt.Sprintf("Delete %s (%s)? [y/x] Confirm • any other key cancels", inventory.DeviceName(s.Data.Devices, v.PendingDelete), v.PendingDelete))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinHorizontal(lipgloss.Top, breakdown...)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().PaddingLeft(2).Render(props.TableView),
			detail,
		),
		footer(help),
	)
}
