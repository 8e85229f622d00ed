// Package console prints a compact one-shot dashboard report.
package console

import (
	"fmt"
	"io"
	"strings"

	"opsboard/internal/engine"
	"opsboard/internal/inventory"
	"opsboard/internal/output"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

// Print renders the dashboard view and device list to w.
func Print(w io.Writer, view output.DashboardView, devices []inventory.Device) {
	fmt.Fprintf(w, "%s%s %s%s\n", colorCyan, "■", "OPSBOARD REPORT", colorReset)

	for _, sec := range view.Sections {
		fmt.Fprintf(w, "%s%s%s\n", colorCyan, "─ "+sec.Title, colorReset)

		for _, it := range sec.Items {
			// Compact Label (max 20 chars)
			label := truncate(it.Label, 20)

			valStr := ""
			switch {
			case it.Note != "":
				valStr = truncate(it.Note, 25)
			case it.Unit != "":
				valStr = fmt.Sprintf("%.0f%s", it.Value, it.Unit)
			default:
				valStr = fmt.Sprintf("%.0f", it.Value)
			}

			dots := strings.Repeat("·", 22-len([]rune(label)))
			fmt.Fprintf(w, "  %s%s %10s%s\n", label, colorCyan+dots+colorReset, valStr, statusMarker(it.Status))
		}
	}

	if len(devices) > 0 {
		fmt.Fprintf(w, "%s─ Devices%s\n", colorCyan, colorReset)
		for _, d := range devices {
			fmt.Fprintf(w, "  %s●%s %-4s %-26s %-9s %s\n",
				deviceColor(d.Status), colorReset, d.ID, truncate(d.Name, 26), d.Type, d.Status)
		}
	}

	fmt.Fprintf(w, "%s─ Summary%s: %d devices | Overall: %s%s%s\n\n",
		colorCyan, colorReset, view.TotalDevices, colorFor(view.Overall), view.Overall, colorReset)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func statusMarker(status string) string {
	switch status {
	case engine.StatusHealthy:
		return fmt.Sprintf(" %s✓%s", colorGreen, colorReset)
	case engine.StatusWarning:
		return fmt.Sprintf(" %s!%s", colorYellow, colorReset)
	case engine.StatusCritical:
		return fmt.Sprintf(" %sX%s", colorRed, colorReset)
	}
	return ""
}

func colorFor(status string) string {
	switch status {
	case engine.StatusWarning:
		return colorYellow
	case engine.StatusCritical:
		return colorRed
	default:
		return colorGreen
	}
}

func deviceColor(s inventory.DeviceStatus) string {
	switch s {
	case inventory.StatusOnline:
		return colorGreen
	case inventory.StatusWarning:
		return colorYellow
	case inventory.StatusOffline:
		return colorRed
	case inventory.StatusMaintenance:
		return colorBlue
	}
	return colorReset
}
