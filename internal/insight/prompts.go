package insight

import (
	"fmt"
	"strings"

	"opsboard/internal/inventory"
)

// DEXReportPrompt asks for a digital-experience report over the metrics and
// the device status mix.
func DEXReportPrompt(metrics []inventory.DEXMetric, devices []inventory.Device) string {
	var b strings.Builder
	b.WriteString("\nGenerate a Digital Experience (DEX) report based on the following data.\n")
	b.WriteString("Provide an Overall Assessment, Key Insights, and actionable Recommendations.\n\n")

	b.WriteString("**Metrics:**\n")
	lines := make([]string, len(metrics))
	for i, m := range metrics {
		lines[i] = fmt.Sprintf("- %s: Score %d (%s)", m.Name, m.Score, m.Description)
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	counts := make(map[inventory.DeviceStatus]int, 4)
	names := []string{}
	for _, d := range devices {
		counts[d.Status]++
		if d.Status == inventory.StatusWarning || d.Status == inventory.StatusOffline {
			names = append(names, d.Name)
		}
	}

	b.WriteString("**Device Status Summary:**\n")
	fmt.Fprintf(&b, "- Online: %d\n", counts[inventory.StatusOnline])
	fmt.Fprintf(&b, "- Warning: %d\n", counts[inventory.StatusWarning])
	fmt.Fprintf(&b, "- Offline: %d\n", counts[inventory.StatusOffline])
	fmt.Fprintf(&b, "- Maintenance: %d\n", counts[inventory.StatusMaintenance])
	fmt.Fprintf(&b, "- Notable devices with issues: %s\n", strings.Join(names, ", "))
	return b.String()
}

// TicketSuggestionPrompt asks for causes and troubleshooting steps for one
// ticket.
func TicketSuggestionPrompt(t inventory.SupportTicket) string {
	return fmt.Sprintf(`
As an IT support specialist, provide potential causes and recommended troubleshooting steps for the following support ticket. Be concise and practical.

**Ticket Subject:** %s
**Ticket Description:** %s
**Reporter:** %s
`, t.Subject, t.Description, t.Reporter)
}

// MaintenancePlanPrompt asks for a proactive maintenance plan covering every
// device.
func MaintenancePlanPrompt(devices []inventory.Device) string {
	lines := make([]string, len(devices))
	for i, d := range devices {
		lines[i] = fmt.Sprintf("- %s (Type: %s, Status: %s, OS: %s)", d.Name, d.Type, d.Status, d.OS)
	}
	return fmt.Sprintf(`
Act as a senior IT systems administrator. Create a proactive maintenance plan based on this list of devices. Focus on reliability, security, and performance.

**Device List:**
%s
`, strings.Join(lines, "\n"))
}
