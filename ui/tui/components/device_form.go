package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"opsboard/internal/inventory"
	"opsboard/ui/tui/styles"
)

// Form fields in tab order. Type and Status are selectors, the rest are
// free text.
const (
	FieldName = iota
	FieldIP
	FieldType
	FieldStatus
	FieldLocation
	FieldOS
	numFields
)

var fieldLabels = [numFields]string{"Name", "IP Address", "Type", "Status", "Location", "OS"}

// FormAction tells the caller what a key did to the form.
type FormAction int

const (
	FormContinue FormAction = iota
	FormSubmit
	FormCancel
)

// DeviceForm edits one device. A form built by NewDeviceForm adds a device;
// one built by EditDeviceForm replaces an existing one.
type DeviceForm struct {
	base      inventory.Device
	editing   bool
	inputs    [numFields]textinput.Model
	types     []inventory.DeviceType
	statuses  []inventory.DeviceStatus
	typeIdx   int
	statusIdx int
	focus     int
	Err       string
}

func NewDeviceForm() *DeviceForm {
	return newDeviceForm(inventory.Device{}, false)
}

func EditDeviceForm(d inventory.Device) *DeviceForm {
	return newDeviceForm(d, true)
}

func newDeviceForm(d inventory.Device, editing bool) *DeviceForm {
	f := &DeviceForm{
		base:     d,
		editing:  editing,
		types:    inventory.AllDeviceTypes(),
		statuses: inventory.AllDeviceStatuses(),
	}
	values := [numFields]string{
		FieldName:     d.Name,
		FieldIP:       d.IPAddress,
		FieldLocation: d.Location,
		FieldOS:       d.OS,
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		in.Width = 30
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[FieldIP].Placeholder = "10.0.0.1"

	if i := slices.Index(f.types, d.Type); i >= 0 {
		f.typeIdx = i
	}
	if i := slices.Index(f.statuses, d.Status); i >= 0 {
		f.statusIdx = i
	}
	f.inputs[FieldName].Focus()
	return f
}

// Editing reports whether the form replaces an existing device.
func (f *DeviceForm) Editing() bool { return f.editing }

// Device merges the form values onto the device being edited.
func (f *DeviceForm) Device() inventory.Device {
	d := f.base
	d.Name = strings.TrimSpace(f.inputs[FieldName].Value())
	d.IPAddress = strings.TrimSpace(f.inputs[FieldIP].Value())
	d.Location = strings.TrimSpace(f.inputs[FieldLocation].Value())
	d.OS = strings.TrimSpace(f.inputs[FieldOS].Value())
	d.Type = f.types[f.typeIdx]
	d.Status = f.statuses[f.statusIdx]
	return d
}

func (f *DeviceForm) Update(msg tea.KeyMsg) (FormAction, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return FormCancel, nil
	case "enter":
		return FormSubmit, nil
	case "tab", "down":
		return FormContinue, f.setFocus((f.focus + 1) % numFields)
	case "shift+tab", "up":
		return FormContinue, f.setFocus((f.focus + numFields - 1) % numFields)
	}

	switch f.focus {
	case FieldType:
		f.typeIdx = cycle(f.typeIdx, len(f.types), msg.String())
		return FormContinue, nil
	case FieldStatus:
		f.statusIdx = cycle(f.statusIdx, len(f.statuses), msg.String())
		return FormContinue, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return FormContinue, cmd
}

func (f *DeviceForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = i
	if i == FieldType || i == FieldStatus {
		return nil
	}
	return f.inputs[i].Focus()
}

func cycle(idx, n int, k string) int {
	switch k {
	case "left", "h":
		return (idx + n - 1) % n
	case "right", "l", " ":
		return (idx + 1) % n
	}
	return idx
}

func (f *DeviceForm) View() string {
	title := "Add New Device"
	if f.editing {
		title = fmt.Sprintf("Edit %s", f.base.ID)
	}

	label := lipgloss.NewStyle().Width(12)
	active := lipgloss.NewStyle().Foreground(styles.Highlight).Bold(true)

	lines := []string{lipgloss.NewStyle().Bold(true).Render(title), ""}
	for i := 0; i < numFields; i++ {
		var value string
		switch i {
		case FieldType:
			value = fmt.Sprintf("< %s >", f.types[f.typeIdx])
		case FieldStatus:
			st := f.statuses[f.statusIdx]
			value = lipgloss.NewStyle().Foreground(styles.DeviceStatusColor(st)).Render(fmt.Sprintf("< %s >", st))
		default:
			value = f.inputs[i].View()
		}
		name := fieldLabels[i]
		if i == f.focus {
			name = active.Render("> " + name)
		} else {
			name = "  " + name
		}
		lines = append(lines, label.Render(name)+" "+value)
	}
	if f.Err != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(styles.Red).Render(f.Err))
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(styles.Subtle).Render("[tab] Next • [←/→] Change • [enter] Save • [esc] Cancel"))
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
