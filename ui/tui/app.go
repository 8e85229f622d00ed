package tui

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"opsboard/internal/engine"
	"opsboard/internal/fixtures"
	"opsboard/internal/insight"
	"opsboard/internal/inventory"
	"opsboard/internal/topology"
	"opsboard/ui/tui/components"
	"opsboard/ui/tui/state"
	"opsboard/ui/tui/views"
)

const (
	nudgeStep = 50
	operator  = "Operator (IT)"
)

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	ctx          context.Context
	requester    *insight.Requester
	config       engine.Config
	state        state.AppState
	spinner      spinner.Model
	cpuChart     *components.SeriesWidget
	latencyChart *components.SeriesWidget
	deviceTable  table.Model
	deviceForm   *components.DeviceForm
	pendingDel   string // device id awaiting delete confirmation
	menuCursor   int
	animCursor   float64
	velocity     float64 // Physics velocity
	spring       harmonica.Spring
	scrollY      int
	mouseX       int
	mouseY       int
	quitting     bool
	width        int
	height       int
	now          func() time.Time
}

// Messages
type TickMsg time.Time
type AnimateMsg time.Time

// InsightLoadedMsg carries a finished insight request back to the model.
type InsightLoadedMsg struct {
	Kind    insight.Kind
	Gen     uint64
	Outcome insight.Outcome
}

// InitialModel seeds the UI with its own copy of the store's data.
func InitialModel(store *inventory.Store, requester *insight.Requester, cfg engine.Config) MainModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Frequency 12 with damping 0.9 settles quickly without overshoot.
	spring := harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9)

	st := state.New(store.Snapshot())
	now := time.Now
	st.Recompute(cfg, now())

	cpu := components.NewSeriesWidget("CPU Usage", "%", 30, 8, fixtures.SeriesPoints, fixtures.CPUMax)
	cpu.SetPoints(st.Data.CPUUsage)
	latency := components.NewSeriesWidget("Network Latency", "ms", 30, 8, fixtures.SeriesPoints, fixtures.LatencyMax)
	latency.SetPoints(st.Data.NetworkLatency)

	return MainModel{
		ctx:          context.Background(),
		requester:    requester,
		config:       cfg,
		state:        st,
		spinner:      s,
		cpuChart:     cpu,
		latencyChart: latency,
		deviceTable:  components.NewDeviceTable(st.Data.Devices, 10),
		spring:       spring,
		now:          now,
	}
}

func (m *MainModel) Init() tea.Cmd {
	zone.NewGlobal()
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(),
		animateCmd(),
	)
}

// Commands
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second*5, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case TickMsg:
		m.state.Recompute(m.config, time.Time(msg))
		return m, tickCmd()

	case InsightLoadedMsg:
		return m.handleInsightLoadedMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open form owns every key, including q and b.
	if m.deviceForm != nil {
		return m.handleDeviceFormKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	if m.state.CurrentPage == state.PageMenu {
		switch msg.String() {
		case "up", "k":
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case "down", "j":
			if m.menuCursor < len(views.MenuOptions)-1 {
				m.menuCursor++
			}
		case "enter":
			m.navigateTo(m.menuCursor)
		}
		return m, nil
	}

	if msg.String() == "b" || msg.String() == "esc" || msg.String() == "backspace" {
		m.pendingDel = ""
		m.state.CurrentPage = state.PageMenu
		m.scrollY = 0
		return m, nil
	}

	switch m.state.CurrentPage {
	case state.PageDevices:
		return m.handleDevicesKey(msg)
	case state.PageTopology:
		return m.handleTopologyKey(msg)
	case state.PageSupport:
		return m.handleSupportKey(msg)
	case state.PageMaintenance:
		if msg.String() == "g" {
			return m, m.requestInsight(insight.KindMaintenancePlan)
		}
	case state.PageDEX:
		if msg.String() == "g" {
			return m, m.requestInsight(insight.KindDEXReport)
		}
	case state.PageActivity:
		switch msg.String() {
		case "up", "k":
			if m.scrollY > 0 {
				m.scrollY--
			}
		case "down", "j":
			m.scrollY++
		}
	}
	return m, nil
}

func (m *MainModel) navigateTo(cursor int) {
	if cursor < 0 || cursor >= len(views.MenuOptions) {
		return
	}
	m.state.CurrentPage = views.MenuOptions[cursor].Page
}

// =============================================================================
// PAGE HANDLERS
// =============================================================================

func (m *MainModel) selectedDeviceID() string {
	row := m.deviceTable.SelectedRow()
	if row == nil {
		return ""
	}
	return row[components.ColID]
}

func (m *MainModel) handleDevicesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingDel != "" {
		id := m.pendingDel
		m.pendingDel = ""
		switch msg.String() {
		case "x", "delete", "y":
			m.deleteDevice(id)
			return m, nil
		case "n":
			return m, nil
		}
	}

	switch msg.String() {
	case "x", "delete":
		if id := m.selectedDeviceID(); id != "" {
			m.pendingDel = id
		}
		return m, nil
	case "n":
		m.deviceForm = components.NewDeviceForm()
		return m, nil
	case "e", "enter":
		if d, ok := inventory.FindDevice(m.state.Data.Devices, m.selectedDeviceID()); ok {
			m.deviceForm = components.EditDeviceForm(d)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.deviceTable, cmd = m.deviceTable.Update(msg)
	return m, cmd
}

func (m *MainModel) deleteDevice(id string) {
	devices, ok := inventory.RemoveDevice(m.state.Data.Devices, id)
	if !ok {
		return
	}
	name := inventory.DeviceName(m.state.Data.Devices, id)
	m.setDevices(devices)
	m.state.Logf(m.now(), "Deleted device %s (%s)", name, id)
}

func (m *MainModel) setDevices(devices []inventory.Device) {
	m.state.Data.Devices = devices
	m.deviceTable.SetRows(components.DeviceRows(devices))
	if c := m.deviceTable.Cursor(); c >= len(devices) && len(devices) > 0 {
		m.deviceTable.SetCursor(len(devices) - 1)
	}
	m.state.Recompute(m.config, m.now())
}

func (m *MainModel) handleDeviceFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	form := m.deviceForm
	action, cmd := form.Update(msg)
	switch action {
	case components.FormCancel:
		m.deviceForm = nil
	case components.FormSubmit:
		m.saveDevice(form)
	}
	return m, cmd
}

// saveDevice commits the form. Validation errors keep the form open.
func (m *MainModel) saveDevice(form *components.DeviceForm) {
	d := form.Device()
	if err := inventory.ValidateDevice(d); err != nil {
		form.Err = err.Error()
		return
	}

	if form.Editing() {
		devices, ok := inventory.ReplaceDevice(m.state.Data.Devices, d)
		if !ok {
			form.Err = fmt.Sprintf("device %s no longer exists", d.ID)
			return
		}
		m.setDevices(devices)
		m.state.Logf(m.now(), "Updated device %s (%s)", d.Name, d.ID)
	} else {
		devices, added, err := inventory.AddDevice(m.state.Data.Devices, d, m.now())
		if err != nil {
			form.Err = err.Error()
			return
		}
		m.setDevices(devices)
		m.deviceTable.SetCursor(len(devices) - 1)
		m.state.Logf(m.now(), "Added device %s (%s)", added.Name, added.ID)
	}
	m.deviceForm = nil
}

func (m *MainModel) handleTopologyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.state.Graph.Nodes)
	if n == 0 {
		return m, nil
	}

	var dx, dy float64
	switch msg.String() {
	case "tab":
		m.state.SelectedNode = (m.state.SelectedNode + 1) % n
		return m, nil
	case "shift+tab":
		m.state.SelectedNode = (m.state.SelectedNode + n - 1) % n
		return m, nil
	case "c":
		source := m.state.Graph.Nodes[m.state.SelectedNode].ID
		target := m.state.Graph.Nodes[(m.state.SelectedNode+1)%n].ID
		m.state.Graph.Edges = topology.AddEdge(m.state.Graph.Edges, source, target)
		m.state.Logf(m.now(), "Connected %s to %s", source, target)
		return m, nil
	case "left", "h":
		dx = -nudgeStep
	case "right", "l":
		dx = nudgeStep
	case "up", "k":
		dy = -nudgeStep
	case "down", "j":
		dy = nudgeStep
	default:
		return m, nil
	}

	node := m.state.Graph.Nodes[m.state.SelectedNode]
	pos := topology.Position{X: node.Position.X + dx, Y: node.Position.Y + dy}
	m.state.Graph.Nodes = topology.ApplyNodePositionChange(m.state.Graph.Nodes, node.ID, pos)
	return m, nil
}

func (m *MainModel) handleSupportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.state.Data.Tickets)
	if n == 0 {
		return m, nil
	}
	ticket, _ := m.state.CurrentTicket()

	switch msg.String() {
	case "up", "k":
		if m.state.SelectedTicket > 0 {
			m.state.SelectedTicket--
			m.state.Reports[insight.KindTicketSuggestion].Reset()
		}
	case "down", "j":
		if m.state.SelectedTicket < n-1 {
			m.state.SelectedTicket++
			m.state.Reports[insight.KindTicketSuggestion].Reset()
		}
	case "g":
		return m, m.requestInsight(insight.KindTicketSuggestion)
	case "a":
		if tickets, ok := inventory.AssignTicket(m.state.Data.Tickets, ticket.ID, operator, m.now()); ok {
			m.state.Data.Tickets = tickets
			m.state.Logf(m.now(), "Assigned %s to %s", ticket.ID, operator)
		}
	case "r":
		if tickets, ok := inventory.SetTicketStatus(m.state.Data.Tickets, ticket.ID, inventory.TicketResolved, m.now()); ok {
			m.state.Data.Tickets = tickets
			m.state.Recompute(m.config, m.now())
			m.state.Logf(m.now(), "Resolved %s", ticket.ID)
		}
	}
	return m, nil
}

// requestInsight starts a request for kind and returns the command that
// runs it. Inputs are copied so later edits cannot race the request.
func (m *MainModel) requestInsight(kind insight.Kind) tea.Cmd {
	r := m.requester
	if r == nil {
		return nil
	}

	var run func(context.Context) insight.Outcome
	switch kind {
	case insight.KindDEXReport:
		metrics, devices := slices.Clone(m.state.Data.DEXMetrics), slices.Clone(m.state.Data.Devices)
		run = func(ctx context.Context) insight.Outcome { return r.GenerateDEXReport(ctx, metrics, devices) }
	case insight.KindMaintenancePlan:
		devices := slices.Clone(m.state.Data.Devices)
		run = func(ctx context.Context) insight.Outcome { return r.GenerateMaintenancePlan(ctx, devices) }
	case insight.KindTicketSuggestion:
		ticket, ok := m.state.CurrentTicket()
		if !ok {
			return nil
		}
		run = func(ctx context.Context) insight.Outcome { return r.GetSupportSuggestion(ctx, ticket) }
	default:
		return nil
	}

	gen := m.state.Reports[kind].Begin()
	m.state.Logf(m.now(), "Requested %s", kind.Title())

	ctx := m.ctx
	return func() tea.Msg {
		return InsightLoadedMsg{Kind: kind, Gen: gen, Outcome: run(ctx)}
	}
}

func (m *MainModel) handleInsightLoadedMsg(msg InsightLoadedMsg) (tea.Model, tea.Cmd) {
	slot, ok := m.state.Reports[msg.Kind]
	if !ok {
		return m, nil
	}
	if slot.Complete(msg.Gen, msg.Outcome) {
		m.state.Logf(m.now(), "%s ready (%s)", msg.Kind.Title(), msg.Outcome.State)
	} else {
		m.state.Logf(m.now(), "Discarded stale %s", msg.Kind.Title())
	}
	return m, nil
}

// =============================================================================
// FRAME HANDLERS
// =============================================================================

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	var v float64 = m.velocity
	m.animCursor, v = m.spring.Update(m.animCursor, float64(m.menuCursor), v)
	m.velocity = v
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	newW := msg.Width/2 - 10
	if newW > 10 {
		m.cpuChart.Resize(newW, 8)
		m.latencyChart.Resize(newW, 8)
	}
	if h := msg.Height - 14; h > 5 {
		m.deviceTable.SetHeight(h)
	}
	return m, nil
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.mouseX = msg.X
	m.mouseY = msg.Y

	if msg.Action == tea.MouseActionRelease && m.state.CurrentPage == state.PageMenu {
		for i := range views.MenuOptions {
			if zone.Get(fmt.Sprintf("menu_%d", i)).InBounds(msg) {
				m.menuCursor = i
				m.navigateTo(i)
				return m, nil
			}
		}
	}
	return m, nil
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	switch m.state.CurrentPage {
	case state.PageMenu:
		return views.RenderMenu(m.state, m.width, m.height, m.menuCursor, m.animCursor, m.mouseX, m.mouseY)
	case state.PageDashboard:
		return views.RenderDashboard(m.state, m.spinner.View(), m.cpuChart.View(), m.latencyChart.View())
	case state.PageDevices:
		return views.RenderDevices(m.state, m.deviceTable.View(), m.deviceFormView(), m.pendingDel, m.selectedDeviceID(), m.width)
	case state.PageTopology:
		return views.RenderTopology(m.state, m.width)
	case state.PageMaintenance:
		return views.RenderMaintenance(m.state, m.spinner.View(), m.width)
	case state.PageSupport:
		return views.RenderSupport(m.state, m.spinner.View(), m.width)
	case state.PageDEX:
		return views.RenderDEX(m.state, m.spinner.View(), m.width)
	case state.PageActivity:
		return views.RenderActivity(m.state, m.width, m.height, m.scrollY)
	default:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Bold(true).Render("Unknown page\n\nPress 'b' to go back"),
		)
	}
}

func (m *MainModel) deviceFormView() string {
	if m.deviceForm == nil {
		return ""
	}
	return m.deviceForm.View()
}

// Start runs the TUI until the user quits or ctx is cancelled.
func Start(ctx context.Context, store *inventory.Store, requester *insight.Requester, cfg engine.Config) error {
	m := InitialModel(store, requester, cfg)
	m.ctx = ctx
	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
