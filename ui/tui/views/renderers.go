package views

import (
	"opsboard/ui/tui/state"
)

func RenderMenu(s state.AppState, width, height, cursor int, animCursor float64, mouseX, mouseY int) string {
	return MenuView{}.Render(s, ViewProps{
		Width:      width,
		Height:     height,
		MenuCursor: cursor,
		AnimCursor: animCursor,
		MouseX:     mouseX,
		MouseY:     mouseY,
	})
}

func RenderDashboard(s state.AppState, spinnerView, cpuChart, latencyChart string) string {
	return DashboardView{}.Render(s, ViewProps{
		SpinnerView:  spinnerView,
		CPUChart:     cpuChart,
		LatencyChart: latencyChart,
	})
}

func RenderDevices(s state.AppState, tableView, formView, pendingDelete, selectedID string, width int) string {
	return DevicesView{Selected: selectedID, Form: formView, PendingDelete: pendingDelete}.Render(s, ViewProps{
		Width:     width,
		TableView: tableView,
	})
}

func RenderTopology(s state.AppState, width int) string {
	return TopologyView{}.Render(s, ViewProps{Width: width})
}

func RenderMaintenance(s state.AppState, spinnerView string, width int) string {
	return MaintenanceView{}.Render(s, ViewProps{Width: width, SpinnerView: spinnerView})
}

func RenderSupport(s state.AppState, spinnerView string, width int) string {
	return SupportView{}.Render(s, ViewProps{Width: width, SpinnerView: spinnerView})
}

func RenderDEX(s state.AppState, spinnerView string, width int) string {
	return DEXView{}.Render(s, ViewProps{Width: width, SpinnerView: spinnerView})
}

func RenderActivity(s state.AppState, width, height, scrollY int) string {
	return ActivityView{}.Render(s, ViewProps{
		Width:   width,
		Height:  height,
		ScrollY: scrollY,
	})
}
