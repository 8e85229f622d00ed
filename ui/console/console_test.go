package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"opsboard/internal/engine"
	"opsboard/internal/fixtures"
	"opsboard/internal/inventory"
	"opsboard/internal/output"
)

func TestColorFor(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"WARN", colorYellow},
		{"CRIT", colorRed},
		{"OK", colorGreen},
		{"", colorGreen},
		{"UNKNOWN", colorGreen},
	}

	for _, tt := range tests {
		result := colorFor(tt.status)
		if result != tt.expected {
			t.Errorf("colorFor(%q) = %q; want %q", tt.status, result, tt.expected)
		}
	}
}

func TestDeviceColor(t *testing.T) {
	for _, s := range inventory.AllDeviceStatuses() {
		if deviceColor(s) == colorReset {
			t.Errorf("deviceColor(%q) has no color", s)
		}
	}
	if deviceColor("Sleeping") != colorReset {
		t.Error("Expected unknown status to be uncolored")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Errorf("Expected 'short', got '%s'", got)
	}
	if got := truncate("Marketing Desktop - Bob", 10); got != "Marketi..." {
		t.Errorf("Expected 'Marketi...', got '%s'", got)
	}
}

func TestPrint(t *testing.T) {
	data := fixtures.Dataset(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	payload := output.BuildPayload(inventory.NewStore(data), engine.DefaultConfig(), time.Now())

	var buf bytes.Buffer
	Print(&buf, payload.Dashboard(), data.Devices)
	out := buf.String()

	for _, want := range []string{"OPSBOARD REPORT", "Dev Laptop - Alice", "9 devices", "Overall: "} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestPrintEmpty(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Print panicked: %v", r)
		}
	}()
	var buf bytes.Buffer
	Print(&buf, output.DashboardView{}, nil)
	if !strings.Contains(buf.String(), "0 devices") {
		t.Errorf("Expected empty summary, got %q", buf.String())
	}
}
