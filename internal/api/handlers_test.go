package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsboard/internal/database/relational"
	"opsboard/internal/fixtures"
	"opsboard/internal/insight"
	"opsboard/internal/inventory"
	"opsboard/internal/logger"
	"opsboard/internal/topology"
)

// MockReportReader implements relational.ReportReader for testing
type MockReportReader struct {
	Reports  []relational.ReportSummary
	Counts   map[string]int
	Err      error
	LastKind string
	LastN    int
}

func (m *MockReportReader) QueryReports(ctx context.Context, kind string, limit int) ([]relational.ReportSummary, error) {
	m.LastKind, m.LastN = kind, limit
	return m.Reports, m.Err
}

func (m *MockReportReader) GetReport(ctx context.Context, id string) (*relational.ReportSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Reports {
		if m.Reports[i].ReportID == id {
			r := m.Reports[i]
			return &r, nil
		}
	}
	return nil, relational.ErrReportNotFound
}

func (m *MockReportReader) CountReports(ctx context.Context) (map[string]int, error) {
	return m.Counts, m.Err
}

var refTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// newTestServer builds a Server over the demo dataset with a fast fallback.
func newTestServer(t *testing.T, history relational.ReportReader) http.Handler {
	t.Helper()
	srv, err := NewServer(Deps{
		Store:    inventory.NewStore(fixtures.Dataset(refTime)),
		Insights: insight.NewRequester(insight.Config{FallbackDelay: time.Millisecond}),
		History:  history,
		Logger:   logger.NewTestLogger(),
	})
	require.NoError(t, err)
	srv.now = func() time.Time { return refTime }
	return NewRouter(srv)
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestNewServerRequiresDeps(t *testing.T) {
	_, err := NewServer(Deps{})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestGetDevices(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantLen  int
	}{
		{"all", "", http.StatusOK, 9},
		{"servers", "?type=Server", http.StatusOK, 4},
		{"offline", "?status=Offline", http.StatusOK, 1},
		{"online servers", "?status=Online&type=Server", http.StatusOK, 2},
		{"no match", "?status=Offline&type=Router", http.StatusOK, 0},
		{"bad status", "?status=Sleeping", http.StatusBadRequest, 0},
		{"bad type", "?type=Phone", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/v1/devices"+tt.query)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			var devices []inventory.Device
			decode(t, rec, &devices)
			assert.Len(t, devices, tt.wantLen)
		})
	}
}

func TestGetDevice(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/devices/d7")
	require.Equal(t, http.StatusOK, rec.Code)
	var d inventory.Device
	decode(t, rec, &d)
	assert.Equal(t, "Dev Laptop - Alice", d.Name)
	assert.Equal(t, inventory.StatusOffline, d.Status)

	rec = do(t, h, http.MethodGet, "/api/v1/devices/d99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollections(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		path    string
		wantLen int
	}{
		{"/api/v1/connections", 7},
		{"/api/v1/tickets", 4},
		{"/api/v1/maintenance", 3},
		{"/api/v1/dex", 5},
		{"/api/v1/metrics/cpu", fixtures.SeriesPoints},
		{"/api/v1/metrics/latency", fixtures.SeriesPoints},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			var items []json.RawMessage
			decode(t, rec, &items)
			assert.Len(t, items, tt.wantLen)
		})
	}

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/metrics/memory").Code)
}

func TestGetSummary(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/api/v1/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Summary struct {
			TotalDevices int `json:"totalDevices"`
		} `json:"summary"`
		Overall string `json:"overall"`
		Checks  []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"checks"`
	}
	decode(t, rec, &resp)

	assert.Equal(t, 9, resp.Summary.TotalDevices)
	assert.Equal(t, "CRIT", resp.Overall)
	assert.NotEmpty(t, resp.Checks)
}

func TestGetTopology(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/topology")
	require.Equal(t, http.StatusOK, rec.Code)
	var g struct {
		Nodes    []topology.Node `json:"nodes"`
		Edges    []topology.Edge `json:"edges"`
		Dangling []topology.Edge `json:"dangling"`
	}
	decode(t, rec, &g)
	assert.Len(t, g.Nodes, 9)
	assert.Len(t, g.Edges, 7)
	assert.Empty(t, g.Dangling)
	assert.Equal(t, "e0-d1-d2", g.Edges[0].ID)

	rec = do(t, h, http.MethodGet, "/api/v1/topology?device=d5")
	require.Equal(t, http.StatusOK, rec.Code)
	var withNeighbors struct {
		Neighbors []inventory.Device `json:"neighbors"`
	}
	decode(t, rec, &withNeighbors)
	assert.Len(t, withNeighbors.Neighbors, 2)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/topology?device=nope").Code)
}

func TestInsightsFallback(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		path     string
		wantKind insight.Kind
		wantText string
	}{
		{"/api/v1/insights/dex", insight.KindDEXReport, insight.FallbackDEXReport()},
		{"/api/v1/insights/maintenance", insight.KindMaintenancePlan, insight.FallbackMaintenancePlan()},
		{"/api/v1/insights/tickets/t2", insight.KindTicketSuggestion, insight.FallbackTicketSuggestion("Printer in Wing C not working")},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			var o insight.Outcome
			decode(t, rec, &o)
			assert.Equal(t, tt.wantKind, o.Kind)
			assert.Equal(t, insight.StateFallback, o.State)
			assert.Equal(t, tt.wantText, o.Text)
		})
	}

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/v1/insights/tickets/t42").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/v1/insights/dex").Code)
}

func TestHistoryUnavailable(t *testing.T) {
	h := newTestServer(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/api/v1/insights/history").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/api/v1/insights/history/r1").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/api/v1/insights/counts").Code)
}

func TestGetReportCounts(t *testing.T) {
	h := newTestServer(t, &MockReportReader{Counts: map[string]int{"dex_report": 1, "maintenance_plan": 1}})

	rec := do(t, h, http.MethodGet, "/api/v1/insights/counts")
	require.Equal(t, http.StatusOK, rec.Code)
	var counts map[string]int
	decode(t, rec, &counts)
	assert.Equal(t, map[string]int{"dex_report": 1, "maintenance_plan": 1}, counts)
}

func TestGetHistory(t *testing.T) {
	reader := &MockReportReader{Reports: []relational.ReportSummary{
		{ReportID: "r1", Kind: "dex_report", State: "fallback", Body: "report", Prompt: "prompt", CreatedAt: refTime},
	}}
	h := newTestServer(t, reader)

	rec := do(t, h, http.MethodGet, "/api/v1/insights/history?kind=dex_report&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dex_report", reader.LastKind)
	assert.Equal(t, 5, reader.LastN)
	assert.True(t, strings.Contains(rec.Body.String(), `"report_id":"r1"`))

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/insights/history?kind=poem").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/insights/history?limit=-1").Code)

	rec = do(t, h, http.MethodGet, "/api/v1/insights/history/r1")
	require.Equal(t, http.StatusOK, rec.Code)
	var report relational.ReportSummary
	decode(t, rec, &report)
	assert.Equal(t, "prompt", report.Prompt)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/insights/history/r2").Code)
}

func TestHistoryStoreError(t *testing.T) {
	h := newTestServer(t, &MockReportReader{Err: errors.New("connection reset")})
	assert.Equal(t, http.StatusInternalServerError, do(t, h, http.MethodGet, "/api/v1/insights/history").Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, h, http.MethodGet, "/api/v1/insights/history/r1").Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, h, http.MethodGet, "/api/v1/insights/counts").Code)
}
