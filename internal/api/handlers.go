// Package api serves the dashboard dataset, aggregates and AI insights over
// HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"opsboard/internal/database/relational"
	"opsboard/internal/engine"
	"opsboard/internal/insight"
	"opsboard/internal/inventory"
	"opsboard/internal/output"
	"opsboard/internal/stats"
	"opsboard/internal/topology"
)

// Server holds the dependencies needed by the handlers.
type Server struct {
	store    *inventory.Store
	insights *insight.Requester
	history  relational.ReportReader
	checks   engine.Config
	log      zerolog.Logger
	now      func() time.Time
}

// Deps wires a Server. History may be nil, in which case the history
// endpoints answer 503.
type Deps struct {
	Store    *inventory.Store
	Insights *insight.Requester
	History  relational.ReportReader
	Checks   *engine.Config // nil means engine.DefaultConfig()
	Logger   zerolog.Logger
}

// NewServer creates a Server.
func NewServer(deps Deps) (*Server, error) {
	if deps.Store == nil || deps.Insights == nil {
		return nil, errors.New("api: store and insights are required")
	}
	checks := engine.DefaultConfig()
	if deps.Checks != nil {
		checks = *deps.Checks
	}
	return &Server{
		store:    deps.Store,
		insights: deps.Insights,
		history:  deps.History,
		checks:   checks,
		log:      deps.Logger,
		now:      time.Now,
	}, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an HTTP error response with a JSON body containing an
// "error" field.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetDevices responds to GET /api/v1/devices.
//
// Supported query parameters:
//
//	status  one of Online, Offline, Warning, Maintenance (optional)
//	type    one of Server, Router, Switch, Laptop, Desktop, Firewall (optional)
func (s *Server) handleGetDevices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status inventory.DeviceStatus
	if v := q.Get("status"); v != "" {
		parsed, err := inventory.ParseDeviceStatus(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		status = parsed
	}
	var typ inventory.DeviceType
	if v := q.Get("type"); v != "" {
		parsed, err := inventory.ParseDeviceType(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		typ = parsed
	}

	devices := []inventory.Device{}
	for _, d := range s.store.Devices() {
		if status != "" && d.Status != status {
			continue
		}
		if typ != "" && d.Type != typ {
			continue
		}
		devices = append(devices, d)
	}
	writeJSON(w, http.StatusOK, devices)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, ok := s.store.Device(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("device %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleGetConnections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Connections())
}

func (s *Server) handleGetTickets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Tickets())
}

func (s *Server) handleGetMaintenance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.MaintenanceTasks())
}

func (s *Server) handleGetDEX(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.DEXMetrics())
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "series") {
	case "cpu":
		writeJSON(w, http.StatusOK, s.store.CPUUsage())
	case "latency":
		writeJSON(w, http.StatusOK, s.store.NetworkLatency())
	default:
		writeError(w, http.StatusNotFound, "series must be one of cpu, latency")
	}
}

type checkJSON struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

type summaryResponse struct {
	CollectedAt time.Time     `json:"collectedAt"`
	Summary     stats.Summary `json:"summary"`
	Overall     string        `json:"overall"`
	Checks      []checkJSON   `json:"checks"`
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	p := output.BuildPayload(s.store, s.checks, s.now())
	resp := summaryResponse{
		CollectedAt: p.CollectedAt,
		Summary:     p.Summary,
		Overall:     engine.Worst(p.Checks),
		Checks:      make([]checkJSON, 0, len(p.Checks)),
	}
	for _, c := range p.Checks {
		resp.Checks = append(resp.Checks, checkJSON{Name: c.Name, Value: c.Value, Status: c.Status})
	}
	writeJSON(w, http.StatusOK, resp)
}

type topologyResponse struct {
	topology.Graph
	Dangling  []topology.Edge    `json:"dangling"`
	Neighbors []inventory.Device `json:"neighbors,omitempty"`
}

// handleGetTopology responds to GET /api/v1/topology. Edges whose endpoints
// are unknown are listed under "dangling" rather than rejected.
func (s *Server) handleGetTopology(w http.ResponseWriter, r *http.Request) {
	g := topology.Project(s.store.Devices(), s.store.Connections())
	resp := topologyResponse{Graph: g, Dangling: topology.DanglingEdges(g)}
	if resp.Dangling == nil {
		resp.Dangling = []topology.Edge{}
	}

	if id := r.URL.Query().Get("device"); id != "" {
		if _, ok := topology.SelectNode(g.Nodes, id); !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("device %q not found", id))
			return
		}
		resp.Neighbors = topology.Neighbors(g, id)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Insight endpoints always answer 200 with the outcome; a failed generation
// is reported through its state and fixed error text.

func (s *Server) handleGenerateDEX(w http.ResponseWriter, r *http.Request) {
	o := s.insights.GenerateDEXReport(r.Context(), s.store.DEXMetrics(), s.store.Devices())
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleGenerateMaintenance(w http.ResponseWriter, r *http.Request) {
	o := s.insights.GenerateMaintenancePlan(r.Context(), s.store.Devices())
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleTicketSuggestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ticket, ok := s.store.Ticket(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("ticket %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, s.insights.GetSupportSuggestion(r.Context(), ticket))
}

// handleGetHistory responds to GET /api/v1/insights/history.
//
//	kind   dex_report, maintenance_plan or ticket_suggestion (optional)
//	limit  default 10, max 100
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "report history is not available")
		return
	}
	q := r.URL.Query()

	kind := q.Get("kind")
	if kind != "" && !insight.Kind(kind).Valid() {
		writeError(w, http.StatusBadRequest, "'kind' must be one of dex_report, maintenance_plan, ticket_suggestion")
		return
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "'limit' must be a positive integer")
			return
		}
		limit = n
	}

	reports, err := s.history.QueryReports(r.Context(), kind, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("query reports failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// handleGetReportCounts responds to GET /api/v1/insights/counts with the
// number of stored reports per kind.
func (s *Server) handleGetReportCounts(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "report history is not available")
		return
	}
	counts, err := s.history.CountReports(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("count reports failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "report history is not available")
		return
	}
	id := chi.URLParam(r, "id")
	report, err := s.history.GetReport(r.Context(), id)
	if errors.Is(err, relational.ErrReportNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("report %q not found", id))
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("report_id", id).Msg("get report failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
