package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter returns a configured chi.Router for the OpsBoard API.
//
// Route layout:
//
//	GET  /healthz                        liveness probe
//	GET  /api/v1/devices                 all devices (?status=, ?type=)
//	GET  /api/v1/devices/{id}            one device
//	GET  /api/v1/connections             raw connections
//	GET  /api/v1/tickets                 support tickets
//	GET  /api/v1/maintenance             maintenance tasks
//	GET  /api/v1/dex                     DEX metrics
//	GET  /api/v1/metrics/{series}        cpu or latency time series
//	GET  /api/v1/summary                 aggregates and threshold checks
//	GET  /api/v1/topology                projected graph (?device= adds neighbors)
//	POST /api/v1/insights/dex            generate a DEX report
//	POST /api/v1/insights/maintenance    generate a maintenance plan
//	POST /api/v1/insights/tickets/{id}   suggest steps for a ticket
//	GET  /api/v1/insights/history        stored reports (?kind=, ?limit=)
//	GET  /api/v1/insights/history/{id}   one stored report with its prompt
func NewRouter(srv *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(srv.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", srv.handleHealthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/devices", srv.handleGetDevices)
		r.Get("/devices/{id}", srv.handleGetDevice)
		r.Get("/connections", srv.handleGetConnections)
		r.Get("/tickets", srv.handleGetTickets)
		r.Get("/maintenance", srv.handleGetMaintenance)
		r.Get("/dex", srv.handleGetDEX)
		r.Get("/metrics/{series}", srv.handleGetSeries)
		r.Get("/summary", srv.handleGetSummary)
		r.Get("/topology", srv.handleGetTopology)

		r.Route("/insights", func(r chi.Router) {
			r.Post("/dex", srv.handleGenerateDEX)
			r.Post("/maintenance", srv.handleGenerateMaintenance)
			r.Post("/tickets/{id}", srv.handleTicketSuggestion)
			r.Get("/history", srv.handleGetHistory)
			r.Get("/history/{id}", srv.handleGetReport)
			r.Get("/counts", srv.handleGetReportCounts)
		})
	})

	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
