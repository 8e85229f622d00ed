// Package mcpserver exposes the dashboard over the Model Context Protocol.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"opsboard/internal/database/graph"
	"opsboard/internal/database/rag"
	"opsboard/internal/database/relational"
	"opsboard/internal/engine"
	"opsboard/internal/insight"
	"opsboard/internal/inventory"
	"opsboard/internal/stats"
	"opsboard/internal/topology"
)

var (
	errNoHistory = errors.New("report history is not available")
	errNoGraph   = errors.New("graph database is not configured")
)

// Server wraps the MCP server with OpsBoard capabilities.
type Server struct {
	mcpServer   *mcp.Server
	store       *inventory.Store
	insights    *insight.Requester
	history     relational.ReportReader
	neo4jClient graph.GraphClient
	ragEngine   *rag.GraphRAGEngine
	checks      engine.Config
	log         zerolog.Logger
}

// Config holds configuration for the MCP server.
type Config struct {
	ServerName    string
	ServerVersion string
}

// Deps are the components the tools run against. Store and Insights are
// required; the rest switch their tools to an error result when nil.
type Deps struct {
	Store    *inventory.Store
	Insights *insight.Requester
	History  relational.ReportReader
	Graph    graph.GraphClient
	RAG      *rag.GraphRAGEngine
	Logger   zerolog.Logger
}

// NewServer creates a new MCP server instance with all tools registered.
func NewServer(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil || deps.Insights == nil {
		return nil, errors.New("mcpserver: store and insights are required")
	}

	impl := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}

	s := &Server{
		mcpServer:   mcp.NewServer(impl, nil),
		store:       deps.Store,
		insights:    deps.Insights,
		history:     deps.History,
		neo4jClient: deps.Graph,
		ragEngine:   deps.RAG,
		checks:      engine.DefaultConfig(),
		log:         deps.Logger,
	}
	s.registerTools()
	return s, nil
}

// EmptyArgs is the input of tools that take no arguments.
type EmptyArgs struct{}

// ListDevicesArgs defines the input for list_devices.
type ListDevicesArgs struct {
	Status string `json:"status,omitempty" jsonschema:"only devices with this status: Online, Offline, Warning or Maintenance"`
	Type   string `json:"type,omitempty" jsonschema:"only devices of this type: Server, Router, Switch, Laptop, Desktop or Firewall"`
}

// DevicesResult wraps devices for tool output.
type DevicesResult struct {
	Devices []DeviceView `json:"devices" jsonschema:"matching devices"`
}

// TopologyArgs defines the input for get_topology.
type TopologyArgs struct {
	DeviceID string `json:"device_id,omitempty" jsonschema:"when set, also return the neighbors of this device"`
}

// TopologyResult is the projected graph.
type TopologyResult struct {
	Nodes     []NodeView   `json:"nodes"`
	Edges     []EdgeView   `json:"edges"`
	Dangling  []EdgeView   `json:"dangling" jsonschema:"edges whose source or target is not a known device"`
	Neighbors []DeviceView `json:"neighbors,omitempty"`
}

// TicketArgs defines the input for get_ticket_suggestion.
type TicketArgs struct {
	TicketID string `json:"ticket_id" jsonschema:"id of the support ticket, e.g. t1"`
}

// InsightResult is one insight outcome.
type InsightResult struct {
	Kind  string `json:"kind"`
	State string `json:"state" jsonschema:"succeeded, fallback or failed"`
	Text  string `json:"text" jsonschema:"markdown body, or a fixed error message when state is failed"`
}

// HistoryArgs defines the input for get_report_history.
type HistoryArgs struct {
	Kind  string `json:"kind,omitempty" jsonschema:"dex_report, maintenance_plan or ticket_suggestion; empty for all"`
	Limit int    `json:"limit,omitempty" jsonschema:"number of reports to return (default 10, max 100)"`
}

// HistoryResult wraps stored reports.
type HistoryResult struct {
	Reports []ReportView   `json:"reports"`
	Counts  map[string]int `json:"counts"`
}

// QueryGraphArgs defines the input for query_graph.
type QueryGraphArgs struct {
	Cypher string `json:"cypher" jsonschema:"read-only Cypher query to execute"`
}

// QueryGraphResult wraps graph query results.
type QueryGraphResult struct {
	Rows []map[string]any `json:"rows" jsonschema:"query results"`
}

// AskTopologyArgs defines the input for ask_topology.
type AskTopologyArgs struct {
	Question string `json:"question" jsonschema:"the question to ask about the network topology"`
}

// AskTopologyResult carries the generated answer.
type AskTopologyResult struct {
	Answer string `json:"answer" jsonschema:"AI-generated answer"`
	Cypher string `json:"cypher" jsonschema:"query used to gather context"`
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "dashboard_summary",
		Description: "Headline figures for the IT dashboard: device counts by status, open tickets, average network latency, overall DEX score, devices needing attention and graded health checks.",
	}, s.handleDashboardSummary)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_devices",
		Description: "List managed devices, optionally filtered by status and type.",
	}, s.handleListDevices)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_topology",
		Description: "Get the network topology as nodes on a 5-column grid and edges. Pass device_id to also get that device's direct neighbors.",
	}, s.handleGetTopology)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_dex_report",
		Description: "Generate a Digital Experience report from the DEX metrics and device statuses. Falls back to a canned report when no API key is configured.",
	}, s.handleGenerateDEXReport)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_maintenance_plan",
		Description: "Generate a predictive maintenance plan for the device fleet.",
	}, s.handleGenerateMaintenancePlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_ticket_suggestion",
		Description: "Get troubleshooting steps for a support ticket.",
	}, s.handleGetTicketSuggestion)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_report_history",
		Description: "List previously generated insight reports from DuckDB, newest first.",
	}, s.handleGetReportHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_graph",
		Description: "Execute a read-only Cypher query on the Neo4j topology mirror. Nodes: Device {device_id, name, type, status, location, ip_address}. Relationships: (Device)-[:CONNECTS_TO {edge_id, user_added}]->(Device).",
	}, s.handleQueryGraph)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ask_topology",
		Description: "Ask a natural-language question about the network topology. The answer is grounded on a Cypher query against the graph mirror.",
	}, s.handleAskTopology)
}

func (s *Server) handleDashboardSummary(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyArgs) (*mcp.CallToolResult, SummaryView, error) {
	summary := stats.Summarize(s.store.Snapshot())
	return nil, summaryView(summary, engine.Evaluate(summary, s.checks)), nil
}

func (s *Server) handleListDevices(ctx context.Context, _ *mcp.CallToolRequest, args ListDevicesArgs) (*mcp.CallToolResult, DevicesResult, error) {
	var status inventory.DeviceStatus
	var typ inventory.DeviceType
	var err error

	if args.Status != "" {
		if status, err = inventory.ParseDeviceStatus(args.Status); err != nil {
			return nil, DevicesResult{}, err
		}
	}
	if args.Type != "" {
		if typ, err = inventory.ParseDeviceType(args.Type); err != nil {
			return nil, DevicesResult{}, err
		}
	}

	var out []inventory.Device
	for _, d := range s.store.Devices() {
		if status != "" && d.Status != status {
			continue
		}
		if typ != "" && d.Type != typ {
			continue
		}
		out = append(out, d)
	}
	return nil, DevicesResult{Devices: deviceViews(out)}, nil
}

func (s *Server) handleGetTopology(ctx context.Context, _ *mcp.CallToolRequest, args TopologyArgs) (*mcp.CallToolResult, TopologyResult, error) {
	g := topology.Project(s.store.Devices(), s.store.Connections())
	res := TopologyResult{
		Nodes:    nodeViews(g.Nodes),
		Edges:    edgeViews(g.Edges),
		Dangling: edgeViews(topology.DanglingEdges(g)),
	}
	if args.DeviceID != "" {
		if _, ok := topology.SelectNode(g.Nodes, args.DeviceID); !ok {
			return nil, TopologyResult{}, fmt.Errorf("unknown device %q", args.DeviceID)
		}
		res.Neighbors = deviceViews(topology.Neighbors(g, args.DeviceID))
	}
	return nil, res, nil
}

func insightResult(o insight.Outcome) InsightResult {
	return InsightResult{Kind: string(o.Kind), State: string(o.State), Text: o.Text}
}

func (s *Server) handleGenerateDEXReport(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyArgs) (*mcp.CallToolResult, InsightResult, error) {
	o := s.insights.GenerateDEXReport(ctx, s.store.DEXMetrics(), s.store.Devices())
	return nil, insightResult(o), nil
}

func (s *Server) handleGenerateMaintenancePlan(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyArgs) (*mcp.CallToolResult, InsightResult, error) {
	o := s.insights.GenerateMaintenancePlan(ctx, s.store.Devices())
	return nil, insightResult(o), nil
}

func (s *Server) handleGetTicketSuggestion(ctx context.Context, _ *mcp.CallToolRequest, args TicketArgs) (*mcp.CallToolResult, InsightResult, error) {
	ticket, ok := s.store.Ticket(args.TicketID)
	if !ok {
		return nil, InsightResult{}, fmt.Errorf("unknown ticket %q", args.TicketID)
	}
	o := s.insights.GetSupportSuggestion(ctx, ticket)
	return nil, insightResult(o), nil
}

func (s *Server) handleGetReportHistory(ctx context.Context, _ *mcp.CallToolRequest, args HistoryArgs) (*mcp.CallToolResult, HistoryResult, error) {
	if s.history == nil {
		return nil, HistoryResult{}, errNoHistory
	}
	if args.Kind != "" && !insight.Kind(args.Kind).Valid() {
		return nil, HistoryResult{}, fmt.Errorf("invalid kind: %s", args.Kind)
	}

	reports, err := s.history.QueryReports(ctx, args.Kind, args.Limit)
	if err != nil {
		return nil, HistoryResult{}, fmt.Errorf("failed to query reports: %w", err)
	}
	counts, err := s.history.CountReports(ctx)
	if err != nil {
		return nil, HistoryResult{}, fmt.Errorf("failed to count reports: %w", err)
	}
	return nil, HistoryResult{Reports: reportViews(reports), Counts: counts}, nil
}

func (s *Server) handleQueryGraph(ctx context.Context, _ *mcp.CallToolRequest, args QueryGraphArgs) (*mcp.CallToolResult, QueryGraphResult, error) {
	if s.neo4jClient == nil {
		return nil, QueryGraphResult{}, errNoGraph
	}
	if !graph.ReadOnly(args.Cypher) {
		return nil, QueryGraphResult{}, graph.ErrWriteQuery
	}

	rows, err := s.neo4jClient.ExecuteCypher(ctx, args.Cypher)
	if err != nil {
		return nil, QueryGraphResult{}, fmt.Errorf("cypher query failed: %w", err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return nil, QueryGraphResult{Rows: rows}, nil
}

func (s *Server) handleAskTopology(ctx context.Context, _ *mcp.CallToolRequest, args AskTopologyArgs) (*mcp.CallToolResult, AskTopologyResult, error) {
	if s.ragEngine == nil {
		return nil, AskTopologyResult{}, errNoGraph
	}
	res, err := s.ragEngine.Query(ctx, args.Question)
	if err != nil {
		s.log.Warn().Err(err).Msg("topology question failed")
		return nil, AskTopologyResult{}, fmt.Errorf("RAG query failed: %w", err)
	}
	return nil, AskTopologyResult{Answer: res.Answer, Cypher: res.Cypher}, nil
}

// Start serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info().Msg("starting OpsBoard MCP server on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// MCP returns the underlying server, e.g. to connect it to an in-memory
// transport.
func (s *Server) MCP() *mcp.Server {
	return s.mcpServer
}
