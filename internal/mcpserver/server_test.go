package mcpserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"opsboard/internal/database/rag"
	"opsboard/internal/database/relational"
	"opsboard/internal/fixtures"
	"opsboard/internal/insight"
	"opsboard/internal/inventory"
	"opsboard/internal/topology"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// MockGraphClient implements graph.GraphClient for testing
type MockGraphClient struct {
	CypherResult []map[string]any
	CypherErr    error
	Queries      []string
	Closed       bool
}

func (m *MockGraphClient) SyncTopology(ctx context.Context, g topology.Graph) error {
	return nil
}

func (m *MockGraphClient) Reset(ctx context.Context) error {
	return nil
}

func (m *MockGraphClient) ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error) {
	m.Queries = append(m.Queries, query)
	if m.CypherErr != nil {
		return nil, m.CypherErr
	}
	return m.CypherResult, nil
}

func (m *MockGraphClient) Close(ctx context.Context) error {
	m.Closed = true
	return nil
}

// MockReportReader implements relational.ReportReader for testing
type MockReportReader struct {
	Reports   []relational.ReportSummary
	Counts    map[string]int
	Err       error
	LastKind  string
	LastLimit int
}

func (m *MockReportReader) QueryReports(ctx context.Context, kind string, limit int) ([]relational.ReportSummary, error) {
	m.LastKind, m.LastLimit = kind, limit
	return m.Reports, m.Err
}

func (m *MockReportReader) GetReport(ctx context.Context, id string) (*relational.ReportSummary, error) {
	return nil, relational.ErrReportNotFound
}

func (m *MockReportReader) CountReports(ctx context.Context) (map[string]int, error) {
	return m.Counts, m.Err
}

// MockGenerator implements insight.Generator for testing
type MockGenerator struct {
	Text string
	Err  error
}

func (m *MockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return m.Text, m.Err
}

func newTestServer() *Server {
	return &Server{
		store:    inventory.NewStore(fixtures.Dataset(now)),
		insights: insight.NewRequester(insight.Config{FallbackDelay: time.Millisecond}),
		log:      zerolog.Nop(),
	}
}

func TestNewServer_RequiresStoreAndInsights(t *testing.T) {
	if _, err := NewServer(Config{ServerName: "t"}, Deps{}); err == nil {
		t.Error("Expected error without store and insights")
	}
}

func TestHandleDashboardSummary(t *testing.T) {
	s := newTestServer()

	_, result, err := s.handleDashboardSummary(context.Background(), nil, EmptyArgs{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.TotalDevices != 9 {
		t.Errorf("Expected 9 devices, got %d", result.TotalDevices)
	}
	if result.Online != 6 {
		t.Errorf("Expected 6 online, got %d", result.Online)
	}
	if result.OpenTickets != 3 {
		t.Errorf("Expected 3 open tickets, got %d", result.OpenTickets)
	}
	if result.DEXScore == nil || *result.DEXScore != 89 {
		t.Errorf("Expected DEX score 89, got %v", result.DEXScore)
	}
	if result.AvgLatencyMs == nil {
		t.Error("Expected average latency to be present")
	}
	if len(result.Attention) != 2 {
		t.Errorf("Expected 2 devices needing attention, got %d", len(result.Attention))
	}
	if result.Overall != "CRIT" {
		t.Errorf("Expected overall CRIT, got %s", result.Overall)
	}
}

func TestHandleListDevices(t *testing.T) {
	tests := []struct {
		name    string
		args    ListDevicesArgs
		want    int
		wantErr bool
	}{
		{"all devices", ListDevicesArgs{}, 9, false},
		{"online only", ListDevicesArgs{Status: "Online"}, 6, false},
		{"laptops", ListDevicesArgs{Type: "Laptop"}, 1, false},
		{"offline laptops", ListDevicesArgs{Status: "Offline", Type: "Laptop"}, 1, false},
		{"invalid status", ListDevicesArgs{Status: "Asleep"}, 0, true},
		{"invalid type", ListDevicesArgs{Type: "Toaster"}, 0, true},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result, err := s.handleListDevices(context.Background(), nil, tt.args)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if len(result.Devices) != tt.want {
				t.Errorf("Expected %d devices, got %d", tt.want, len(result.Devices))
			}
		})
	}
}

func TestHandleGetTopology(t *testing.T) {
	s := newTestServer()

	_, result, err := s.handleGetTopology(context.Background(), nil, TopologyArgs{DeviceID: "d2"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Nodes) != 9 || len(result.Edges) != 7 {
		t.Errorf("Expected 9 nodes and 7 edges, got %d and %d", len(result.Nodes), len(result.Edges))
	}
	if result.Nodes[5].X != 0 || result.Nodes[5].Y != 200 {
		t.Errorf("Expected sixth node at (0,200), got (%v,%v)", result.Nodes[5].X, result.Nodes[5].Y)
	}
	if result.Edges[0].ID != "e0-d1-d2" {
		t.Errorf("Expected first edge e0-d1-d2, got %s", result.Edges[0].ID)
	}
	if len(result.Dangling) != 0 {
		t.Errorf("Expected no dangling edges, got %d", len(result.Dangling))
	}
	if len(result.Neighbors) != 5 {
		t.Errorf("Expected 5 neighbors of d2, got %d", len(result.Neighbors))
	}

	if _, _, err := s.handleGetTopology(context.Background(), nil, TopologyArgs{DeviceID: "nope"}); err == nil {
		t.Error("Expected error for unknown device")
	}
}

func TestHandleInsightTools_Fallback(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	_, dex, err := s.handleGenerateDEXReport(ctx, nil, EmptyArgs{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if dex.State != "fallback" || dex.Text != insight.FallbackDEXReport() {
		t.Errorf("Expected DEX fallback, got %s", dex.State)
	}

	_, plan, _ := s.handleGenerateMaintenancePlan(ctx, nil, EmptyArgs{})
	if plan.Kind != "maintenance_plan" || plan.State != "fallback" {
		t.Errorf("Expected maintenance fallback, got %s/%s", plan.Kind, plan.State)
	}

	_, tk, err := s.handleGetTicketSuggestion(ctx, nil, TicketArgs{TicketID: "t1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tk.Text != insight.FallbackTicketSuggestion("Cannot access internal wiki") {
		t.Errorf("Unexpected ticket fallback text: %s", tk.Text)
	}

	if _, _, err := s.handleGetTicketSuggestion(ctx, nil, TicketArgs{TicketID: "t99"}); err == nil {
		t.Error("Expected error for unknown ticket")
	}
}

func TestHandleInsightTools_Failure(t *testing.T) {
	s := newTestServer()
	s.insights = insight.NewRequester(insight.Config{Generator: &MockGenerator{Err: errors.New("quota")}})

	_, result, err := s.handleGenerateMaintenancePlan(context.Background(), nil, EmptyArgs{})
	if err != nil {
		t.Fatalf("Failures are reported in the result, got error: %v", err)
	}
	if result.State != "failed" || result.Text != "Error: Could not generate AI plan." {
		t.Errorf("Expected failed outcome, got %s: %s", result.State, result.Text)
	}
}

func TestHandleGetReportHistory(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	if _, _, err := s.handleGetReportHistory(ctx, nil, HistoryArgs{}); err == nil {
		t.Error("Expected error without history store")
	}

	reader := &MockReportReader{Reports: []relational.ReportSummary{
		{ReportID: "r1", Kind: "dex_report", State: "fallback", Body: "x", CreatedAt: now},
	}, Counts: map[string]int{"dex_report": 1}}
	s.history = reader

	_, result, err := s.handleGetReportHistory(ctx, nil, HistoryArgs{Kind: "dex_report", Limit: 5})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Reports) != 1 || result.Reports[0].CreatedAt != "2025-03-10T12:00:00Z" {
		t.Errorf("Unexpected reports: %+v", result.Reports)
	}
	if result.Counts["dex_report"] != 1 {
		t.Errorf("Expected dex_report count 1, got %v", result.Counts)
	}
	if reader.LastKind != "dex_report" || reader.LastLimit != 5 {
		t.Errorf("Expected kind/limit to be passed through, got %s/%d", reader.LastKind, reader.LastLimit)
	}

	if _, _, err := s.handleGetReportHistory(ctx, nil, HistoryArgs{Kind: "poem"}); err == nil {
		t.Error("Expected error for invalid kind")
	}

	reader.Err = errors.New("db closed")
	if _, _, err := s.handleGetReportHistory(ctx, nil, HistoryArgs{}); err == nil {
		t.Error("Expected error when reader fails")
	}
}

func TestHandleQueryGraph_Success(t *testing.T) {
	mockGraph := &MockGraphClient{
		CypherResult: []map[string]any{
			{"name": "Core Router", "status": "Online"},
		},
	}
	s := &Server{neo4jClient: mockGraph}

	_, result, err := s.handleQueryGraph(context.Background(), nil, QueryGraphArgs{Cypher: "MATCH (d:Device) RETURN d.name AS name"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(result.Rows))
	}
}

func TestHandleQueryGraph_Errors(t *testing.T) {
	ctx := context.Background()

	s := &Server{}
	if _, _, err := s.handleQueryGraph(ctx, nil, QueryGraphArgs{Cypher: "MATCH (n) RETURN n"}); err == nil {
		t.Error("Expected error without graph client")
	}

	mockGraph := &MockGraphClient{CypherErr: errors.New("cypher syntax error")}
	s.neo4jClient = mockGraph
	if _, _, err := s.handleQueryGraph(ctx, nil, QueryGraphArgs{Cypher: "INVALID CYPHER"}); err == nil {
		t.Error("Expected error for invalid cypher")
	}

	if _, _, err := s.handleQueryGraph(ctx, nil, QueryGraphArgs{Cypher: "MATCH (n) DETACH DELETE n"}); err == nil {
		t.Error("Expected error for write query")
	}
	if len(mockGraph.Queries) != 1 {
		t.Errorf("Write query must not reach the graph, got %d queries", len(mockGraph.Queries))
	}
}

func TestHandleAskTopology(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	if _, _, err := s.handleAskTopology(ctx, nil, AskTopologyArgs{Question: "?"}); err == nil {
		t.Error("Expected error without RAG engine")
	}

	g := &MockGraphClient{CypherResult: []map[string]any{{"name": "Core Router"}}}
	s.ragEngine = rag.NewGraphRAGEngine(g, &MockGenerator{Text: "MATCH (d:Device) RETURN d.name AS name"})

	_, result, err := s.handleAskTopology(ctx, nil, AskTopologyArgs{Question: "What is the core device?"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Cypher != "MATCH (d:Device) RETURN d.name AS name" {
		t.Errorf("Unexpected cypher: %s", result.Cypher)
	}
	if result.Answer == "" {
		t.Error("Expected an answer")
	}
}

func TestServerOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	srv, err := NewServer(Config{ServerName: "opsboard-test", ServerVersion: "0.0.1"}, Deps{
		Store:    inventory.NewStore(fixtures.Dataset(now)),
		Insights: insight.NewRequester(insight.Config{FallbackDelay: time.Millisecond}),
		Logger:   zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	if _, err := srv.MCP().Connect(ctx, serverTransport, nil); err != nil {
		t.Fatalf("server connect failed: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	if len(tools.Tools) != 9 {
		t.Errorf("Expected 9 tools, got %d", len(tools.Tools))
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "dashboard_summary", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("dashboard_summary returned an error result: %+v", res.Content)
	}

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "query_graph", Arguments: map[string]any{"cypher": "MATCH (n) RETURN n"}})
	if err == nil && !res.IsError {
		t.Error("Expected query_graph to fail without a graph client")
	}
}
