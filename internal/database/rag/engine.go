// Package rag answers natural-language questions about the network topology
// by generating Cypher against the Neo4j mirror and summarising the rows.
package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"opsboard/internal/database/graph"
	"opsboard/internal/insight"
)

// ErrUnavailable is returned when no text generator is configured.
var ErrUnavailable = errors.New("rag: text generation is not configured")

// overviewCypher is used when the generated query fails or matches nothing.
const overviewCypher = `
	MATCH (d:Device)
	OPTIONAL MATCH (d)-[:CONNECTS_TO]-(n:Device)
	WITH d, collect(DISTINCT n.name) AS neighbors
	RETURN d.device_id AS id,
	       d.name AS name,
	       d.type AS type,
	       d.status AS status,
	       d.location AS location,
	       neighbors
	ORDER BY id
	LIMIT 25
`

const schemaDescription = `Graph Schema:
- Nodes: Device
- Relationships:
  - (Device)-[:CONNECTS_TO]->(Device)

Device properties: device_id, name, ip_address, mac_address, type (Server, Router, Switch, Laptop, Desktop, Firewall), status (Online, Offline, Warning, Maintenance), location, os, last_seen, x, y
CONNECTS_TO properties: edge_id, user_added`

// GraphRAGEngine handles retrieval augmented generation over the topology graph.
type GraphRAGEngine struct {
	graph graph.GraphClient
	gen   insight.Generator
}

// NewGraphRAGEngine constructs an engine over a graph client and a text
// generator. gen may be nil, in which case Query reports ErrUnavailable.
func NewGraphRAGEngine(g graph.GraphClient, gen insight.Generator) *GraphRAGEngine {
	return &GraphRAGEngine{graph: g, gen: gen}
}

// Result carries the answer and the query that produced its context.
type Result struct {
	Answer string           `json:"answer"`
	Cypher string           `json:"cypher"`
	Rows   []map[string]any `json:"rows"`
}

// Query performs a GraphRAG search over the mirrored topology.
func (e *GraphRAGEngine) Query(ctx context.Context, question string) (*Result, error) {
	if e.gen == nil {
		return nil, ErrUnavailable
	}
	if e.graph == nil {
		return nil, errors.New("rag: graph database is not configured")
	}

	// Step 1: question -> Cypher
	cypher, err := e.generateCypher(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to generate cypher: %w", err)
	}

	// Step 2: retrieve the subgraph, falling back to a device overview
	rows, err := e.graph.ExecuteCypher(ctx, cypher)
	if err != nil || len(rows) == 0 {
		cypher = strings.TrimSpace(overviewCypher)
		rows, err = e.graph.ExecuteCypher(ctx, cypher)
		if err != nil {
			return nil, fmt.Errorf("failed to execute graph query: %w", err)
		}
	}

	// Step 3: rows -> answer
	answer, err := e.synthesizeAnswer(ctx, question, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize answer: %w", err)
	}

	return &Result{Answer: answer, Cypher: cypher, Rows: rows}, nil
}

func (e *GraphRAGEngine) generateCypher(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(`You are a Neo4j Cypher query expert. Convert the following question into a read-only Cypher query for an IT network topology graph.

%s

Question: %s

Return ONLY the Cypher query, no explanation. Limit results to 10.`, schemaDescription, question)

	text, err := e.gen.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	return cleanCypherQuery(text), nil
}

func (e *GraphRAGEngine) synthesizeAnswer(ctx context.Context, question string, rows []map[string]any) (string, error) {
	graphJSON, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are a network operations expert. Answer the following question based on the graph database results.

Question: %s

Graph Data (from Neo4j):
%s

Provide a clear, concise answer explaining:
1. What the data shows
2. Which devices are affected
3. Recommended actions if relevant

If the graph data is empty or insufficient, say so clearly.`, question, string(graphJSON))

	answer, err := e.gen.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "Unable to generate response from the available data.", nil
	}
	return answer, nil
}

// cleanCypherQuery removes markdown code fences from a generated query.
func cleanCypherQuery(query string) string {
	query = strings.TrimSpace(query)
	query = strings.TrimPrefix(query, "```cypher")
	query = strings.TrimPrefix(query, "```")
	query = strings.TrimSuffix(query, "```")
	return strings.TrimSpace(query)
}
