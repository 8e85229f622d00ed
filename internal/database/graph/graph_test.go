package graph

import (
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsboard/internal/fixtures"
	"opsboard/internal/topology"
)

func TestReadOnly(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"MATCH (d:Device) RETURN d.name", true},
		{"MATCH (a)-[:CONNECTS_TO]->(b) RETURN a, b LIMIT 5", true},
		{"match (d:Device {status: 'Offline'}) return count(d)", true},
		{"MATCH (d) DETACH DELETE d", false},
		{"CREATE (d:Device {device_id: 'x'})", false},
		{"MATCH (d:Device) set d.name = 'x'", false},
		{"MERGE (d:Device {device_id: 'x'})", false},
		{"DROP CONSTRAINT device_id", false},
		{"MATCH (d:Device) WHERE d.name = 'Asset' RETURN d", true},
	}
	for _, tt := range tests {
		if got := ReadOnly(tt.query); got != tt.want {
			t.Errorf("ReadOnly(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestDeviceParams(t *testing.T) {
	data := fixtures.Dataset(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	g := topology.Project(data.Devices, data.Connections)

	params := deviceParams(g.Nodes)
	require.Len(t, params, len(data.Devices))

	sixth := params[5]
	assert.Equal(t, "d6", sixth["device_id"])
	assert.Equal(t, 0.0, sixth["x"])
	assert.Equal(t, 200.0, sixth["y"])
	assert.Equal(t, string(data.Devices[5].Status), sixth["status"])
	assert.Equal(t, data.Devices[5].LastSeen.UTC().Format(time.RFC3339), sixth["last_seen"])

	assert.Equal(t, []string{"d1", "d2", "d3", "d4", "d5", "d6", "d7", "d8", "d9"}, nodeIDs(g.Nodes))
}

func TestEdgeParams(t *testing.T) {
	edges := topology.AddEdge([]topology.Edge{{ID: "e0-d1-d2", Source: "d1", Target: "d2"}}, "d2", "d9")
	params := edgeParams(edges)

	require.Len(t, params, 2)
	assert.Equal(t, map[string]any{"edge_id": "e0-d1-d2", "source": "d1", "target": "d2", "user_added": false}, params[0])
	assert.Equal(t, true, params[1]["user_added"])
	assert.Equal(t, "e1-d2-d9", params[1]["edge_id"])

	assert.Empty(t, edgeParams(nil))
	assert.NotNil(t, deviceParams(nil))
}

func TestConvertNeo4jValue(t *testing.T) {
	node := neo4j.Node{ElementId: "4:abc:1", Labels: []string{"Device"}, Props: map[string]any{"name": "Core Router"}}
	rel := neo4j.Relationship{ElementId: "5:abc:2", Type: "CONNECTS_TO", StartElementId: "4:abc:1", EndElementId: "4:abc:3"}

	got := convertNeo4jValue([]any{node, rel, int64(7)})
	list, ok := got.([]any)
	require.True(t, ok)
	require.Len(t, list, 3)

	n := list[0].(map[string]any)
	assert.Equal(t, []string{"Device"}, n["labels"])
	assert.Equal(t, "4:abc:1", n["id"])

	r := list[1].(map[string]any)
	assert.Equal(t, "CONNECTS_TO", r["type"])
	assert.Equal(t, "4:abc:3", r["endNode"])
	assert.Equal(t, int64(7), list[2])

	path := convertNeo4jValue(neo4j.Path{Nodes: []neo4j.Node{node}, Relationships: []neo4j.Relationship{rel}}).(map[string]any)
	assert.Len(t, path["nodes"], 1)
	assert.Len(t, path["relationships"], 1)
}
