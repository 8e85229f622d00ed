// Package topology projects devices and connections into a positioned
// node/edge graph for visualization, and applies interactive edits to it.
//
// The projection is a view: edits return new slices and never write back
// to the inventory.
package topology

import (
	"fmt"
	"slices"

	"opsboard/internal/inventory"
)

// Grid layout used by Project.
const (
	GridColumns   = 5
	ColumnSpacing = 250
	RowSpacing    = 200
)

// Position is a node's canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one device placed on the canvas.
type Node struct {
	ID       string           `json:"id"`
	Position Position         `json:"position"`
	Device   inventory.Device `json:"data"`
}

// Edge links two node ids. Endpoints are not validated.
type Edge struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	UserAdded bool   `json:"userAdded,omitempty"`
}

// Graph is the projected topology.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// GridPosition is the initial canvas position of the i-th device.
func GridPosition(i int) Position {
	return Position{
		X: float64((i % GridColumns) * ColumnSpacing),
		Y: float64((i / GridColumns) * RowSpacing),
	}
}

// EdgeID formats the id of the i-th edge.
func EdgeID(i int, source, target string) string {
	return fmt.Sprintf("e%d-%s-%s", i, source, target)
}

// Project builds one node per device on a 5-wide grid and one edge per
// connection, both in input order.
func Project(devices []inventory.Device, connections []inventory.Connection) Graph {
	nodes := make([]Node, len(devices))
	for i, d := range devices {
		nodes[i] = Node{ID: d.ID, Position: GridPosition(i), Device: d}
	}
	edges := make([]Edge, len(connections))
	for i, c := range connections {
		edges[i] = Edge{ID: EdgeID(i, c.Source, c.Target), Source: c.Source, Target: c.Target}
	}
	return Graph{Nodes: nodes, Edges: edges}
}

// ApplyNodePositionChange moves the node with the given id. An unknown id
// yields an unchanged copy.
func ApplyNodePositionChange(nodes []Node, id string, pos Position) []Node {
	out := slices.Clone(nodes)
	if out == nil {
		out = []Node{}
	}
	for i := range out {
		if out[i].ID == id {
			out[i].Position = pos
			break
		}
	}
	return out
}

// AddEdge appends a user-drawn edge. Edges only ever grow, so the index
// prefix keeps ids unique.
func AddEdge(edges []Edge, source, target string) []Edge {
	out := make([]Edge, 0, len(edges)+1)
	out = append(out, edges...)
	return append(out, Edge{
		ID:        EdgeID(len(edges), source, target),
		Source:    source,
		Target:    target,
		UserAdded: true,
	})
}

// SelectNode returns the device behind the node with the given id.
func SelectNode(nodes []Node, id string) (inventory.Device, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n.Device, true
		}
	}
	return inventory.Device{}, false
}

// DanglingEdges lists edges whose source or target is not a node in g.
func DanglingEdges(g Graph) []Edge {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}
	var out []Edge
	for _, e := range g.Edges {
		_, okS := ids[e.Source]
		_, okT := ids[e.Target]
		if !okS || !okT {
			out = append(out, e)
		}
	}
	return out
}

// Neighbors returns the devices directly linked to id, in edge order and
// without duplicates. Direction is ignored.
func Neighbors(g Graph, id string) []inventory.Device {
	seen := map[string]bool{id: true}
	out := []inventory.Device{}
	for _, e := range g.Edges {
		var other string
		switch id {
		case e.Source:
			other = e.Target
		case e.Target:
			other = e.Source
		default:
			continue
		}
		if seen[other] {
			continue
		}
		seen[other] = true
		if d, ok := SelectNode(g.Nodes, other); ok {
			out = append(out, d)
		}
	}
	return out
}
