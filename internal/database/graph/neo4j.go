// Package graph mirrors the projected topology into Neo4j so it can be
// queried with Cypher.
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"opsboard/internal/topology"
)

// GraphClient defines the interface for graph database operations.
type GraphClient interface {
	Close(ctx context.Context) error
	Reset(ctx context.Context) error
	SyncTopology(ctx context.Context, g topology.Graph) error
	ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error)
}

// Neo4jClient implements GraphClient for Neo4j.
type Neo4jClient struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewNeo4jClient connects and verifies connectivity within five seconds.
func NewNeo4jClient(ctx context.Context, uri, username, password, dbName string) (*Neo4jClient, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Neo4jClient{
		driver: driver,
		dbName: dbName,
	}, nil
}

func (c *Neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func (c *Neo4jClient) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
}

// EnsureSchema creates the device id uniqueness constraint.
func (c *Neo4jClient) EnsureSchema(ctx context.Context) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `CREATE CONSTRAINT device_id IF NOT EXISTS FOR (d:Device) REQUIRE d.device_id IS UNIQUE`, nil)
	if err != nil {
		return fmt.Errorf("create constraint: %w", err)
	}
	_, err = res.Consume(ctx)
	return err
}

// Reset deletes all mirrored devices and their links.
func (c *Neo4jClient) Reset(ctx context.Context) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (d:Device) DETACH DELETE d", nil)
	})
	return err
}

// SyncTopology makes the graph match g in a single transaction. Devices not
// in g are removed, all links are rebuilt, and edges whose endpoints are
// missing are skipped.
func (c *Neo4jClient) SyncTopology(ctx context.Context, g topology.Graph) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		steps := []struct {
			query  string
			params map[string]any
		}{
			{pruneDevicesQuery, map[string]any{"ids": nodeIDs(g.Nodes)}},
			{mergeDevicesQuery, map[string]any{"devices": deviceParams(g.Nodes)}},
			{dropLinksQuery, nil},
			{mergeLinksQuery, map[string]any{"edges": edgeParams(g.Edges)}},
		}
		for _, s := range steps {
			if _, err := tx.Run(ctx, s.query, s.params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("sync topology: %w", err)
	}
	return nil
}

const (
	pruneDevicesQuery = `
		MATCH (d:Device)
		WHERE NOT d.device_id IN $ids
		DETACH DELETE d
	`
	mergeDevicesQuery = `
		UNWIND $devices AS dev
		MERGE (d:Device {device_id: dev.device_id})
		SET d += dev
	`
	dropLinksQuery = `
		MATCH (:Device)-[r:CONNECTS_TO]->(:Device)
		DELETE r
	`
	mergeLinksQuery = `
		UNWIND $edges AS e
		MATCH (a:Device {device_id: e.source})
		MATCH (b:Device {device_id: e.target})
		MERGE (a)-[r:CONNECTS_TO {edge_id: e.edge_id}]->(b)
		SET r.user_added = e.user_added
	`
)

func nodeIDs(nodes []topology.Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// deviceParams flattens nodes into Neo4j property maps.
func deviceParams(nodes []topology.Node) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		d := n.Device
		out = append(out, map[string]any{
			"device_id":   n.ID,
			"name":        d.Name,
			"ip_address":  d.IPAddress,
			"mac_address": d.MACAddress,
			"type":        string(d.Type),
			"status":      string(d.Status),
			"location":    d.Location,
			"os":          d.OS,
			"last_seen":   d.LastSeen.UTC().Format(time.RFC3339),
			"x":           n.Position.X,
			"y":           n.Position.Y,
		})
	}
	return out
}

func edgeParams(edges []topology.Edge) []map[string]any {
	out := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		out = append(out, map[string]any{
			"edge_id":    e.ID,
			"source":     e.Source,
			"target":     e.Target,
			"user_added": e.UserAdded,
		})
	}
	return out
}
