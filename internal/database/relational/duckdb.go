// Package relational keeps insight and metric history in DuckDB.
package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb" // Register DuckDB driver
)

var errNotOpen = errors.New("duckdb: database not open")

// DatabaseConfig holds configuration options for the database.
type DatabaseConfig struct {
	Threads       int           // 0 keeps the DuckDB default
	MemoryLimitGB int           // 0 keeps the DuckDB default
	Timeout       time.Duration // bounds the initial ping, 0 = none
}

// =============================================================================
// DUCKDB CLIENT
// =============================================================================

// DuckDBClient owns the connection to an embedded DuckDB database.
type DuckDBClient struct {
	db     *sql.DB
	dsn    string
	config DatabaseConfig
}

// DuckDBOption configures the DuckDB client.
type DuckDBOption func(*DuckDBClient)

// WithThreads sets the number of DuckDB threads.
func WithThreads(n int) DuckDBOption {
	return func(c *DuckDBClient) { c.config.Threads = n }
}

// WithMemoryLimit sets the DuckDB memory limit in GB.
func WithMemoryLimit(gb int) DuckDBOption {
	return func(c *DuckDBClient) { c.config.MemoryLimitGB = gb }
}

// WithTimeout bounds the connectivity check done by Open.
func WithTimeout(d time.Duration) DuckDBOption {
	return func(c *DuckDBClient) { c.config.Timeout = d }
}

// Open connects to the DuckDB file at path, or to a private in-memory
// database when path is empty or ":memory:".
func Open(path string, opts ...DuckDBOption) (*DuckDBClient, error) {
	client := &DuckDBClient{dsn: path}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.dsn == "" {
		client.dsn = ":memory:"
	}

	db, err := sql.Open("duckdb", client.dsn)
	if err != nil {
		return nil, fmt.Errorf("duckdb: open %s: %w", client.dsn, err)
	}

	ctx := context.Background()
	if client.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, client.config.Timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("duckdb: ping: %w", err)
	}

	// One writer at a time; DuckDB serialises writes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	client.db = db

	if err := client.Configure(client.config); err != nil {
		_ = db.Close()
		return nil, err
	}
	return client, nil
}

// DB returns the underlying sql.DB instance.
func (c *DuckDBClient) DB() *sql.DB {
	return c.db
}

// InMemory reports whether the database lives only in this process.
func (c *DuckDBClient) InMemory() bool {
	return c.dsn == ":memory:"
}

// Close releases database resources.
func (c *DuckDBClient) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Configure applies threads and memory pragmas.
func (c *DuckDBClient) Configure(cfg DatabaseConfig) error {
	if c.db == nil {
		return errNotOpen
	}
	if cfg.Threads > 0 {
		if _, err := c.db.Exec(fmt.Sprintf("PRAGMA threads=%d", cfg.Threads)); err != nil {
			return fmt.Errorf("duckdb: setting threads: %w", err)
		}
	}
	if cfg.MemoryLimitGB > 0 {
		if _, err := c.db.Exec(fmt.Sprintf("PRAGMA memory_limit='%dGB'", cfg.MemoryLimitGB)); err != nil {
			return fmt.Errorf("duckdb: setting memory limit: %w", err)
		}
	}
	c.config = cfg
	return nil
}

// Ping verifies database connectivity.
func (c *DuckDBClient) Ping(ctx context.Context) error {
	if c.db == nil {
		return errNotOpen
	}
	return c.db.PingContext(ctx)
}

// Repo returns a history repository over this connection.
func (c *DuckDBClient) Repo() *Repo {
	return NewRepo(c.db)
}
