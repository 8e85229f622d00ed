// Package config loads OpsBoard settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"opsboard/internal/insight"
)

// Config contains every tunable of the OpsBoard binaries.
// Use Default() to get sensible defaults, then override as needed.
type Config struct {
	Gemini   GeminiConfig   `yaml:"gemini"`
	Insight  InsightConfig  `yaml:"insight"`
	DuckDB   DuckDBConfig   `yaml:"duckdb"`
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	Sync     SyncConfig     `yaml:"sync"`
	HTTP     HTTPConfig     `yaml:"http"`
	MCP      MCPConfig      `yaml:"mcp"`
	Log      LogConfig      `yaml:"log"`
	Fixtures FixturesConfig `yaml:"fixtures"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // key from insight.AvailableModels or a full model name
}

// Configured reports whether a usable API key is present. An empty key or
// the sample placeholder both count as absent.
func (g GeminiConfig) Configured() bool {
	return insight.HasAPIKey(g.APIKey)
}

type InsightConfig struct {
	FallbackDelay time.Duration `yaml:"fallback_delay"`
}

type DuckDBConfig struct {
	Path          string `yaml:"path"` // empty means in-memory
	Threads       int    `yaml:"threads"`
	MemoryLimitGB int    `yaml:"memory_limit_gb"`
}

type Neo4jConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type MCPConfig struct {
	ServerName    string `yaml:"server_name"`
	ServerVersion string `yaml:"server_version"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Debug  bool   `yaml:"debug"`
	Output string `yaml:"output"` // stdout, stderr, discard, or a file path
}

type FixturesConfig struct {
	Seed uint64 `yaml:"seed"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Gemini:  GeminiConfig{Model: insight.DefaultModelKey},
		Insight: InsightConfig{FallbackDelay: insight.DefaultFallbackDelay},
		Neo4j: Neo4jConfig{
			URI:      "neo4j://localhost:7687",
			User:     "neo4j",
			Database: "neo4j",
		},
		Sync:     SyncConfig{Interval: 30 * time.Second},
		HTTP:     HTTPConfig{Addr: "127.0.0.1:8080"},
		MCP:      MCPConfig{ServerName: "opsboard", ServerVersion: "1.0.0"},
		Log:      LogConfig{Level: "info", Output: "stderr"},
		Fixtures: FixturesConfig{Seed: 1},
	}
}

// WithAPIKey returns a copy of the config with a Gemini API key.
func (c Config) WithAPIKey(key string) Config {
	c.Gemini.APIKey = key
	return c
}

// WithModel returns a copy of the config with a Gemini model key.
func (c Config) WithModel(model string) Config {
	c.Gemini.Model = model
	return c
}

// WithFallbackDelay returns a copy of the config with a new fallback delay.
func (c Config) WithFallbackDelay(d time.Duration) Config {
	c.Insight.FallbackDelay = d
	return c
}

// WithDuckDBPath returns a copy of the config with a DuckDB file path.
func (c Config) WithDuckDBPath(path string) Config {
	c.DuckDB.Path = path
	return c
}

// WithNeo4j returns a copy of the config with Neo4j enabled at uri.
func (c Config) WithNeo4j(uri, user, password string) Config {
	c.Neo4j.Enabled = true
	c.Neo4j.URI = uri
	c.Neo4j.User = user
	c.Neo4j.Password = password
	return c
}

// WithSyncInterval returns a copy of the config with a new sync interval.
func (c Config) WithSyncInterval(d time.Duration) Config {
	c.Sync.Interval = d
	return c
}

// WithHTTPAddr returns a copy of the config with a new listen address.
func (c Config) WithHTTPAddr(addr string) Config {
	c.HTTP.Addr = addr
	return c
}

// WithLogOutput returns a copy of the config with a new log destination.
func (c Config) WithLogOutput(out string) Config {
	c.Log.Output = out
	return c
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.Insight.FallbackDelay <= 0 {
		return &ConfigError{Field: "Insight.FallbackDelay", Message: "must be positive"}
	}
	if c.Sync.Interval <= 0 {
		return &ConfigError{Field: "Sync.Interval", Message: "must be positive"}
	}
	if c.DuckDB.Threads < 0 {
		return &ConfigError{Field: "DuckDB.Threads", Message: "must not be negative"}
	}
	if c.DuckDB.MemoryLimitGB < 0 {
		return &ConfigError{Field: "DuckDB.MemoryLimitGB", Message: "must not be negative"}
	}
	if c.Neo4j.Enabled && c.Neo4j.URI == "" {
		return &ConfigError{Field: "Neo4j.URI", Message: "must not be empty when neo4j is enabled"}
	}
	if c.HTTP.Addr == "" {
		return &ConfigError{Field: "HTTP.Addr", Message: "must not be empty"}
	}
	if c.MCP.ServerName == "" {
		return &ConfigError{Field: "MCP.ServerName", Message: "must not be empty"}
	}
	if !validLogLevels[c.Log.Level] {
		return &ConfigError{Field: "Log.Level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and environment overrides, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: cannot read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: cannot parse %q: %w", path, err)
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto cfg using lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	str(&cfg.Gemini.APIKey, "GEMINI_API_KEY", "API_KEY")
	str(&cfg.Gemini.Model, "GEMINI_MODEL")
	str(&cfg.DuckDB.Path, "DUCKDB_PATH")
	str(&cfg.Neo4j.User, "NEO4J_USER")
	str(&cfg.Neo4j.Password, "NEO4J_PASSWORD")
	str(&cfg.Neo4j.Database, "NEO4J_DATABASE")
	str(&cfg.HTTP.Addr, "OPSBOARD_HTTP_ADDR")
	str(&cfg.Log.Level, "OPSBOARD_LOG_LEVEL")
	str(&cfg.Log.Output, "OPSBOARD_LOG_OUTPUT")

	if v, ok := lookup("NEO4J_URI"); ok && v != "" {
		cfg.Neo4j.URI = v
		cfg.Neo4j.Enabled = true
	}

	var errs []error
	if v, ok := lookup("OPSBOARD_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: OPSBOARD_SEED: %w", err))
		} else {
			cfg.Fixtures.Seed = seed
		}
	}
	if v, ok := lookup("OPSBOARD_SYNC_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: OPSBOARD_SYNC_INTERVAL: %w", err))
		} else {
			cfg.Sync.Interval = d
		}
	}
	return errors.Join(errs...)
}

// applyDefaults fills zero-valued optional fields left empty by a YAML file.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = def.Gemini.Model
	}
	if cfg.Insight.FallbackDelay == 0 {
		cfg.Insight.FallbackDelay = def.Insight.FallbackDelay
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = def.Sync.Interval
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = def.HTTP.Addr
	}
	if cfg.MCP.ServerName == "" {
		cfg.MCP.ServerName = def.MCP.ServerName
	}
	if cfg.MCP.ServerVersion == "" {
		cfg.MCP.ServerVersion = def.MCP.ServerVersion
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = def.Log.Output
	}
	if cfg.Neo4j.Database == "" {
		cfg.Neo4j.Database = def.Neo4j.Database
	}
}
