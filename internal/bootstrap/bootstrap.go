// Package bootstrap assembles the OpsBoard runtime from a Config. All three
// binaries share it so they agree on how storage, the graph mirror and the
// insight backend are wired.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"opsboard/internal/config"
	"opsboard/internal/database"
	"opsboard/internal/database/graph"
	"opsboard/internal/database/rag"
	"opsboard/internal/database/relational"
	"opsboard/internal/engine"
	"opsboard/internal/fixtures"
	"opsboard/internal/insight"
	"opsboard/internal/inventory"
)

// Runtime holds every long-lived component. Graph, RAG and Gemini are nil
// when their backend is not configured or could not be reached.
type Runtime struct {
	Config   config.Config
	Store    *inventory.Store
	Insights *insight.Requester
	DuckDB   *relational.DuckDBClient
	History  *relational.Repo
	Graph    graph.GraphClient
	RAG      *rag.GraphRAGEngine
	Worker   *database.SyncWorker
	Checks   engine.Config

	gemini *insight.GeminiGenerator
	log    zerolog.Logger
}

// Open builds a Runtime. A missing Gemini key or an unreachable Neo4j are
// logged and degrade the runtime; a DuckDB failure is fatal.
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Runtime, error) {
	rt := &Runtime{Config: cfg, Checks: engine.DefaultConfig(), log: log}

	seed := cfg.Fixtures.Seed
	if seed == 0 {
		seed = fixtures.DefaultSeed
	}
	rt.Store = inventory.NewStore(fixtures.New(seed, time.Now()).Dataset())

	duck, err := relational.Open(cfg.DuckDB.Path,
		relational.WithThreads(cfg.DuckDB.Threads),
		relational.WithMemoryLimit(cfg.DuckDB.MemoryLimitGB),
		relational.WithTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	rt.DuckDB = duck
	rt.History = duck.Repo()
	log.Info().Bool("in_memory", duck.InMemory()).Msg("history store opened")
	if err := rt.History.Migrate(ctx); err != nil {
		_ = duck.Close()
		return nil, fmt.Errorf("bootstrap: migrate: %w", err)
	}

	var gen insight.Generator
	if cfg.Gemini.Configured() {
		g, err := insight.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Warn().Err(err).Msg("gemini unavailable, using canned reports")
		} else {
			rt.gemini = g
			gen = g
			log.Info().Str("model", g.Model().Name).Msg("gemini configured")
		}
	} else {
		log.Info().Msg("no API key configured, using canned reports")
	}

	insightLog := log.With().Str("component", "insight").Logger()
	rt.Insights = insight.NewRequester(insight.Config{
		Generator:     gen,
		FallbackDelay: cfg.Insight.FallbackDelay,
		Logger:        &insightLog,
		Recorder:      rt.History,
	})

	if cfg.Neo4j.Enabled {
		client, err := graph.NewNeo4jClient(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database)
		if err != nil {
			log.Warn().Err(err).Str("uri", cfg.Neo4j.URI).Msg("neo4j unavailable, graph mirror disabled")
		} else if err := client.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("neo4j schema setup failed, graph mirror disabled")
			_ = client.Close(ctx)
		} else {
			rt.Graph = client
			rt.RAG = rag.NewGraphRAGEngine(client, gen)
		}
	}

	worker, err := database.NewSyncWorker(rt.Store, rt.History, rt.Graph,
		database.WithInterval(cfg.Sync.Interval),
		database.WithLogger(log.With().Str("component", "sync").Logger()),
		database.WithChecks(rt.Checks),
	)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	rt.Worker = worker

	return rt, nil
}

// Close stops the worker and releases every backend. It is safe to call on a
// partially built Runtime.
func (rt *Runtime) Close() error {
	if rt.Worker != nil {
		rt.Worker.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if rt.Graph != nil {
		errs = append(errs, rt.Graph.Close(ctx))
	}
	if rt.gemini != nil {
		errs = append(errs, rt.gemini.Close())
	}
	if rt.DuckDB != nil {
		errs = append(errs, rt.DuckDB.Close())
	}
	return errors.Join(errs...)
}
