// Package database keeps the history store and the graph mirror in step
// with the dashboard dataset.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"opsboard/internal/database/graph"
	"opsboard/internal/database/relational"
	"opsboard/internal/engine"
	"opsboard/internal/output"
)

const (
	defaultPollInterval = 30 * time.Second
	graphPushTimeout    = 30 * time.Second
)

// SyncWorker periodically snapshots the dataset, stores its metric series in
// DuckDB and mirrors its topology into the graph database.
type SyncWorker struct {
	source      output.DataSource
	samples     relational.SampleWriter
	graphClient graph.GraphClient
	checks      engine.Config
	interval    time.Duration
	log         zerolog.Logger
	now         func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	last    *output.Payload
	wg      sync.WaitGroup
	pushMu  sync.Mutex
}

// Option configures a SyncWorker.
type Option func(*SyncWorker)

func WithInterval(d time.Duration) Option {
	return func(w *SyncWorker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(w *SyncWorker) { w.log = l }
}

func WithChecks(cfg engine.Config) Option {
	return func(w *SyncWorker) { w.checks = cfg }
}

// NewSyncWorker creates a worker. The graph client may be nil when Neo4j is
// not configured.
func NewSyncWorker(src output.DataSource, samples relational.SampleWriter, g graph.GraphClient, opts ...Option) (*SyncWorker, error) {
	if src == nil || samples == nil {
		return nil, errors.New("data source and sample writer are required")
	}
	w := &SyncWorker{
		source:      src,
		samples:     samples,
		graphClient: g,
		checks:      engine.DefaultConfig(),
		interval:    defaultPollInterval,
		log:         zerolog.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start runs one cycle immediately and then one per interval until Stop or
// ctx is cancelled.
func (w *SyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("worker already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

// Stop cancels the loop, waits for in-flight graph pushes and clears the
// mirror.
func (w *SyncWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.running = false
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()

	if w.graphClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.graphClient.Reset(ctx); err != nil {
			w.log.Warn().Err(err).Msg("graph reset failed")
		}
	}
}

// PullOnce executes a single sync cycle immediately.
func (w *SyncWorker) PullOnce(ctx context.Context) error {
	return w.execute(ctx)
}

// Last returns the payload of the most recent successful cycle, or nil.
func (w *SyncWorker) Last() *output.Payload {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func (w *SyncWorker) loop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.execute(ctx); err != nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("sync cycle failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *SyncWorker) execute(ctx context.Context) error {
	payload := output.BuildPayload(w.source, w.checks, w.now())

	if err := w.samples.InsertSamples(ctx, relational.SeriesCPU, payload.Data.CPUUsage); err != nil {
		return fmt.Errorf("persist cpu series: %w", err)
	}
	if err := w.samples.InsertSamples(ctx, relational.SeriesLatency, payload.Data.NetworkLatency); err != nil {
		return fmt.Errorf("persist latency series: %w", err)
	}

	w.mu.Lock()
	w.last = payload
	w.mu.Unlock()

	w.log.Debug().
		Int("devices", len(payload.Graph.Nodes)).
		Int("edges", len(payload.Graph.Edges)).
		Str("overall", engine.Worst(payload.Checks)).
		Msg("sync cycle complete")

	// Push to the graph asynchronously; the push outlives a cancelled cycle
	// but not its own timeout.
	if w.graphClient != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.pushMu.Lock()
			defer w.pushMu.Unlock()

			pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), graphPushTimeout)
			defer cancel()
			if err := w.graphClient.SyncTopology(pushCtx, payload.Graph); err != nil {
				w.log.Error().Err(err).Msg("graph sync failed")
			}
		}()
	}

	return nil
}
