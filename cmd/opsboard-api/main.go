// Command opsboard-api serves the dashboard over HTTP and keeps the history
// store and graph mirror in sync until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"opsboard/internal/api"
	"opsboard/internal/bootstrap"
	"opsboard/internal/config"
	"opsboard/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "opsboard-api: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg = cfg.WithHTTPAddr(addr)
	}

	closer, err := logger.Init(logger.Config{Level: cfg.Log.Level, Debug: cfg.Log.Debug, Output: cfg.Log.Output})
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logger.WithComponent("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv, err := api.NewServer(api.Deps{
		Store:    rt.Store,
		Insights: rt.Insights,
		History:  rt.History,
		Checks:   &rt.Checks,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewRouter(srv),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return rt.Worker.Start(gctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
