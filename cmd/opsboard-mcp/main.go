// Command opsboard-mcp serves the OpsBoard tools over MCP on stdio.
// Logs go to stderr so they never corrupt the protocol stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"opsboard/internal/bootstrap"
	"opsboard/internal/config"
	"opsboard/internal/logger"
	"opsboard/internal/mcpserver"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "opsboard-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Log.Output == "stdout" {
		cfg = cfg.WithLogOutput("stderr")
	}

	closer, err := logger.Init(logger.Config{Level: cfg.Log.Level, Debug: cfg.Log.Debug, Output: cfg.Log.Output})
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logger.WithComponent("mcp")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Worker.Start(ctx); err != nil {
		return err
	}

	srv, err := mcpserver.NewServer(mcpserver.Config{
		ServerName:    cfg.MCP.ServerName,
		ServerVersion: cfg.MCP.ServerVersion,
	}, mcpserver.Deps{
		Store:    rt.Store,
		Insights: rt.Insights,
		History:  rt.History,
		Graph:    rt.Graph,
		RAG:      rt.RAG,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
