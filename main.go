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
	"opsboard/ui/console"
	"opsboard/ui/tui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	once := flag.Bool("once", false, "print a one-shot report and exit")
	flag.Parse()

	if err := run(*configPath, *once); err != nil {
		fmt.Fprintf(os.Stderr, "opsboard: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, once bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// The TUI owns the terminal; only file logging survives it.
	if !once && (cfg.Log.Output == "stderr" || cfg.Log.Output == "stdout") {
		cfg = cfg.WithLogOutput("discard")
	}

	closer, err := logger.Init(logger.Config{Level: cfg.Log.Level, Debug: cfg.Log.Debug, Output: cfg.Log.Output})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, cfg, logger.WithComponent("opsboard"))
	if err != nil {
		return err
	}
	defer rt.Close()

	if once {
		if err := rt.Worker.PullOnce(ctx); err != nil {
			return err
		}
		console.Print(os.Stdout, rt.Worker.Last().Dashboard(), rt.Store.Devices())
		return nil
	}

	if err := rt.Worker.Start(ctx); err != nil {
		return err
	}
	return tui.Start(ctx, rt.Store, rt.Insights, rt.Checks)
}
