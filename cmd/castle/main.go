package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"castle/internal/config"
	"castle/internal/desktop"
	"castle/internal/logging"
	"castle/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", "", "path to castle.yaml (default $"+config.EnvConfig+")")
	seed := flag.Uint64("seed", 0, "scene seed; 0 keeps the configured one")
	level := flag.String("log-level", "", "trace, debug, info, warn or error")
	flag.Parse()

	if err := run(*cfgPath, *seed, *level); err != nil {
		fmt.Fprintf(os.Stderr, "castle: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string, seed uint64, level string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Scene.Seed = seed
	}
	if level != "" {
		cfg.Log.Level = level
	}
	lvl, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logging.Setup(os.Stderr, lvl)

	var exp *metrics.Exporter
	if cfg.Metrics.Addr != "" {
		exp = metrics.NewExporter()
		exp.Serve(cfg.Metrics.Addr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := exp.Shutdown(ctx); err != nil {
				logging.For("main").Warn("metrics shutdown: %v", err)
			}
		}()
	}

	return desktop.Run(cfg, exp)
}
