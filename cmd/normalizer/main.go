// Package main provides the normalizer command-line tool for transforming
// the bronze snapshot into the silver and rejected layers.
package main

import (
	"flag"
	"fmt"
	"os"

	"healthpipe/internal/config"
	"healthpipe/internal/logger"
	"healthpipe/internal/normalizer"
	"healthpipe/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (optional; defaults apply)")
	flag.Parse()

	cfg := config.DefaultConfig()

	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}

		cfg = loaded
	}

	log := logger.NewLogger(cfg.Logging.Level)

	if err := pipeline.Layers(cfg, pipeline.StageNormalize); err != nil {
		log.Error("missing prerequisite stage output", "error", err)
		os.Exit(1)
	}

	cleaned, rejected, stats, err := normalizer.NewProcessor(cfg, log).Run()
	if err != nil {
		log.Error("normalization failed", "error", err)
		os.Exit(1)
	}

	log.Info("normalization complete",
		"input", stats.Input,
		"cleaned", len(cleaned),
		"rejected", len(rejected),
		"duplicates_removed", stats.DuplicatesRemoved)
}
