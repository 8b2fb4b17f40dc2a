// Package main provides the unified pipeline command that runs extraction,
// normalization, modeling, and the relational load in order.
package main

import (
	"flag"
	"fmt"
	"os"

	"healthpipe/internal/config"
	"healthpipe/internal/logger"
	"healthpipe/internal/pipeline"
	"healthpipe/internal/report"
)

func main() {
	inputPath := flag.String("input", "", "Path to the raw appointment export (CSV)")
	configPath := flag.String("config", "", "Path to YAML config (optional; defaults apply)")
	flag.Parse()

	cfg, err := resolveConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)

	if *inputPath == "" {
		log.Error("please provide an input file with -input")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Info("starting pipeline", "input", *inputPath, "output", cfg.Pipeline.OutputDir)

	results, entities, err := pipeline.NewRunner(cfg, log).Run(*inputPath)

	for i := range results {
		log.Info(pipeline.Describe(&results[i]))
	}

	if err != nil {
		log.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	log.Info("pipeline complete")

	fmt.Println()
	fmt.Print(report.RenderSummary(entities.Stats))
}

func resolveConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}

	return config.LoadConfig(path)
}
