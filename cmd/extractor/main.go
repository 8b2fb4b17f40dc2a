// Package main provides the extractor command-line tool for ingesting the
// raw export into the bronze layer.
package main

import (
	"flag"
	"fmt"
	"os"

	"healthpipe/internal/config"
	"healthpipe/internal/extractor"
	"healthpipe/internal/logger"
)

func main() {
	inputPath := flag.String("input", "", "Path to the raw appointment export (CSV)")
	configPath := flag.String("config", "", "Path to YAML config (optional; defaults apply)")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: extractor -input <export.csv> [-config <config.yaml>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

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

	records, err := extractor.New(cfg, log).Extract(*inputPath)
	if err != nil {
		log.Error("extraction failed", "error", err)
		os.Exit(1)
	}

	log.Info("extraction complete", "records", len(records), "bronze", cfg.BronzePath())
}
