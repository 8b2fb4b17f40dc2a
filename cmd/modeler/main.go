// Package main provides the modeler command-line tool: derives the gold
// entities from the silver layer and performs the relational load.
package main

import (
	"flag"
	"fmt"
	"os"

	"healthpipe/internal/config"
	"healthpipe/internal/logger"
	"healthpipe/internal/modeler"
	"healthpipe/internal/pipeline"
	"healthpipe/internal/report"
	"healthpipe/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (optional; defaults apply)")
	skipLoad := flag.Bool("skip-load", false, "Derive and persist gold outputs without loading the database")
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

	if err := pipeline.Layers(cfg, pipeline.StageModel); err != nil {
		log.Error("missing prerequisite stage output", "error", err)
		os.Exit(1)
	}

	entities, err := modeler.New(cfg, log).Run()
	if err != nil {
		log.Error("modeling failed", "error", err)
		os.Exit(1)
	}

	if !*skipLoad {
		if err := loadEntities(cfg, log, entities); err != nil {
			log.Error("relational load failed", "error", err)
			os.Exit(1)
		}
	}

	fmt.Print(report.RenderSummary(entities.Stats))
}

func loadEntities(cfg *config.Config, log *logger.Logger, entities *modeler.Entities) error {
	db, err := store.New(&cfg.Database, log)
	if err != nil {
		return err
	}

	if err := db.Open(); err != nil {
		return err
	}
	defer db.Close()

	return db.Load(entities)
}
