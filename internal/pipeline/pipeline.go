// Package pipeline orchestrates the extract, normalize, model, and load
// stages. Each stage reads the previous stage's persisted snapshot rather
// than an in-memory handoff, so intermediate layers can be inspected and
// individual stages rerun.
package pipeline

import (
	"fmt"
	"time"

	"healthpipe/internal/config"
	"healthpipe/internal/contract"
	"healthpipe/internal/extractor"
	"healthpipe/internal/layers"
	"healthpipe/internal/logger"
	"healthpipe/internal/modeler"
	"healthpipe/internal/normalizer"
	"healthpipe/internal/store"
)

// Stage names in execution order.
const (
	StageExtract   = "extract"
	StageNormalize = "normalize"
	StageModel     = "model"
	StageLoad      = "load"
)

// StageResult reports one stage's outcome. Field-level anomalies are absorbed
// inside the stage; StageResult carries only stage-level failures.
type StageResult struct {
	Stage    string
	Records  int
	Duration time.Duration
	Err      error
}

// Failed reports whether the stage aborted the run.
func (r *StageResult) Failed() bool {
	return r.Err != nil
}

// Runner executes the full pipeline.
type Runner struct {
	cfg *config.Config
	log *logger.Logger
}

// NewRunner creates a new pipeline runner.
func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run executes all stages in order over the given input file and propagates
// the first failure. There is no partial-stage resume; a failed run is
// re-invoked from the start once the underlying condition is fixed.
func (r *Runner) Run(inputPath string) ([]StageResult, *modeler.Entities, error) {
	var results []StageResult

	// Stage 1: extract to bronze.
	start := time.Now()

	rawRecords, err := extractor.New(r.cfg, r.log).Extract(inputPath)
	if err == nil {
		err = contract.VerifyLayer(r.cfg.BronzePath(), contract.Bronze)
	}

	results = append(results, StageResult{
		Stage:    StageExtract,
		Records:  len(rawRecords),
		Duration: time.Since(start),
		Err:      err,
	})

	if err != nil {
		return results, nil, fmt.Errorf("extract stage failed: %w", err)
	}

	// Stage 2: normalize to silver, split rejected.
	start = time.Now()

	cleaned, _, stats, err := normalizer.NewProcessor(r.cfg, r.log).Run()
	if err == nil {
		err = contract.VerifyLayer(r.cfg.SilverPath(), contract.Silver)
	}

	if err == nil && stats.Rejected > 0 {
		err = contract.VerifyLayer(r.cfg.RejectedPath(), contract.Rejected)
	}

	results = append(results, StageResult{
		Stage:    StageNormalize,
		Records:  len(cleaned),
		Duration: time.Since(start),
		Err:      err,
	})

	if err != nil {
		return results, nil, fmt.Errorf("normalize stage failed: %w", err)
	}

	// Stage 3: model the gold entities.
	start = time.Now()

	entities, err := modeler.New(r.cfg, r.log).Run()
	if err == nil {
		err = r.verifyGold()
	}

	appointments := 0
	if entities != nil {
		appointments = len(entities.Appointments)
	}

	results = append(results, StageResult{
		Stage:    StageModel,
		Records:  appointments,
		Duration: time.Since(start),
		Err:      err,
	})

	if err != nil {
		return results, nil, fmt.Errorf("model stage failed: %w", err)
	}

	// Stage 4: full-replace load.
	start = time.Now()
	err = r.load(entities)

	results = append(results, StageResult{
		Stage:    StageLoad,
		Records:  appointments,
		Duration: time.Since(start),
		Err:      err,
	})

	if err != nil {
		return results, nil, fmt.Errorf("load stage failed: %w", err)
	}

	return results, entities, nil
}

// load acquires the store connection for the duration of the load only.
func (r *Runner) load(entities *modeler.Entities) error {
	db, err := store.New(&r.cfg.Database, r.log)
	if err != nil {
		return err
	}

	if err := db.Open(); err != nil {
		return err
	}
	defer db.Close()

	return db.Load(entities)
}

func (r *Runner) verifyGold() error {
	for _, layer := range []string{
		contract.GoldPatients,
		contract.GoldDoctors,
		contract.GoldAppointments,
		contract.GoldSummary,
	} {
		if err := contract.VerifyLayer(r.cfg.GoldPath(layer), layer); err != nil {
			return err
		}
	}

	return nil
}

// Describe returns a one-line human summary of a stage result.
func Describe(result *StageResult) string {
	if result.Failed() {
		return fmt.Sprintf("%s: failed after %v: %v", result.Stage, result.Duration, result.Err)
	}

	return fmt.Sprintf("%s: %d records in %v", result.Stage, result.Records, result.Duration)
}

// Layers returns whether all prerequisite snapshots for a stage exist; used
// by the single-stage commands to produce clear missing-prerequisite errors.
func Layers(cfg *config.Config, stage string) error {
	switch stage {
	case StageNormalize:
		if !layers.Exists(cfg.BronzePath()) {
			return fmt.Errorf("%w: %s", normalizer.ErrBronzeMissing, cfg.BronzePath())
		}
	case StageModel, StageLoad:
		if !layers.Exists(cfg.SilverPath()) {
			return fmt.Errorf("%w: %s", modeler.ErrSilverMissing, cfg.SilverPath())
		}
	}

	return nil
}
