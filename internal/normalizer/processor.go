// Package normalizer transforms the raw bronze snapshot into the cleaned
// silver layer: date repair and parsing, categorical standardization,
// deduplication, and the rejected-records split.
package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"healthpipe/internal/config"
	"healthpipe/internal/layers"
	"healthpipe/internal/logger"
	"healthpipe/internal/models"
)

// ErrBronzeMissing is returned when the bronze snapshot has not been
// produced yet.
var ErrBronzeMissing = errors.New("bronze snapshot not found")

// Stats summarizes one normalization pass.
type Stats struct {
	Input             int
	Cleaned           int
	Rejected          int
	DuplicatesRemoved int
}

// Processor handles the silver-stage transformation.
type Processor struct {
	transformer *Transformer
	validator   *Validator
	cfg         *config.Config
	log         *logger.Logger
}

// NewProcessor creates a new processor instance.
func NewProcessor(cfg *config.Config, log *logger.Logger) *Processor {
	return &Processor{
		transformer: NewTransformer(cfg.CorrectionMap(), log),
		validator:   NewValidator(),
		cfg:         cfg,
		log:         log,
	}
}

// Run reads the bronze snapshot, normalizes it, and persists the silver and
// rejected snapshots. The rejected snapshot is written only when non-empty.
func (p *Processor) Run() ([]models.CleanedRecord, []models.CleanedRecord, Stats, error) {
	if !layers.Exists(p.cfg.BronzePath()) {
		return nil, nil, Stats{}, fmt.Errorf("%w: %s", ErrBronzeMissing, p.cfg.BronzePath())
	}

	raw, err := layers.ReadBronze(p.cfg.BronzePath())
	if err != nil {
		return nil, nil, Stats{}, fmt.Errorf("failed to read bronze snapshot: %w", err)
	}

	cleaned, rejected, stats := p.Normalize(raw)

	if err := layers.WriteSilver(p.cfg.SilverPath(), cleaned); err != nil {
		return nil, nil, stats, fmt.Errorf("failed to persist silver snapshot: %w", err)
	}

	if len(rejected) > 0 {
		if err := layers.WriteRejected(p.cfg.RejectedPath(), rejected); err != nil {
			return nil, nil, stats, fmt.Errorf("failed to persist rejected snapshot: %w", err)
		}

		p.log.Info("rejected records written", "records", len(rejected), "path", p.cfg.RejectedPath())
	}

	p.log.Info("silver snapshot written",
		"records", stats.Cleaned,
		"rejected", stats.Rejected,
		"duplicates_removed", stats.DuplicatesRemoved,
		"path", p.cfg.SilverPath())

	return cleaned, rejected, stats, nil
}

// Normalize transforms raw records into cleaned and rejected sets. Records
// sharing an identical (patient name, date of birth, appointment timestamp)
// triple are deduplicated, keeping the first occurrence in source order.
func (p *Processor) Normalize(raw []models.RawRecord) ([]models.CleanedRecord, []models.CleanedRecord, Stats) {
	stats := Stats{Input: len(raw)}
	seen := make(map[string]bool, len(raw))

	var cleaned, rejected []models.CleanedRecord

	for _, r := range raw {
		rec := p.transformer.Transform(r)

		key := dedupKey(&rec)
		if seen[key] {
			stats.DuplicatesRemoved++

			continue
		}

		seen[key] = true

		if err := p.validator.Validate(&rec); err != nil {
			rejected = append(rejected, rec)

			continue
		}

		cleaned = append(cleaned, rec)
	}

	stats.Cleaned = len(cleaned)
	stats.Rejected = len(rejected)

	if stats.DuplicatesRemoved > 0 {
		p.log.Info("removed duplicate records", "count", stats.DuplicatesRemoved)
	}

	return cleaned, rejected, stats
}

// dedupKey builds the natural-key triple used for duplicate detection.
func dedupKey(rec *models.CleanedRecord) string {
	var sb strings.Builder

	sb.WriteString(rec.PatientName)
	sb.WriteByte('|')

	if rec.PatientDOB != nil {
		sb.WriteString(rec.PatientDOB.Format(layers.DateLayout))
	}

	sb.WriteByte('|')

	if rec.AppointmentAt != nil {
		sb.WriteString(rec.AppointmentAt.Format(layers.DateTimeLayout))
	}

	return sb.String()
}
