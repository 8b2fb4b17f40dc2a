// Package extractor ingests the raw appointment export, repairs known
// malformed rows, tags provenance, and persists the bronze snapshot.
package extractor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"healthpipe/internal/config"
	"healthpipe/internal/layers"
	"healthpipe/internal/logger"
	"healthpipe/internal/models"
	"healthpipe/pkg/provenance"
	"healthpipe/pkg/utils"
)

// Extraction errors.
var (
	ErrInputNotFound = errors.New("input file not found")
	ErrNoRecords     = errors.New("no usable rows after repair")
	ErrMissingColumn = errors.New("expected column missing from header")
)

// Extractor handles raw file ingestion.
type Extractor struct {
	cfg *config.Config
	log *logger.Logger
}

// New creates a new extractor instance.
func New(cfg *config.Config, log *logger.Logger) *Extractor {
	return &Extractor{cfg: cfg, log: log}
}

// Extract ingests the file at inputPath, repairs split-field rows, stamps
// provenance, persists the bronze snapshot, and returns the raw records.
func (e *Extractor) Extract(inputPath string) ([]models.RawRecord, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
		}

		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRecords, inputPath)
	}

	header := rows[0]

	idx, err := bindColumns(header)
	if err != nil {
		return nil, err
	}

	dtIdx, ok := columnIndex(header, e.cfg.Pipeline.DateTimeColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, e.cfg.Pipeline.DateTimeColumn)
	}

	batch := provenance.NewBatch(inputPath)
	width := len(header)

	records := make([]models.RawRecord, 0, len(rows)-1)
	skipped := 0

	for i, row := range rows[1:] {
		row = e.repairRow(row, width, dtIdx, i+2)
		if len(row) != width {
			e.log.Warn("skipping malformed row", "line", i+2, "fields", len(row), "want", width)
			skipped++

			continue
		}

		records = append(records, models.RawRecord{
			PatientName:   row[idx[models.ColPatientName]],
			PatientDOB:    row[idx[models.ColPatientDOB]],
			Gender:        row[idx[models.ColPatientGender]],
			DoctorName:    row[idx[models.ColDoctorName]],
			Specialty:     row[idx[models.ColSpecialty]],
			AppointmentAt: row[idx[models.ColAppointmentAt]],
			Location:      row[idx[models.ColLocation]],
			Reason:        row[idx[models.ColReason]],
			Note:          row[idx[models.ColNote]],
			FollowUp:      row[idx[models.ColFollowUp]],
			IngestionDate: batch.IngestedAt,
			SourceFile:    batch.SourceFile,
			BatchID:       batch.ID,
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRecords, inputPath)
	}

	e.reportMissing(records)

	if err := layers.WriteBronze(e.cfg.BronzePath(), records); err != nil {
		return nil, fmt.Errorf("failed to persist bronze snapshot: %w", err)
	}

	e.log.Info("bronze snapshot written",
		"records", len(records),
		"skipped", skipped,
		"batch", batch.ID,
		"path", e.cfg.BronzePath())

	return records, nil
}

// repairRow reconstructs a row whose field count exceeds the schema width by
// one, caused by an unescaped delimiter inside the compound date/time value.
// The two fields split at the date-time column are merged back together. This
// is a narrow, pattern-specific repair, not general CSV error recovery.
func (e *Extractor) repairRow(row []string, width, dtIdx, line int) []string {
	if len(row) != width+1 || dtIdx+1 >= len(row) {
		return row
	}

	merged := utils.NormalizeWhitespace(row[dtIdx] + " " + row[dtIdx+1])

	repaired := make([]string, 0, width)
	repaired = append(repaired, row[:dtIdx]...)
	repaired = append(repaired, merged)
	repaired = append(repaired, row[dtIdx+2:]...)

	e.log.Info("repaired split-field row", "line", line, "merged", merged)

	return repaired
}

// reportMissing logs a warning per column that has missing values. Missing
// values alone never fail extraction.
func (e *Extractor) reportMissing(records []models.RawRecord) {
	counts := make(map[string]int, len(models.SourceColumns))

	for _, r := range records {
		values := map[string]string{
			models.ColPatientName:   r.PatientName,
			models.ColPatientDOB:    r.PatientDOB,
			models.ColPatientGender: r.Gender,
			models.ColDoctorName:    r.DoctorName,
			models.ColSpecialty:     r.Specialty,
			models.ColAppointmentAt: r.AppointmentAt,
			models.ColLocation:      r.Location,
			models.ColReason:        r.Reason,
			models.ColNote:          r.Note,
			models.ColFollowUp:      r.FollowUp,
		}

		for col, v := range values {
			if strings.TrimSpace(v) == "" {
				counts[col]++
			}
		}
	}

	for _, col := range models.SourceColumns {
		if counts[col] > 0 {
			e.log.Warn("column has missing values", "column", col, "missing", counts[col])
		}
	}
}

func bindColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(models.SourceColumns))

	for _, col := range models.SourceColumns {
		i, ok := columnIndex(header, col)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}

		idx[col] = i
	}

	return idx, nil
}

func columnIndex(header []string, name string) (int, bool) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, true
		}
	}

	return 0, false
}
