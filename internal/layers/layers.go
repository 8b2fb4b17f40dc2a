// Package layers persists pipeline snapshots as CSV files, one directory per
// data-quality layer. Each write fully overwrites the previous snapshot; there
// are no append semantics.
package layers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"healthpipe/internal/models"
)

// Snapshot access errors.
var (
	ErrRowWidth = errors.New("unexpected column count in snapshot row")
)

// Timestamp layouts used in layer files.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Provenance column appended after the contract columns.
const colBatchID = "batch_id"

// bronzeColumns is the bronze header: source columns plus provenance.
func bronzeColumns() []string {
	cols := append([]string{}, models.SourceColumns...)

	return append(cols, models.ColIngestionDate, models.ColSourceFile, colBatchID)
}

// SilverColumns is the silver (and rejected) header in contract order.
func SilverColumns() []string {
	return append([]string{}, models.SourceColumns...)
}

// Exists reports whether a snapshot file is present.
func Exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create layer directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	return f.Close()
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if len(records) == 0 {
		return nil, nil, nil
	}

	return records[0], records[1:], nil
}

// WriteBronze persists the raw snapshot.
func WriteBronze(path string, records []models.RawRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.PatientName,
			r.PatientDOB,
			r.Gender,
			r.DoctorName,
			r.Specialty,
			r.AppointmentAt,
			r.Location,
			r.Reason,
			r.Note,
			r.FollowUp,
			r.IngestionDate.Format(DateTimeLayout),
			r.SourceFile,
			r.BatchID,
		})
	}

	return writeCSV(path, bronzeColumns(), rows)
}

// ReadBronze loads the raw snapshot.
func ReadBronze(path string) ([]models.RawRecord, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	want := len(bronzeColumns())
	if len(header) != want {
		return nil, fmt.Errorf("%w: header has %d columns, want %d", ErrRowWidth, len(header), want)
	}

	records := make([]models.RawRecord, 0, len(rows))

	for i, row := range rows {
		if len(row) != want {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRowWidth, i+1, len(row), want)
		}

		ingested, err := time.Parse(DateTimeLayout, row[10])
		if err != nil {
			return nil, fmt.Errorf("row %d has invalid ingestion timestamp %q: %w", i+1, row[10], err)
		}

		records = append(records, models.RawRecord{
			PatientName:   row[0],
			PatientDOB:    row[1],
			Gender:        row[2],
			DoctorName:    row[3],
			Specialty:     row[4],
			AppointmentAt: row[5],
			Location:      row[6],
			Reason:        row[7],
			Note:          row[8],
			FollowUp:      row[9],
			IngestionDate: ingested,
			SourceFile:    row[11],
			BatchID:       row[12],
		})
	}

	return records, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(DateLayout)
}

func formatDateTime(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(DateTimeLayout)
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}

	if *b {
		return "true"
	}

	return "false"
}

func cleanedRow(r models.CleanedRecord) []string {
	gender := ""
	if r.Gender != nil {
		gender = *r.Gender
	}

	return []string{
		r.PatientName,
		formatDate(r.PatientDOB),
		gender,
		r.DoctorName,
		r.Specialty,
		formatDateTime(r.AppointmentAt),
		r.Location,
		r.Reason,
		r.Note,
		formatBool(r.FollowUp),
	}
}

// WriteSilver persists the cleaned snapshot.
func WriteSilver(path string, records []models.CleanedRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, cleanedRow(r))
	}

	return writeCSV(path, SilverColumns(), rows)
}

// WriteRejected persists the rejected records snapshot. It shares the silver
// shape.
func WriteRejected(path string, records []models.CleanedRecord) error {
	return WriteSilver(path, records)
}

// ReadSilver loads the cleaned snapshot.
func ReadSilver(path string) ([]models.CleanedRecord, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	want := len(SilverColumns())
	if len(header) != want {
		return nil, fmt.Errorf("%w: header has %d columns, want %d", ErrRowWidth, len(header), want)
	}

	records := make([]models.CleanedRecord, 0, len(rows))

	for i, row := range rows {
		if len(row) != want {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRowWidth, i+1, len(row), want)
		}

		rec := models.CleanedRecord{
			PatientName: row[0],
			DoctorName:  row[3],
			Specialty:   row[4],
			Location:    row[6],
			Reason:      row[7],
			Note:        row[8],
		}

		if row[1] != "" {
			if t, perr := time.Parse(DateLayout, row[1]); perr == nil {
				rec.PatientDOB = &t
			}
		}

		if row[2] != "" {
			gender := row[2]
			rec.Gender = &gender
		}

		if row[5] != "" {
			if t, perr := time.Parse(DateTimeLayout, row[5]); perr == nil {
				rec.AppointmentAt = &t
			}
		}

		if row[9] != "" {
			followUp := row[9] == "true"
			rec.FollowUp = &followUp
		}

		records = append(records, rec)
	}

	return records, nil
}
