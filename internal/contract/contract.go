// Package contract verifies that persisted layer files honor the fixed
// column contract consumed by downstream readers.
package contract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"healthpipe/internal/layers"
	"healthpipe/internal/models"
)

// Contract violations.
var (
	ErrFileMissing    = errors.New("layer file missing")
	ErrEmptyFile      = errors.New("layer file has no header")
	ErrColumnCount    = errors.New("unexpected column count")
	ErrColumnMismatch = errors.New("column name mismatch")
	ErrUnknownLayer   = errors.New("unknown layer")
)

// Layer names verifiable against the contract.
const (
	Bronze           = "bronze"
	Silver           = "silver"
	Rejected         = "rejected"
	GoldPatients     = "patients"
	GoldDoctors      = "doctors"
	GoldAppointments = "appointments"
	GoldSummary      = "summary_stats"
)

// ExpectedColumns returns the contract header for a layer.
func ExpectedColumns(layer string) ([]string, error) {
	switch layer {
	case Bronze:
		cols := append([]string{}, models.SourceColumns...)

		return append(cols, models.ColIngestionDate, models.ColSourceFile, "batch_id"), nil
	case Silver, Rejected:
		return layers.SilverColumns(), nil
	case GoldPatients:
		return layers.PatientColumns, nil
	case GoldDoctors:
		return layers.DoctorColumns, nil
	case GoldAppointments:
		return layers.AppointmentColumns, nil
	case GoldSummary:
		return layers.SummaryColumns, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, layer)
	}
}

// VerifyLayer re-opens a written layer file and checks its header column
// names and order against the compatibility surface.
func VerifyLayer(path, layer string) error {
	expected, err := ExpectedColumns(layer)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileMissing, path)
		}

		return fmt.Errorf("failed to open layer file: %w", err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s", ErrEmptyFile, path)
		}

		return fmt.Errorf("failed to read header: %w", err)
	}

	if len(header) != len(expected) {
		return fmt.Errorf("%w: %s has %d columns, want %d", ErrColumnCount, path, len(header), len(expected))
	}

	for i, col := range expected {
		if header[i] != col {
			return fmt.Errorf("%w: %s column %d is %q, want %q", ErrColumnMismatch, path, i, header[i], col)
		}
	}

	return nil
}
