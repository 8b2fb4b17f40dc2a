package normalizer

import (
	"errors"

	"healthpipe/internal/models"
)

// Validation errors.
var (
	// ErrMissingPatientName marks a record lacking patient identity. Such
	// records are rerouted to the rejected layer, not dropped.
	ErrMissingPatientName = errors.New("record has no patient name")
)

// Validator gates cleaned records on the attributes the gold layer cannot
// live without.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks whether a cleaned record may enter the silver layer.
func (v *Validator) Validate(rec *models.CleanedRecord) error {
	if !rec.HasPatientName() {
		return ErrMissingPatientName
	}

	return nil
}
