package normalizer

import (
	"strings"
	"time"

	"healthpipe/internal/logger"
	"healthpipe/internal/models"
	"healthpipe/pkg/utils"
)

// Canonical gender values.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// dayFirstLayouts are tried first; the source locale is predominantly
// day-first. Year-first and unambiguous layouts live here too.
var dayFirstLayouts = []string{
	"2006/01/02",
	"02-01-2006",
	"02 Jan 2006",
	"02 January 2006",
	"2006.01.02",
	"02/01/2006",
	"02.01.2006",
	"02-01-2006 15:04",
	"02/01/2006 15:04",
	"2006/01/02 3:04 PM",
	"2006/01/02 15:04",
	"02 January 2006 3:04 PM",
	"02 Jan 2006 3:04 PM",
	"02/01/2006 3:04 PM",
	"02-01-2006 3:04 PM",
	"02.01.2006 15:04",
}

// monthFirstLayouts are the fallback interpretation for values the day-first
// pass rejects (e.g. "03/15/2021").
var monthFirstLayouts = []string{
	"01/02/2006",
	"01-02-2006",
	"Jan 02 2006",
	"January 02 2006",
	"01/02/2006 15:04",
	"01-02-2006 15:04",
	"01/02/2006 3:04 PM",
	"01-02-2006 3:04 PM",
	"January 02 2006 3:04 PM",
}

// genderTokens maps case-insensitive source tokens to canonical values.
var genderTokens = map[string]string{
	"m":      GenderMale,
	"male":   GenderMale,
	"f":      GenderFemale,
	"female": GenderFemale,
}

// followUpTokens maps case-insensitive textual variants to booleans.
var followUpTokens = map[string]bool{
	"yes":   true,
	"true":  true,
	"no":    false,
	"false": false,
}

// Transformer applies field-level repairs and standardization to one record
// at a time. Unparseable fields become explicit nulls, never errors.
type Transformer struct {
	corrections map[string]string
	log         *logger.Logger
}

// NewTransformer creates a transformer with the given correction table. The
// table maps known-bad literals to corrected literals; an empty replacement
// removes the value.
func NewTransformer(corrections map[string]string, log *logger.Logger) *Transformer {
	return &Transformer{
		corrections: corrections,
		log:         log,
	}
}

// Transform converts one raw record into its cleaned form.
func (t *Transformer) Transform(raw models.RawRecord) models.CleanedRecord {
	return models.CleanedRecord{
		PatientName:   t.cleanText(raw.PatientName),
		PatientDOB:    t.ParseDate(raw.PatientDOB),
		Gender:        t.NormalizeGender(raw.Gender),
		DoctorName:    t.cleanText(raw.DoctorName),
		Specialty:     t.cleanText(raw.Specialty),
		AppointmentAt: t.ParseDate(raw.AppointmentAt),
		Location:      t.cleanText(raw.Location),
		Reason:        t.cleanText(raw.Reason),
		Note:          t.cleanText(raw.Note),
		FollowUp:      t.CoerceBool(raw.FollowUp),
	}
}

// cleanText trims a free-text field and blanks explicit null tokens. The
// patient name passes through here too, so the identity gate sees "NULL"
// and blank uniformly.
func (t *Transformer) cleanText(value string) string {
	if utils.IsNullToken(value) {
		return ""
	}

	return utils.CleanText(value)
}

// Correct applies the exact-literal correction table. The second return is
// false when the value was removed.
func (t *Transformer) Correct(value string) (string, bool) {
	replacement, ok := t.corrections[value]
	if !ok {
		return value, true
	}

	if replacement == "" {
		return "", false
	}

	t.log.Debug("applied date correction", "from", value, "to", replacement)

	return replacement, true
}

// ParseDate repairs and parses a date-bearing value. It attempts a day-first
// interpretation first, falling back to month-first. Missing values, the
// literal "unknown", and values unparseable under both interpretations
// become nil.
func (t *Transformer) ParseDate(value string) *time.Time {
	value = utils.CleanText(value)

	value, keep := t.Correct(value)
	if !keep {
		return nil
	}

	if value == "" || strings.EqualFold(value, "unknown") {
		return nil
	}

	for _, layout := range dayFirstLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}

	for _, layout := range monthFirstLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}

	t.log.Warn("could not parse date", "value", value)

	return nil
}

// NormalizeGender maps gender tokens to the two canonical values. An explicit
// null token and unrecognized tokens both become nil.
func (t *Transformer) NormalizeGender(value string) *string {
	if utils.IsNullToken(value) {
		return nil
	}

	canonical, ok := genderTokens[strings.ToLower(utils.CleanText(value))]
	if !ok {
		t.log.Warn("unrecognized gender token", "value", value)

		return nil
	}

	return &canonical
}

// CoerceBool normalizes the follow-up field from yes/no/true/false variants.
// Any other value becomes nil.
func (t *Transformer) CoerceBool(value string) *bool {
	if utils.IsNullToken(value) {
		return nil
	}

	b, ok := followUpTokens[strings.ToLower(utils.CleanText(value))]
	if !ok {
		return nil
	}

	return &b
}
