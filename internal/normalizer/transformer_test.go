package normalizer

import (
	"testing"
	"time"

	"healthpipe/internal/config"
	"healthpipe/internal/logger"
	"healthpipe/internal/models"
)

func newTestTransformer() *Transformer {
	return NewTransformer(config.DefaultConfig().CorrectionMap(), logger.NewNop())
}

func TestTransformer_ParseDate_Formats(t *testing.T) {
	tr := newTestTransformer()

	tests := []struct {
		input string
		want  time.Time
	}{
		{"15/03/1980", time.Date(1980, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"1980/03/15", time.Date(1980, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15-03-1980 10:00", time.Date(1980, 3, 15, 10, 0, 0, 0, time.UTC)},
		{"15 March 1980 10:00 AM", time.Date(1980, 3, 15, 10, 0, 0, 0, time.UTC)},
		{"15 Mar 1980", time.Date(1980, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"1980.03.15", time.Date(1980, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"01 Jan 1970", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
		// Day-first fails here (month 15), so the month-first fallback
		// must produce the same calendar date as "15/03/1988" day-first.
		{"03/15/1988", time.Date(1988, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2021/06/02 2:15 PM", time.Date(2021, 6, 2, 14, 15, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := tr.ParseDate(tt.input)
			if got == nil {
				t.Fatalf("ParseDate(%q) = nil, want %v", tt.input, tt.want)
			}

			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, *got, tt.want)
			}
		})
	}
}

func TestTransformer_ParseDate_Corrections(t *testing.T) {
	tr := newTestTransformer()

	// Impossible calendar date corrected to the last valid day.
	got := tr.ParseDate("30 Feb 1980")
	if got == nil || !got.Equal(time.Date(1980, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate(30 Feb 1980) = %v, want 1980-02-28", got)
	}

	got = tr.ParseDate("31/04/2000")
	if got == nil || !got.Equal(time.Date(2000, 4, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate(31/04/2000) = %v, want 2000-04-30", got)
	}

	got = tr.ParseDate("31-04-2021 10:00 AM")
	if got == nil || !got.Equal(time.Date(2021, 4, 30, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate(31-04-2021 10:00 AM) = %v, want 2021-04-30 10:00", got)
	}
}

func TestTransformer_ParseDate_Nulls(t *testing.T) {
	tr := newTestTransformer()

	tests := []string{"", "   ", "Unknown", "unknown", "UNKNOWN", "not a date", "99/99/9999"}
	for _, input := range tests {
		if got := tr.ParseDate(input); got != nil {
			t.Errorf("ParseDate(%q) = %v, want nil", input, *got)
		}
	}
}

func TestTransformer_NormalizeGender(t *testing.T) {
	tr := newTestTransformer()

	tests := []struct {
		input string
		want  string // "" means nil
	}{
		{"M", GenderMale},
		{"m", GenderMale},
		{"Male", GenderMale},
		{"MALE", GenderMale},
		{"F", GenderFemale},
		{"f", GenderFemale},
		{"Female", GenderFemale},
		{"NULL", ""},
		{"null", ""},
		{"", ""},
		{"other", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := tr.NormalizeGender(tt.input)

			if tt.want == "" {
				if got != nil {
					t.Errorf("NormalizeGender(%q) = %q, want nil", tt.input, *got)
				}

				return
			}

			if got == nil || *got != tt.want {
				t.Errorf("NormalizeGender(%q) = %v, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTransformer_CoerceBool(t *testing.T) {
	tr := newTestTransformer()

	truthy := []string{"yes", "Yes", "YES", "true", "TRUE"}
	for _, input := range truthy {
		got := tr.CoerceBool(input)
		if got == nil || !*got {
			t.Errorf("CoerceBool(%q) = %v, want true", input, got)
		}
	}

	falsy := []string{"no", "No", "false", "FALSE"}
	for _, input := range falsy {
		got := tr.CoerceBool(input)
		if got == nil || *got {
			t.Errorf("CoerceBool(%q) = %v, want false", input, got)
		}
	}

	null := []string{"", "maybe", "1", "null"}
	for _, input := range null {
		if got := tr.CoerceBool(input); got != nil {
			t.Errorf("CoerceBool(%q) = %v, want nil", input, *got)
		}
	}
}

func TestTransformer_Transform_BlanksNullTokens(t *testing.T) {
	tr := newTestTransformer()

	// Textual null markers in free-text fields must become empty cells,
	// not survive as literal "NULL"/"nan" strings.
	raw := models.RawRecord{
		PatientName:   "Dan Field",
		PatientDOB:    "15/03/1988",
		Gender:        "m",
		DoctorName:    "null",
		Specialty:     "NaN",
		AppointmentAt: "01-06-2021 09:30",
		Location:      "NULL",
		Reason:        " nan ",
		Note:          "NULL",
		FollowUp:      "yes",
	}

	rec := tr.Transform(raw)

	if rec.DoctorName != "" {
		t.Errorf("DoctorName = %q, want empty", rec.DoctorName)
	}

	if rec.Specialty != "" {
		t.Errorf("Specialty = %q, want empty", rec.Specialty)
	}

	if rec.Location != "" {
		t.Errorf("Location = %q, want empty", rec.Location)
	}

	if rec.Reason != "" {
		t.Errorf("Reason = %q, want empty", rec.Reason)
	}

	if rec.Note != "" {
		t.Errorf("Note = %q, want empty", rec.Note)
	}

	if rec.PatientName != "Dan Field" {
		t.Errorf("PatientName = %q, want Dan Field", rec.PatientName)
	}
}

func TestTransformer_Transform_TrimsText(t *testing.T) {
	tr := newTestTransformer()

	raw := models.RawRecord{
		PatientName:   "  Mike Miller  ",
		PatientDOB:    "01 Jan 1970",
		Gender:        "m",
		DoctorName:    " Dr. Adams ",
		Specialty:     " Cardiology",
		AppointmentAt: "15/03/2021 10:00 AM",
		Location:      "Main Clinic ",
		Reason:        " Follow-up",
		Note:          " Recovering ",
		FollowUp:      "yes",
	}

	rec := tr.Transform(raw)

	if rec.PatientName != "Mike Miller" {
		t.Errorf("PatientName = %q, want Mike Miller", rec.PatientName)
	}

	if rec.DoctorName != "Dr. Adams" || rec.Specialty != "Cardiology" {
		t.Errorf("doctor fields not trimmed: %q / %q", rec.DoctorName, rec.Specialty)
	}

	if rec.Gender == nil || *rec.Gender != GenderMale {
		t.Errorf("Gender = %v, want Male", rec.Gender)
	}

	if rec.FollowUp == nil || !*rec.FollowUp {
		t.Errorf("FollowUp = %v, want true", rec.FollowUp)
	}

	if rec.AppointmentAt == nil {
		t.Error("AppointmentAt = nil, want parsed timestamp")
	}
}
