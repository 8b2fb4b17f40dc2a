// Package models defines the record and entity types flowing through the pipeline layers.
package models

import "time"

// Source column names. These are part of the compatibility surface for the
// downstream visualization consumer and are reproduced verbatim, misspellings
// included.
const (
	ColPatientName   = "Patient Name"
	ColPatientDOB    = "Patint DOB"
	ColPatientGender = "Patient Gendr"
	ColDoctorName    = "Doctor name"
	ColSpecialty     = "Doctor specialty"
	ColAppointmentAt = "Appointment date time"
	ColLocation      = "Appointment location"
	ColReason        = "Reason for visit"
	ColNote          = "Note"
	ColFollowUp      = "Follow up"

	// Provenance columns appended by the extractor.
	ColIngestionDate = "ingestion_date"
	ColSourceFile    = "source_file"
)

// SourceColumns lists the expected input columns in contract order.
var SourceColumns = []string{
	ColPatientName,
	ColPatientDOB,
	ColPatientGender,
	ColDoctorName,
	ColSpecialty,
	ColAppointmentAt,
	ColLocation,
	ColReason,
	ColNote,
	ColFollowUp,
}

// RawRecord is a verbatim ingested row plus provenance. Field values are kept
// exactly as read; no cleaning happens before the silver stage.
type RawRecord struct {
	PatientName   string
	PatientDOB    string
	Gender        string
	DoctorName    string
	Specialty     string
	AppointmentAt string
	Location      string
	Reason        string
	Note          string
	FollowUp      string

	IngestionDate time.Time
	SourceFile    string
	BatchID       string
}

// CleanedRecord is one silver row: an appointment with its patient and doctor
// attributes after date parsing, categorical standardization, trimming, and
// boolean coercion. Nullable attributes are pointers; nil serializes as an
// empty cell.
type CleanedRecord struct {
	PatientName   string
	PatientDOB    *time.Time
	Gender        *string
	DoctorName    string
	Specialty     string
	AppointmentAt *time.Time
	Location      string
	Reason        string
	Note          string
	FollowUp      *bool
}

// HasPatientName reports whether the record passed the identity gate.
// Records failing it belong in the rejected layer.
func (r *CleanedRecord) HasPatientName() bool {
	return r.PatientName != ""
}
