// Package modeler derives the normalized gold entities from the silver layer
// and computes the per-run summary statistics.
package modeler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"healthpipe/internal/config"
	"healthpipe/internal/layers"
	"healthpipe/internal/logger"
	"healthpipe/internal/models"
	"healthpipe/pkg/provenance"
)

// Modeling errors.
var (
	ErrSilverMissing = errors.New("silver snapshot not found")
	ErrNoRecords     = errors.New("no cleaned records to model")
	// ErrJoinMiss indicates a cleaned record failed to join the derived
	// entity sets. By construction this cannot happen; surfacing it loudly
	// marks a defect rather than handling it silently.
	ErrJoinMiss = errors.New("cleaned record failed to join derived entities")
)

// Entities holds the derived gold entity sets for one run.
type Entities struct {
	Patients     []models.Patient
	Doctors      []models.Doctor
	Appointments []models.Appointment
	Stats        *models.SummaryStats
}

// Modeler handles the gold-stage derivation.
type Modeler struct {
	cfg *config.Config
	log *logger.Logger
}

// New creates a new modeler instance.
func New(cfg *config.Config, log *logger.Logger) *Modeler {
	return &Modeler{cfg: cfg, log: log}
}

// Run reads the silver snapshot, derives the gold entities, and persists the
// normalized tabular outputs.
func (m *Modeler) Run() (*Entities, error) {
	if !layers.Exists(m.cfg.SilverPath()) {
		return nil, fmt.Errorf("%w: %s", ErrSilverMissing, m.cfg.SilverPath())
	}

	records, err := layers.ReadSilver(m.cfg.SilverPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read silver snapshot: %w", err)
	}

	entities, err := m.Model(records)
	if err != nil {
		return nil, err
	}

	if err := m.persist(entities); err != nil {
		return nil, err
	}

	m.log.Info("gold layer written",
		"patients", len(entities.Patients),
		"doctors", len(entities.Doctors),
		"appointments", len(entities.Appointments),
		"dir", m.cfg.GoldDir())

	return entities, nil
}

// Model derives patients, doctors, and appointments from cleaned records and
// computes the summary statistics.
func (m *Modeler) Model(records []models.CleanedRecord) (*Entities, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	patients, patientByKey := derivePatients(records)
	doctors, doctorByKey := deriveDoctors(records)

	appointments := make([]models.Appointment, 0, len(records))

	for i := range records {
		rec := &records[i]

		patient, ok := patientByKey[patientKey(rec)]
		if !ok {
			return nil, fmt.Errorf("%w: patient %q", ErrJoinMiss, rec.PatientName)
		}

		doctor, ok := doctorByKey[doctorKey(rec.DoctorName, rec.Specialty)]
		if !ok {
			return nil, fmt.Errorf("%w: doctor %q", ErrJoinMiss, rec.DoctorName)
		}

		appointments = append(appointments, models.Appointment{
			PatientID:     patient.PatientID,
			DoctorID:      doctor.DoctorID,
			AppointmentAt: rec.AppointmentAt,
			Location:      rec.Location,
			Reason:        rec.Reason,
			Notes:         rec.Note,
			FollowUp:      rec.FollowUp,
		})
	}

	return &Entities{
		Patients:     patients,
		Doctors:      doctors,
		Appointments: appointments,
		Stats:        summarize(patients, doctors, appointments),
	}, nil
}

// derivePatients returns the distinct (name, dob, gender) triples in
// first-seen order. The patient id is a deterministic digest of the natural
// key, stable across runs. The digest covers only (name, dob), so two triples
// differing solely in gender share an id and the load fails on the duplicate
// primary key; such records indicate conflicting source data that needs a
// correction rule, not silent merging.
func derivePatients(records []models.CleanedRecord) ([]models.Patient, map[string]models.Patient) {
	var patients []models.Patient

	byKey := make(map[string]models.Patient)

	for i := range records {
		rec := &records[i]

		key := patientKey(rec)
		if _, ok := byKey[key]; ok {
			continue
		}

		patient := models.Patient{
			PatientID: provenance.IdentityHash(rec.PatientName, rec.PatientDOB),
			Name:      rec.PatientName,
			DOB:       rec.PatientDOB,
			Gender:    rec.Gender,
		}
		patients = append(patients, patient)
		byKey[key] = patient
	}

	return patients, byKey
}

// deriveDoctors returns the distinct (name, specialty) pairs with dense
// sequential ids assigned in first-seen order within the run.
func deriveDoctors(records []models.CleanedRecord) ([]models.Doctor, map[string]models.Doctor) {
	var doctors []models.Doctor

	byKey := make(map[string]models.Doctor)

	for i := range records {
		rec := &records[i]

		key := doctorKey(rec.DoctorName, rec.Specialty)
		if _, ok := byKey[key]; ok {
			continue
		}

		doctor := models.Doctor{
			DoctorID:  uint(len(doctors) + 1),
			Name:      rec.DoctorName,
			Specialty: rec.Specialty,
		}
		doctors = append(doctors, doctor)
		byKey[key] = doctor
	}

	return doctors, byKey
}

func summarize(patients []models.Patient, doctors []models.Doctor, appointments []models.Appointment) *models.SummaryStats {
	var specialties []string

	seen := make(map[string]bool)

	for _, d := range doctors {
		if !seen[d.Specialty] {
			seen[d.Specialty] = true

			specialties = append(specialties, d.Specialty)
		}
	}

	var minAt, maxAt *time.Time

	followUps := 0

	for i := range appointments {
		a := &appointments[i]

		if a.FollowUp != nil && *a.FollowUp {
			followUps++
		}

		if a.AppointmentAt == nil {
			continue
		}

		if minAt == nil || a.AppointmentAt.Before(*minAt) {
			minAt = a.AppointmentAt
		}

		if maxAt == nil || a.AppointmentAt.After(*maxAt) {
			maxAt = a.AppointmentAt
		}
	}

	dateRange := ""
	if minAt != nil && maxAt != nil {
		dateRange = minAt.Format(layers.DateLayout) + " to " + maxAt.Format(layers.DateLayout)
	}

	return &models.SummaryStats{
		TotalPatients:     len(patients),
		TotalDoctors:      len(doctors),
		TotalAppointments: len(appointments),
		Specialties:       specialties,
		DateRange:         dateRange,
		FollowUpRatio:     strconv.Itoa(followUps) + "/" + strconv.Itoa(len(appointments)),
	}
}

func (m *Modeler) persist(entities *Entities) error {
	if err := layers.WriteGoldPatients(m.cfg.GoldPath("patients"), entities.Patients); err != nil {
		return fmt.Errorf("failed to persist patients: %w", err)
	}

	if err := layers.WriteGoldDoctors(m.cfg.GoldPath("doctors"), entities.Doctors); err != nil {
		return fmt.Errorf("failed to persist doctors: %w", err)
	}

	if err := layers.WriteGoldAppointments(m.cfg.GoldPath("appointments"), entities.Appointments); err != nil {
		return fmt.Errorf("failed to persist appointments: %w", err)
	}

	if err := layers.WriteSummaryStats(m.cfg.GoldPath("summary_stats"), entities.Stats); err != nil {
		return fmt.Errorf("failed to persist summary stats: %w", err)
	}

	return nil
}

func patientKey(rec *models.CleanedRecord) string {
	var sb strings.Builder

	sb.WriteString(rec.PatientName)
	sb.WriteByte('|')

	if rec.PatientDOB != nil {
		sb.WriteString(rec.PatientDOB.Format(layers.DateLayout))
	}

	sb.WriteByte('|')

	if rec.Gender != nil {
		sb.WriteString(*rec.Gender)
	}

	return sb.String()
}

func doctorKey(name, specialty string) string {
	return name + "|" + specialty
}
