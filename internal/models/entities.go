package models

import "time"

// Patient is a gold entity, unique by (name, date of birth). PatientID is a
// deterministic content hash of the natural key, so the same patient receives
// the same id on every run.
type Patient struct {
	PatientID string     `gorm:"primaryKey;type:varchar(32)"`
	Name      string     `gorm:"column:patient_name;type:varchar(100)"`
	DOB       *time.Time `gorm:"column:date_of_birth"`
	Gender    *string    `gorm:"column:gender;type:varchar(10)"`
}

// Doctor is a gold entity, unique by (name, specialty). Ids are a dense
// sequence assigned in first-seen order within a run; they are not stable
// across runs.
type Doctor struct {
	DoctorID  uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"column:doctor_name;type:varchar(100)"`
	Specialty string `gorm:"column:specialty;type:varchar(50)"`
}

// Appointment references exactly one Patient and one Doctor.
type Appointment struct {
	AppointmentID uint       `gorm:"primaryKey;autoIncrement"`
	PatientID     string     `gorm:"type:varchar(32);index"`
	Patient       *Patient   `gorm:"foreignKey:PatientID;references:PatientID"`
	DoctorID      uint       `gorm:"index"`
	Doctor        *Doctor    `gorm:"foreignKey:DoctorID;references:DoctorID"`
	AppointmentAt *time.Time `gorm:"column:appointment_datetime"`
	Location      string     `gorm:"type:varchar(200)"`
	Reason        string     `gorm:"type:varchar(200)"`
	Notes         string     `gorm:"type:varchar(500)"`
	FollowUp      *bool      `gorm:"column:follow_up"`
}

// SummaryStats is the per-run aggregate over the gold entities. It is derived
// output, not relational state.
type SummaryStats struct {
	TotalPatients     int
	TotalDoctors      int
	TotalAppointments int
	Specialties       []string
	DateRange         string
	FollowUpRatio     string
}
