package layers

import (
	"strconv"
	"strings"

	"healthpipe/internal/models"
)

// Gold output headers. Column names are part of the compatibility surface for
// the downstream visualization consumer.
var (
	PatientColumns = []string{
		models.ColPatientName,
		models.ColPatientDOB,
		models.ColPatientGender,
		"patient_id",
	}
	DoctorColumns = []string{
		models.ColDoctorName,
		models.ColSpecialty,
		"doctor_id",
	}
	AppointmentColumns = []string{
		"patient_id",
		"doctor_id",
		models.ColAppointmentAt,
		models.ColLocation,
		models.ColReason,
		models.ColNote,
		models.ColFollowUp,
	}
	SummaryColumns = []string{
		"total_patients",
		"total_doctors",
		"total_appointments",
		"specialties",
		"date_range",
		"follow_up_ratio",
	}
)

// WriteGoldPatients persists the derived patients table.
func WriteGoldPatients(path string, patients []models.Patient) error {
	rows := make([][]string, 0, len(patients))

	for _, p := range patients {
		gender := ""
		if p.Gender != nil {
			gender = *p.Gender
		}

		rows = append(rows, []string{
			p.Name,
			formatDate(p.DOB),
			gender,
			p.PatientID,
		})
	}

	return writeCSV(path, PatientColumns, rows)
}

// WriteGoldDoctors persists the derived doctors table.
func WriteGoldDoctors(path string, doctors []models.Doctor) error {
	rows := make([][]string, 0, len(doctors))

	for _, d := range doctors {
		rows = append(rows, []string{
			d.Name,
			d.Specialty,
			strconv.FormatUint(uint64(d.DoctorID), 10),
		})
	}

	return writeCSV(path, DoctorColumns, rows)
}

// WriteGoldAppointments persists the derived appointments table.
func WriteGoldAppointments(path string, appointments []models.Appointment) error {
	rows := make([][]string, 0, len(appointments))

	for _, a := range appointments {
		rows = append(rows, []string{
			a.PatientID,
			strconv.FormatUint(uint64(a.DoctorID), 10),
			formatDateTime(a.AppointmentAt),
			a.Location,
			a.Reason,
			a.Notes,
			formatBool(a.FollowUp),
		})
	}

	return writeCSV(path, AppointmentColumns, rows)
}

// WriteSummaryStats persists the per-run aggregate as a single-row table.
func WriteSummaryStats(path string, stats *models.SummaryStats) error {
	row := []string{
		strconv.Itoa(stats.TotalPatients),
		strconv.Itoa(stats.TotalDoctors),
		strconv.Itoa(stats.TotalAppointments),
		strings.Join(stats.Specialties, "; "),
		stats.DateRange,
		stats.FollowUpRatio,
	}

	return writeCSV(path, SummaryColumns, [][]string{row})
}
