package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthpipe/internal/config"
	"healthpipe/internal/logger"
	"healthpipe/internal/modeler"
	"healthpipe/internal/models"
)

func testEntities() *modeler.Entities {
	dob := time.Date(1980, 3, 15, 0, 0, 0, 0, time.UTC)
	gender := "Female"
	followUp := true
	at := time.Date(2021, 6, 1, 9, 30, 0, 0, time.UTC)

	return &modeler.Entities{
		Patients: []models.Patient{
			{PatientID: "a1b2", Name: "Jane Doe", DOB: &dob, Gender: &gender},
		},
		Doctors: []models.Doctor{
			{DoctorID: 1, Name: "Dr. Adams", Specialty: "Cardiology"},
		},
		Appointments: []models.Appointment{
			{PatientID: "a1b2", DoctorID: 1, AppointmentAt: &at, Location: "Main Clinic", Reason: "Checkup", FollowUp: &followUp},
		},
		Stats: &models.SummaryStats{TotalPatients: 1, TotalDoctors: 1, TotalAppointments: 1},
	}
}

func openTestStore(t *testing.T) Store {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		DSN:        filepath.Join(t.TempDir(), "test.db"),
		TimeoutSec: 5,
	}

	s, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Open())
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "oracle", DSN: "x", TimeoutSec: 1}, logger.NewNop())
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestLoad_NotOpen(t *testing.T) {
	s := &SQLiteStore{DataStore: DataStore{log: logger.NewNop()}}
	assert.ErrorIs(t, s.Load(testEntities()), ErrNotOpen)
}

func TestLoad_InsertsAllEntities(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Load(testEntities()))

	db := s.(*SQLiteStore).DB

	var patients, doctors, appointments int64
	require.NoError(t, db.Model(&models.Patient{}).Count(&patients).Error)
	require.NoError(t, db.Model(&models.Doctor{}).Count(&doctors).Error)
	require.NoError(t, db.Model(&models.Appointment{}).Count(&appointments).Error)

	assert.Equal(t, int64(1), patients)
	assert.Equal(t, int64(1), doctors)
	assert.Equal(t, int64(1), appointments)
}

func TestLoad_FullReplace(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Load(testEntities()))

	// Second load must leave exactly the second run's rows: no leftovers,
	// no duplication.
	second := testEntities()
	dob := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	second.Patients = append(second.Patients, models.Patient{PatientID: "c3d4", Name: "John Smith", DOB: &dob})

	require.NoError(t, s.Load(second))

	db := s.(*SQLiteStore).DB

	var patients, appointments int64
	require.NoError(t, db.Model(&models.Patient{}).Count(&patients).Error)
	require.NoError(t, db.Model(&models.Appointment{}).Count(&appointments).Error)

	assert.Equal(t, int64(2), patients)
	assert.Equal(t, int64(1), appointments)
}

func TestLoad_RollbackOnConstraintViolation(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Load(testEntities()))

	// Duplicate primary keys abort the transaction; the previous load must
	// remain fully visible.
	bad := testEntities()
	bad.Patients = append(bad.Patients, bad.Patients[0])

	err := s.Load(bad)
	require.Error(t, err)

	db := s.(*SQLiteStore).DB

	var patients, appointments int64
	require.NoError(t, db.Model(&models.Patient{}).Count(&patients).Error)
	require.NoError(t, db.Model(&models.Appointment{}).Count(&appointments).Error)

	assert.Equal(t, int64(1), patients, "rolled-back load must not change patients")
	assert.Equal(t, int64(1), appointments, "rolled-back load must not change appointments")
}

func TestLoad_EmptyEntitySets(t *testing.T) {
	s := openTestStore(t)

	empty := &modeler.Entities{Stats: &models.SummaryStats{}}
	require.NoError(t, s.Load(empty))

	db := s.(*SQLiteStore).DB

	var patients int64
	require.NoError(t, db.Model(&models.Patient{}).Count(&patients).Error)
	assert.Equal(t, int64(0), patients)
}

func TestClose_Idempotent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
