// Package store performs the atomic full-replace load of the gold entities
// into a relational database.
package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"healthpipe/internal/config"
	"healthpipe/internal/logger"
	"healthpipe/internal/modeler"
	"healthpipe/internal/models"
)

// Persistence errors.
var (
	ErrNotOpen           = errors.New("database connection is not initialized")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

const insertBatchSize = 100

// Store is the relational target of the pipeline. It is acquired for the
// duration of the load step only and released immediately after.
type Store interface {
	Open() error
	Load(entities *modeler.Entities) error
	Close() error
}

// New returns a store for the configured driver.
func New(cfg *config.DatabaseConfig, log *logger.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return &SQLiteStore{DataStore: DataStore{log: log}, cfg: cfg}, nil
	case config.DriverMySQL:
		return &MySQLStore{DataStore: DataStore{log: log}, cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
}

// DataStore implements the driver-independent parts of Store.
type DataStore struct {
	DB  *gorm.DB
	log *logger.Logger

	// Statements bracketing the truncate phase. Either may be empty when
	// the driver scopes the toggle to the transaction itself.
	disableFK string
	enableFK  string
}

// migrate creates the target tables if absent, with their declared primary
// and foreign keys.
func (ds *DataStore) migrate() error {
	if ds.DB == nil {
		return ErrNotOpen
	}

	if err := ds.DB.AutoMigrate(&models.Patient{}, &models.Doctor{}, &models.Appointment{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

// Load replaces the full contents of the three target tables with the freshly
// derived rows inside a single transaction. Deletion runs in dependency order
// with foreign-key enforcement suspended; any failure rolls the whole load
// back, leaving no partial state visible.
func (ds *DataStore) Load(entities *modeler.Entities) error {
	if ds.DB == nil {
		return ErrNotOpen
	}

	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if ds.disableFK != "" {
			if err := tx.Exec(ds.disableFK).Error; err != nil {
				return fmt.Errorf("failed to suspend foreign keys: %w", err)
			}
		}

		// DELETE rather than TRUNCATE: TRUNCATE implicitly commits on
		// MySQL, which would break the single-transaction guarantee.
		for _, table := range []string{"appointments", "patients", "doctors"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		if ds.enableFK != "" {
			if err := tx.Exec(ds.enableFK).Error; err != nil {
				return fmt.Errorf("failed to restore foreign keys: %w", err)
			}
		}

		if len(entities.Patients) > 0 {
			if err := tx.CreateInBatches(entities.Patients, insertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert patients: %w", err)
			}
		}

		if len(entities.Doctors) > 0 {
			if err := tx.CreateInBatches(entities.Doctors, insertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert doctors: %w", err)
			}
		}

		if len(entities.Appointments) > 0 {
			if err := tx.CreateInBatches(entities.Appointments, insertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert appointments: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	ds.log.Info("full-replace load complete",
		"patients", len(entities.Patients),
		"doctors", len(entities.Doctors),
		"appointments", len(entities.Appointments))

	return nil
}

// Close releases the underlying connection.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}

	sqlDB, err := ds.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection: %w", err)
	}

	ds.DB = nil

	return sqlDB.Close()
}

// gormConfig silences gorm's own logger; the pipeline logger reports load
// outcomes instead.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
}
