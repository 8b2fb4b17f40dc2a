package store

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"healthpipe/internal/config"
)

// SQLiteStore implements Store for SQLite, the default target.
type SQLiteStore struct {
	DataStore
	cfg *config.DatabaseConfig
}

// Open sets up the SQLite database connection and creates the target tables
// if absent.
func (s *SQLiteStore) Open() error {
	db, err := gorm.Open(sqlite.Open(s.cfg.DSN), gormConfig())
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection: %w", err)
	}

	sqlDB.SetConnMaxLifetime(s.cfg.GetTimeout())
	// Single-operator pipeline: one connection keeps :memory: databases
	// from fragmenting across pool members.
	sqlDB.SetMaxOpenConns(1)

	s.DB = db
	// defer_foreign_keys is transaction-scoped and resets itself at commit.
	s.disableFK = "PRAGMA defer_foreign_keys = ON"
	s.enableFK = ""

	return s.migrate()
}
