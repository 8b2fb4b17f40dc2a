package store

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"healthpipe/internal/config"
)

// MySQLStore implements Store for MySQL, the original production target.
type MySQLStore struct {
	DataStore
	cfg *config.DatabaseConfig
}

// Open sets up the MySQL database connection and creates the target tables
// if absent.
func (s *MySQLStore) Open() error {
	db, err := gorm.Open(mysql.Open(s.cfg.DSN), gormConfig())
	if err != nil {
		return fmt.Errorf("failed to open MySQL database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection: %w", err)
	}

	sqlDB.SetConnMaxLifetime(s.cfg.GetTimeout())

	s.DB = db
	s.disableFK = "SET FOREIGN_KEY_CHECKS = 0"
	s.enableFK = "SET FOREIGN_KEY_CHECKS = 1"

	return s.migrate()
}
