// Package config provides configuration management for the pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingOutputDir       = errors.New("pipeline.output_dir is required")
	ErrMissingDateTimeColumn  = errors.New("pipeline.datetime_column is required")
	ErrCorrectionMissingMatch = errors.New("correction rule requires a match literal")
	ErrCorrectionConflict     = errors.New("correction rule cannot both replace and remove")
	ErrInvalidDriver          = errors.New("database.driver must be 'sqlite' or 'mysql'")
	ErrMissingDSN             = errors.New("database.dsn is required")
	ErrInvalidTimeout         = errors.New("database.timeout_sec must be at least 1")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Layer file names. Part of the file contract consumed downstream.
const (
	bronzeFile   = "raw_health_data.csv"
	silverFile   = "cleaned_health_data.csv"
	rejectedFile = "missing_patient_records.csv"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PipelineConfig contains layer locations and repair settings.
type PipelineConfig struct {
	// OutputDir is the root under which the bronze/silver/gold/rejected
	// layer directories are created.
	OutputDir string `yaml:"output_dir"`
	// DateTimeColumn names the column whose unescaped delimiter causes
	// split-field corruption in the source export.
	DateTimeColumn string           `yaml:"datetime_column"`
	Corrections    []CorrectionRule `yaml:"corrections"`
}

// CorrectionRule maps one known-bad literal to its replacement, or marks it
// for removal. Lookups are exact-string, not pattern-based.
type CorrectionRule struct {
	Match   string `yaml:"match"`
	Replace string `yaml:"replace"`
	Remove  bool   `yaml:"remove"`
}

// DatabaseConfig defines the relational store target.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no config file is given.
// The default corrections cover the known-bad date literals observed in the
// source export.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			OutputDir:      "processed_data",
			DateTimeColumn: "Appointment date time",
			Corrections: []CorrectionRule{
				{Match: "30 Feb 1980", Replace: "28 Feb 1980"},
				{Match: "29 Feb 1993", Replace: "28 Feb 1993"},
				{Match: "31/04/2000", Replace: "30/04/2000"},
				{Match: "31-04-2021 10:00 AM", Replace: "30-04-2021 10:00 AM"},
				{Match: "Unknown", Remove: true},
			},
		},
		Database: DatabaseConfig{
			Driver:     DriverSQLite,
			DSN:        "healthcare.db",
			TimeoutSec: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pipeline.OutputDir == "" {
		return ErrMissingOutputDir
	}

	if c.Pipeline.DateTimeColumn == "" {
		return ErrMissingDateTimeColumn
	}

	for i, rule := range c.Pipeline.Corrections {
		if rule.Match == "" {
			return fmt.Errorf("%w: corrections[%d]", ErrCorrectionMissingMatch, i)
		}

		if rule.Remove && rule.Replace != "" {
			return fmt.Errorf("%w: corrections[%d]", ErrCorrectionConflict, i)
		}
	}

	if c.Database.Driver != DriverSQLite && c.Database.Driver != DriverMySQL {
		return ErrInvalidDriver
	}

	if c.Database.DSN == "" {
		return ErrMissingDSN
	}

	if c.Database.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// CorrectionMap returns the correction rules keyed by their match literal.
// Removal rules map to an empty replacement.
func (c *Config) CorrectionMap() map[string]string {
	m := make(map[string]string, len(c.Pipeline.Corrections))
	for _, rule := range c.Pipeline.Corrections {
		if rule.Remove {
			m[rule.Match] = ""

			continue
		}

		m[rule.Match] = rule.Replace
	}

	return m
}

// GetTimeout returns the database connection timeout.
func (d *DatabaseConfig) GetTimeout() time.Duration {
	return time.Duration(d.TimeoutSec) * time.Second
}

// BronzePath returns the path of the bronze snapshot file.
func (c *Config) BronzePath() string {
	return filepath.Join(c.Pipeline.OutputDir, "bronze", bronzeFile)
}

// SilverPath returns the path of the cleaned silver snapshot file.
func (c *Config) SilverPath() string {
	return filepath.Join(c.Pipeline.OutputDir, "silver", silverFile)
}

// RejectedPath returns the path of the rejected records file.
func (c *Config) RejectedPath() string {
	return filepath.Join(c.Pipeline.OutputDir, "rejected", rejectedFile)
}

// GoldDir returns the directory holding the normalized gold outputs.
func (c *Config) GoldDir() string {
	return filepath.Join(c.Pipeline.OutputDir, "gold")
}

// GoldPath returns the path of a named gold output (e.g. "patients").
func (c *Config) GoldPath(name string) string {
	return filepath.Join(c.GoldDir(), name+".csv")
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{OutputDir: %s, Corrections: %d, Database: %s}",
		c.Pipeline.OutputDir,
		len(c.Pipeline.Corrections),
		c.Database.Driver,
	)
}
