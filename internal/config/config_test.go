package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
pipeline:
  output_dir: "./processed_data"
  datetime_column: "Appointment date time"
  corrections:
    - match: "30 Feb 1980"
      replace: "28 Feb 1980"
    - match: "Unknown"
      remove: true
database:
  driver: "sqlite"
  dsn: "healthcare.db"
  timeout_sec: 30
logging:
  level: "info"
`

func TestLoadConfig_Valid(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned unexpected error: %v", err)
	}

	if cfg.Pipeline.OutputDir != "./processed_data" {
		t.Errorf("OutputDir = %s, want ./processed_data", cfg.Pipeline.OutputDir)
	}

	if len(cfg.Pipeline.Corrections) != 2 {
		t.Errorf("Corrections = %d, want 2", len(cfg.Pipeline.Corrections))
	}

	if cfg.Database.GetTimeout() != 30*time.Second {
		t.Errorf("GetTimeout = %v, want 30s", cfg.Database.GetTimeout())
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("LoadConfig expected error for missing file")
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing output dir",
			mutate:  func(c *Config) { c.Pipeline.OutputDir = "" },
			wantErr: ErrMissingOutputDir,
		},
		{
			name:    "missing datetime column",
			mutate:  func(c *Config) { c.Pipeline.DateTimeColumn = "" },
			wantErr: ErrMissingDateTimeColumn,
		},
		{
			name: "correction without match",
			mutate: func(c *Config) {
				c.Pipeline.Corrections = []CorrectionRule{{Replace: "x"}}
			},
			wantErr: ErrCorrectionMissingMatch,
		},
		{
			name: "correction replace and remove",
			mutate: func(c *Config) {
				c.Pipeline.Corrections = []CorrectionRule{{Match: "x", Replace: "y", Remove: true}}
			},
			wantErr: ErrCorrectionConflict,
		},
		{
			name:    "invalid driver",
			mutate:  func(c *Config) { c.Database.Driver = "postgres" },
			wantErr: ErrInvalidDriver,
		},
		{
			name:    "missing dsn",
			mutate:  func(c *Config) { c.Database.DSN = "" },
			wantErr: ErrMissingDSN,
		},
		{
			name:    "invalid timeout",
			mutate:  func(c *Config) { c.Database.TimeoutSec = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig does not validate: %v", err)
	}
}

func TestConfig_CorrectionMap(t *testing.T) {
	cfg := DefaultConfig()
	m := cfg.CorrectionMap()

	if got := m["30 Feb 1980"]; got != "28 Feb 1980" {
		t.Errorf("correction for 30 Feb 1980 = %q, want 28 Feb 1980", got)
	}

	if got, ok := m["Unknown"]; !ok || got != "" {
		t.Errorf("removal rule for Unknown = (%q, %v), want empty replacement", got, ok)
	}
}

func TestConfig_LayerPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.OutputDir = "out"

	if got := cfg.BronzePath(); got != filepath.Join("out", "bronze", "raw_health_data.csv") {
		t.Errorf("BronzePath = %s", got)
	}

	if got := cfg.SilverPath(); got != filepath.Join("out", "silver", "cleaned_health_data.csv") {
		t.Errorf("SilverPath = %s", got)
	}

	if got := cfg.RejectedPath(); got != filepath.Join("out", "rejected", "missing_patient_records.csv") {
		t.Errorf("RejectedPath = %s", got)
	}

	if got := cfg.GoldPath("patients"); got != filepath.Join("out", "gold", "patients.csv") {
		t.Errorf("GoldPath = %s", got)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "saved.yaml")

	cfg := DefaultConfig()
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig returned unexpected error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned unexpected error: %v", err)
	}

	if loaded.Pipeline.DateTimeColumn != cfg.Pipeline.DateTimeColumn {
		t.Errorf("DateTimeColumn = %s, want %s", loaded.Pipeline.DateTimeColumn, cfg.Pipeline.DateTimeColumn)
	}
}
