package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/VR3Dcz/FileCatalog/internal/constants"
)

func TestLoad(t *testing.T) {
	// Test default values
	cfg := Load()

	if cfg.Port != constants.DefaultPort {
		t.Errorf("Expected Port to be %s, got %s", constants.DefaultPort, cfg.Port)
	}

	expectedDB := filepath.Join(os.TempDir(), constants.DefaultWorkingDBName)
	if cfg.WorkingDBPath != expectedDB {
		t.Errorf("Expected WorkingDBPath to be %s, got %s", expectedDB, cfg.WorkingDBPath)
	}

	if cfg.ScanWorkers != runtime.NumCPU() {
		t.Errorf("Expected ScanWorkers to be %d, got %d", runtime.NumCPU(), cfg.ScanWorkers)
	}

	if cfg.HashFiles {
		t.Error("Expected HashFiles to default to false")
	}

	if filepath.Base(cfg.SettingsPath) != constants.DefaultSettingsFileName {
		t.Errorf("Expected SettingsPath to end with %s, got %s", constants.DefaultSettingsFileName, cfg.SettingsPath)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WORKING_DB_PATH", "/tmp/work.kat")
	t.Setenv("SETTINGS_PATH", "/tmp/settings.yaml")
	t.Setenv("SCAN_WORKERS", "3")
	t.Setenv("HASH_FILES", "true")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be 9090, got %s", cfg.Port)
	}
	if cfg.WorkingDBPath != "/tmp/work.kat" {
		t.Errorf("Expected WorkingDBPath to be /tmp/work.kat, got %s", cfg.WorkingDBPath)
	}
	if cfg.SettingsPath != "/tmp/settings.yaml" {
		t.Errorf("Expected SettingsPath to be /tmp/settings.yaml, got %s", cfg.SettingsPath)
	}
	if cfg.ScanWorkers != 3 {
		t.Errorf("Expected ScanWorkers to be 3, got %d", cfg.ScanWorkers)
	}
	if !cfg.HashFiles {
		t.Error("Expected HashFiles to be true")
	}
}

func TestLoadInvalidWorkers(t *testing.T) {
	t.Setenv("SCAN_WORKERS", "many")

	cfg := Load()
	if cfg.ScanWorkers != 0 {
		t.Errorf("Expected unparsable SCAN_WORKERS to yield 0, got %d", cfg.ScanWorkers)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected Validate to reject SCAN_WORKERS=0")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:          "8080",
		WorkingDBPath: "work.kat",
		SettingsPath:  "settings.yaml",
		LogLevel:      "info",
		LogFormat:     "text",
		ScanWorkers:   4,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"invalid port - not a number", func(c *Config) { c.Port = "abc" }, true},
		{"invalid port - out of range", func(c *Config) { c.Port = "99999" }, true},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"empty working db path", func(c *Config) { c.WorkingDBPath = "" }, true},
		{"empty settings path", func(c *Config) { c.SettingsPath = "" }, true},
		{"zero workers", func(c *Config) { c.ScanWorkers = 0 }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "invalid" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test_value")

	value := getEnv("TEST_VAR", "default")
	if value != "test_value" {
		t.Errorf("Expected 'test_value', got '%s'", value)
	}

	value = getEnv("NON_EXISTENT_VAR", "default")
	if value != "default" {
		t.Errorf("Expected 'default', got '%s'", value)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "not-a-bool")
	if getEnvBool("TEST_BOOL", true) != true {
		t.Error("Expected fallback for unparsable bool")
	}

	t.Setenv("TEST_BOOL", "0")
	if getEnvBool("TEST_BOOL", true) != false {
		t.Error("Expected false for '0'")
	}
}
