package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/VR3Dcz/FileCatalog/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port          string
	WorkingDBPath string
	SettingsPath  string
	LogLevel      string
	LogFormat     string
	ScanWorkers   int
	HashFiles     bool
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", constants.DefaultPort),
		WorkingDBPath: getEnv("WORKING_DB_PATH", filepath.Join(os.TempDir(), constants.DefaultWorkingDBName)),
		SettingsPath:  getEnv("SETTINGS_PATH", defaultSettingsPath()),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		ScanWorkers:   getEnvInt("SCAN_WORKERS", runtime.NumCPU()),
		HashFiles:     getEnvBool("HASH_FILES", false),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.WorkingDBPath == "" {
		errors = append(errors, "WORKING_DB_PATH cannot be empty")
	}

	if c.SettingsPath == "" {
		errors = append(errors, "SETTINGS_PATH cannot be empty")
	}

	if c.ScanWorkers < 1 {
		errors = append(errors, fmt.Sprintf("SCAN_WORKERS must be at least 1, got: %d", c.ScanWorkers))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = home
	}
	return filepath.Join(dir, constants.DefaultSettingsDir, constants.DefaultSettingsFileName)
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt returns fallback when the variable is unset; an unparsable value yields 0 so Validate rejects it.
func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}
