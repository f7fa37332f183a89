// Package settings persists the user-facing preferences consumed by the catalog core.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/VR3Dcz/FileCatalog/internal/constants"
	"github.com/VR3Dcz/FileCatalog/internal/logger"
	"github.com/VR3Dcz/FileCatalog/internal/storage"
)

// AppSettings are the externally-owned preferences.
type AppSettings struct {
	Language                 string `yaml:"language" json:"language"`
	AutoOpenLastCatalog      bool   `yaml:"auto_open_last_catalog" json:"auto_open_last_catalog"`
	LastCatalogPath          string `yaml:"last_catalog_path,omitempty" json:"last_catalog_path,omitempty"`
	AutoCalculateFolderSizes bool   `yaml:"auto_calculate_folder_sizes" json:"auto_calculate_folder_sizes"`
	ReadAudioTags            bool   `yaml:"read_audio_tags" json:"read_audio_tags"`
}

// Defaults returns the settings used when no file exists.
func Defaults() AppSettings {
	return AppSettings{
		Language:      constants.DefaultLanguage,
		ReadAudioTags: true,
	}
}

// Manager loads and saves AppSettings as YAML.
type Manager struct {
	mu       sync.RWMutex
	path     string
	settings AppSettings
	log      *logger.Logger
}

// NewManager loads settings from path. A missing or malformed file yields defaults.
func NewManager(path string, log *logger.Logger) *Manager {
	m := &Manager{
		path: path,
		log:  logger.OrDefault(log).WithComponent("settings"),
	}
	m.settings = m.load()
	return m
}

func (m *Manager) load() AppSettings {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			m.log.Warn("Failed to read settings, using defaults", "path", m.path, "error", err)
		}
		return Defaults()
	}

	// Keys absent from the file keep their default values.
	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		m.log.Warn("Malformed settings file, using defaults", "path", m.path, "error", err)
		return Defaults()
	}
	if s.Language == "" {
		s.Language = constants.DefaultLanguage
	}
	return s
}

// Get returns a copy of the current settings.
func (m *Manager) Get() AppSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Update applies fn to the settings and persists the result.
func (m *Manager) Update(fn func(s *AppSettings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.settings
	fn(&next)
	if err := m.save(next); err != nil {
		return err
	}
	m.settings = next
	return nil
}

func (m *Manager) save(s AppSettings) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := storage.EnsureDir(filepath.Dir(m.path)); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	if err := storage.WriteFileAtomic(m.path, data); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", m.path, err)
	}
	return nil
}
