// Package catalog holds the active working catalog and serializes its lifecycle
// operations (new, open, save, scan) against queries.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/VR3Dcz/FileCatalog/internal/archive"
	"github.com/VR3Dcz/FileCatalog/internal/constants"
	"github.com/VR3Dcz/FileCatalog/internal/domain"
	"github.com/VR3Dcz/FileCatalog/internal/logger"
	"github.com/VR3Dcz/FileCatalog/internal/scanner"
	"github.com/VR3Dcz/FileCatalog/internal/settings"
	"github.com/VR3Dcz/FileCatalog/internal/storage"
	"github.com/VR3Dcz/FileCatalog/internal/store"
)

var (
	// ErrBusy is returned when another lifecycle operation or query holds the catalog.
	ErrBusy = errors.New("catalog is busy")
	// ErrNoCurrentPath is returned by SaveCurrent before the catalog was opened or saved.
	ErrNoCurrentPath = errors.New("catalog has no file path yet")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("catalog session is closed")
)

type Options struct {
	WorkingPath string
	ScanWorkers int
	HashFiles   bool
}

// Session owns the working catalog file. Lifecycle operations take the lock
// exclusively and fail fast with ErrBusy instead of queueing.
type Session struct {
	mu          sync.RWMutex
	opts        Options
	settings    *settings.Manager
	codec       *archive.Codec
	log         *logger.Logger
	db          *store.DB
	currentPath string
	dirty       atomic.Bool
}

// Status describes the session for callers.
type Status struct {
	WorkingPath string               `json:"working_path"`
	CurrentPath string               `json:"current_path,omitempty"`
	Dirty       bool                 `json:"dirty"`
	Stats       *domain.CatalogStats `json:"stats,omitempty"`
}

func NewSession(opts Options, sm *settings.Manager, log *logger.Logger) *Session {
	log = logger.OrDefault(log)
	return &Session{
		opts:     opts,
		settings: sm,
		codec:    archive.New(log),
		log:      log.WithComponent("catalog"),
	}
}

// Start opens the last catalog when auto-open is enabled and the file exists,
// and otherwise starts a new empty catalog.
func (s *Session) Start(ctx context.Context) error {
	prefs := s.settings.Get()
	if prefs.AutoOpenLastCatalog && prefs.LastCatalogPath != "" {
		if _, err := os.Stat(prefs.LastCatalogPath); err == nil {
			err := s.Open(ctx, prefs.LastCatalogPath)
			if err == nil {
				return nil
			}
			s.log.Warn("Failed to open last catalog, starting a new one", "path", prefs.LastCatalogPath, "error", err)
		}
	}
	return s.New(ctx)
}

// New discards the working catalog and starts an empty one.
func (s *Session) New(ctx context.Context) error {
	if !s.mu.TryLock() {
		return ErrBusy
	}
	defer s.mu.Unlock()

	if err := s.resetLocked(); err != nil {
		return err
	}
	s.currentPath = ""
	s.log.Info("New catalog created", "working", s.opts.WorkingPath)
	return nil
}

// Open loads the catalog file at path into the working catalog. If loading fails
// the session falls back to an empty catalog and reports the error.
func (s *Session) Open(ctx context.Context, path string) error {
	if !s.mu.TryLock() {
		return ErrBusy
	}
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to open catalog %s: %w", path, err)
	}

	if err := s.closeLocked(); err != nil {
		return err
	}
	if err := s.codec.Load(ctx, path, s.opts.WorkingPath); err != nil {
		if rErr := s.resetLocked(); rErr != nil {
			s.log.Error("Failed to reinitialize working catalog", "error", rErr)
		}
		s.currentPath = ""
		return err
	}
	if err := s.openLocked(); err != nil {
		return err
	}

	s.currentPath = path
	s.dirty.Store(false)
	s.rememberPath(path)
	s.log.Info("Catalog opened", "path", path)
	return nil
}

// Save writes the working catalog to path and makes it the current file.
func (s *Session) Save(ctx context.Context, path string) error {
	if !s.mu.TryLock() {
		return ErrBusy
	}
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrClosed
	}
	if filepath.Ext(path) == "" {
		path += constants.CatalogExtension
	}
	if err := s.codec.Save(ctx, s.db, s.opts.WorkingPath, path); err != nil {
		return err
	}

	s.currentPath = path
	s.dirty.Store(false)
	s.rememberPath(path)
	return nil
}

// SaveCurrent saves to the file the catalog was last opened from or saved to.
func (s *Session) SaveCurrent(ctx context.Context) error {
	s.mu.RLock()
	path := s.currentPath
	s.mu.RUnlock()

	if path == "" {
		return ErrNoCurrentPath
	}
	return s.Save(ctx, path)
}

// ScanDrive catalogs rootPath as a drive named after its last path element.
// Scanning a root that is already cataloged replaces that drive's contents.
func (s *Session) ScanDrive(ctx context.Context, rootPath string) (*domain.ScanStats, error) {
	if !s.mu.TryLock() {
		return nil, ErrBusy
	}
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrClosed
	}

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", scanner.ErrRootNotFound, rootPath, err)
	}
	if ok, err := storage.IsDir(root); err != nil || !ok {
		return nil, fmt.Errorf("%w: %s", scanner.ErrRootNotFound, root)
	}

	driveID, err := s.db.GetOrCreateDrive(ctx, scanner.RootName(root), root)
	if err != nil {
		return nil, err
	}
	return s.scanLocked(ctx, root, driveID)
}

// RescanDrive scans the drive's identifier path again.
func (s *Session) RescanDrive(ctx context.Context, driveID int64) (*domain.ScanStats, error) {
	if !s.mu.TryLock() {
		return nil, ErrBusy
	}
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrClosed
	}

	drive, err := s.db.GetDrive(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if ok, err := storage.IsDir(drive.Identifier); err != nil || !ok {
		return nil, fmt.Errorf("%w: %s", scanner.ErrRootNotFound, drive.Identifier)
	}
	if _, err := s.db.GetOrCreateDrive(ctx, drive.Name, drive.Identifier); err != nil {
		return nil, err
	}
	return s.scanLocked(ctx, drive.Identifier, drive.ID)
}

func (s *Session) scanLocked(ctx context.Context, root string, driveID int64) (*domain.ScanStats, error) {
	prefs := s.settings.Get()
	sc := scanner.New(s.db, scanner.Options{
		ReadAudioTags: prefs.ReadAudioTags,
		HashFiles:     s.opts.HashFiles,
		Workers:       s.opts.ScanWorkers,
	}, s.log)

	// the drive row may already have been created or touched
	s.dirty.Store(true)
	return sc.Scan(ctx, root, driveID)
}

// Status reports paths, the dirty flag and catalog counts.
func (s *Session) Status(ctx context.Context) (*Status, error) {
	if !s.mu.TryRLock() {
		return nil, ErrBusy
	}
	defer s.mu.RUnlock()

	st := &Status{
		WorkingPath: s.opts.WorkingPath,
		CurrentPath: s.currentPath,
		Dirty:       s.dirty.Load(),
	}
	if s.db != nil {
		stats, err := s.db.Stats(ctx)
		if err != nil {
			return nil, err
		}
		st.Stats = stats
	}
	return st, nil
}

// Settings returns the current preferences.
func (s *Session) Settings() settings.AppSettings {
	return s.settings.Get()
}

// UpdateSettings persists new preferences and applies the collation language.
func (s *Session) UpdateSettings(next settings.AppSettings) (settings.AppSettings, error) {
	if err := s.settings.Update(func(cur *settings.AppSettings) {
		last := cur.LastCatalogPath
		*cur = next
		if cur.LastCatalogPath == "" {
			cur.LastCatalogPath = last
		}
	}); err != nil {
		return settings.AppSettings{}, err
	}

	updated := s.settings.Get()
	s.mu.RLock()
	if s.db != nil {
		s.db.SetLanguage(updated.Language)
	}
	s.mu.RUnlock()
	return updated, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) resetLocked() error {
	if err := s.closeLocked(); err != nil {
		return err
	}
	if err := storage.RemoveSQLiteFiles(s.opts.WorkingPath); err != nil {
		return fmt.Errorf("failed to remove working catalog: %w", err)
	}
	if err := s.openLocked(); err != nil {
		return err
	}
	s.dirty.Store(false)
	return nil
}

func (s *Session) openLocked() error {
	if err := storage.EnsureDir(filepath.Dir(s.opts.WorkingPath)); err != nil {
		return fmt.Errorf("failed to create working directory: %w", err)
	}
	db, err := store.NewSQLiteDB(s.opts.WorkingPath, store.WithLanguage(s.settings.Get().Language))
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Session) closeLocked() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("failed to close working catalog: %w", err)
	}
	return nil
}

func (s *Session) rememberPath(path string) {
	if err := s.settings.Update(func(cur *settings.AppSettings) {
		cur.LastCatalogPath = path
	}); err != nil {
		s.log.Warn("Failed to remember catalog path", "path", path, "error", err)
	}
}
