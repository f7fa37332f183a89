package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/language"

	"github.com/VR3Dcz/FileCatalog/internal/constants"
)

var (
	// ErrNotFound is returned when a drive, folder or file id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPattern is returned by regex search for an uncompilable pattern.
	ErrInvalidPattern = errors.New("invalid regex pattern")
)

// DB is an open catalog store.
type DB struct {
	*sqlx.DB
	path string

	mu   sync.RWMutex
	lang language.Tag
}

// Option customises NewSQLiteDB.
type Option func(*DB)

// WithLanguage sets the locale used for case-insensitive name ordering.
func WithLanguage(tag string) Option {
	return func(db *DB) { db.SetLanguage(tag) }
}

// NewSQLiteDB opens the catalog at path, applies the schema and provisions the search index.
func NewSQLiteDB(path string, opts ...Option) (*DB, error) {
	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("failed to register sql functions: %w", err)
	}

	sdb, err := sqlx.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := sdb.Ping(); err != nil {
		sdb.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	db := &DB{DB: sdb, path: path, lang: language.English}
	for _, o := range opts {
		o(db)
	}

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		sdb.Close()
		return nil, err
	}
	if err := db.EnsureSearchIndex(ctx); err != nil {
		sdb.Close()
		return nil, err
	}

	return db, nil
}

// dsn sets pragmas per connection; PRAGMA via Exec would only reach one pooled connection.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", constants.DefaultBusyTimeout.Milliseconds()))
	q.Add("_pragma", "synchronous(NORMAL)")
	return path + "?" + q.Encode()
}

// Path returns the file backing the store.
func (db *DB) Path() string {
	return db.path
}

// SetLanguage changes the collation locale. Unknown tags fall back to English.
func (db *DB) SetLanguage(tag string) {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.English
	}
	db.mu.Lock()
	db.lang = t
	db.mu.Unlock()
}

func (db *DB) language() language.Tag {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.lang
}

// RunInTx runs fn inside a transaction, committing only if fn succeeds.
func (db *DB) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *DB) Close() error {
	return db.DB.Close()
}
