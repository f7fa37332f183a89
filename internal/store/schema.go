package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const Schema = `
CREATE TABLE IF NOT EXISTS drives (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	identifier TEXT NOT NULL,
	name TEXT NOT NULL,
	sort_order INTEGER NOT NULL,
	last_scanned_at DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_drives_identifier ON drives(identifier COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_drives_sort_order ON drives(sort_order);

CREATE TABLE IF NOT EXISTS folders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	drive_id INTEGER NOT NULL,
	parent_id INTEGER,
	name TEXT NOT NULL,
	relative_path TEXT NOT NULL,
	FOREIGN KEY (drive_id) REFERENCES drives(id) ON DELETE CASCADE,
	-- no cascade here: SQLite stops recursive cascades at 1000 levels, so a
	-- drive's folders are deleted flat by drive_id (see deleteDriveContents)
	FOREIGN KEY (parent_id) REFERENCES folders(id) DEFERRABLE INITIALLY DEFERRED
);

CREATE INDEX IF NOT EXISTS idx_folders_drive_id ON folders(drive_id);
CREATE INDEX IF NOT EXISTS idx_folders_parent_id ON folders(parent_id);

CREATE TABLE IF NOT EXISTS file_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	folder_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	extension TEXT NOT NULL DEFAULT '',
	size_bytes INTEGER NOT NULL,
	modified_at DATETIME NOT NULL,
	hash TEXT,
	title TEXT,
	artist TEXT,
	FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE CASCADE
);

-- No b-tree index on name: the FTS5 index serves name lookups.
CREATE INDEX IF NOT EXISTS idx_file_entries_folder_id ON file_entries(folder_id);
`

const searchIndexSchema = `
CREATE VIRTUAL TABLE file_entries_fts USING fts5(name, content='file_entries', content_rowid='id');

CREATE TRIGGER IF NOT EXISTS file_entries_ai AFTER INSERT ON file_entries BEGIN
	INSERT INTO file_entries_fts(rowid, name) VALUES (new.id, new.name);
END;

CREATE TRIGGER IF NOT EXISTS file_entries_ad AFTER DELETE ON file_entries BEGIN
	INSERT INTO file_entries_fts(file_entries_fts, rowid, name) VALUES ('delete', old.id, old.name);
END;

CREATE TRIGGER IF NOT EXISTS file_entries_au AFTER UPDATE ON file_entries BEGIN
	INSERT INTO file_entries_fts(file_entries_fts, rowid, name) VALUES ('delete', old.id, old.name);
	INSERT INTO file_entries_fts(rowid, name) VALUES (new.id, new.name);
END;
`

// EnsureSchema creates tables and indices if absent. It never drops data.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SearchIndexExists reports whether the full-text table has been provisioned.
func (db *DB) SearchIndexExists(ctx context.Context) (bool, error) {
	var count int
	err := db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'file_entries_fts'`)
	if err != nil {
		return false, fmt.Errorf("failed to inspect search index: %w", err)
	}
	return count > 0, nil
}

// EnsureSearchIndex provisions the full-text index and its triggers when missing,
// then rebuilds it once from the existing rows.
func (db *DB) EnsureSearchIndex(ctx context.Context) error {
	exists, err := db.SearchIndexExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, searchIndexSchema); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO file_entries_fts(file_entries_fts) VALUES ('rebuild')`)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}
	return nil
}
