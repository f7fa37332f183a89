package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

// BulkInserter holds one write transaction with prepared folder and file inserts.
// Nothing becomes visible to other connections until Commit.
type BulkInserter struct {
	tx         *sqlx.Tx
	folderStmt *sqlx.Stmt
	fileStmt   *sqlx.Stmt
	done       bool
}

func (db *DB) BeginBulk(ctx context.Context) (*BulkInserter, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin bulk insert: %w", err)
	}

	folderStmt, err := tx.PreparexContext(ctx,
		`INSERT INTO folders (drive_id, parent_id, name, relative_path) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to prepare folder insert: %w", err)
	}

	fileStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO file_entries (folder_id, name, extension, size_bytes, modified_at, hash, title, artist)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to prepare file insert: %w", err)
	}

	return &BulkInserter{tx: tx, folderStmt: folderStmt, fileStmt: fileStmt}, nil
}

// ClearDrive removes the drive's previous folders and files inside the bulk transaction.
func (b *BulkInserter) ClearDrive(ctx context.Context, driveID int64) error {
	return deleteDriveContents(ctx, b.tx, driveID)
}

// InsertFolder stores f and sets f.ID to the generated id.
func (b *BulkInserter) InsertFolder(ctx context.Context, f *domain.Folder) error {
	res, err := b.folderStmt.ExecContext(ctx, f.DriveID, f.ParentID, f.Name, f.RelativePath)
	if err != nil {
		return fmt.Errorf("failed to insert folder %q: %w", f.RelativePath, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

// InsertFile stores e and sets e.ID to the generated id.
func (b *BulkInserter) InsertFile(ctx context.Context, e *domain.FileEntry) error {
	res, err := b.fileStmt.ExecContext(ctx,
		e.FolderID, e.Name, e.Extension, e.SizeBytes, e.ModifiedAt.UTC(), e.Hash, e.Title, e.Artist)
	if err != nil {
		return fmt.Errorf("failed to insert file %q: %w", e.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (b *BulkInserter) Commit() error {
	b.closeStmts()
	b.done = true
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}

// Rollback discards everything written so far. It is a no-op after Commit.
func (b *BulkInserter) Rollback() error {
	if b.done {
		return nil
	}
	b.closeStmts()
	b.done = true
	return b.tx.Rollback()
}

func (b *BulkInserter) closeStmts() {
	b.folderStmt.Close() //nolint:errcheck // closed with the tx
	b.fileStmt.Close()   //nolint:errcheck // closed with the tx
}
