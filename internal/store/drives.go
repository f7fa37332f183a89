package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

func (db *DB) ListDrives(ctx context.Context) ([]domain.Drive, error) {
	var drives []domain.Drive
	err := db.SelectContext(ctx, &drives,
		`SELECT id, name, identifier, sort_order, last_scanned_at FROM drives ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drives: %w", err)
	}
	return drives, nil
}

func (db *DB) GetDrive(ctx context.Context, id int64) (*domain.Drive, error) {
	var d domain.Drive
	err := db.GetContext(ctx, &d,
		`SELECT id, name, identifier, sort_order, last_scanned_at FROM drives WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("drive %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drive %d: %w", id, err)
	}
	return &d, nil
}

// GetOrCreateDrive looks a drive up by identifier, ignoring case. An existing drive
// gets its last scan time bumped; a new one is appended after the highest sort order.
func (db *DB) GetOrCreateDrive(ctx context.Context, name, identifier string) (int64, error) {
	var id int64
	now := time.Now().UTC()

	err := db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &id,
			`SELECT id FROM drives WHERE identifier = ? COLLATE NOCASE`, identifier)
		switch {
		case err == nil:
			_, err = tx.ExecContext(ctx, `UPDATE drives SET last_scanned_at = ? WHERE id = ?`, now, id)
			return err
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO drives (name, identifier, sort_order, last_scanned_at)
			VALUES (?, ?, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM drives), ?)`,
			name, identifier, now)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get or create drive %q: %w", identifier, err)
	}
	return id, nil
}

func (db *DB) UpdateDriveSortOrder(ctx context.Context, id int64, order int) error {
	res, err := db.ExecContext(ctx, `UPDATE drives SET sort_order = ? WHERE id = ?`, order, id)
	if err != nil {
		return fmt.Errorf("failed to update sort order of drive %d: %w", id, err)
	}
	return expectAffected(res, "drive", id)
}

func (db *DB) RenameDrive(ctx context.Context, id int64, name string) error {
	res, err := db.ExecContext(ctx, `UPDATE drives SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename drive %d: %w", id, err)
	}
	return expectAffected(res, "drive", id)
}

// DeleteDrive removes the drive together with its folders and files.
func (db *DB) DeleteDrive(ctx context.Context, id int64) error {
	return db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if err := deleteDriveContents(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM drives WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete drive %d: %w", id, err)
		}
		return expectAffected(res, "drive", id)
	})
}

// ClearDriveContents drops every folder and file of the drive but keeps the drive row.
func (db *DB) ClearDriveContents(ctx context.Context, id int64) error {
	if _, err := db.GetDrive(ctx, id); err != nil {
		return err
	}
	return db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		return deleteDriveContents(ctx, tx, id)
	})
}

// deleteDriveContents deletes files and then folders by drive id, without walking
// the folder tree, so the depth of the tree does not matter. The parent_id
// constraint is deferred to commit, which makes the folder delete order irrelevant.
func deleteDriveContents(ctx context.Context, tx sqlx.ExecerContext, driveID int64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM file_entries WHERE folder_id IN (SELECT id FROM folders WHERE drive_id = ?)`, driveID); err != nil {
		return fmt.Errorf("failed to clear files of drive %d: %w", driveID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE drive_id = ?`, driveID); err != nil {
		return fmt.Errorf("failed to clear drive %d: %w", driveID, err)
	}
	return nil
}

// ReorderDrives assigns sort orders 0..n-1 following the order of ids.
func (db *DB) ReorderDrives(ctx context.Context, ids []int64) error {
	return db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, `UPDATE drives SET sort_order = ? WHERE id = ?`)
		if err != nil {
			return fmt.Errorf("failed to prepare reorder: %w", err)
		}
		defer stmt.Close() //nolint:errcheck // deferred cleanup

		for i, id := range ids {
			res, err := stmt.ExecContext(ctx, i, id)
			if err != nil {
				return fmt.Errorf("failed to reorder drive %d: %w", id, err)
			}
			if err := expectAffected(res, "drive", id); err != nil {
				return err
			}
		}
		return nil
	})
}

func expectAffected(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}
