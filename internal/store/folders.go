package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

const folderColumns = `id, drive_id, parent_id, name, relative_path`

func (db *DB) GetFolder(ctx context.Context, id int64) (*domain.Folder, error) {
	var f domain.Folder
	err := db.GetContext(ctx, &f, `SELECT `+folderColumns+` FROM folders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("folder %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get folder %d: %w", id, err)
	}
	return &f, nil
}

// ListSubfolders returns the children of parentID, or the drive's root folders when parentID is nil.
func (db *DB) ListSubfolders(ctx context.Context, driveID int64, parentID *int64) ([]domain.Folder, error) {
	var (
		folders []domain.Folder
		err     error
	)
	if parentID == nil {
		err = db.SelectContext(ctx, &folders,
			`SELECT `+folderColumns+` FROM folders WHERE drive_id = ? AND parent_id IS NULL`, driveID)
	} else {
		err = db.SelectContext(ctx, &folders,
			`SELECT `+folderColumns+` FROM folders WHERE drive_id = ? AND parent_id = ?`, driveID, *parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list subfolders of drive %d: %w", driveID, err)
	}
	db.sortFolders(folders)
	return folders, nil
}

// RenameFolder changes only the display name. Stored relative paths, including
// those of descendants, keep the name the folder had at scan time.
func (db *DB) RenameFolder(ctx context.Context, id int64, name string) error {
	res, err := db.ExecContext(ctx, `UPDATE folders SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename folder %d: %w", id, err)
	}
	return expectAffected(res, "folder", id)
}

// ResolveAncestorChain walks parent links up to the drive root and returns ids root-first.
func (db *DB) ResolveAncestorChain(ctx context.Context, folderID int64) ([]int64, error) {
	var chain []int64
	seen := make(map[int64]struct{})

	current := &folderID
	for current != nil {
		id := *current
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("cycle in folder parents at %d", id)
		}
		seen[id] = struct{}{}

		var parent *int64
		err := db.GetContext(ctx, &parent, `SELECT parent_id FROM folders WHERE id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("folder %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parent of folder %d: %w", id, err)
		}

		chain = append(chain, id)
		current = parent
	}

	slices.Reverse(chain)
	return chain, nil
}

// FolderTotalSize sums file sizes over the folder and all of its descendants.
func (db *DB) FolderTotalSize(ctx context.Context, folderID int64) (int64, error) {
	if _, err := db.GetFolder(ctx, folderID); err != nil {
		return 0, err
	}

	query := `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM folders WHERE id = ?
			UNION ALL
			SELECT f.id FROM folders f JOIN subtree s ON f.parent_id = s.id
		)
		SELECT COALESCE(SUM(fi.size_bytes), 0)
		FROM file_entries fi
		WHERE fi.folder_id IN (SELECT id FROM subtree)`

	var total int64
	if err := db.GetContext(ctx, &total, query, folderID); err != nil {
		return 0, fmt.Errorf("failed to compute size of folder %d: %w", folderID, err)
	}
	return total, nil
}
