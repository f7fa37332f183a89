package store

import (
	"context"
	"fmt"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

const fileColumns = `id, folder_id, name, extension, size_bytes, modified_at, hash, title, artist`

func (db *DB) ListFiles(ctx context.Context, folderID int64) ([]domain.FileEntry, error) {
	var files []domain.FileEntry
	err := db.SelectContext(ctx, &files,
		`SELECT `+fileColumns+` FROM file_entries WHERE folder_id = ?`, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of folder %d: %w", folderID, err)
	}
	db.sortFiles(files)
	return files, nil
}
