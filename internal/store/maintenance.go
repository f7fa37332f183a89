package store

import (
	"context"
	"fmt"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

// Compact reclaims free pages and folds the write-ahead log back into the main file,
// leaving a single self-contained file on disk.
func (db *DB) Compact(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("failed to vacuum: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("failed to checkpoint: %w", err)
	}
	return nil
}

func (db *DB) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM drives) AS drives,
			(SELECT COUNT(*) FROM folders) AS folders,
			(SELECT COUNT(*) FROM file_entries) AS files,
			(SELECT COALESCE(SUM(size_bytes), 0) FROM file_entries) AS total_bytes`

	var stats domain.CatalogStats
	if err := db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to read catalog stats: %w", err)
	}
	return &stats, nil
}
