package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/VR3Dcz/FileCatalog/internal/constants"
	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

const searchSelect = `
	SELECT fi.id AS file_id, fi.folder_id, fol.drive_id, fi.name, fi.extension,
		fi.size_bytes, fi.modified_at, fi.title, fi.artist,
		d.name AS drive_name, fol.relative_path
	FROM file_entries fi
	JOIN folders fol ON fol.id = fi.folder_id
	JOIN drives d ON d.id = fol.drive_id`

// Search finds files by name. Full-text mode runs a prefix match on the name index;
// regex mode evaluates a case-insensitive pattern against every name.
func (db *DB) Search(ctx context.Context, query string, mode domain.SearchMode) ([]domain.SearchResult, error) {
	switch mode {
	case domain.SearchFullText:
		return db.searchFullText(ctx, query)
	case domain.SearchRegex:
		return db.searchRegex(ctx, query)
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}
}

func (db *DB) searchFullText(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}, nil
	}

	q := searchSelect + `
	WHERE fi.id IN (SELECT rowid FROM file_entries_fts WHERE file_entries_fts MATCH ?)
	ORDER BY fi.name COLLATE NOCASE
	LIMIT ?`

	results := []domain.SearchResult{}
	if err := db.SelectContext(ctx, &results, q, ftsPrefixQuery(query), constants.MaxSearchResults); err != nil {
		return nil, fmt.Errorf("full-text search %q: %w", query, err)
	}
	db.finishResults(results)
	return results, nil
}

func (db *DB) searchRegex(ctx context.Context, pattern string) ([]domain.SearchResult, error) {
	if _, err := compileSearchPattern(pattern); err != nil {
		return nil, err
	}

	q := searchSelect + `
	WHERE fi.name REGEXP ?
	ORDER BY fi.name COLLATE NOCASE
	LIMIT ?`

	results := []domain.SearchResult{}
	if err := db.SelectContext(ctx, &results, q, pattern, constants.MaxSearchResults); err != nil {
		return nil, fmt.Errorf("regex search %q: %w", pattern, err)
	}
	db.finishResults(results)
	return results, nil
}

func (db *DB) finishResults(results []domain.SearchResult) {
	for i := range results {
		results[i].Path = domain.DisplayPath(results[i].DriveName, results[i].RelativePath)
	}
	db.sortResults(results)
}

// ftsPrefixQuery quotes the input as a single FTS5 string and adds a prefix wildcard,
// so user text never reaches the FTS query parser as operators.
func ftsPrefixQuery(q string) string {
	return `"` + strings.ReplaceAll(q, `"`, `""`) + `"*`
}
