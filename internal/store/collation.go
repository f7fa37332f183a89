package store

import (
	"slices"

	"golang.org/x/text/collate"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

// newCollator returns a case-insensitive collator for the configured language.
// Collators keep internal buffers, so each sort gets its own.
func (db *DB) newCollator() *collate.Collator {
	return collate.New(db.language(), collate.IgnoreCase)
}

func (db *DB) sortFolders(folders []domain.Folder) {
	c := db.newCollator()
	slices.SortStableFunc(folders, func(a, b domain.Folder) int {
		return c.CompareString(a.Name, b.Name)
	})
}

func (db *DB) sortFiles(files []domain.FileEntry) {
	c := db.newCollator()
	slices.SortStableFunc(files, func(a, b domain.FileEntry) int {
		return c.CompareString(a.Name, b.Name)
	})
}

func (db *DB) sortResults(results []domain.SearchResult) {
	c := db.newCollator()
	slices.SortStableFunc(results, func(a, b domain.SearchResult) int {
		return c.CompareString(a.Name, b.Name)
	})
}
