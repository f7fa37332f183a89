package domain

import (
	"strings"
	"time"
)

// Drive is a top-level scanned root tracked as one catalog entry.
type Drive struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Identifier    string    `json:"identifier" db:"identifier"`
	SortOrder     int       `json:"sort_order" db:"sort_order"`
	LastScannedAt time.Time `json:"last_scanned_at" db:"last_scanned_at"`
}

// Folder is a directory node inside a drive. ParentID is nil for the drive root.
type Folder struct {
	ID           int64  `json:"id" db:"id"`
	DriveID      int64  `json:"drive_id" db:"drive_id"`
	ParentID     *int64 `json:"parent_id,omitempty" db:"parent_id"`
	Name         string `json:"name" db:"name"`
	RelativePath string `json:"relative_path" db:"relative_path"`
}

// IsRoot reports whether the folder is a drive root.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// FileEntry is the cataloged metadata of one file.
type FileEntry struct {
	ID         int64     `json:"id" db:"id"`
	FolderID   int64     `json:"folder_id" db:"folder_id"`
	Name       string    `json:"name" db:"name"`
	Extension  string    `json:"extension" db:"extension"`
	SizeBytes  int64     `json:"size_bytes" db:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at" db:"modified_at"`
	Hash       *string   `json:"hash,omitempty" db:"hash"`
	Title      *string   `json:"title,omitempty" db:"title"`
	Artist     *string   `json:"artist,omitempty" db:"artist"`
}

// HasAudioMetadata reports whether tag extraction populated title or artist.
func (f *FileEntry) HasAudioMetadata() bool {
	return (f.Title != nil && *f.Title != "") || (f.Artist != nil && *f.Artist != "")
}

// NormalizeExtension lower-cases an extension and keeps its leading dot.
func NormalizeExtension(ext string) string {
	if ext == "" {
		return ""
	}
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// SearchResult is a file hit joined with its folder and drive.
type SearchResult struct {
	FileID     int64     `json:"file_id" db:"file_id"`
	FolderID   int64     `json:"folder_id" db:"folder_id"`
	DriveID    int64     `json:"drive_id" db:"drive_id"`
	Name       string    `json:"name" db:"name"`
	Extension  string    `json:"extension" db:"extension"`
	SizeBytes  int64     `json:"size_bytes" db:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at" db:"modified_at"`
	Title      *string   `json:"title,omitempty" db:"title"`
	Artist     *string   `json:"artist,omitempty" db:"artist"`
	Path       string    `json:"path" db:"-"`

	DriveName    string `json:"-" db:"drive_name"`
	RelativePath string `json:"-" db:"relative_path"`
}

// DisplayPath joins a drive name and a folder's relative path. A drive named after
// a volume root such as "/" or `C:\` contributes no separator of its own.
func DisplayPath(driveName, relativePath string) string {
	if relativePath == "" {
		return driveName
	}
	return strings.TrimRight(driveName, `/\`) + relativePath
}

// FolderItem is one row of a mixed folder listing: subfolders first, then files.
type FolderItem struct {
	IsFolder   bool       `json:"is_folder"`
	FolderID   int64      `json:"folder_id"`
	FileID     int64      `json:"file_id,omitempty"`
	Name       string     `json:"name"`
	Extension  string     `json:"extension"`
	Path       string     `json:"path"`
	SizeBytes  *int64     `json:"size_bytes,omitempty"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
	Title      *string    `json:"title,omitempty"`
	Artist     *string    `json:"artist,omitempty"`
}

// FolderContents is the listing shown when a folder is selected.
type FolderContents struct {
	Folder           *Folder      `json:"folder"`
	Items            []FolderItem `json:"items"`
	HasAudioMetadata bool         `json:"has_audio_metadata"`
}

// ScanStats summarizes one bulk load.
type ScanStats struct {
	ScanID      string        `json:"scan_id"`
	DriveID     int64         `json:"drive_id"`
	RootPath    string        `json:"root_path"`
	Folders     int           `json:"folders"`
	Files       int           `json:"files"`
	TotalBytes  int64         `json:"total_bytes"`
	TaggedFiles int           `json:"tagged_files"`
	HashedFiles int           `json:"hashed_files"`
	SkippedDirs int           `json:"skipped_dirs"`
	Duration    time.Duration `json:"duration"`
}

// CatalogStats holds row counts of the whole catalog.
type CatalogStats struct {
	Drives     int   `json:"drives" db:"drives"`
	Folders    int   `json:"folders" db:"folders"`
	Files      int   `json:"files" db:"files"`
	TotalBytes int64 `json:"total_bytes" db:"total_bytes"`
}
