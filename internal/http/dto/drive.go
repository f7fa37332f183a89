package dto

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

type DriveResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Identifier    string `json:"identifier"`
	SortOrder     int    `json:"sort_order"`
	LastScannedAt string `json:"last_scanned_at"`
}

func NewDriveResponse(d *domain.Drive) DriveResponse {
	return DriveResponse{
		ID:            d.ID,
		Name:          d.Name,
		Identifier:    d.Identifier,
		SortOrder:     d.SortOrder,
		LastScannedAt: d.LastScannedAt.Format(time.RFC3339),
	}
}

func NewDriveList(drives []domain.Drive) []DriveResponse {
	out := make([]DriveResponse, 0, len(drives))
	for i := range drives {
		out = append(out, NewDriveResponse(&drives[i]))
	}
	return out
}

// DriveUpdateRequest changes any subset of a drive's user-editable fields.
type DriveUpdateRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order"`
}

func (r *DriveUpdateRequest) Validate() []ValidationError {
	var errs []ValidationError
	if r.Name == nil && r.SortOrder == nil {
		errs = append(errs, ValidationError{Field: "body", Message: "name or sort_order is required"})
	}
	errs = append(errs, validateName("name", r.Name)...)
	errs = append(errs, validateSortOrder(r.SortOrder)...)
	return errs
}

type MoveDriveRequest struct {
	Delta int `json:"delta"`
}

func (r *MoveDriveRequest) Validate() []ValidationError {
	var errs []ValidationError
	if r.Delta == 0 {
		errs = append(errs, ValidationError{Field: "delta", Message: "must not be zero"})
	}
	return errs
}

type ScanRequest struct {
	Path string `json:"path"`
}

func (r *ScanRequest) Validate() []ValidationError {
	return validateRequiredPath("path", r.Path)
}

type ScanResponse struct {
	ScanID      string `json:"scan_id"`
	DriveID     int64  `json:"drive_id"`
	RootPath    string `json:"root_path"`
	Folders     int    `json:"folders"`
	Files       int    `json:"files"`
	TotalBytes  int64  `json:"total_bytes"`
	SizeHuman   string `json:"size_human"`
	TaggedFiles int    `json:"tagged_files"`
	HashedFiles int    `json:"hashed_files"`
	SkippedDirs int    `json:"skipped_dirs"`
	Duration    string `json:"duration"`
}

func NewScanResponse(s *domain.ScanStats) ScanResponse {
	return ScanResponse{
		ScanID:      s.ScanID,
		DriveID:     s.DriveID,
		RootPath:    s.RootPath,
		Folders:     s.Folders,
		Files:       s.Files,
		TotalBytes:  s.TotalBytes,
		SizeHuman:   humanize.Bytes(uint64(s.TotalBytes)),
		TaggedFiles: s.TaggedFiles,
		HashedFiles: s.HashedFiles,
		SkippedDirs: s.SkippedDirs,
		Duration:    s.Duration.Round(time.Millisecond).String(),
	}
}
