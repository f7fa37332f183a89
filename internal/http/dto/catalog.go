package dto

import (
	"github.com/dustin/go-humanize"

	"github.com/VR3Dcz/FileCatalog/internal/catalog"
	"github.com/VR3Dcz/FileCatalog/internal/settings"
)

type CatalogStatusResponse struct {
	WorkingPath string `json:"working_path"`
	CurrentPath string `json:"current_path,omitempty"`
	Dirty       bool   `json:"dirty"`
	Drives      int    `json:"drives"`
	Folders     int    `json:"folders"`
	Files       int    `json:"files"`
	TotalBytes  int64  `json:"total_bytes"`
	SizeHuman   string `json:"size_human"`
}

func NewCatalogStatusResponse(s *catalog.Status) CatalogStatusResponse {
	resp := CatalogStatusResponse{
		WorkingPath: s.WorkingPath,
		CurrentPath: s.CurrentPath,
		Dirty:       s.Dirty,
	}
	if s.Stats != nil {
		resp.Drives = s.Stats.Drives
		resp.Folders = s.Stats.Folders
		resp.Files = s.Stats.Files
		resp.TotalBytes = s.Stats.TotalBytes
	}
	resp.SizeHuman = humanize.Bytes(uint64(resp.TotalBytes))
	return resp
}

type OpenRequest struct {
	Path string `json:"path"`
}

func (r *OpenRequest) Validate() []ValidationError {
	return validateRequiredPath("path", r.Path)
}

// SaveRequest saves to Path, or to the current catalog file when Path is empty.
type SaveRequest struct {
	Path string `json:"path"`
}

type SettingsRequest struct {
	Language                 string `json:"language"`
	AutoOpenLastCatalog      bool   `json:"auto_open_last_catalog"`
	AutoCalculateFolderSizes bool   `json:"auto_calculate_folder_sizes"`
	ReadAudioTags            bool   `json:"read_audio_tags"`
}

func (r *SettingsRequest) Validate() []ValidationError {
	return validateLanguage(r.Language)
}

// Apply returns cur with the request's fields; the last catalog path is not client-editable.
func (r *SettingsRequest) Apply(cur settings.AppSettings) settings.AppSettings {
	cur.Language = r.Language
	cur.AutoOpenLastCatalog = r.AutoOpenLastCatalog
	cur.AutoCalculateFolderSizes = r.AutoCalculateFolderSizes
	cur.ReadAudioTags = r.ReadAudioTags
	return cur
}
