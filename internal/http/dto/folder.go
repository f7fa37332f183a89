package dto

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

type FolderResponse struct {
	ID           int64  `json:"id"`
	DriveID      int64  `json:"drive_id"`
	ParentID     *int64 `json:"parent_id,omitempty"`
	Name         string `json:"name"`
	RelativePath string `json:"relative_path"`
}

func NewFolderResponse(f *domain.Folder) FolderResponse {
	return FolderResponse{
		ID:           f.ID,
		DriveID:      f.DriveID,
		ParentID:     f.ParentID,
		Name:         f.Name,
		RelativePath: f.RelativePath,
	}
}

func NewFolderList(folders []domain.Folder) []FolderResponse {
	out := make([]FolderResponse, 0, len(folders))
	for i := range folders {
		out = append(out, NewFolderResponse(&folders[i]))
	}
	return out
}

type FileResponse struct {
	ID         int64  `json:"id"`
	FolderID   int64  `json:"folder_id"`
	Name       string `json:"name"`
	Extension  string `json:"extension"`
	SizeBytes  int64  `json:"size_bytes"`
	SizeHuman  string `json:"size_human"`
	ModifiedAt string `json:"modified_at"`
	Hash       string `json:"hash,omitempty"`
	Title      string `json:"title,omitempty"`
	Artist     string `json:"artist,omitempty"`
}

func NewFileResponse(f *domain.FileEntry) FileResponse {
	resp := FileResponse{
		ID:         f.ID,
		FolderID:   f.FolderID,
		Name:       f.Name,
		Extension:  f.Extension,
		SizeBytes:  f.SizeBytes,
		SizeHuman:  humanize.Bytes(uint64(f.SizeBytes)),
		ModifiedAt: f.ModifiedAt.Format(time.RFC3339),
	}
	if f.Hash != nil {
		resp.Hash = *f.Hash
	}
	if f.Title != nil {
		resp.Title = *f.Title
	}
	if f.Artist != nil {
		resp.Artist = *f.Artist
	}
	return resp
}

func NewFileList(files []domain.FileEntry) []FileResponse {
	out := make([]FileResponse, 0, len(files))
	for i := range files {
		out = append(out, NewFileResponse(&files[i]))
	}
	return out
}

type FolderItemResponse struct {
	IsFolder   bool   `json:"is_folder"`
	FolderID   int64  `json:"folder_id"`
	FileID     int64  `json:"file_id,omitempty"`
	Name       string `json:"name"`
	Extension  string `json:"extension,omitempty"`
	Path       string `json:"path"`
	SizeBytes  *int64 `json:"size_bytes,omitempty"`
	SizeHuman  string `json:"size_human,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	Title      string `json:"title,omitempty"`
	Artist     string `json:"artist,omitempty"`
}

type FolderContentsResponse struct {
	Folder           FolderResponse       `json:"folder"`
	Items            []FolderItemResponse `json:"items"`
	HasAudioMetadata bool                 `json:"has_audio_metadata"`
}

func NewFolderContentsResponse(c *domain.FolderContents) FolderContentsResponse {
	resp := FolderContentsResponse{
		Folder:           NewFolderResponse(c.Folder),
		Items:            make([]FolderItemResponse, 0, len(c.Items)),
		HasAudioMetadata: c.HasAudioMetadata,
	}
	for _, it := range c.Items {
		item := FolderItemResponse{
			IsFolder:  it.IsFolder,
			FolderID:  it.FolderID,
			FileID:    it.FileID,
			Name:      it.Name,
			Extension: it.Extension,
			Path:      it.Path,
			SizeBytes: it.SizeBytes,
		}
		if it.SizeBytes != nil {
			item.SizeHuman = humanize.Bytes(uint64(*it.SizeBytes))
		}
		if it.ModifiedAt != nil {
			item.ModifiedAt = it.ModifiedAt.Format(time.RFC3339)
		}
		if it.Title != nil {
			item.Title = *it.Title
		}
		if it.Artist != nil {
			item.Artist = *it.Artist
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

type RenameRequest struct {
	Name string `json:"name"`
}

func (r *RenameRequest) Validate() []ValidationError {
	return validateName("name", &r.Name)
}

type SizeResponse struct {
	FolderID   int64  `json:"folder_id"`
	TotalBytes int64  `json:"total_bytes"`
	SizeHuman  string `json:"size_human"`
}

func NewSizeResponse(folderID, total int64) SizeResponse {
	return SizeResponse{FolderID: folderID, TotalBytes: total, SizeHuman: humanize.Bytes(uint64(total))}
}
