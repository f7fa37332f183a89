package dto

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/VR3Dcz/FileCatalog/internal/constants"
	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

type SearchResultResponse struct {
	FileID     int64  `json:"file_id"`
	FolderID   int64  `json:"folder_id"`
	DriveID    int64  `json:"drive_id"`
	Name       string `json:"name"`
	Extension  string `json:"extension"`
	Path       string `json:"path"`
	SizeBytes  int64  `json:"size_bytes"`
	SizeHuman  string `json:"size_human"`
	ModifiedAt string `json:"modified_at"`
	Title      string `json:"title,omitempty"`
	Artist     string `json:"artist,omitempty"`
}

type SearchResponse struct {
	Query   string                 `json:"query"`
	Mode    string                 `json:"mode"`
	Count   int                    `json:"count"`
	Capped  bool                   `json:"capped"`
	Results []SearchResultResponse `json:"results"`
}

func NewSearchResponse(query string, mode domain.SearchMode, results []domain.SearchResult) SearchResponse {
	resp := SearchResponse{
		Query:   query,
		Mode:    mode.String(),
		Count:   len(results),
		Capped:  len(results) >= constants.MaxSearchResults,
		Results: make([]SearchResultResponse, 0, len(results)),
	}
	for _, r := range results {
		item := SearchResultResponse{
			FileID:     r.FileID,
			FolderID:   r.FolderID,
			DriveID:    r.DriveID,
			Name:       r.Name,
			Extension:  r.Extension,
			Path:       r.Path,
			SizeBytes:  r.SizeBytes,
			SizeHuman:  humanize.Bytes(uint64(r.SizeBytes)),
			ModifiedAt: r.ModifiedAt.Format(time.RFC3339),
		}
		if r.Title != nil {
			item.Title = *r.Title
		}
		if r.Artist != nil {
			item.Artist = *r.Artist
		}
		resp.Results = append(resp.Results, item)
	}
	return resp
}
