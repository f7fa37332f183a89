package httpapp

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
	"github.com/VR3Dcz/FileCatalog/internal/http/dto"
)

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.CatalogStatus)
		r.Post("/catalog/new", h.NewCatalog)
		r.Post("/catalog/open", h.OpenCatalog)
		r.Post("/catalog/save", h.SaveCatalog)

		r.Get("/drives", h.ListDrives)
		r.Post("/drives/scan", h.ScanDrive)
		r.Route("/drives/{id}", func(r chi.Router) {
			r.Patch("/", h.UpdateDrive)
			r.Delete("/", h.DeleteDrive)
			r.Post("/move", h.MoveDrive)
			r.Post("/rescan", h.RescanDrive)
			r.Post("/clear", h.ClearDrive)
			r.Get("/folders", h.ListSubfolders)
		})

		r.Route("/folders/{id}", func(r chi.Router) {
			r.Patch("/", h.RenameFolder)
			r.Get("/files", h.ListFiles)
			r.Get("/contents", h.FolderContents)
			r.Get("/ancestors", h.Ancestors)
			r.Get("/size", h.FolderSize)
		})

		r.Get("/search", h.Search)
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)
	})
}

func (h *Handler) CatalogStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Session.Status(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewCatalogStatusResponse(st))
}

func (h *Handler) NewCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.New(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.CatalogStatus(w, r)
}

func (h *Handler) OpenCatalog(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	if err := h.Session.Open(r.Context(), req.Path); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.CatalogStatus(w, r)
}

func (h *Handler) SaveCatalog(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveRequest
	if !h.decode(w, r, &req) {
		return
	}

	var err error
	if req.Path == "" {
		err = h.Session.SaveCurrent(r.Context())
	} else {
		err = h.Session.Save(r.Context(), req.Path)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.CatalogStatus(w, r)
}

func (h *Handler) ListDrives(w http.ResponseWriter, r *http.Request) {
	drives, err := h.Session.ListDrives(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewDriveList(drives))
}

func (h *Handler) ScanDrive(w http.ResponseWriter, r *http.Request) {
	var req dto.ScanRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	// a scan is one transaction; a client disconnect must not roll it back
	stats, err := h.Session.ScanDrive(context.WithoutCancel(r.Context()), req.Path)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewScanResponse(stats))
}

func (h *Handler) UpdateDrive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}
	var req dto.DriveUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	if req.Name != nil {
		if err := h.Session.RenameDrive(r.Context(), id, *req.Name); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	if req.SortOrder != nil {
		if err := h.Session.UpdateDriveSortOrder(r.Context(), id, *req.SortOrder); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	drive, err := h.Session.GetDrive(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewDriveResponse(drive))
}

func (h *Handler) DeleteDrive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}
	if err := h.Session.DeleteDrive(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MoveDrive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}
	var req dto.MoveDriveRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	if err := h.Session.MoveDrive(r.Context(), id, req.Delta); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ListDrives(w, r)
}

func (h *Handler) RescanDrive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}
	stats, err := h.Session.RescanDrive(context.WithoutCancel(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewScanResponse(stats))
}

func (h *Handler) ClearDrive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}
	if err := h.Session.ClearDriveContents(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSubfolders returns the drive's root folders, or the children of ?parent=.
func (h *Handler) ListSubfolders(w http.ResponseWriter, r *http.Request) {
	driveID, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}

	var parentID *int64
	if p := r.URL.Query().Get("parent"); p != "" {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			h.badID(w, "parent")
			return
		}
		parentID = &v
	}

	folders, err := h.Session.ListSubfolders(r.Context(), driveID, parentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewFolderList(folders))
}

func (h *Handler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}
	var req dto.RenameRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	if err := h.Session.RenameFolder(r.Context(), id, req.Name); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}
	files, err := h.Session.ListFiles(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewFileList(files))
}

func (h *Handler) FolderContents(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}
	contents, err := h.Session.FolderContents(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewFolderContentsResponse(contents))
}

func (h *Handler) Ancestors(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}
	chain, err := h.Session.ResolveAncestorChain(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]int64{"ids": chain})
}

func (h *Handler) FolderSize(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.badID(w, "id")
		return
	}
	total, err := h.Session.FolderTotalSize(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewSizeResponse(id, total))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	mode, err := domain.ParseSearchMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.writeValidation(w, []dto.ValidationError{{Field: "mode", Message: "must be fulltext or regex"}})
		return
	}

	results, err := h.Session.Search(r.Context(), query, mode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewSearchResponse(query, mode, results))
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Session.Settings())
}

func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req dto.SettingsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	updated, err := h.Session.UpdateSettings(req.Apply(h.Session.Settings()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}
