package httpapp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/VR3Dcz/FileCatalog/internal/archive"
	"github.com/VR3Dcz/FileCatalog/internal/catalog"
	"github.com/VR3Dcz/FileCatalog/internal/http/dto"
	"github.com/VR3Dcz/FileCatalog/internal/logger"
	"github.com/VR3Dcz/FileCatalog/internal/scanner"
	"github.com/VR3Dcz/FileCatalog/internal/storage"
	"github.com/VR3Dcz/FileCatalog/internal/store"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Session *catalog.Session
	Logger  *logger.Logger
}

func NewHandler(s *catalog.Session, log *logger.Logger) *Handler {
	return &Handler{
		Session: s,
		Logger:  logger.OrDefault(log).WithComponent("http"),
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to status codes. Anything unrecognized is a 500
// and is logged.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, store.ErrNotFound), storage.IsNotExist(err):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidPattern), errors.Is(err, catalog.ErrNoCurrentPath):
		status = http.StatusBadRequest
	case errors.Is(err, scanner.ErrRootNotFound), errors.Is(err, archive.ErrCorruptArchive):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.Logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) writeValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	h.writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:  dto.ToResponse(errs),
		Fields: dto.ToMap(errs),
	})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
	return false
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (h *Handler) badID(w http.ResponseWriter, name string) {
	h.writeValidation(w, []dto.ValidationError{{Field: name, Message: "must be an integer id"}})
}
