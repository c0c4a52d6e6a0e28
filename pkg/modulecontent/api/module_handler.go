package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/trainware/module-content/pkg/modulecontent"
)

// ModuleHandler handles HTTP requests for module content using
// pkg/modulecontent.
type ModuleHandler struct {
	service modulecontent.Service
	logger  *slog.Logger
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(service modulecontent.Service, logger *slog.Logger) *ModuleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModuleHandler{service: service, logger: logger}
}

// Routes returns the routes for modules
func (h *ModuleHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateModule)
	r.Put("/{id}", h.UpdateModule)
	r.Get("/{id}", h.GetModule)
	r.Post("/import", h.ImportArchive)
	r.Get("/{id}/export", h.ExportArchive)

	return r
}

// ModuleResponse is the response body for a module, content included.
type ModuleResponse struct {
	ID             int64                          `json:"id"`
	Title          string                         `json:"title"`
	Slug           string                         `json:"slug,omitempty"`
	Kind           modulecontent.ModuleKind       `json:"kind"`
	Published      bool                           `json:"published"`
	PassMarks      int                            `json:"pass_marks"`
	TotalMarks     int                            `json:"total_marks"`
	LinkedModuleID *int64                         `json:"linked_module_id,omitempty"`
	FileSource     string                         `json:"file_source,omitempty"`
	Content        *modulecontent.ContentDocument `json:"content"`
	CreatedAt      time.Time                      `json:"created_at"`
	UpdatedAt      time.Time                      `json:"updated_at"`
}

func moduleResponse(m *modulecontent.Module) ModuleResponse {
	var doc *modulecontent.ContentDocument
	if len(m.Content) > 0 {
		doc = &modulecontent.ContentDocument{}
		if err := json.Unmarshal(m.Content, doc); err != nil {
			doc = modulecontent.NewContentDocument()
		}
	}
	return ModuleResponse{
		ID:             m.ID,
		Title:          m.Title,
		Slug:           m.Slug,
		Kind:           m.Kind,
		Published:      m.Published,
		PassMarks:      m.PassMarks,
		TotalMarks:     m.TotalMarks,
		LinkedModuleID: m.LinkedModuleID,
		FileSource:     m.FileSource,
		Content:        doc,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// CreateModule saves a brand-new module.
func (h *ModuleHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req modulecontent.SaveModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid request body"})
		return
	}
	req.ModuleID = nil

	m, err := h.service.SaveModule(r.Context(), req)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, moduleResponse(m))
}

// UpdateModule saves an existing module.
func (h *ModuleHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid module id"})
		return
	}

	var req modulecontent.SaveModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid request body"})
		return
	}
	req.ModuleID = &id

	m, err := h.service.SaveModule(r.Context(), req)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, moduleResponse(m))
}

// GetModule loads a module with its content reconstructed through the
// recovery chain. Missing content comes back as empty sections, never as an
// error.
func (h *ModuleHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid module id"})
		return
	}

	m, err := h.service.LoadModule(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, moduleResponse(m))
}

// ImportArchive creates a module from an uploaded zip archive.
func (h *ModuleHandler) ImportArchive(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "archive body required"})
		return
	}

	m, err := h.service.ImportArchive(r.Context(), data)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, moduleResponse(m))
}

// ExportArchive streams the module's content as a zip archive.
func (h *ModuleHandler) ExportArchive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid module id"})
		return
	}

	data, err := h.service.ExportArchive(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename=\"module_"+strconv.FormatInt(id, 10)+".zip\"")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write export archive", "module_id", id, "err", err)
	}
}

func (h *ModuleHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, modulecontent.ErrModuleNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "module not found"})
	case errors.Is(err, modulecontent.ErrEmptyArchive), errors.Is(err, modulecontent.ErrMalformedContent):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("request failed", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "internal error"})
	}
}
