package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/Appcraft/internal/core/preview"
	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/models"
	"github.com/markdave123-py/Appcraft/internal/services"
)

type PreviewHandler struct {
	projects  *services.ProjectService
	responder *preview.Responder
	log       *logger.Logger
}

func NewPreviewHandler(projects *services.ProjectService, responder *preview.Responder, log *logger.Logger) *PreviewHandler {
	return &PreviewHandler{projects: projects, responder: responder, log: log}
}

type previewRequest struct {
	ProjectID string        `json:"projectId"`
	Files     *models.Files `json:"files"`
}

// Create stores a project's files wholesale. Update is the same operation.
func (h *PreviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	previewURL, err := h.projects.Save(r.Context(), req.ProjectID, req.Files)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "url": previewURL, "projectId": req.ProjectID})
}

// Stop removes a project. Unknown ids succeed.
func (h *PreviewHandler) Stop(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.projects.Delete(r.Context(), req.ProjectID); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *PreviewHandler) Debug(w http.ResponseWriter, r *http.Request) {
	ids := h.projects.IDs()
	writeJSON(w, http.StatusOK, map[string]any{
		"totalPreviews": len(ids),
		"previewIds":    ids,
	})
}

func (h *PreviewHandler) ProjectFiles(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	files, err := h.projects.Files(r.Context(), projectID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"projectId": projectID,
		"files":     files,
	})
}

// CodeStatus reports whether a project has been generated yet.
func (h *PreviewHandler) CodeStatus(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	files, ok := h.projects.Lookup(projectID)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"status": "in-progress", "projectId": projectID})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "completed",
		"projectId":  projectID,
		"files":      files,
		"previewUrl": preview.URL(projectID),
		"timestamp":  time.Now().UTC(),
	})
}

// ServePage redirects the bare project path to its slash form, which is
// where the page itself is served.
func (h *PreviewHandler) ServePage(w http.ResponseWriter, r *http.Request) {
	target := preview.URL(chi.URLParam(r, "projectId"))
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func (h *PreviewHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	if p == "" {
		h.responder.ServeProject(w, r, chi.URLParam(r, "projectId"))
		return
	}
	h.responder.ServeFile(w, r, chi.URLParam(r, "projectId"), p)
}
