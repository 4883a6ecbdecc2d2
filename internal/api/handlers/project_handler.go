package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/services"
)

type ProjectHandler struct {
	exports *services.ExportService
	log     *logger.Logger
}

func NewProjectHandler(exports *services.ExportService, log *logger.Logger) *ProjectHandler {
	return &ProjectHandler{exports: exports, log: log}
}

// Export copies a project's files to object storage.
func (h *ProjectHandler) Export(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	urls, err := h.exports.Export(r.Context(), projectID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "projectId": projectID, "urls": urls})
}
