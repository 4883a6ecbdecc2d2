package handlers

import (
	"net/http"
	"time"
)

// GeneratorInfo describes the completion backend for diagnostics.
type GeneratorInfo interface {
	Configured() bool
	Model() string
}

type StatusHandler struct {
	gen      GeneratorInfo
	projects func() int
	sessions func() int
}

func NewStatusHandler(gen GeneratorInfo, projects, sessions func() int) *StatusHandler {
	return &StatusHandler{gen: gen, projects: projects, sessions: sessions}
}

func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"configured": h.gen.Configured(),
		"model":      h.gen.Model(),
		"projects":   h.projects(),
		"sessions":   h.sessions(),
		"timestamp":  time.Now().UTC(),
	})
}

func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
