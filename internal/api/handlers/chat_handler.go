package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	middleware "github.com/markdave123-py/Appcraft/internal/api/middlewares"
	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/core/preview"
	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/models"
	"github.com/markdave123-py/Appcraft/internal/services"
)

type ChatHandler struct {
	chat *services.ChatService
	log  *logger.Logger
}

func NewChatHandler(chat *services.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

type ChatRequest struct {
	Message string `json:"message"`
	// Prompt is accepted as an alias of Message.
	Prompt              string        `json:"prompt"`
	History             []models.Turn `json:"history"`
	ConversationHistory []models.Turn `json:"conversationHistory"`
	ProjectID           string        `json:"projectId"`
	SessionID           string        `json:"sessionId"`
}

type ChatResponse struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	Files      *models.Files `json:"files,omitempty"`
	ProjectID  string        `json:"projectId"`
	SessionID  string        `json:"sessionId"`
	PreviewURL string        `json:"previewUrl"`
	Fallback   bool          `json:"fallback"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, err := h.parse(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	res, err := h.chat.Chat(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatResponse(res))
}

// ChatStream answers with server-sent events: progress events while the
// completion runs, one response event, then [DONE].
func (h *ChatHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	req, err := h.parse(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, h.log, fmt.Errorf("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(v any) {
		b, err := json.Marshal(v)
		if err != nil {
			h.log.Error("encode sse event", "error", err)
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", b)
		flusher.Flush()
	}

	res, err := h.chat.ChatStream(r.Context(), req, func(msg string) {
		send(map[string]string{"type": "progress", "message": msg})
	})
	if err != nil {
		send(map[string]any{"type": "error", "error": err.Error()})
	} else {
		send(struct {
			Type string `json:"type"`
			ChatResponse
		}{Type: "response", ChatResponse: toChatResponse(res)})
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func (h *ChatHandler) parse(r *http.Request) (services.ChatRequest, error) {
	var body ChatRequest
	if err := decodeJSON(r, &body); err != nil {
		return services.ChatRequest{}, err
	}
	message := body.Message
	if strings.TrimSpace(message) == "" {
		message = body.Prompt
	}
	if strings.TrimSpace(message) == "" {
		return services.ChatRequest{}, apperr.Invalid("message", "message is required")
	}
	history := body.History
	if len(history) == 0 {
		history = body.ConversationHistory
	}

	userID, _ := middleware.UserID(r.Context())
	return services.ChatRequest{
		Message:   message,
		History:   history,
		ProjectID: body.ProjectID,
		SessionID: body.SessionID,
		UserID:    userID,
	}, nil
}

func toChatResponse(res *services.ChatResponse) ChatResponse {
	return ChatResponse{
		Success:    true,
		Message:    res.Message,
		Files:      res.Files,
		ProjectID:  res.ProjectID,
		SessionID:  res.SessionID,
		PreviewURL: preview.URL(res.ProjectID),
		Fallback:   res.Fallback,
	}
}
