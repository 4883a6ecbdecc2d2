package services

import (
	"context"
	"strings"

	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/core/generation"
	"github.com/markdave123-py/Appcraft/internal/core/sessions"
	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/models"
)

// Generator is implemented by *generation.Orchestrator.
type Generator interface {
	Generate(ctx context.Context, in generation.Input) (generation.Result, error)
	GenerateStream(ctx context.Context, in generation.Input, onProgress func(string)) (generation.Result, error)
}

// Mirror copies generated projects somewhere outside the process.
type Mirror interface {
	Sync(ctx context.Context, projectID string, files *models.Files) error
}

type ChatRequest struct {
	Message   string
	History   []models.Turn
	ProjectID string
	SessionID string
	UserID    string
}

type ChatResponse struct {
	Message   string
	Files     *models.Files
	ProjectID string
	SessionID string
	Fallback  bool
}

type ChatService struct {
	sessions  *sessions.Tracker
	generator Generator
	mirror    Mirror
	log       *logger.Logger
}

// NewChatService wires the chat flow. mirror may be nil.
func NewChatService(tracker *sessions.Tracker, gen Generator, mirror Mirror, log *logger.Logger) *ChatService {
	if log == nil {
		log = logger.Nop()
	}
	return &ChatService{
		sessions:  tracker,
		generator: gen,
		mirror:    mirror,
		log:       log.With("component", "ChatService"),
	}
}

func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return s.handle(ctx, req, nil)
}

// ChatStream runs the same flow as Chat and reports progress on the way.
func (s *ChatService) ChatStream(ctx context.Context, req ChatRequest, onProgress func(string)) (*ChatResponse, error) {
	if onProgress == nil {
		onProgress = func(string) {}
	}
	return s.handle(ctx, req, onProgress)
}

func (s *ChatService) handle(ctx context.Context, req ChatRequest, onProgress func(string)) (*ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperr.Invalid("message", "message is required")
	}
	if req.ProjectID != "" {
		if err := checkProjectID(req.ProjectID); err != nil {
			return nil, err
		}
	}

	session, created := s.sessions.Resolve(req.SessionID, req.ProjectID, req.UserID)
	history := session.History
	if len(history) == 0 {
		history = req.History
	}
	s.log.Debug("chat message",
		"sessionId", session.ID,
		"projectId", session.ProjectID,
		"newSession", created,
		"historyTurns", len(history),
	)

	in := generation.Input{Prompt: message, History: history, ProjectID: session.ProjectID}
	var (
		res generation.Result
		err error
	)
	if onProgress != nil {
		res, err = s.generator.GenerateStream(ctx, in, onProgress)
	} else {
		res, err = s.generator.Generate(ctx, in)
	}
	if err != nil {
		return nil, err
	}

	s.sessions.Append(session.ID,
		models.Turn{Role: models.RoleUser, Content: message},
		models.Turn{Role: models.RoleAssistant, Content: res.Message},
	)

	if s.mirror != nil {
		if err := s.mirror.Sync(ctx, res.ProjectID, res.Files); err != nil {
			s.log.Warn("workspace mirror failed", "projectId", res.ProjectID, "error", err)
		}
	}

	return &ChatResponse{
		Message:   res.Message,
		Files:     res.Files,
		ProjectID: res.ProjectID,
		SessionID: session.ID,
		Fallback:  res.Fallback,
	}, nil
}

// ActiveSessions is reported by the status endpoint.
func (s *ChatService) ActiveSessions() int { return s.sessions.Len() }
