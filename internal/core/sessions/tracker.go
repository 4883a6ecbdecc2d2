// Package sessions tracks chat continuity: which project a chat session is
// building and the conversation so far.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/models"
)

const AnonymousUser = "anonymous"

// Tracker owns the session table. Sessions live until they sit idle longer
// than maxIdle; expiry never touches the project a session pointed at.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]*models.ChatSession
	maxIdle  time.Duration
	now      func() time.Time
	log      *logger.Logger
}

type Option func(*Tracker)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(maxIdle time.Duration, log *logger.Logger, opts ...Option) *Tracker {
	if log == nil {
		log = logger.Nop()
	}
	t := &Tracker{
		sessions: make(map[string]*models.ChatSession),
		maxIdle:  maxIdle,
		now:      time.Now,
		log:      log.With("component", "SessionTracker"),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Resolve returns the session for sessionID, creating it when the id is
// empty or unknown. A new session adopts projectID when given, otherwise a
// fresh one; an existing session keeps its project. A session owned by a
// signed-in user is only returned to that user; anyone else gets a new
// session under a new id.
func (t *Tracker) Resolve(sessionID, projectID, userID string) (models.ChatSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if userID == "" {
		userID = AnonymousUser
	}
	if sessionID != "" {
		if s, ok := t.sessions[sessionID]; ok {
			if s.UserID == AnonymousUser || s.UserID == userID {
				s.LastActivityAt = t.now()
				return snapshot(s), false
			}
			t.log.Warn("session requested by another user", "sessionId", sessionID)
			sessionID = uuid.NewString()
		}
	} else {
		sessionID = uuid.NewString()
	}

	if projectID == "" {
		projectID = uuid.NewString()
	}
	now := t.now()
	s := &models.ChatSession{
		ID:             sessionID,
		ProjectID:      projectID,
		UserID:         userID,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	t.sessions[sessionID] = s
	t.log.Debug("session created", "sessionId", sessionID, "projectId", projectID)
	return snapshot(s), true
}

// Append records turns in order and refreshes the activity timestamp.
// Returns false when the session no longer exists.
func (t *Tracker) Append(sessionID string, turns ...models.Turn) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return false
	}
	s.History = append(s.History, turns...)
	s.LastActivityAt = t.now()
	return true
}

func (t *Tracker) Get(sessionID string) (models.ChatSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return models.ChatSession{}, false
	}
	return snapshot(s), true
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

// Sweep drops every session idle for longer than maxIdle and reports how
// many were removed.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	now := t.now()
	removed := 0
	for id, s := range t.sessions {
		if now.Sub(s.LastActivityAt) > t.maxIdle {
			delete(t.sessions, id)
			removed++
		}
	}
	remaining := len(t.sessions)
	t.mu.Unlock()

	if removed > 0 {
		t.log.Info("expired idle sessions", "removed", removed, "remaining", remaining)
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			t.log.Debug("session sweeper stopped")
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}

func snapshot(s *models.ChatSession) models.ChatSession {
	out := *s
	out.History = append([]models.Turn(nil), s.History...)
	return out
}
