package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/core"
	"github.com/markdave123-py/Appcraft/internal/models"
)

// MemoryClient is the UserStore used when no database is configured.
// Users vanish on restart.
type MemoryClient struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryClient) CreateUser(_ context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	email := strings.ToLower(user.Email)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[email]; ok {
		return fmt.Errorf("email %s: %w", user.Email, apperr.ErrConflict)
	}
	if _, ok := m.byID[user.ID]; ok {
		return fmt.Errorf("user id %s: %w", user.ID, apperr.ErrConflict)
	}
	u := *user
	u.Email = email
	m.byID[u.ID] = &u
	m.byEmail[email] = u.ID
	return nil
}

func (m *MemoryClient) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return copyUser(m.byID[id]), nil
}

func (m *MemoryClient) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyUser(m.byID[id]), nil
}

func (m *MemoryClient) RecordLogin(_ context.Context, userID string, info models.LoginInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	at := info.At
	u.LastLoginAt = &at
	u.LastLoginIP = info.IP
	u.LastUserAgent = info.UserAgent
	u.UpdatedAt = at
	return nil
}

func (m *MemoryClient) Close() error { return nil }

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	out := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		out.LastLoginAt = &t
	}
	return &out
}

var _ core.UserStore = (*MemoryClient)(nil)
