package models

import (
	"strings"
	"time"
)

// User represents an authenticated user of the system.
type User struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	LastLoginAt   *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	LastLoginIP   string     `db:"last_login_ip" json:"-"`
	LastUserAgent string     `db:"last_user_agent" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// LoginInfo is what gets recorded on every successful login.
type LoginInfo struct {
	IP        string
	UserAgent string
	At        time.Time
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of a conversation history.
type Turn struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // message text
}

// ChatSession links a conversation to the project it is building.
type ChatSession struct {
	ID             string    `json:"sessionId"`
	ProjectID      string    `json:"projectId"`
	UserID         string    `json:"userId"`
	History        []Turn    `json:"conversationHistory"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// Project is a named collection of generated files.
type Project struct {
	ID    string `json:"projectId"`
	Files *Files `json:"files"`
}

// ValidProjectID reports whether id can name a project directory or object
// key prefix. Ids are opaque but must be a single, non-hidden path segment.
func ValidProjectID(id string) bool {
	if id == "" || strings.HasPrefix(id, ".") || len(id) > 128 {
		return false
	}
	return !strings.ContainsAny(id, "/\\\x00") && !strings.Contains(id, "..")
}
