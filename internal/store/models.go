package store

import (
	"errors"
	"time"
)

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Do not expose this in JSON responses
	IsAdmin      bool   `json:"is_admin"`
}

// FAQ is an admin-curated answer. Question is matched as a substring of
// the user's message, not as an exact key.
type FAQ struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ChatRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Sender    string    `json:"sender"` // "user" or "ai"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
