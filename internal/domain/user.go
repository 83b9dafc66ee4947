package domain

import (
	"strings"
	"time"
)

// User is a dashboard operator account. Documents are keyed by normalized
// email; legacy accounts predate the status field, so a missing status means
// the account is usable.
type User struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"` // bcrypt, filter from API responses
	Role         string `json:"role"`
	Status       string `json:"status,omitempty"`
}

// IsActive reports whether the account may log in. Accepts the status
// spellings found in legacy user documents; absent status is active.
func (u *User) IsActive() bool {
	if u.Status == "" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(u.Status)) {
	case "active", "ativo", "ativa", "enabled", "true", "1":
		return true
	}
	return false
}

// Session is an opaque bearer token handed out on login.
type Session struct {
	Token     string    `json:"token"`
	UserEmail string    `json:"user_email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
