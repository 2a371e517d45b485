package domain

import (
	"errors"
	"time"
)

const ProviderEmail = "email"

type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-"` // Never return password in JSON
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session is the authenticated identity attached to a request.
type Session struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

func (u *User) Session() *Session {
	return &Session{UID: u.ID, Email: u.Email}
}

// SessionState tells listeners which way the session changed.
type SessionState string

const (
	SignedIn  SessionState = "signed_in"
	SignedOut SessionState = "signed_out"
)

// SessionEvent is delivered to session-change listeners.
type SessionEvent struct {
	UserID string       `json:"user_id"`
	Email  string       `json:"email,omitempty"`
	State  SessionState `json:"state"`
}

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrUserNotFound        = errors.New("user not found")
)
