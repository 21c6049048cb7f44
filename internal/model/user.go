package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account. Mobile is the unique login key. The password
// is stored only as a bcrypt hash and never serialised.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Mobile       string    `json:"mobile" db:"mobile"`
	Email        string    `json:"email,omitempty" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	RecoveryCode string    `json:"-" db:"recovery_code"`
	Gender       string    `json:"gender,omitempty" db:"gender"`
	Address      string    `json:"address,omitempty" db:"address"`
	Details      string    `json:"details,omitempty" db:"details"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Session maps an opaque bearer token to a user. The acting identity for
// cart and order operations always comes from the session, never from a
// client-supplied user id.
type Session struct {
	Token     string    `json:"token" db:"token"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SignupRequest represents the request payload for account creation.
type SignupRequest struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	Address  string `json:"address"`
	Details  string `json:"details"`
}

// LoginRequest represents the request payload for login.
type LoginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// ForgotPasswordRequest represents the request payload for recovery-code
// issuance.
type ForgotPasswordRequest struct {
	Mobile string `json:"mobile"`
}

// ProfileUpdateRequest represents the request payload for a profile update.
// Nil fields are left unchanged; a non-nil Password is re-hashed.
type ProfileUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Gender   *string `json:"gender"`
	Address  *string `json:"address"`
	Details  *string `json:"details"`
	Password *string `json:"password"`
}

// AuthResponse represents the response payload for signup and login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
