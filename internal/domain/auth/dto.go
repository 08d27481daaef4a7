// internal/domain/auth/dto.go
package auth

import (
	"errors"
	"time"

	"automate-service/internal/domain/account"
	"automate-service/internal/domain/notification"
)

// MinPasswordLength is the shortest password the login form accepts.
const MinPasswordLength = 6

var (
	ErrMissingFields = errors.New("Please fill in all fields")
	ErrMissingName   = errors.New("Please enter your full name")
	ErrShortPassword = errors.New("Password must be at least 6 characters")
)

// LoginRequest is the sign-in / sign-up form.
type LoginRequest struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Name     string       `json:"name"`
	Role     account.Role `json:"role"`
	SignUp   bool         `json:"signUp"`
}

// Validate applies the form checks in the order the form shows them.
func (r LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return ErrMissingFields
	}
	if r.SignUp && r.Name == "" {
		return ErrMissingName
	}
	if len(r.Password) < MinPasswordLength {
		return ErrShortPassword
	}
	return nil
}

// SessionResponse is returned when a browser session is opened.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	DemoMode  bool      `json:"demo_mode"`
}

// LoginResponse reports the session's account after a login attempt.
type LoginResponse struct {
	Authenticated bool                       `json:"authenticated"`
	Account       account.Record             `json:"account"`
	Notification  *notification.Notification `json:"notification,omitempty"`
}
