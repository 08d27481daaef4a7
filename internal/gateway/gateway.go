// Package gateway defines the remote data store the application state is
// reconciled against: a hosted relational store with an auth sub-client.
package gateway

import (
	"context"
	"time"

	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/vehicle"
)

// Session is an authenticated gateway session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session carries an expiry in the past.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SignUpRequest registers a new identity. Name and Role travel as user metadata.
type SignUpRequest struct {
	Email    string
	Password string
	Name     string
	Role     account.Role
}

// Auth is the authentication sub-client.
type Auth interface {
	SignUp(ctx context.Context, req SignUpRequest) error
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, s *Session) error
	// GetSession validates s against the remote and returns the live session.
	GetSession(ctx context.Context, s *Session) (*Session, error)
}

// Gateway is the full remote surface. Every call returns (data, error) and
// any non-nil error means the call failed.
type Gateway interface {
	Auth
	account.Repository
	vehicle.Repository
	booking.Repository
}

type sessionKey struct{}

// WithSession attaches the caller's gateway session so data calls run as that user.
func WithSession(ctx context.Context, s *Session) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session attached by WithSession, if any.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
