// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"automate-service/internal/gateway"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

// Messages match the hosted auth service so callers can show them as-is.
var (
	ErrUserExists         = errors.New("User already registered")
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	ErrSessionNotFound    = errors.New("Auth session missing!")
)

const uniqueViolation = "23505"

type AuthRepository struct {
	db  DBTX
	ttl time.Duration
}

func NewAuthRepository(db DBTX, ttl time.Duration) *AuthRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthRepository{db: db, ttl: ttl}
}

// SignUp stores a new profile with a bcrypt password hash.
func (r *AuthRepository) SignUp(ctx context.Context, req gateway.SignUpRequest) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO profiles (id, name, email, role, password_hash)
		VALUES ($1, $2, LOWER($3), $4, $5)
	`
	_, err = r.db.Exec(ctx, query, ulid.Make().String(), req.Name, req.Email, string(req.Role), string(hash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// SignIn verifies the password and opens an auth session.
func (r *AuthRepository) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	query := `
		SELECT id, email, COALESCE(password_hash, '')
		FROM profiles
		WHERE email = LOWER($1)
	`
	var id, stored, hash string
	err := r.db.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(&id, &stored, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s := &gateway.Session{
		AccessToken:  ulid.Make().String(),
		RefreshToken: ulid.Make().String(),
		UserID:       id,
		Email:        stored,
		ExpiresAt:    time.Now().Add(r.ttl).UTC(),
	}
	insert := `
		INSERT INTO auth_sessions (token, refresh_token, profile_id, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Exec(ctx, insert, s.AccessToken, s.RefreshToken, s.UserID, s.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to create auth session: %w", err)
	}
	return s, nil
}

// SignOut revokes the session token.
func (r *AuthRepository) SignOut(ctx context.Context, s *gateway.Session) error {
	if s == nil {
		return nil
	}
	query := `UPDATE auth_sessions SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL`
	if _, err := r.db.Exec(ctx, query, s.AccessToken); err != nil {
		return fmt.Errorf("failed to revoke auth session: %w", err)
	}
	return nil
}

// GetSession returns the live session for s's token.
func (r *AuthRepository) GetSession(ctx context.Context, s *gateway.Session) (*gateway.Session, error) {
	if s == nil || s.AccessToken == "" {
		return nil, ErrSessionNotFound
	}
	query := `
		SELECT p.id, COALESCE(p.email, ''), a.refresh_token, a.expires_at
		FROM auth_sessions a
		JOIN profiles p ON p.id = a.profile_id
		WHERE a.token = $1 AND a.revoked_at IS NULL AND a.expires_at > NOW()
	`
	live := gateway.Session{AccessToken: s.AccessToken}
	err := r.db.QueryRow(ctx, query, s.AccessToken).Scan(&live.UserID, &live.Email, &live.RefreshToken, &live.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load auth session: %w", err)
	}
	return &live, nil
}
