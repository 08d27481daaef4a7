// internal/pkg/session/types.go
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"automate-service/internal/domain/account"
	"automate-service/internal/gateway"
)

// Snapshot is the locally persisted demo login: the serialized account and
// its role, stored as two separate entries.
type Snapshot struct {
	User account.Record `json:"user"`
	Role account.Role   `json:"role"`
}

// Account rebuilds the stored account under the stored role.
func (s Snapshot) Account() (account.Account, error) {
	rec := s.User
	rec.Role = s.Role
	return rec.Account()
}

// decodeSnapshot rebuilds a snapshot from its two stored entries. Both
// stores go through it so they accept and reject the same data.
func decodeSnapshot(user []byte, role string) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(user, &snap.User); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal session user: %w", err)
	}
	r, err := account.ParseRole(role)
	if err != nil {
		return Snapshot{}, fmt.Errorf("stored session role: %w", err)
	}
	snap.Role = r
	return snap, nil
}

// NewSnapshot captures a for persistence.
func NewSnapshot(a account.Account) Snapshot {
	return Snapshot{User: account.ToRecord(a), Role: a.Role()}
}

// Store persists per-browser-session state. Load returns xerrors.ErrNoSession
// when either entry is missing.
type Store interface {
	Save(ctx context.Context, sid string, snap Snapshot) error
	Load(ctx context.Context, sid string) (Snapshot, error)
	Clear(ctx context.Context, sid string) error

	SaveAuth(ctx context.Context, sid string, s *gateway.Session) error
	LoadAuth(ctx context.Context, sid string) (*gateway.Session, error)
	ClearAuth(ctx context.Context, sid string) error
}

const keyPrefix = "automate"

func userKey(sid string) string { return fmt.Sprintf("%s:%s:mockUser", keyPrefix, sid) }
func roleKey(sid string) string { return fmt.Sprintf("%s:%s:mockRole", keyPrefix, sid) }
func authKey(sid string) string { return fmt.Sprintf("%s:%s:auth", keyPrefix, sid) }
