package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"automate-service/internal/gateway"
	xerrors "automate-service/internal/pkg/errors"
)

// MemoryStore is a process-local Store for development and tests. Entries are
// held serialized so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) get(key string, v interface{}) (bool, error) {
	m.mu.RLock()
	data, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (m *MemoryStore) del(keys ...string) {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
}

func (m *MemoryStore) Save(_ context.Context, sid string, snap Snapshot) error {
	if err := m.set(userKey(sid), snap.User); err != nil {
		return fmt.Errorf("failed to marshal session user: %w", err)
	}
	m.mu.Lock()
	m.entries[roleKey(sid)] = []byte(snap.Role)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, sid string) (Snapshot, error) {
	m.mu.RLock()
	user, okUser := m.entries[userKey(sid)]
	role, okRole := m.entries[roleKey(sid)]
	m.mu.RUnlock()
	if !okUser || !okRole {
		return Snapshot{}, xerrors.ErrNoSession
	}
	return decodeSnapshot(user, string(role))
}

func (m *MemoryStore) Clear(_ context.Context, sid string) error {
	m.del(userKey(sid), roleKey(sid))
	return nil
}

func (m *MemoryStore) SaveAuth(_ context.Context, sid string, s *gateway.Session) error {
	return m.set(authKey(sid), s)
}

func (m *MemoryStore) LoadAuth(_ context.Context, sid string) (*gateway.Session, error) {
	var s gateway.Session
	ok, err := m.get(authKey(sid), &s)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, xerrors.ErrNoSession
	}
	return &s, nil
}

func (m *MemoryStore) ClearAuth(_ context.Context, sid string) error {
	m.del(authKey(sid))
	return nil
}
