// internal/pkg/session/redis_store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"automate-service/internal/gateway"
	xerrors "automate-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps snapshots in Redis without expiry.
type RedisStore struct {
	client redis.UniversalClient
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Save writes the user and role entries together.
func (s *RedisStore) Save(ctx context.Context, sid string, snap Snapshot) error {
	data, err := json.Marshal(snap.User)
	if err != nil {
		return fmt.Errorf("failed to marshal session user: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(sid), data, 0)
	pipe.Set(ctx, roleKey(sid), string(snap.Role), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, sid string) (Snapshot, error) {
	vals, err := s.client.MGet(ctx, userKey(sid), roleKey(sid)).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load session from redis: %w", err)
	}
	user, okUser := vals[0].(string)
	role, okRole := vals[1].(string)
	if !okUser || !okRole {
		return Snapshot{}, xerrors.ErrNoSession
	}

	return decodeSnapshot([]byte(user), role)
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, userKey(sid), roleKey(sid)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// SaveAuth stores the gateway session until it expires.
func (s *RedisStore) SaveAuth(ctx context.Context, sid string, gs *gateway.Session) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}
	var ttl time.Duration
	if !gs.ExpiresAt.IsZero() {
		ttl = time.Until(gs.ExpiresAt)
		if ttl <= 0 {
			return fmt.Errorf("auth session already expired")
		}
	}
	if err := s.client.Set(ctx, authKey(sid), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store auth session in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadAuth(ctx context.Context, sid string) (*gateway.Session, error) {
	data, err := s.client.Get(ctx, authKey(sid)).Bytes()
	if err == redis.Nil {
		return nil, xerrors.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load auth session: %w", err)
	}
	var gs gateway.Session
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	return &gs, nil
}

func (s *RedisStore) ClearAuth(ctx context.Context, sid string) error {
	return s.client.Del(ctx, authKey(sid)).Err()
}
