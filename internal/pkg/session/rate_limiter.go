// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxLoginAttempts = int64(5)
	loginWindow      = 15 * time.Minute
)

type RateLimiter struct {
	client redis.UniversalClient
}

func NewRateLimiter(client redis.UniversalClient) *RateLimiter {
	return &RateLimiter{client: client}
}

func loginKey(sid, email string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s", sid, strings.ToLower(email))
}

// CheckLoginAttempt counts an attempt and reports whether it is allowed
// along with the attempts left in the window.
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, sid, email string) (bool, int64, error) {
	key := loginKey(sid, email)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		r.client.Expire(ctx, key, loginWindow)
	}

	remaining := maxLoginAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= maxLoginAttempts, remaining, nil
}

// ResetLoginAttempts clears the counter after a successful login.
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, sid, email string) error {
	return r.client.Del(ctx, loginKey(sid, email)).Err()
}
