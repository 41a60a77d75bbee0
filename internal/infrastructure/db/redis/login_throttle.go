package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gymcheck/checkin-api/internal/core/domain"
)

// LoginThrottle counts authentication attempts per e-mail in a fixed window.
// Key format: rl:login:<email>
type LoginThrottle struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewLoginThrottle(client *redis.Client, limit int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, limit: int64(limit), window: window}
}

// Allow records an attempt and reports whether it is within the limit. On a
// Redis error it allows the attempt and returns the error for logging.
func (t *LoginThrottle) Allow(ctx context.Context, email string) (bool, error) {
	key := "rl:login:" + domain.NormalizeEmail(email)

	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("login throttle: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return true, fmt.Errorf("login throttle expire: %w", err)
		}
	}
	return n <= t.limit, nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	return t.client.Del(ctx, "rl:login:"+domain.NormalizeEmail(email)).Err()
}
