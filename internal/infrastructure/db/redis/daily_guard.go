package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gymcheck/checkin-api/internal/core/domain"
)

// guardMargin keeps a slot alive a little past midnight to cover clock skew
// between API replicas.
const guardMargin = time.Hour

// DailyGuard claims a user's check-in slot for a UTC calendar day.
// Key format: checkin:<user_id>:<YYYY-MM-DD>
type DailyGuard struct {
	client *redis.Client
}

func NewDailyGuard(client *redis.Client) *DailyGuard {
	return &DailyGuard{client: client}
}

// Acquire reports whether the caller now owns the slot. false means another
// request already claimed it.
func (g *DailyGuard) Acquire(ctx context.Context, userID string, day time.Time) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(userID, day), "1", slotTTL(day)).Result()
	if err != nil {
		return false, fmt.Errorf("daily guard acquire: %w", err)
	}
	return ok, nil
}

// Release frees a slot claimed by a check-in that failed to persist.
func (g *DailyGuard) Release(ctx context.Context, userID string, day time.Time) error {
	if err := g.client.Del(ctx, g.key(userID, day)).Err(); err != nil {
		return fmt.Errorf("daily guard release: %w", err)
	}
	return nil
}

func (g *DailyGuard) key(userID string, day time.Time) string {
	return fmt.Sprintf("checkin:%s:%s", userID, domain.CalendarDay(day))
}

func slotTTL(at time.Time) time.Duration {
	_, end := domain.DayBounds(at)
	return end.Sub(at) + guardMargin
}
