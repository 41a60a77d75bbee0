package ports

import (
	"context"
	"time"
)

// PasswordHasher turns plaintext passwords into digests and verifies them.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// DailyCheckInGuard is a fast, shared lock on (user, calendar day) taken
// before a check-in is written. It does not replace the repository's
// uniqueness guarantee.
type DailyCheckInGuard interface {
	// Acquire reports false when the slot is already held.
	Acquire(ctx context.Context, userID string, day time.Time) (bool, error)
	Release(ctx context.Context, userID string, day time.Time) error
}
