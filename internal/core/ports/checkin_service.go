package ports

import (
	"context"

	"github.com/gymcheck/checkin-api/internal/core/domain"
)

// CreateCheckInInput carries the member, the target gym, and where the member
// currently is.
type CreateCheckInInput struct {
	UserID        string
	GymID         string
	UserLatitude  float64
	UserLongitude float64
}

// CheckInService drives the check-in lifecycle.
type CheckInService interface {
	Create(ctx context.Context, input CreateCheckInInput) (*domain.CheckIn, error)
	Validate(ctx context.Context, checkInID string) (*domain.CheckIn, error)
}

// MetricsService exposes read-only projections over a member's check-ins.
type MetricsService interface {
	CountCheckIns(ctx context.Context, userID string) (int64, error)
	FetchHistory(ctx context.Context, userID string, page int) ([]*domain.CheckIn, error)
}
