package ports

import (
	"context"
	"time"

	"github.com/gymcheck/checkin-api/internal/core/domain"
)

// CheckInRepository handles check-in persistence.
//
// Implementations must enforce at most one check-in per (user, UTC calendar
// day) atomically and report a violation as domain.ErrDuplicateCheckIn.
type CheckInRepository interface {
	FindByID(ctx context.Context, id string) (*domain.CheckIn, error)
	// FindByUserOnDay returns the user's check-in on the UTC calendar day
	// containing day, or domain.ErrCheckInNotFound.
	FindByUserOnDay(ctx context.Context, userID string, day time.Time) (*domain.CheckIn, error)
	Create(ctx context.Context, checkIn *domain.CheckIn) (*domain.CheckIn, error)
	// Update persists ValidatedAt. It only succeeds while the stored record is
	// still unvalidated; otherwise it returns domain.ErrAlreadyValidated.
	Update(ctx context.Context, checkIn *domain.CheckIn) (*domain.CheckIn, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// FindManyByUser returns one page of the user's check-ins, newest first.
	FindManyByUser(ctx context.Context, userID string, page int) ([]*domain.CheckIn, error)
}
