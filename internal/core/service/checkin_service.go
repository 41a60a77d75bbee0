package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/geo"
	"github.com/gymcheck/checkin-api/internal/core/ports"
)

const guardReleaseTimeout = 2 * time.Second

// CheckInService creates and validates check-ins.
type CheckInService struct {
	checkIns ports.CheckInRepository
	gyms     ports.GymRepository
	guard    ports.DailyCheckInGuard
	now      func() time.Time
}

// NewCheckInService returns a CheckInService. guard may be nil, in which case
// the repository's uniqueness constraint is the only daily-limit enforcement.
func NewCheckInService(
	checkIns ports.CheckInRepository,
	gyms ports.GymRepository,
	guard ports.DailyCheckInGuard,
) *CheckInService {
	return &CheckInService{
		checkIns: checkIns,
		gyms:     gyms,
		guard:    guard,
		now:      time.Now,
	}
}

// Create records that the user is at the gym right now.
func (s *CheckInService) Create(ctx context.Context, in ports.CreateCheckInInput) (*domain.CheckIn, error) {
	// 1. The gym must exist.
	gym, err := s.gyms.FindByID(ctx, in.GymID)
	if err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return nil, domain.ErrGymNotFound
		}
		return nil, fmt.Errorf("check in: find gym: %w", err)
	}

	// 2. The user must be standing at the gym.
	distance := geo.DistanceKm(in.UserLatitude, in.UserLongitude, gym.Latitude, gym.Longitude)
	if distance > domain.MaxCheckInDistanceKm {
		return nil, domain.ErrMaxDistanceExceeded
	}

	// 3. One check-in per UTC calendar day.
	now := s.now().UTC()
	existing, err := s.checkIns.FindByUserOnDay(ctx, in.UserID, now)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrDuplicateCheckIn
	case err != nil && !errors.Is(err, domain.ErrResourceNotFound):
		return nil, fmt.Errorf("check in: find today's check-in: %w", err)
	}

	// 4. Claim the day slot. The store's unique index has the last word: a
	// guard outage falls through to it, and a refused slot is rechecked
	// against the store before reporting a duplicate.
	acquired := false
	if s.guard != nil {
		ok, guardErr := s.guard.Acquire(ctx, in.UserID, now)
		switch {
		case guardErr != nil:
			// fall through to the unique index
		case ok:
			acquired = true
		default:
			_, err := s.checkIns.FindByUserOnDay(ctx, in.UserID, now)
			if err == nil {
				return nil, domain.ErrDuplicateCheckIn
			}
			if !errors.Is(err, domain.ErrResourceNotFound) {
				return nil, fmt.Errorf("check in: recheck today's check-in: %w", err)
			}
		}
	}

	// 5. Persist.
	created, err := s.checkIns.Create(ctx, &domain.CheckIn{
		UserID:    in.UserID,
		GymID:     gym.ID,
		CreatedAt: now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateCheckIn) {
			return nil, domain.ErrDuplicateCheckIn
		}
		if acquired {
			if releaseErr := s.releaseSlot(ctx, in.UserID, now); releaseErr != nil {
				err = errors.Join(err, fmt.Errorf("release day slot: %w", releaseErr))
			}
		}
		return nil, fmt.Errorf("check in: create: %w", err)
	}
	return created, nil
}

// releaseSlot frees the day slot even when ctx is already cancelled.
func (s *CheckInService) releaseSlot(ctx context.Context, userID string, day time.Time) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), guardReleaseTimeout)
	defer cancel()
	return s.guard.Release(ctx, userID, day)
}

// Validate confirms a check-in created less than domain.ValidationWindow ago.
// A check-in can be validated once.
func (s *CheckInService) Validate(ctx context.Context, checkInID string) (*domain.CheckIn, error) {
	checkIn, err := s.checkIns.FindByID(ctx, checkInID)
	if err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return nil, domain.ErrCheckInNotFound
		}
		return nil, fmt.Errorf("validate check-in: find: %w", err)
	}

	if checkIn.IsValidated() {
		return nil, domain.ErrAlreadyValidated
	}

	now := s.now().UTC()
	if checkIn.ValidationExpired(now) {
		return nil, domain.ErrValidationWindowExpired
	}

	checkIn.ValidatedAt = &now
	updated, err := s.checkIns.Update(ctx, checkIn)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyValidated) {
			return nil, domain.ErrAlreadyValidated
		}
		return nil, fmt.Errorf("validate check-in: update: %w", err)
	}
	return updated, nil
}
