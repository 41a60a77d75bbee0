package ports

import (
	"context"

	"github.com/gymcheck/checkin-api/internal/core/domain"
)

// GymRepository defines persistence and geo queries for gyms.
type GymRepository interface {
	// FindByID returns domain.ErrGymNotFound when no gym has the given id.
	FindByID(ctx context.Context, id string) (*domain.Gym, error)
	Create(ctx context.Context, gym *domain.Gym) (*domain.Gym, error)
	// SearchByTitle returns one page (domain.PageSize) of gyms whose title
	// contains query, case-insensitively, in insertion order.
	SearchByTitle(ctx context.Context, query string, page int) ([]*domain.Gym, error)
	// FindWithinRadius returns candidate gyms around a point. Implementations
	// may over-select; callers apply the exact distance bound.
	FindWithinRadius(ctx context.Context, lat, lon, radiusKm float64) ([]*domain.Gym, error)
}
