package ports

import (
	"context"

	"github.com/gymcheck/checkin-api/internal/core/domain"
)

// CreateGymInput is the DTO passed from the transport layer to GymService.
type CreateGymInput struct {
	Title       string
	Description *string
	Phone       *string
	Latitude    float64
	Longitude   float64
}

// NearbyGym pairs a gym with its distance from the query origin.
type NearbyGym struct {
	Gym        *domain.Gym
	DistanceKm float64
}

// GymService defines gym registration and lookup use cases.
type GymService interface {
	Create(ctx context.Context, input CreateGymInput) (*domain.Gym, error)
	SearchByTitle(ctx context.Context, query string, page int) ([]*domain.Gym, error)
	FindNearby(ctx context.Context, userLatitude, userLongitude float64) ([]NearbyGym, error)
}
