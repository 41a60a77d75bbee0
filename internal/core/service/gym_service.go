package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/geo"
	"github.com/gymcheck/checkin-api/internal/core/ports"
)

// NearbyRadiusKm bounds FindNearby.
const NearbyRadiusKm = 10.0

type GymService struct {
	repo ports.GymRepository
	now  func() time.Time
}

func NewGymService(repo ports.GymRepository) *GymService {
	return &GymService{repo: repo, now: time.Now}
}

// Create registers a new gym. Authorization is enforced by the caller.
func (s *GymService) Create(ctx context.Context, input ports.CreateGymInput) (*domain.Gym, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("create gym: title is required")
	}

	gym := &domain.Gym{
		Title:       title,
		Description: input.Description,
		Phone:       input.Phone,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		CreatedAt:   s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, gym)
	if err != nil {
		return nil, fmt.Errorf("create gym: %w", err)
	}
	return created, nil
}

// SearchByTitle returns page (1-based, 20 per page) of gyms whose title
// contains query, ignoring case, in insertion order.
func (s *GymService) SearchByTitle(ctx context.Context, query string, page int) ([]*domain.Gym, error) {
	if page < 1 {
		page = 1
	}

	gyms, err := s.repo.SearchByTitle(ctx, strings.TrimSpace(query), page)
	if err != nil {
		return nil, fmt.Errorf("search gyms: %w", err)
	}
	if gyms == nil {
		gyms = []*domain.Gym{}
	}
	return gyms, nil
}

// FindNearby returns every gym within NearbyRadiusKm of the given position,
// closest first. Equal distances are ordered by gym id.
func (s *GymService) FindNearby(ctx context.Context, userLatitude, userLongitude float64) ([]ports.NearbyGym, error) {
	candidates, err := s.repo.FindWithinRadius(ctx, userLatitude, userLongitude, NearbyRadiusKm)
	if err != nil {
		return nil, fmt.Errorf("fetch nearby gyms: %w", err)
	}

	nearby := make([]ports.NearbyGym, 0, len(candidates))
	for _, g := range candidates {
		d := geo.DistanceKm(userLatitude, userLongitude, g.Latitude, g.Longitude)
		if d > NearbyRadiusKm {
			continue
		}
		nearby = append(nearby, ports.NearbyGym{Gym: g, DistanceKm: d})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}
		return nearby[i].Gym.ID < nearby[j].Gym.ID
	})
	return nearby, nil
}
