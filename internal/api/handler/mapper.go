package handler

import (
	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toGymResponse(g *domain.Gym) gymResponse {
	return gymResponse{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Phone:       g.Phone,
		Latitude:    g.Latitude,
		Longitude:   g.Longitude,
		CreatedAt:   g.CreatedAt,
	}
}

func toGymsResponse(gyms []*domain.Gym) gymsResponse {
	out := make([]gymResponse, 0, len(gyms))
	for _, g := range gyms {
		out = append(out, toGymResponse(g))
	}
	return gymsResponse{Gyms: out}
}

func toNearbyGymsResponse(nearby []ports.NearbyGym) nearbyGymsResponse {
	out := make([]nearbyGymResponse, 0, len(nearby))
	for _, n := range nearby {
		out = append(out, nearbyGymResponse{gymResponse: toGymResponse(n.Gym), DistanceKm: n.DistanceKm})
	}
	return nearbyGymsResponse{Gyms: out}
}

func toCheckInResponse(c *domain.CheckIn) checkInResponse {
	return checkInResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		GymID:       c.GymID,
		CreatedAt:   c.CreatedAt,
		ValidatedAt: c.ValidatedAt,
	}
}

func toCheckInsResponse(checkIns []*domain.CheckIn) checkInsResponse {
	out := make([]checkInResponse, 0, len(checkIns))
	for _, c := range checkIns {
		out = append(out, toCheckInResponse(c))
	}
	return checkInsResponse{CheckIns: out}
}
