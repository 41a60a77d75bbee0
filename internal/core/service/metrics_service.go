package service

import (
	"context"
	"fmt"

	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/ports"
)

// MetricsService answers read-only questions about a member's check-ins.
type MetricsService struct {
	repo ports.CheckInRepository
}

func NewMetricsService(repo ports.CheckInRepository) *MetricsService {
	return &MetricsService{repo: repo}
}

// CountCheckIns returns how many check-ins the user has, validated or not.
func (s *MetricsService) CountCheckIns(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return n, nil
}

// FetchHistory returns one page of the user's check-ins, most recent first.
func (s *MetricsService) FetchHistory(ctx context.Context, userID string, page int) ([]*domain.CheckIn, error) {
	if page < 1 {
		page = 1
	}

	checkIns, err := s.repo.FindManyByUser(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("fetch check-in history: %w", err)
	}
	if checkIns == nil {
		checkIns = []*domain.CheckIn{}
	}
	return checkIns, nil
}
