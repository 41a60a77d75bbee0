package ports

import (
	"context"

	"github.com/gymcheck/checkin-api/internal/core/domain"
)

// RegisterInput carries the fields needed to create a member account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
