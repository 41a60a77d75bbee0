package ports

import (
	"context"

	"github.com/gymcheck/checkin-api/internal/core/domain"
)

// UserRepository defines persistence for users. Lookups that find nothing
// return domain.ErrUserNotFound; Create returns domain.ErrUserAlreadyExists on
// an e-mail collision.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
