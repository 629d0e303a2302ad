package ports

import (
	"context"

	"github.com/storefront/gateway/internal/core/domain"
)

// FrontUserRepository persists storefront customers.
type FrontUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.FrontUser, error)
	FindByID(ctx context.Context, id int64) (*domain.FrontUser, error)
	// Create inserts the user and returns it with its store-assigned ID.
	// A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.FrontUser) (*domain.FrontUser, error)
	List(ctx context.Context) ([]*domain.FrontUser, error)
}

// AdminRepository persists back-office accounts.
type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	FindByID(ctx context.Context, id int64) (*domain.AdminUser, error)
	// Create inserts the admin. A duplicate username yields domain.ErrUsernameTaken.
	Create(ctx context.Context, admin *domain.AdminUser) (*domain.AdminUser, error)
	Count(ctx context.Context) (int64, error)
	TouchLastLogin(ctx context.Context, id int64) error
}
