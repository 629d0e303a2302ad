package ports

import (
	"context"
	"io"

	"github.com/storefront/gateway/internal/core/domain"
)

// CreateProductInput carries a new catalog entry.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageKey    string
}

// CatalogService serves profile, order, user and product reads for handlers.
type CatalogService interface {
	Profile(ctx context.Context, userID int64) (*domain.FrontUser, error)
	UserOrders(ctx context.Context, userID int64) ([]*domain.Order, error)
	AllOrders(ctx context.Context) ([]*domain.Order, error)
	FrontUsers(ctx context.Context) ([]*domain.FrontUser, error)
	Products(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, creator domain.AdminPrincipal, in CreateProductInput) (*domain.Product, error)
}

// BlobGateway proxies file bytes to and from the Blob Service.
type BlobGateway interface {
	Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*domain.UploadResult, error)
	Download(ctx context.Context, key string) (*domain.Blob, error)
}
