package ports

import (
	"context"

	"github.com/storefront/gateway/internal/core/domain"
)

// CatalogRepository reads and writes the business records exposed by the gateway.
type CatalogRepository interface {
	ListActiveProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
}
