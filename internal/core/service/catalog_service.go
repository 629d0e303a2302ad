package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/ports"
)

// CatalogService serves the business reads and writes behind the gateway.
type CatalogService struct {
	users   ports.FrontUserRepository
	catalog ports.CatalogRepository
	logger  zerolog.Logger
}

func NewCatalogService(users ports.FrontUserRepository, catalog ports.CatalogRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{users: users, catalog: catalog, logger: logger}
}

// Profile returns the customer record for userID. A session pointing at a
// vanished user is treated as an invalid session.
func (s *CatalogService) Profile(ctx context.Context, userID int64) (*domain.FrontUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidSession
	}
	return user, err
}

func (s *CatalogService) UserOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.catalog.ListOrdersByUser(ctx, userID)
}

func (s *CatalogService) AllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.catalog.ListOrders(ctx)
}

func (s *CatalogService) FrontUsers(ctx context.Context) ([]*domain.FrontUser, error) {
	return s.users.List(ctx)
}

// Products lists the public catalog.
func (s *CatalogService) Products(ctx context.Context) ([]*domain.Product, error) {
	return s.catalog.ListActiveProducts(ctx)
}

// CreateProduct adds an active catalog entry owned by creator.
func (s *CatalogService) CreateProduct(ctx context.Context, creator domain.AdminPrincipal, in ports.CreateProductInput) (*domain.Product, error) {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if in.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if in.Stock < 0 {
		problems = append(problems, "stock must not be negative")
	}
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	creatorID := creator.AdminID
	p, err := s.catalog.CreateProduct(ctx, &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageKey:    in.ImageKey,
		Active:      true,
		CreatedBy:   &creatorID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", p.ID).Int64("admin_id", creatorID).Msg("product created")
	return p, nil
}
