package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront/gateway/internal/core/domain"
)

const (
	productColumns = `id, name, description, price::float8, stock, image_key, is_active, created_by, created_at`
	orderColumns   = `id, order_no, user_id, total_amount::float8, status, created_at`
)

// CatalogRepository implements ports.CatalogRepository on Postgres.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) ListActiveProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE is_active ORDER BY id DESC`)
	if err != nil {
		return nil, domain.Storage("list products", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Product, error) {
		var p domain.Product
		err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageKey, &p.Active, &p.CreatedBy, &p.CreatedAt)
		return &p, err
	})
	if err != nil {
		return nil, domain.Storage("scan products", err)
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return products, nil
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	created := *p
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, description, price, stock, image_key, is_active, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		p.Name, p.Description, p.Price, p.Stock, p.ImageKey, p.Active, p.CreatedBy, p.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		return nil, domain.Storage("insert product", err)
	}
	return &created, nil
}

func (r *CatalogRepository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, domain.Storage("list orders", err)
	}
	return collectOrders(rows)
}

func (r *CatalogRepository) ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, domain.Storage("list user orders", err)
	}
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]*domain.Order, error) {
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Order, error) {
		var o domain.Order
		err := row.Scan(&o.ID, &o.OrderNo, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt)
		return &o, err
	})
	if err != nil {
		return nil, domain.Storage("scan orders", err)
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}
