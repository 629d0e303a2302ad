package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront/gateway/internal/core/domain"
)

const adminColumns = `id, username, email, password_hash, role, permissions, created_by, is_active, last_login, created_at`

// AdminRepository implements ports.AdminRepository on Postgres.
type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE username = $1`, username)
	return scanAdmin(row, "find admin by username")
}

func (r *AdminRepository) FindByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE id = $1`, id)
	return scanAdmin(row, "find admin by id")
}

func (r *AdminRepository) Create(ctx context.Context, a *domain.AdminUser) (*domain.AdminUser, error) {
	created := *a
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admin_users (username, email, password_hash, role, permissions, created_by, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		a.Username, a.Email, a.PasswordHash, string(a.Role), a.Permissions, a.CreatedBy, a.Active, a.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		if isUniqueViolation(err, "admin_users_username_key") {
			return nil, domain.ErrUsernameTaken
		}
		return nil, domain.Storage("insert admin", err)
	}
	return &created, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM admin_users`).Scan(&n); err != nil {
		return 0, domain.Storage("count admins", err)
	}
	return n, nil
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `UPDATE admin_users SET last_login = now() WHERE id = $1`, id); err != nil {
		return domain.Storage("update admin last_login", err)
	}
	return nil
}

func scanAdmin(row pgx.Row, op string) (*domain.AdminUser, error) {
	var (
		a    domain.AdminUser
		role string
	)
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role, &a.Permissions,
		&a.CreatedBy, &a.Active, &a.LastLogin, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, domain.Storage(op, err)
	}
	a.Role = domain.AdminRole(role)
	return &a, nil
}
