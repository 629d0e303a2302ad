package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront/gateway/internal/core/domain"
)

const frontUserColumns = `id, name, email, password_hash, phone, address, is_active, created_at`

// FrontUserRepository implements ports.FrontUserRepository on Postgres.
type FrontUserRepository struct {
	pool *pgxpool.Pool
}

func NewFrontUserRepository(pool *pgxpool.Pool) *FrontUserRepository {
	return &FrontUserRepository{pool: pool}
}

func (r *FrontUserRepository) FindByEmail(ctx context.Context, email string) (*domain.FrontUser, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+frontUserColumns+` FROM front_users WHERE email = $1`, email)
	return scanFrontUser(row, "find front user by email")
}

func (r *FrontUserRepository) FindByID(ctx context.Context, id int64) (*domain.FrontUser, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+frontUserColumns+` FROM front_users WHERE id = $1`, id)
	return scanFrontUser(row, "find front user by id")
}

// Create inserts the user. The unique email constraint is what actually
// prevents duplicate registrations.
func (r *FrontUserRepository) Create(ctx context.Context, u *domain.FrontUser) (*domain.FrontUser, error) {
	created := *u
	err := r.pool.QueryRow(ctx,
		`INSERT INTO front_users (name, email, password_hash, phone, address, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		u.Name, u.Email, u.PasswordHash, u.Phone, u.Address, u.Active, u.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		if isUniqueViolation(err, "front_users_email_key") {
			return nil, domain.ErrEmailTaken
		}
		return nil, domain.Storage("insert front user", err)
	}
	return &created, nil
}

func (r *FrontUserRepository) List(ctx context.Context) ([]*domain.FrontUser, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+frontUserColumns+` FROM front_users ORDER BY id`)
	if err != nil {
		return nil, domain.Storage("list front users", err)
	}
	defer rows.Close()

	users := make([]*domain.FrontUser, 0)
	for rows.Next() {
		u, err := scanFrontUser(rows, "scan front user")
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("list front users", err)
	}
	return users, nil
}

func scanFrontUser(row pgx.Row, op string) (*domain.FrontUser, error) {
	var u domain.FrontUser
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Address, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Storage(op, err)
	}
	return &u, nil
}
