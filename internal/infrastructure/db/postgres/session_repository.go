package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront/gateway/internal/core/domain"
)

// SessionRepository implements ports.SessionRepository on Postgres. Rows are
// never swept; expiry is enforced by FindActive's predicate.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Insert(ctx context.Context, s *domain.Session) error {
	if !s.Consistent() {
		return fmt.Errorf("insert session: realm %q does not match principal columns", s.Realm)
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, admin_id, realm, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.UserID, s.AdminID, string(s.Realm), s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return domain.Storage("insert session", err)
	}
	return nil
}

func (r *SessionRepository) FindActive(ctx context.Context, id string, now time.Time) (*domain.Session, error) {
	var (
		s     domain.Session
		realm string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, admin_id, realm, created_at, expires_at
		 FROM sessions
		 WHERE id = $1 AND expires_at > $2`,
		id, now,
	).Scan(&s.ID, &s.UserID, &s.AdminID, &realm, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.Storage("find session", err)
	}
	s.Realm = domain.Realm(realm)
	return &s, nil
}
