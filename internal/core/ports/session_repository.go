package ports

import (
	"context"
	"time"

	"github.com/storefront/gateway/internal/core/domain"
)

// SessionRepository stores session rows. Expired rows are never deleted by
// the gateway; FindActive filters them out in the same query.
type SessionRepository interface {
	Insert(ctx context.Context, s *domain.Session) error
	// FindActive returns the session with the given id whose expiry is
	// strictly after now, or domain.ErrSessionNotFound.
	FindActive(ctx context.Context, id string, now time.Time) (*domain.Session, error)
}
