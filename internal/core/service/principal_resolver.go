package service

import (
	"context"
	"errors"

	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/ports"
)

// Resolver turns bearer tokens into principals. It never writes.
type Resolver struct {
	sessions *SessionService
	users    ports.FrontUserRepository
	admins   ports.AdminRepository
}

func NewResolver(sessions *SessionService, users ports.FrontUserRepository, admins ports.AdminRepository) *Resolver {
	return &Resolver{sessions: sessions, users: users, admins: admins}
}

// Resolve maps token to a principal. Only Store faults are returned as errors;
// unknown, expired or orphaned sessions resolve to Anonymous.
func (r *Resolver) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Anonymous{}, nil
	}

	sess, err := r.sessions.Resolve(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.Anonymous{TokenPresented: true}, nil
	}
	if err != nil {
		return nil, err
	}

	switch sess.Realm {
	case domain.RealmFrontUser:
		user, err := r.users.FindByID(ctx, *sess.UserID)
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Anonymous{TokenPresented: true}, nil
		}
		if err != nil {
			return nil, err
		}
		if !user.Active {
			return domain.Anonymous{TokenPresented: true}, nil
		}
		return domain.FrontPrincipal{UserID: user.ID}, nil
	case domain.RealmAdminUser:
		// Role is read on every request so changes apply immediately.
		admin, err := r.admins.FindByID(ctx, *sess.AdminID)
		if errors.Is(err, domain.ErrAdminNotFound) {
			return domain.Anonymous{TokenPresented: true}, nil
		}
		if err != nil {
			return nil, err
		}
		if !admin.Active {
			return domain.Anonymous{TokenPresented: true}, nil
		}
		return domain.AdminPrincipal{AdminID: admin.ID, Role: admin.Role}, nil
	}
	return domain.Anonymous{TokenPresented: true}, nil
}
