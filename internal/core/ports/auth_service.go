package ports

import (
	"context"

	"github.com/storefront/gateway/internal/core/domain"
)

// RegisterFrontUserInput carries a storefront self-registration.
type RegisterFrontUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// CreateAdminInput carries an admin account created by a super_admin.
type CreateAdminInput struct {
	Username    string
	Email       string
	Password    string
	Role        domain.AdminRole
	Permissions string
}

// CredentialHasher digests and checks secrets. Both calls cost the same.
type CredentialHasher interface {
	Hash(secret string) string
	Verify(secret, digest string) bool
}

// AuthService covers credential checks and session issuance for both realms.
type AuthService interface {
	RegisterFrontUser(ctx context.Context, in RegisterFrontUserInput) (*domain.FrontUser, string, error)
	LoginFrontUser(ctx context.Context, email, password string) (*domain.FrontUser, string, error)
	LoginAdmin(ctx context.Context, username, password string) (*domain.AdminUser, string, error)
	CreateAdmin(ctx context.Context, creator domain.AdminPrincipal, in CreateAdminInput) (*domain.AdminUser, error)
}

// PrincipalResolver maps a bearer token to the caller's identity.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (domain.Principal, error)
}
