package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/ports"
)

// AuthService implements registration, login and admin provisioning.
type AuthService struct {
	users    ports.FrontUserRepository
	admins   ports.AdminRepository
	sessions *SessionService
	hasher   ports.CredentialHasher
	logger   zerolog.Logger
}

func NewAuthService(
	users ports.FrontUserRepository,
	admins ports.AdminRepository,
	sessions *SessionService,
	hasher ports.CredentialHasher,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		admins:   admins,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}
}

// RegisterFrontUser creates a customer account and opens a session for it.
// The email pre-check is advisory; the Store's unique constraint decides races.
func (s *AuthService) RegisterFrontUser(ctx context.Context, in ports.RegisterFrontUserInput) (*domain.FrontUser, string, error) {
	if err := requireFields(map[string]string{"name": in.Name, "email": in.Email, "password": in.Password}); err != nil {
		return nil, "", err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, &domain.FrontUser{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: s.hasher.Hash(in.Password),
		Phone:        in.Phone,
		Address:      in.Address,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, "", err
	}

	sess, err := s.sessions.CreateForUser(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("front user registered")
	return user, sess.ID, nil
}

// LoginFrontUser checks a customer's credentials and opens a session. Every
// failed attempt pays one hash so unknown emails answer as slowly as known ones.
func (s *AuthService) LoginFrontUser(ctx context.Context, email, password string) (*domain.FrontUser, string, error) {
	if err := requireFields(map[string]string{"email": email, "password": password}); err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Hash(password)
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if valid := s.hasher.Verify(password, user.PasswordHash); !valid || !user.Active {
		return nil, "", domain.ErrInvalidCredentials
	}

	sess, err := s.sessions.CreateForUser(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, sess.ID, nil
}

// LoginAdmin checks a staff account's credentials, stamps last_login and
// opens a session.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (*domain.AdminUser, string, error) {
	if err := requireFields(map[string]string{"username": username, "password": password}); err != nil {
		return nil, "", err
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrAdminNotFound) {
		s.hasher.Hash(password)
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if valid := s.hasher.Verify(password, admin.PasswordHash); !valid || !admin.Active {
		return nil, "", domain.ErrInvalidCredentials
	}

	if err := s.admins.TouchLastLogin(ctx, admin.ID); err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	admin.LastLogin = &now

	sess, err := s.sessions.CreateForAdmin(ctx, admin.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Int64("admin_id", admin.ID).Str("role", string(admin.Role)).Msg("admin logged in")
	return admin, sess.ID, nil
}

// CreateAdmin provisions a staff account on behalf of a super_admin.
func (s *AuthService) CreateAdmin(ctx context.Context, creator domain.AdminPrincipal, in ports.CreateAdminInput) (*domain.AdminUser, error) {
	if err := Authorize(creator, AdminWithRole(domain.RoleSuperAdmin)); err != nil {
		return nil, err
	}
	if err := requireFields(map[string]string{"username": in.Username, "email": in.Email, "password": in.Password}); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, domain.NewValidationError("role must be one of: super_admin admin editor")
	}

	if _, err := s.admins.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrAdminNotFound) {
		return nil, err
	}

	creatorID := creator.AdminID
	admin, err := s.admins.Create(ctx, &domain.AdminUser{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: s.hasher.Hash(in.Password),
		Role:         in.Role,
		Permissions:  in.Permissions,
		CreatedBy:    &creatorID,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("admin_id", admin.ID).
		Int64("created_by", creatorID).
		Str("role", string(admin.Role)).
		Msg("admin created")
	return admin, nil
}

// Bootstrap creates the first super_admin when the admin table is empty. It
// reports whether an account was created.
func (s *AuthService) Bootstrap(ctx context.Context, username, email, password string) (bool, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}

	n, err := s.admins.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	admin, err := s.admins.Create(ctx, &domain.AdminUser{
		Username:     username,
		Email:        email,
		PasswordHash: s.hasher.Hash(password),
		Role:         domain.RoleSuperAdmin,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}

	s.logger.Info().Int64("admin_id", admin.ID).Msg("bootstrap super_admin created")
	return true, nil
}

// requireFields rejects blank values. Keys are reported in sorted order so
// messages are stable.
func requireFields(fields map[string]string) error {
	var missing []string
	for _, name := range sortedKeys(fields) {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name+" is required")
		}
	}
	if len(missing) > 0 {
		return domain.NewValidationError(missing...)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
