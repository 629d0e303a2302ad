package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/ports"
)

const tokenBytes = 32

// SessionService issues and resolves sessions stored in the Store.
type SessionService struct {
	repo   ports.SessionRepository
	now    func() time.Time
	logger zerolog.Logger
}

func NewSessionService(repo ports.SessionRepository, logger zerolog.Logger) *SessionService {
	return &SessionService{repo: repo, now: time.Now, logger: logger}
}

// WithClock replaces the time source. Used by tests.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// CreateForUser opens a front_user session for userID.
func (s *SessionService) CreateForUser(ctx context.Context, userID int64) (*domain.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, domain.NewFrontSession(token, userID, s.now().UTC()))
}

// CreateForAdmin opens an admin_user session for adminID.
func (s *SessionService) CreateForAdmin(ctx context.Context, adminID int64) (*domain.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, domain.NewAdminSession(token, adminID, s.now().UTC()))
}

// Resolve returns the live session for token or domain.ErrSessionNotFound.
// Expiry is part of the lookup itself.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	sess, err := s.repo.FindActive(ctx, token, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !sess.Consistent() {
		s.logger.Error().Str("realm", string(sess.Realm)).Msg("session row has both or neither principal set")
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) insert(ctx context.Context, sess *domain.Session) (*domain.Session, error) {
	if err := s.repo.Insert(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("realm", string(sess.Realm)).Time("expires_at", sess.ExpiresAt).Msg("session created")
	return sess, nil
}

func generateToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
