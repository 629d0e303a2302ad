package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront/gateway/internal/core/domain"
)

// openTestPool connects to DATABASE_URL or skips. Each test gets unique
// emails and usernames so runs can share a database.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, Config{URL: url, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return pool
}

func uniqueSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func TestFrontUserRepository_CreateAndDuplicateEmail(t *testing.T) {
	pool := openTestPool(t)
	repo := NewFrontUserRepository(pool)
	ctx := context.Background()
	email := "pg-" + uniqueSuffix() + "@example.com"

	created, err := repo.Create(ctx, &domain.FrontUser{
		Name: "Ann", Email: email, PasswordHash: "h", Active: true, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected store-assigned id")
	}

	got, err := repo.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("id: got %d, want %d", got.ID, created.ID)
	}

	_, err = repo.Create(ctx, &domain.FrontUser{
		Name: "Ann again", Email: email, PasswordHash: "h", Active: true, CreatedAt: time.Now().UTC(),
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("duplicate email: got %v, want ErrEmailTaken", err)
	}

	if _, err := repo.FindByID(ctx, -1); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("missing id: got %v, want ErrUserNotFound", err)
	}
}

func TestSessionRepository_FindActiveBoundary(t *testing.T) {
	pool := openTestPool(t)
	users := NewFrontUserRepository(pool)
	sessions := NewSessionRepository(pool)
	ctx := context.Background()

	u, err := users.Create(ctx, &domain.FrontUser{
		Name: "Sess", Email: "sess-" + uniqueSuffix() + "@example.com", PasswordHash: "h",
		Active: true, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	issued := time.Now().UTC().Truncate(time.Millisecond)
	s := domain.NewFrontSession("tok-"+uniqueSuffix(), u.ID, issued)
	if err := sessions.Insert(ctx, s); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := sessions.FindActive(ctx, s.ID, s.ExpiresAt.Add(-time.Millisecond))
	if err != nil {
		t.Fatalf("find before expiry: %v", err)
	}
	if got.Realm != domain.RealmFrontUser || got.UserID == nil || *got.UserID != u.ID {
		t.Errorf("unexpected session: %+v", got)
	}

	if _, err := sessions.FindActive(ctx, s.ID, s.ExpiresAt); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("at expiry: got %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRepository_RealmConstraint(t *testing.T) {
	pool := openTestPool(t)
	users := NewFrontUserRepository(pool)
	ctx := context.Background()

	u, err := users.Create(ctx, &domain.FrontUser{
		Name: "Bad", Email: "realm-" + uniqueSuffix() + "@example.com", PasswordHash: "h",
		Active: true, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	now := time.Now().UTC()
	_, err = pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, realm, created_at, expires_at) VALUES ($1, $2, 'admin_user', $3, $4)`,
		"bad-"+uniqueSuffix(), u.ID, now, now.Add(time.Hour),
	)
	if err == nil {
		t.Fatal("expected the realm check constraint to reject an admin session without admin_id")
	}
}

func TestAdminRepository_CreateAndTouch(t *testing.T) {
	pool := openTestPool(t)
	repo := NewAdminRepository(pool)
	ctx := context.Background()
	username := "root-" + uniqueSuffix()

	a, err := repo.Create(ctx, &domain.AdminUser{
		Username: username, Email: username + "@example.com", PasswordHash: "h",
		Role: domain.RoleEditor, Active: true, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.AdminUser{
		Username: username, Email: "x@example.com", PasswordHash: "h",
		Role: domain.RoleAdmin, Active: true, CreatedAt: time.Now().UTC(),
	}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("duplicate username: got %v, want ErrUsernameTaken", err)
	}

	if err := repo.TouchLastLogin(ctx, a.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}
	got, err := repo.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.LastLogin == nil {
		t.Error("expected last_login to be set")
	}
	if got.Role != domain.RoleEditor {
		t.Errorf("role: got %q", got.Role)
	}
}
