package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS front_users (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT        NOT NULL,
		email         TEXT        NOT NULL,
		password_hash TEXT        NOT NULL,
		phone         TEXT        NOT NULL DEFAULT '',
		address       TEXT        NOT NULL DEFAULT '',
		is_active     BOOLEAN     NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT front_users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT        NOT NULL,
		email         TEXT        NOT NULL,
		password_hash TEXT        NOT NULL,
		role          TEXT        NOT NULL CHECK (role IN ('super_admin', 'admin', 'editor')),
		permissions   TEXT        NOT NULL DEFAULT '',
		created_by    BIGINT      REFERENCES admin_users(id),
		is_active     BOOLEAN     NOT NULL DEFAULT TRUE,
		last_login    TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT admin_users_username_key UNIQUE (username)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		user_id    BIGINT      REFERENCES front_users(id),
		admin_id   BIGINT      REFERENCES admin_users(id),
		realm      TEXT        NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT sessions_realm_principal CHECK (
			(realm = 'front_user' AND user_id IS NOT NULL AND admin_id IS NULL) OR
			(realm = 'admin_user' AND admin_id IS NOT NULL AND user_id IS NULL)
		)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT           NOT NULL,
		description TEXT           NOT NULL DEFAULT '',
		price       NUMERIC(12, 2) NOT NULL DEFAULT 0,
		stock       INTEGER        NOT NULL DEFAULT 0,
		image_key   TEXT           NOT NULL DEFAULT '',
		is_active   BOOLEAN        NOT NULL DEFAULT TRUE,
		created_by  BIGINT         REFERENCES admin_users(id),
		created_at  TIMESTAMPTZ    NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           BIGSERIAL PRIMARY KEY,
		order_no     TEXT           NOT NULL UNIQUE,
		user_id      BIGINT         NOT NULL REFERENCES front_users(id),
		total_amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
		status       TEXT           NOT NULL DEFAULT 'pending',
		created_at   TIMESTAMPTZ    NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id)`,
}

// EnsureSchema creates the gateway's tables and indexes. It is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
