//go:build integration

package infra

import (
	"context"
	"database/sql"
)

// EnsureAccountSchema creates the accounts table the Postgres store expects.
// The service itself never manages schema.
func EnsureAccountSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS accounts (
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CONSTRAINT accounts_email_key UNIQUE (email)
);
`)
	return err
}

func ResetAccounts(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `TRUNCATE TABLE accounts`)
	return err
}
