package repo

import (
	"context"
	"database/sql"
	"fmt"
)

// All form types share one table. Form-specific fields live in the
// fields jsonb column; the core columns are what admin listing, search
// and the duplicate guard need to index.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id uuid PRIMARY KEY,
		form_type text NOT NULL,
		reference text NOT NULL,
		name text NOT NULL DEFAULT '',
		email text NOT NULL,
		phone text NOT NULL DEFAULT '',
		status text NOT NULL,
		source text NOT NULL DEFAULT '',
		client_ip text NOT NULL DEFAULT '',
		user_agent text NOT NULL DEFAULT '',
		assignee text NOT NULL DEFAULT '',
		notes text NOT NULL DEFAULT '',
		reason text NOT NULL DEFAULT '',
		dedupe_key text,
		unsubscribe_token text,
		fields jsonb NOT NULL DEFAULT '{}'::jsonb,
		status_times jsonb NOT NULL DEFAULT '{}'::jsonb,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS submissions_reference_key
		ON submissions (reference)`,

	// hard uniqueness for policies without a time window; the partial
	// index turns a lost check-then-create race into a 23505
	`CREATE UNIQUE INDEX IF NOT EXISTS submissions_dedupe_key
		ON submissions (form_type, dedupe_key)
		WHERE dedupe_key IS NOT NULL`,

	`CREATE UNIQUE INDEX IF NOT EXISTS submissions_unsubscribe_token_key
		ON submissions (unsubscribe_token)
		WHERE unsubscribe_token IS NOT NULL`,

	`CREATE INDEX IF NOT EXISTS submissions_type_status_idx
		ON submissions (form_type, status)`,

	`CREATE INDEX IF NOT EXISTS submissions_type_created_idx
		ON submissions (form_type, created_at DESC)`,
}

// Migrate applies the schema. Statements are idempotent, so it is safe
// to run on every startup.
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
