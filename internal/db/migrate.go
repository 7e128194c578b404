package db

import (
	"context"
	"database/sql"
)

// A user row holds exactly one credential set: local email+password_hash,
// or a provider-qualified external id (e.g. "github:1234567"). The
// CHECK constraint and the two unique
// indexes back the identity invariants; the unique index on external_id is
// what makes the external find-or-create upsert race-free.
const bootstrapMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    first_name text NOT NULL DEFAULT '',
    last_name text NOT NULL DEFAULT '',
    email text,
    password_hash text,
    external_id text,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT users_external_id_unique UNIQUE (external_id),
    CONSTRAINT users_one_credential_set CHECK (
        (email IS NOT NULL AND password_hash IS NOT NULL AND external_id IS NULL)
        OR
        (external_id IS NOT NULL AND email IS NULL AND password_hash IS NULL)
    )
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS posts (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    creator_id uuid NOT NULL REFERENCES users(id),
    description text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS comments (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    post_id uuid NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    creator_id uuid NOT NULL REFERENCES users(id),
    text text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS comments_post_id_idx
ON comments (post_id);
`

func RunBootstrapMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, bootstrapMigration)
	return err
}
