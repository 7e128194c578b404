package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/db"
)

var (
	ErrNotFound    = errors.New("user: not found")
	ErrEmailExists = errors.New("user: email already registered")
)

// Store persists users in Postgres.
type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, first_name, last_name,
	COALESCE(email, ''), COALESCE(password_hash, ''), COALESCE(external_id, ''),
	created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName,
		&u.Email, &u.PasswordHash, &u.ExternalID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user: scan: %w", err)
	}
	return &u, nil
}

// CreateLocal inserts a locally-registered user. A duplicate email is
// reported as ErrEmailExists, not as a raw store error.
func (s *Store) CreateLocal(ctx context.Context, u *User) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash,
	)

	created, err := scanUser(row)
	if isUniqueViolation(err) {
		return nil, ErrEmailExists
	}
	return created, err
}

// UpsertExternal finds or creates the user holding the provider-qualified
// external id as a single conditional write. Two concurrent calls with the
// same external id resolve to the same row; the no-op DO UPDATE makes
// RETURNING yield the existing record on conflict.
func (s *Store) UpsertExternal(ctx context.Context, u *User) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, first_name, last_name, external_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO UPDATE
			SET external_id = EXCLUDED.external_id
		RETURNING `+userColumns,
		u.ID, u.FirstName, u.LastName, u.ExternalID,
	)
	return scanUser(row)
}

func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	return scanUser(row)
}

// CompleteProfile fills empty name fields in one statement. Non-empty
// stored values win over the supplied ones; completion is one-way.
func (s *Store) CompleteProfile(ctx context.Context, id, firstName, lastName string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET first_name = CASE WHEN first_name = '' THEN $2 ELSE first_name END,
		    last_name  = CASE WHEN last_name  = '' THEN $3 ELSE last_name  END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, firstName, lastName,
	)
	return scanUser(row)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
