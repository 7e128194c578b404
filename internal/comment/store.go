package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/db"
)

var ErrNotFound = errors.New("comment: not found")

// Store persists comments in Postgres. Response rows always carry the
// creator's name fields, joined from users.
type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

func scanComment(row interface{ Scan(...any) error }) (*Comment, error) {
	var c Comment
	err := row.Scan(
		&c.ID, &c.PostID, &c.Text, &c.CreatedAt,
		&c.Creator.ID, &c.Creator.FirstName, &c.Creator.LastName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("comment: scan: %w", err)
	}
	return &c, nil
}

// Insert persists a new comment and returns it with the creator embedded.
func (s *Store) Insert(ctx context.Context, postID, creatorID, text string) (*Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH ins AS (
			INSERT INTO comments (id, post_id, creator_id, text, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, post_id, creator_id, text, created_at
		)
		SELECT ins.id, ins.post_id, ins.text, ins.created_at,
		       u.id, u.first_name, u.last_name
		FROM ins
		JOIN users u ON u.id = ins.creator_id`,
		uuid.NewString(), postID, creatorID, text, time.Now().UTC(),
	)
	return scanComment(row)
}

func (s *Store) GetByID(ctx context.Context, id string) (*Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.post_id, c.text, c.created_at,
		       u.id, u.first_name, u.last_name
		FROM comments c
		JOIN users u ON u.id = c.creator_id
		WHERE c.id = $1`, id)
	return scanComment(row)
}

// ListByPost returns a post's comments oldest first. There is no
// denormalized id list to consult; the post_id index serves the query.
func (s *Store) ListByPost(ctx context.Context, postID string) ([]*Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.text, c.created_at,
		       u.id, u.first_name, u.last_name
		FROM comments c
		JOIN users u ON u.id = c.creator_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("comment: list: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateText replaces the comment body.
func (s *Store) UpdateText(ctx context.Context, id, text string) (*Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH upd AS (
			UPDATE comments SET text = $2
			WHERE id = $1
			RETURNING id, post_id, creator_id, text, created_at
		)
		SELECT upd.id, upd.post_id, upd.text, upd.created_at,
		       u.id, u.first_name, u.last_name
		FROM upd
		JOIN users u ON u.id = upd.creator_id`,
		id, text,
	)
	return scanComment(row)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("comment: delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("comment: delete: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
