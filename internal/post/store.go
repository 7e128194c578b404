// Package post exposes the minimal post surface the identity core needs:
// an existence check before a comment is attached. Post CRUD itself lives
// with the out-of-scope feed handlers.
package post

import (
	"context"
	"fmt"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/db"
)

type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("post: exists check: %w", err)
	}
	return exists, nil
}
