package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nhle/deadline-reminder/internal/model"
)

// UpsertUser inserts or replaces a user record.
func (s *SQLiteStore) UpsertUser(ctx context.Context, u model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO users (id, name, email, role)
		VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Role,
	)
	if err != nil {
		return fmt.Errorf("upserting user %s: %w", u.ID, err)
	}
	return nil
}

// GetUser retrieves a user by ID. Returns (nil, nil) when no such user
// exists; an absent user is a skip condition for the dispatcher, not
// an error.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, "SELECT * FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &u, nil
}
