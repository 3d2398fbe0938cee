package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LastNotified returns when a deadline reminder last went out for the
// (task, user) pair, and whether one ever did. Satisfies dedupe.Store.
func (s *SQLiteStore) LastNotified(ctx context.Context, taskID, userID string) (time.Time, bool, error) {
	var at time.Time
	err := s.db.GetContext(ctx, &at,
		"SELECT notified_at FROM reminder_log WHERE task_id = ? AND user_id = ?",
		taskID, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading reminder log for %s/%s: %w", taskID, userID, err)
	}
	return at, true, nil
}

// RecordNotified upserts the last-notified timestamp for the pair.
func (s *SQLiteStore) RecordNotified(ctx context.Context, taskID, userID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_log (task_id, user_id, notified_at)
		VALUES (?, ?, ?)
		ON CONFLICT (task_id, user_id) DO UPDATE SET notified_at = excluded.notified_at`,
		taskID, userID, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording reminder for %s/%s: %w", taskID, userID, err)
	}
	return nil
}
