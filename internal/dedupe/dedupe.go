// Package dedupe suppresses repeat deadline reminders for the same
// task/assignee pair inside a rolling window.
package dedupe

import (
	"context"
	"time"
)

// DefaultWindow is slightly under a day so a job that runs every 24h
// with minor scheduling drift still re-notifies on the next day.
const DefaultWindow = 23 * time.Hour

// Store persists last-notified timestamps per (task, user) pair.
// Implementations must tolerate pairs that have never been recorded.
type Store interface {
	// LastNotified returns the most recent dispatch time for the pair
	// and whether one exists.
	LastNotified(ctx context.Context, taskID, userID string) (time.Time, bool, error)

	// RecordNotified upserts the dispatch time for the pair.
	RecordNotified(ctx context.Context, taskID, userID string, at time.Time) error
}

// Deduper answers whether a reminder for a pair should go out now.
// It only reads; callers record the dispatch after it happens.
type Deduper struct {
	store  Store
	window time.Duration
}

// New creates a Deduper over the given store. A non-positive window
// falls back to DefaultWindow.
func New(store Store, window time.Duration) *Deduper {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Deduper{store: store, window: window}
}

// Window returns the configured suppression window.
func (d *Deduper) Window() time.Duration { return d.window }

// ShouldNotify reports whether no dispatch for the pair happened
// within the window before now.
func (d *Deduper) ShouldNotify(ctx context.Context, taskID, userID string, now time.Time) (bool, error) {
	last, ok, err := d.store.LastNotified(ctx, taskID, userID)
	if err != nil {
		return false, err
	}
	if ok && now.Sub(last) < d.window {
		return false, nil
	}
	return true, nil
}

// MarkNotified records a dispatch for the pair at the given time.
func (d *Deduper) MarkNotified(ctx context.Context, taskID, userID string, at time.Time) error {
	return d.store.RecordNotified(ctx, taskID, userID, at)
}
