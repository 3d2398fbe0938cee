package dedupe

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memStore struct {
	entries map[string]time.Time
	err     error
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]time.Time{}}
}

func (m *memStore) LastNotified(_ context.Context, taskID, userID string) (time.Time, bool, error) {
	if m.err != nil {
		return time.Time{}, false, m.err
	}
	at, ok := m.entries[taskID+"/"+userID]
	return at, ok, nil
}

func (m *memStore) RecordNotified(_ context.Context, taskID, userID string, at time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.entries[taskID+"/"+userID] = at
	return nil
}

func TestShouldNotifyWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	store := newMemStore()
	d := New(store, 23*time.Hour)

	// Never notified before.
	ok, err := d.ShouldNotify(ctx, "t1", "u1", now)
	if err != nil {
		t.Fatalf("ShouldNotify: %v", err)
	}
	if !ok {
		t.Fatal("expected notify for unseen pair")
	}

	if err := d.MarkNotified(ctx, "t1", "u1", now); err != nil {
		t.Fatalf("MarkNotified: %v", err)
	}

	// Inside the window.
	ok, err = d.ShouldNotify(ctx, "t1", "u1", now.Add(22*time.Hour))
	if err != nil {
		t.Fatalf("ShouldNotify: %v", err)
	}
	if ok {
		t.Fatal("expected suppression inside window")
	}

	// At the window edge and beyond.
	ok, _ = d.ShouldNotify(ctx, "t1", "u1", now.Add(23*time.Hour))
	if !ok {
		t.Fatal("expected notify at window edge")
	}

	// Other pairs are unaffected.
	ok, _ = d.ShouldNotify(ctx, "t1", "u2", now.Add(time.Minute))
	if !ok {
		t.Fatal("expected notify for different user")
	}
	ok, _ = d.ShouldNotify(ctx, "t2", "u1", now.Add(time.Minute))
	if !ok {
		t.Fatal("expected notify for different task")
	}
}

func TestShouldNotifyDefaultWindow(t *testing.T) {
	t.Parallel()
	d := New(newMemStore(), 0)
	if d.Window() != DefaultWindow {
		t.Fatalf("Window() = %v, want %v", d.Window(), DefaultWindow)
	}
}

func TestShouldNotifyStoreError(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	store.err = errors.New("db closed")
	d := New(store, time.Hour)

	ok, err := d.ShouldNotify(context.Background(), "t1", "u1", time.Now())
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if ok {
		t.Fatal("failing store must not allow notify")
	}
}
