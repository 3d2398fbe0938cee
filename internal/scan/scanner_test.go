package scan

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/deadline-reminder/internal/model"
)

func testScanner() *Scanner {
	return New(24*time.Hour, 0, zerolog.New(io.Discard))
}

func TestScanWindowBoundaries(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{name: "well inside window", due: now.Add(12 * time.Hour), want: 1},
		{name: "exactly at window edge", due: now.Add(24 * time.Hour), want: 1},
		{name: "just past window edge", due: now.Add(24*time.Hour + 400*time.Millisecond), want: 0},
		{name: "just overdue", due: now.Add(-400 * time.Millisecond), want: 0},
		{name: "due exactly now", due: now, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []model.Task{{
				ID:         "t1",
				Status:     model.StatusPending,
				EndDate:    tt.due,
				AssignedTo: []string{"u1"},
			}}
			got := testScanner().Scan(tasks, now)
			if len(got) != tt.want {
				t.Fatalf("Scan() returned %d candidates, want %d", len(got), tt.want)
			}
		})
	}
}

func TestScanSkipsDeletedAndCompleted(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	due := now.Add(6 * time.Hour)

	tasks := []model.Task{
		{ID: "deleted", Status: model.StatusPending, EndDate: due, AssignedTo: []string{"u1"}, IsDeleted: true},
		{ID: "completed", Status: model.StatusCompleted, EndDate: due, AssignedTo: []string{"u1"}},
		{ID: "active", Status: model.StatusInProgress, EndDate: due, AssignedTo: []string{"u1"}},
	}

	got := testScanner().Scan(tasks, now)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Task.ID != "active" {
		t.Fatalf("unexpected candidate task %s", got[0].Task.ID)
	}
	if got[0].HoursUntilDue < 5.9 || got[0].HoursUntilDue > 6.1 {
		t.Fatalf("HoursUntilDue = %v, want ~6", got[0].HoursUntilDue)
	}
}

func TestScanEmitsPerAssignee(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	tasks := []model.Task{{
		ID:         "t1",
		Status:     model.StatusPending,
		EndDate:    now.Add(2 * time.Hour),
		AssignedTo: []string{"u1", "u2", "u3"},
	}}

	got := testScanner().Scan(tasks, now)
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, c := range got {
		seen[c.UserID] = true
	}
	for _, u := range []string{"u1", "u2", "u3"} {
		if !seen[u] {
			t.Fatalf("missing candidate for %s", u)
		}
	}
}

func TestScanSkipsTasksWithoutDueDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	tasks := []model.Task{
		{ID: "no-dates", Status: model.StatusPending, AssignedTo: []string{"u1"}},
		{
			ID:         "recurring-no-start",
			Status:     model.StatusPending,
			AssignedTo: []string{"u1"},
			Recurrence: &model.Recurrence{Enabled: true, Frequency: model.FreqDaily, Interval: 1},
		},
	}

	if got := testScanner().Scan(tasks, now); len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestScanRecurringTask(t *testing.T) {
	t.Parallel()
	// Daily recurrence resolved at 02:00: today's midnight occurrence
	// is already past, so the resolver lands on tomorrow's, 22h away.
	now := time.Date(2024, 1, 10, 2, 0, 0, 0, time.UTC)

	tasks := []model.Task{{
		ID:         "t1",
		Status:     model.StatusPending,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AssignedTo: []string{"u1"},
		Recurrence: &model.Recurrence{Enabled: true, Frequency: model.FreqDaily, Interval: 1},
	}}

	got := testScanner().Scan(tasks, now)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if want := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC); !got[0].DueDate.Equal(want) {
		t.Fatalf("DueDate = %v, want %v", got[0].DueDate, want)
	}
	if got[0].HoursUntilDue < 21.9 || got[0].HoursUntilDue > 22.1 {
		t.Fatalf("HoursUntilDue = %v, want ~22", got[0].HoursUntilDue)
	}
}
