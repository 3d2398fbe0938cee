// Package scan selects the task/assignee pairs whose deadlines fall
// inside the reminder lookahead window.
package scan

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/deadline-reminder/internal/model"
	"github.com/nhle/deadline-reminder/internal/recur"
)

// DefaultLookahead is how far ahead of now a due date still qualifies
// for a reminder.
const DefaultLookahead = 24 * time.Hour

// Candidate is one task/assignee pair due within the lookahead window.
type Candidate struct {
	Task          model.Task
	UserID        string
	DueDate       time.Time
	HoursUntilDue float64
}

// Scanner filters active tasks down to reminder candidates.
type Scanner struct {
	lookahead     time.Duration
	maxIterations int
	log           zerolog.Logger
}

// New creates a Scanner. A non-positive lookahead falls back to
// DefaultLookahead; a non-positive iteration cap falls back to
// recur.DefaultMaxIterations.
func New(lookahead time.Duration, maxIterations int, log zerolog.Logger) *Scanner {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	if maxIterations <= 0 {
		maxIterations = recur.DefaultMaxIterations
	}
	return &Scanner{
		lookahead:     lookahead,
		maxIterations: maxIterations,
		log:           log,
	}
}

// Scan resolves each task's effective due date as of now and emits one
// candidate per assignee for tasks due between now and now+lookahead.
// The window is strict: overdue tasks are never included, and a task
// due exactly at the window edge is.
func (s *Scanner) Scan(tasks []model.Task, now time.Time) []Candidate {
	var out []Candidate

	for _, task := range tasks {
		if task.IsDeleted || task.Status == model.StatusCompleted {
			continue
		}

		due, _ := recur.EffectiveDueDate(&task, now, s.maxIterations)
		if due.IsZero() {
			s.log.Debug().Str("task", task.ID).Msg("task has no usable due date, skipping")
			continue
		}

		hours := due.Sub(now).Hours()
		if hours < 0 || hours > s.lookahead.Hours() {
			continue
		}

		for _, userID := range task.AssignedTo {
			out = append(out, Candidate{
				Task:          task,
				UserID:        userID,
				DueDate:       due,
				HoursUntilDue: hours,
			})
		}
	}

	return out
}
