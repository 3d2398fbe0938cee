// Package dispatch turns scan candidates into notifications and
// reminder mail, and owns the periodic deadline check entry point.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nhle/deadline-reminder/internal/dedupe"
	"github.com/nhle/deadline-reminder/internal/email"
	"github.com/nhle/deadline-reminder/internal/model"
	"github.com/nhle/deadline-reminder/internal/scan"
)

// TaskSource lists the tasks eligible for deadline scanning.
type TaskSource interface {
	ListActiveTasks(ctx context.Context) ([]model.Task, error)
}

// UserSource resolves assignees. A (nil, nil) return means the user
// does not exist; that recipient is skipped, not an error.
type UserSource interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// NotificationSink persists created notifications.
type NotificationSink interface {
	CreateNotification(ctx context.Context, n model.Notification) error
}

// Params collects the dispatcher's collaborators.
type Params struct {
	Tasks         TaskSource
	Users         UserSource
	Notifications NotificationSink
	Mailer        email.Gateway
	Deduper       *dedupe.Deduper
	Scanner       *scan.Scanner

	// Now overrides the clock in tests. Defaults to time.Now.
	Now func() time.Time

	Log zerolog.Logger
}

// Dispatcher runs the scan → dedupe → notify → mail pipeline.
type Dispatcher struct {
	tasks   TaskSource
	users   UserSource
	notes   NotificationSink
	mailer  email.Gateway
	deduper *dedupe.Deduper
	scanner *scan.Scanner
	now     func() time.Time
	log     zerolog.Logger

	// mu serializes whole runs: the dedupe check-then-record is not
	// atomic, so overlapping scans could double-dispatch.
	mu sync.Mutex
}

// New creates a Dispatcher from its collaborators.
func New(p Params) *Dispatcher {
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Dispatcher{
		tasks:   p.Tasks,
		users:   p.Users,
		notes:   p.Notifications,
		mailer:  p.Mailer,
		deduper: p.Deduper,
		scanner: p.Scanner,
		now:     p.Now,
		log:     p.Log,
	}
}

// RunDeadlineCheck enumerates active tasks, scans for upcoming
// deadlines, and dispatches reminders. It returns the number of
// notifications created. A store failure while listing tasks fails the
// whole batch; everything after that is per-recipient best effort.
func (d *Dispatcher) RunDeadlineCheck(ctx context.Context) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()

	tasks, err := d.tasks.ListActiveTasks(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing active tasks: %w", err)
	}

	candidates := d.scanner.Scan(tasks, now)
	created := d.dispatch(ctx, candidates, now)

	d.log.Info().
		Int("tasks", len(tasks)).
		Int("candidates", len(candidates)).
		Int("notifications", created).
		Msg("deadline check finished")

	return created, nil
}

// dispatch processes candidates one by one. Failures for one recipient
// never abort the rest of the batch.
func (d *Dispatcher) dispatch(ctx context.Context, candidates []scan.Candidate, now time.Time) int {
	created := 0

	for _, c := range candidates {
		user, err := d.users.GetUser(ctx, c.UserID)
		if err != nil {
			d.log.Warn().Err(err).Str("user", c.UserID).Msg("user lookup failed, skipping recipient")
			continue
		}
		if user == nil || user.Role != model.RoleStaff {
			// Managers and directors do not receive deadline reminders.
			continue
		}

		ok, err := d.deduper.ShouldNotify(ctx, c.Task.ID, c.UserID, now)
		if err != nil {
			d.log.Warn().Err(err).Str("task", c.Task.ID).Str("user", c.UserID).
				Msg("dedupe lookup failed, skipping recipient")
			continue
		}
		if !ok {
			continue
		}

		n := model.Notification{
			ID:        uuid.New().String(),
			UserID:    c.UserID,
			Type:      model.NotificationDeadline,
			Title:     "Upcoming deadline",
			Message:   fmt.Sprintf("Task %q is due in %.1f hours", c.Task.Title, c.HoursUntilDue),
			TaskID:    c.Task.ID,
			ProjectID: c.Task.ProjectID,
			CreatedAt: now,
		}
		if err := d.notes.CreateNotification(ctx, n); err != nil {
			d.log.Error().Err(err).Str("task", c.Task.ID).Str("user", c.UserID).
				Msg("creating notification failed")
			continue
		}
		created++

		if err := d.deduper.MarkNotified(ctx, c.Task.ID, c.UserID, now); err != nil {
			d.log.Error().Err(err).Str("task", c.Task.ID).Str("user", c.UserID).
				Msg("recording dedupe entry failed")
		}

		// The notification stands even when the mail bounces; the next
		// window re-attempts delivery.
		err = d.mailer.SendDeadlineReminder(ctx, email.DeadlineReminder{
			ToEmail:         user.Email,
			UserName:        user.Name,
			TaskName:        c.Task.Title,
			TaskDescription: c.Task.Description,
			ProjectName:     c.Task.ProjectID,
			HoursUntilDue:   c.HoursUntilDue,
			DueDateDisplay:  c.DueDate.Format("2006-01-02 15:04"),
			PriorityLabel:   model.PriorityLabel(c.Task.Priority),
		})
		if err != nil {
			d.log.Warn().Err(err).Str("to", user.Email).Str("task", c.Task.ID).
				Msg("sending reminder mail failed")
		}
	}

	return created
}
