// Package schedule triggers the periodic deadline check from a cron
// expression.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// runTimeout bounds one scheduled check; a wedged SMTP server must not
// pile up overlapping runs.
const runTimeout = 5 * time.Minute

// CheckFunc runs one deadline check and returns the number of
// notifications it created.
type CheckFunc func(ctx context.Context) (int, error)

// Runner owns the cron instance driving the deadline check.
type Runner struct {
	c   *cron.Cron
	log zerolog.Logger
}

// New validates the cron spec and registers the check. Standard
// five-field cron expressions and descriptors like @hourly are accepted.
func New(spec string, check CheckFunc, log zerolog.Logger) (*Runner, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		count, err := check(ctx)
		if err != nil {
			log.Error().Err(err).Msg("scheduled deadline check failed")
			return
		}
		log.Debug().Int("notifications", count).Msg("scheduled deadline check finished")
	})
	if err != nil {
		return nil, fmt.Errorf("registering cron spec %q: %w", spec, err)
	}

	return &Runner{c: c, log: log}, nil
}

// Start begins triggering on schedule.
func (r *Runner) Start() {
	r.c.Start()
	r.log.Info().Msg("deadline check schedule started")
}

// Stop halts the schedule and waits for an in-flight check to finish,
// or for ctx to expire, whichever comes first.
func (r *Runner) Stop(ctx context.Context) {
	done := r.c.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		r.log.Warn().Msg("gave up waiting for in-flight deadline check")
	}
}
