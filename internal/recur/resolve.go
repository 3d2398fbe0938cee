package recur

import (
	"time"

	"github.com/nhle/deadline-reminder/internal/model"
)

// DefaultMaxIterations bounds the occurrence walk when the caller does
// not supply a cap. It is a safety valve against pathological specs,
// not a business rule.
const DefaultMaxIterations = 1000

// EffectiveDueDate resolves the due date that currently matters for a
// task: the task's end date for one-off tasks, or the first recurrence
// occurrence on or after asOf for recurring ones (bounded by the end
// condition and the iteration cap). The second return reports whether
// the date came from a recurrence rule.
//
// A zero returned time means the task has no usable due date and
// should be excluded from scanning.
func EffectiveDueDate(task *model.Task, asOf time.Time, maxIterations int) (time.Time, bool) {
	if !task.IsRecurring() {
		return task.EndDate, false
	}
	if task.StartDate.IsZero() {
		return time.Time{}, true
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	// Occurrences are calendar dates (midnight of the start date's
	// location) compared against the asOf instant, so an occurrence on
	// the asOf day resolves to that day rather than skipping past it.
	rec := task.Recurrence

	occ := AlignFirst(dateOnly(task.StartDate), rec)
	produced := 1

	for iter := 0; iter < maxIterations && occ.Before(asOf); iter++ {
		if rec.End.Condition == model.EndAfter &&
			rec.End.AfterOccurrences > 0 &&
			produced >= rec.End.AfterOccurrences {
			break
		}

		next := Advance(occ, rec)

		if rec.End.Condition == model.EndOnDate &&
			!rec.End.OnDate.IsZero() &&
			next.After(dateOnly(rec.End.OnDate)) {
			break
		}

		occ = next
		produced++
	}

	// When the cap is hit the last computed occurrence comes back
	// as-is; a stale date beats an unbounded loop.
	return occ, true
}
