package recur

import (
	"time"

	"github.com/nhle/deadline-reminder/internal/model"
)

// Advance returns the next occurrence strictly after current. Every
// branch makes forward progress, so a resolver walking occurrences can
// never stall: an unrecognized frequency (or a nil/disabled rule)
// falls back to a one-day step.
func Advance(current time.Time, rec *model.Recurrence) time.Time {
	if rec == nil || !rec.Enabled {
		return current.AddDate(0, 0, 1)
	}

	interval := rec.StepInterval()

	switch rec.Frequency {
	case model.FreqDaily:
		return current.AddDate(0, 0, interval)

	case model.FreqWeekly:
		return advanceWeekly(current, rec.Weekly, interval)

	case model.FreqMonthly:
		return AddMonths(current, interval)

	case model.FreqYearly:
		return addYears(current, interval)

	case model.FreqCustom:
		unit := model.UnitDays
		if rec.Custom != nil && rec.Custom.Unit != "" {
			unit = rec.Custom.Unit
		}
		switch unit {
		case model.UnitWeeks:
			return current.AddDate(0, 0, 7*interval)
		case model.UnitMonths:
			return AddMonths(current, interval)
		default:
			return current.AddDate(0, 0, interval)
		}

	default:
		return current.AddDate(0, 0, 1)
	}
}

// advanceWeekly moves to the next configured weekday later in the same
// week, or jumps interval weeks ahead to the earliest configured day.
// The jump is always at least one day because the current weekday can
// be at most six days past the earliest configured one.
func advanceWeekly(current time.Time, rule *model.WeeklyRule, interval int) time.Time {
	days := normalizeWeekdays(rule, current)
	wd := current.Weekday()

	for _, d := range days {
		if d > wd {
			return current.AddDate(0, 0, int(d-wd))
		}
	}
	return current.AddDate(0, 0, interval*7-int(wd-days[0]))
}
