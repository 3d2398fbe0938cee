package recur

import (
	"sort"
	"time"

	"github.com/nhle/deadline-reminder/internal/model"
)

// normalizeWeekdays filters the rule's weekday set to valid indices,
// sorts it ascending, and drops duplicates. An empty or missing set
// falls back to the anchor's own weekday.
func normalizeWeekdays(rule *model.WeeklyRule, anchor time.Time) []time.Weekday {
	var days []time.Weekday
	if rule != nil {
		seen := [7]bool{}
		for _, d := range rule.Days {
			if d < time.Sunday || d > time.Saturday || seen[d] {
				continue
			}
			seen[d] = true
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return []time.Weekday{anchor.Weekday()}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// AlignFirst returns the first occurrence of the recurrence on or after
// the anchor date. A nil or disabled recurrence aligns to the anchor
// itself, as do frequencies whose first occurrence is the anchor by
// definition (daily, custom day/week steps, unknown values).
func AlignFirst(anchor time.Time, rec *model.Recurrence) time.Time {
	if rec == nil || !rec.Enabled {
		return anchor
	}

	interval := rec.StepInterval()

	switch rec.Frequency {
	case model.FreqWeekly:
		return alignWeekly(anchor, rec.Weekly, interval)

	case model.FreqMonthly:
		day := anchor.Day()
		if rec.Monthly != nil && rec.Monthly.Day > 0 {
			day = rec.Monthly.Day
		}
		return alignMonthly(anchor, day, interval)

	case model.FreqYearly:
		return alignYearly(anchor, rec.Yearly, interval)

	case model.FreqCustom:
		if rec.Custom != nil && rec.Custom.Unit == model.UnitMonths {
			return alignMonthly(anchor, anchor.Day(), interval)
		}
		return anchor

	default:
		// Daily and anything unrecognized: the anchor is the first
		// occurrence; stepping happens in Advance.
		return anchor
	}
}

// alignWeekly finds the first configured weekday on or after the anchor.
// When every configured day falls earlier in the week than the anchor,
// the occurrence jumps interval weeks ahead to the earliest configured day.
func alignWeekly(anchor time.Time, rule *model.WeeklyRule, interval int) time.Time {
	days := normalizeWeekdays(rule, anchor)
	wd := anchor.Weekday()

	for _, d := range days {
		if d >= wd {
			return anchor.AddDate(0, 0, int(d-wd))
		}
	}
	return anchor.AddDate(0, 0, interval*7-int(wd-days[0]))
}

// alignMonthly substitutes the target day (clamped to the anchor month's
// length) into the anchor. A candidate earlier than the anchor advances
// by interval months and re-clamps against the new month.
func alignMonthly(anchor time.Time, day, interval int) time.Time {
	h, min, sec := anchor.Clock()

	d := clampDay(day, anchor.Year(), anchor.Month())
	cand := time.Date(anchor.Year(), anchor.Month(), d, h, min, sec, anchor.Nanosecond(), anchor.Location())
	if !cand.Before(anchor) {
		return cand
	}

	shifted := AddMonths(cand, interval)
	d = clampDay(day, shifted.Year(), shifted.Month())
	return time.Date(shifted.Year(), shifted.Month(), d, h, min, sec, anchor.Nanosecond(), anchor.Location())
}

// alignYearly anchors on the rule's month and day (defaulting to the
// anchor's own), clamping the day to the target month. A candidate
// earlier than the anchor advances by interval years.
func alignYearly(anchor time.Time, rule *model.YearlyRule, interval int) time.Time {
	month := anchor.Month()
	day := anchor.Day()
	if rule != nil {
		if rule.Month >= time.January && rule.Month <= time.December {
			month = rule.Month
		}
		if rule.Day > 0 {
			day = rule.Day
		}
	}

	h, min, sec := anchor.Clock()

	d := clampDay(day, anchor.Year(), month)
	cand := time.Date(anchor.Year(), month, d, h, min, sec, anchor.Nanosecond(), anchor.Location())
	if !cand.Before(anchor) {
		return cand
	}

	year := anchor.Year() + interval
	d = clampDay(day, year, month)
	return time.Date(year, month, d, h, min, sec, anchor.Nanosecond(), anchor.Location())
}
