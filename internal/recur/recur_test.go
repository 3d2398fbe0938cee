package recur

import (
	"testing"
	"time"

	"github.com/nhle/deadline-reminder/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekly(days ...time.Weekday) *model.Recurrence {
	return &model.Recurrence{
		Enabled:   true,
		Frequency: model.FreqWeekly,
		Interval:  1,
		Weekly:    &model.WeeklyRule{Days: days},
	}
}

func TestAddMonths(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{name: "leap year clamp", in: date(2024, 1, 31), n: 1, want: date(2024, 2, 29)},
		{name: "non-leap clamp", in: date(2023, 1, 31), n: 1, want: date(2023, 2, 28)},
		{name: "plain shift", in: date(2024, 3, 15), n: 2, want: date(2024, 5, 15)},
		{name: "year rollover forward", in: date(2024, 12, 15), n: 1, want: date(2025, 1, 15)},
		{name: "year rollover backward", in: date(2024, 1, 15), n: -1, want: date(2023, 12, 15)},
		{name: "negative with clamp", in: date(2024, 3, 31), n: -1, want: date(2024, 2, 29)},
		{name: "thirty day month clamp", in: date(2024, 5, 31), n: 4, want: date(2024, 9, 30)},
		{name: "multi year", in: date(2024, 2, 29), n: 12, want: date(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddMonths(tt.in, tt.n); !got.Equal(tt.want) {
				t.Fatalf("AddMonths(%v, %d) = %v, want %v", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestAlignWeekly(t *testing.T) {
	t.Parallel()
	// 2024-01-15 is a Monday, 2024-01-20 a Saturday.
	tests := []struct {
		name   string
		anchor time.Time
		rec    *model.Recurrence
		want   time.Time
	}{
		{
			name:   "later same week",
			anchor: date(2024, 1, 15),
			rec:    weekly(time.Wednesday, time.Friday),
			want:   date(2024, 1, 17),
		},
		{
			name:   "anchor weekday matches",
			anchor: date(2024, 1, 15),
			rec:    weekly(time.Monday, time.Thursday),
			want:   date(2024, 1, 15),
		},
		{
			name:   "wraps to next week",
			anchor: date(2024, 1, 20),
			rec:    weekly(time.Monday, time.Wednesday),
			want:   date(2024, 1, 22),
		},
		{
			name:   "empty set falls back to anchor weekday",
			anchor: date(2024, 1, 15),
			rec:    weekly(),
			want:   date(2024, 1, 15),
		},
		{
			name:   "invalid indices dropped",
			anchor: date(2024, 1, 15),
			rec:    weekly(time.Weekday(-2), time.Weekday(9)),
			want:   date(2024, 1, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlignFirst(tt.anchor, tt.rec); !got.Equal(tt.want) {
				t.Fatalf("AlignFirst(%v) = %v, want %v", tt.anchor, got, tt.want)
			}
		})
	}
}

func TestAlignMonthly(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		anchor   time.Time
		day      int
		interval int
		want     time.Time
	}{
		{name: "later in same month", anchor: date(2024, 1, 15), day: 31, interval: 1, want: date(2024, 1, 31)},
		{name: "earlier day advances a month", anchor: date(2024, 1, 15), day: 10, interval: 1, want: date(2024, 2, 10)},
		{name: "clamps to short month", anchor: date(2024, 2, 20), day: 31, interval: 1, want: date(2024, 2, 29)},
		{name: "interval respected on advance", anchor: date(2024, 1, 15), day: 10, interval: 3, want: date(2024, 4, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &model.Recurrence{
				Enabled:   true,
				Frequency: model.FreqMonthly,
				Interval:  tt.interval,
				Monthly:   &model.MonthlyRule{Day: tt.day},
			}
			if got := AlignFirst(tt.anchor, rec); !got.Equal(tt.want) {
				t.Fatalf("AlignFirst(%v, day=%d) = %v, want %v", tt.anchor, tt.day, got, tt.want)
			}
		})
	}
}

func TestAlignYearly(t *testing.T) {
	t.Parallel()
	rec := func(m time.Month, d int) *model.Recurrence {
		return &model.Recurrence{
			Enabled:   true,
			Frequency: model.FreqYearly,
			Interval:  1,
			Yearly:    &model.YearlyRule{Month: m, Day: d},
		}
	}

	// Upcoming date in the anchor year.
	if got, want := AlignFirst(date(2024, 1, 15), rec(time.June, 15)), date(2024, 6, 15); !got.Equal(want) {
		t.Fatalf("align yearly forward = %v, want %v", got, want)
	}

	// Past date advances a year; Feb 30 clamps per target year.
	if got, want := AlignFirst(date(2024, 3, 1), rec(time.February, 30)), date(2025, 2, 28); !got.Equal(want) {
		t.Fatalf("align yearly past = %v, want %v", got, want)
	}
}

func TestAlignFirstNotBeforeAnchor(t *testing.T) {
	t.Parallel()
	anchors := []time.Time{
		date(2024, 1, 1), date(2024, 2, 29), date(2024, 12, 31), date(2023, 6, 15),
	}
	recs := []*model.Recurrence{
		{Enabled: true, Frequency: model.FreqDaily, Interval: 1},
		weekly(time.Tuesday, time.Saturday),
		{Enabled: true, Frequency: model.FreqMonthly, Interval: 1, Monthly: &model.MonthlyRule{Day: 5}},
		{Enabled: true, Frequency: model.FreqYearly, Interval: 1, Yearly: &model.YearlyRule{Month: time.March, Day: 31}},
		{Enabled: true, Frequency: model.FreqCustom, Interval: 2, Custom: &model.CustomRule{Unit: model.UnitMonths}},
		{Enabled: true, Frequency: model.FreqCustom, Interval: 3, Custom: &model.CustomRule{Unit: model.UnitWeeks}},
		{Enabled: true, Frequency: "bogus", Interval: 1},
	}

	for _, anchor := range anchors {
		for _, rec := range recs {
			if got := AlignFirst(anchor, rec); got.Before(anchor) {
				t.Fatalf("AlignFirst(%v, %s) = %v, before anchor", anchor, rec.Frequency, got)
			}
		}
	}
}

func TestAdvanceStrictlyAfter(t *testing.T) {
	t.Parallel()
	starts := []time.Time{
		date(2024, 1, 31), date(2024, 2, 29), date(2024, 12, 31), date(2023, 6, 15),
	}
	recs := []*model.Recurrence{
		{Enabled: true, Frequency: model.FreqDaily, Interval: 1},
		{Enabled: true, Frequency: model.FreqDaily, Interval: 0}, // normalized to 1
		weekly(time.Monday),
		weekly(time.Sunday, time.Saturday),
		{Enabled: true, Frequency: model.FreqMonthly, Interval: 1},
		{Enabled: true, Frequency: model.FreqYearly, Interval: 1},
		{Enabled: true, Frequency: model.FreqCustom, Interval: 2, Custom: &model.CustomRule{Unit: model.UnitDays}},
		{Enabled: true, Frequency: model.FreqCustom, Interval: 1, Custom: &model.CustomRule{Unit: model.UnitMonths}},
		{Enabled: true, Frequency: "bogus", Interval: 1},
		nil,
	}

	for _, cur := range starts {
		for _, rec := range recs {
			next := Advance(cur, rec)
			if !next.After(cur) {
				t.Fatalf("Advance(%v, %+v) = %v, not strictly after", cur, rec, next)
			}
		}
	}
}

func TestAdvanceWeekly(t *testing.T) {
	t.Parallel()
	// 2024-01-17 is a Wednesday, 2024-01-19 a Friday.
	rec := weekly(time.Wednesday, time.Friday)

	if got, want := Advance(date(2024, 1, 17), rec), date(2024, 1, 19); !got.Equal(want) {
		t.Fatalf("advance within week = %v, want %v", got, want)
	}
	if got, want := Advance(date(2024, 1, 19), rec), date(2024, 1, 24); !got.Equal(want) {
		t.Fatalf("advance across week = %v, want %v", got, want)
	}

	rec2 := weekly(time.Wednesday, time.Friday)
	rec2.Interval = 2
	if got, want := Advance(date(2024, 1, 19), rec2), date(2024, 1, 31); !got.Equal(want) {
		t.Fatalf("advance with interval 2 = %v, want %v", got, want)
	}
}

func TestAdvanceMonthlyClamp(t *testing.T) {
	t.Parallel()
	rec := &model.Recurrence{
		Enabled:   true,
		Frequency: model.FreqMonthly,
		Interval:  1,
		Monthly:   &model.MonthlyRule{Day: 31},
	}
	if got, want := Advance(date(2024, 1, 31), rec), date(2024, 2, 29); !got.Equal(want) {
		t.Fatalf("Advance(Jan 31) = %v, want %v", got, want)
	}
}

func TestAdvanceCustomUnits(t *testing.T) {
	t.Parallel()
	cur := date(2024, 1, 31)
	tests := []struct {
		unit     model.CustomUnit
		interval int
		want     time.Time
	}{
		{unit: model.UnitDays, interval: 3, want: date(2024, 2, 3)},
		{unit: model.UnitWeeks, interval: 2, want: date(2024, 2, 14)},
		{unit: model.UnitMonths, interval: 1, want: date(2024, 2, 29)},
	}

	for _, tt := range tests {
		rec := &model.Recurrence{
			Enabled:   true,
			Frequency: model.FreqCustom,
			Interval:  tt.interval,
			Custom:    &model.CustomRule{Unit: tt.unit},
		}
		if got := Advance(cur, rec); !got.Equal(tt.want) {
			t.Fatalf("Advance(%v, %s x%d) = %v, want %v", cur, tt.unit, tt.interval, got, tt.want)
		}
	}
}

func TestEffectiveDueDateNonRecurring(t *testing.T) {
	t.Parallel()
	end := date(2024, 3, 1)
	task := &model.Task{ID: "t1", EndDate: end}

	due, recurring := EffectiveDueDate(task, date(2024, 2, 1), 0)
	if recurring {
		t.Fatal("expected non-recurring")
	}
	if !due.Equal(end) {
		t.Fatalf("due = %v, want %v", due, end)
	}

	// No end date means no due date at all.
	due, _ = EffectiveDueDate(&model.Task{ID: "t2"}, date(2024, 2, 1), 0)
	if !due.IsZero() {
		t.Fatalf("expected zero due date, got %v", due)
	}
}

func TestEffectiveDueDateWeekly(t *testing.T) {
	t.Parallel()
	// Mon/Wed/Fri from Jan 1 2024 (a Monday), resolved on Wednesday
	// Jan 10: that day is itself an occurrence.
	task := &model.Task{
		ID:        "t1",
		StartDate: date(2024, 1, 1),
		Recurrence: &model.Recurrence{
			Enabled:   true,
			Frequency: model.FreqWeekly,
			Interval:  1,
			Weekly:    &model.WeeklyRule{Days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		},
	}

	due, recurring := EffectiveDueDate(task, date(2024, 1, 10), 0)
	if !recurring {
		t.Fatal("expected recurring")
	}
	if want := date(2024, 1, 10); !due.Equal(want) {
		t.Fatalf("due = %v, want %v", due, want)
	}

	// A day between occurrences resolves to the next one.
	due, _ = EffectiveDueDate(task, date(2024, 1, 9), 0)
	if want := date(2024, 1, 10); !due.Equal(want) {
		t.Fatalf("due as of Jan 9 = %v, want %v", due, want)
	}
}

func TestEffectiveDueDateEndAfter(t *testing.T) {
	t.Parallel()
	task := &model.Task{
		ID:        "t1",
		StartDate: date(2024, 1, 1),
		Recurrence: &model.Recurrence{
			Enabled:   true,
			Frequency: model.FreqDaily,
			Interval:  1,
			End:       model.EndRule{Condition: model.EndAfter, AfterOccurrences: 3},
		},
	}

	// Series is Jan 1, 2, 3 and then stops; a much later asOf still
	// lands on the final occurrence.
	due, _ := EffectiveDueDate(task, date(2024, 6, 1), 0)
	if want := date(2024, 1, 3); !due.Equal(want) {
		t.Fatalf("due = %v, want %v", due, want)
	}
}

func TestEffectiveDueDateEndOnDate(t *testing.T) {
	t.Parallel()
	task := &model.Task{
		ID:        "t1",
		StartDate: date(2024, 1, 1),
		Recurrence: &model.Recurrence{
			Enabled:   true,
			Frequency: model.FreqDaily,
			Interval:  1,
			End:       model.EndRule{Condition: model.EndOnDate, OnDate: date(2024, 1, 5)},
		},
	}

	due, _ := EffectiveDueDate(task, date(2024, 6, 1), 0)
	if want := date(2024, 1, 5); !due.Equal(want) {
		t.Fatalf("due = %v, want %v", due, want)
	}
}

func TestEffectiveDueDateIterationCap(t *testing.T) {
	t.Parallel()
	task := &model.Task{
		ID:        "t1",
		StartDate: date(2020, 1, 1),
		Recurrence: &model.Recurrence{
			Enabled:   true,
			Frequency: model.FreqDaily,
			Interval:  1,
		},
	}

	// Far-future asOf with a tiny cap: the walk stops after exactly
	// ten steps instead of catching up.
	due, _ := EffectiveDueDate(task, date(2026, 1, 1), 10)
	if want := date(2020, 1, 11); !due.Equal(want) {
		t.Fatalf("capped due = %v, want %v", due, want)
	}
}

func TestEffectiveDueDateMissingStart(t *testing.T) {
	t.Parallel()
	task := &model.Task{
		ID:         "t1",
		Recurrence: &model.Recurrence{Enabled: true, Frequency: model.FreqDaily, Interval: 1},
	}
	due, _ := EffectiveDueDate(task, date(2024, 1, 1), 0)
	if !due.IsZero() {
		t.Fatalf("expected zero due date for missing start, got %v", due)
	}
}

func TestEffectiveDueDateDisabledRule(t *testing.T) {
	t.Parallel()
	end := date(2024, 4, 1)
	task := &model.Task{
		ID:        "t1",
		StartDate: date(2024, 1, 1),
		EndDate:   end,
		Recurrence: &model.Recurrence{
			Enabled:   false,
			Frequency: model.FreqWeekly,
		},
	}
	due, recurring := EffectiveDueDate(task, date(2024, 2, 1), 0)
	if recurring {
		t.Fatal("disabled rule should resolve as non-recurring")
	}
	if !due.Equal(end) {
		t.Fatalf("due = %v, want %v", due, end)
	}
}
