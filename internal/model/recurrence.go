package model

import "time"

// Frequency identifies a recurrence cadence.
type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
	FreqYearly  Frequency = "yearly"
	FreqCustom  Frequency = "custom"
)

// CustomUnit is the step unit for custom-cadence recurrences.
type CustomUnit string

const (
	UnitDays   CustomUnit = "days"
	UnitWeeks  CustomUnit = "weeks"
	UnitMonths CustomUnit = "months"
)

// EndCondition controls when a recurrence stops producing occurrences.
type EndCondition string

const (
	EndNever  EndCondition = "never"
	EndAfter  EndCondition = "after"
	EndOnDate EndCondition = "on_date"
)

// Recurrence configures repeat scheduling for a task. Only the rule
// matching Frequency is consulted; the others stay nil.
type Recurrence struct {
	// Enabled gates the whole rule; a disabled rule behaves like no rule.
	Enabled bool `json:"enabled"`

	// Frequency selects which rule applies (use Freq* constants).
	Frequency Frequency `json:"frequency"`

	// Interval is the step multiplier. Values below 1 are treated as 1.
	Interval int `json:"interval"`

	// Weekly applies when Frequency is FreqWeekly.
	Weekly *WeeklyRule `json:"weekly,omitempty"`

	// Monthly applies when Frequency is FreqMonthly.
	Monthly *MonthlyRule `json:"monthly,omitempty"`

	// Yearly applies when Frequency is FreqYearly.
	Yearly *YearlyRule `json:"yearly,omitempty"`

	// Custom applies when Frequency is FreqCustom.
	Custom *CustomRule `json:"custom,omitempty"`

	// End controls termination. The zero value means "never".
	End EndRule `json:"end"`
}

// WeeklyRule selects the weekdays an occurrence may fall on.
// Indices follow time.Weekday (0 = Sunday).
type WeeklyRule struct {
	Days []time.Weekday `json:"days"`
}

// MonthlyRule pins occurrences to a day of the month (1-31). Days past
// the end of a month clamp to that month's last day, never wrapping.
type MonthlyRule struct {
	Day int `json:"day"`
}

// YearlyRule pins occurrences to a month and day. The day clamps the
// same way MonthlyRule does (Feb 30 becomes Feb 28/29).
type YearlyRule struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// CustomRule steps occurrences by Interval of the given unit.
type CustomRule struct {
	Unit CustomUnit `json:"unit"`
}

// EndRule bounds a recurrence series.
type EndRule struct {
	// Condition selects the termination mode (use End* constants).
	Condition EndCondition `json:"condition"`

	// AfterOccurrences stops the series after N occurrences
	// when Condition is EndAfter.
	AfterOccurrences int `json:"after_occurrences,omitempty"`

	// OnDate stops the series past this date when Condition is EndOnDate.
	OnDate time.Time `json:"on_date,omitempty"`
}

// StepInterval returns the normalized interval, never below 1.
func (r *Recurrence) StepInterval() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}
