package model

import "time"

// Normalized status constants used across the task domain.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusOnHold     = "on_hold"
	StatusCompleted  = "completed"
)

// Normalized priority constants (lower number = higher priority).
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
	PriorityLowest   = 5
)

// Task is a work item with an optional recurrence configuration.
// The reminder engine only reads tasks; CRUD lives elsewhere.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id" db:"id"`

	// Title is the human-readable summary of the task.
	Title string `json:"title" db:"title"`

	// Description is the full body/description text.
	Description string `json:"description" db:"description"`

	// Status is the normalized status (use Status* constants).
	Status string `json:"status" db:"status"`

	// Priority is the normalized priority level (use Priority* constants).
	Priority int `json:"priority" db:"priority"`

	// StartDate anchors recurrence alignment. Zero means unset.
	StartDate time.Time `json:"start_date" db:"start_date"`

	// EndDate is the due date for non-recurring tasks and the base
	// due date for recurring ones. Zero means unset.
	EndDate time.Time `json:"end_date" db:"end_date"`

	// AssignedTo lists the user IDs assigned to this task.
	AssignedTo []string `json:"assigned_to"`

	// ProjectID links the task to its project, if any.
	ProjectID string `json:"project_id,omitempty" db:"project_id"`

	// IsDeleted soft-deletes the task; deleted tasks are never scanned.
	IsDeleted bool `json:"is_deleted" db:"is_deleted"`

	// Recurrence configures repeat scheduling. Nil for one-off tasks.
	Recurrence *Recurrence `json:"recurrence,omitempty"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsRecurring reports whether this task has an enabled recurrence rule.
func (t *Task) IsRecurring() bool {
	return t.Recurrence != nil && t.Recurrence.Enabled
}

// PriorityLabel returns a display name for a priority level.
func PriorityLabel(p int) string {
	switch p {
	case PriorityCritical:
		return "Critical"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	case PriorityLowest:
		return "Lowest"
	default:
		return "Medium"
	}
}
