package model

import "time"

// NotificationType identifies what kind of event a notification reports.
type NotificationType string

const (
	NotificationDeadline NotificationType = "deadline"
)

// Notification represents an alert surfaced to a user about a task.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// UserID is the recipient.
	UserID string `json:"user_id" db:"user_id"`

	// Type identifies what kind of event this reports.
	Type NotificationType `json:"type" db:"type"`

	// Title is the short headline shown in notification lists.
	Title string `json:"title" db:"title"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// TaskID links this notification to the originating task.
	TaskID string `json:"task_id" db:"task_id"`

	// ProjectID is the originating task's project, if any.
	ProjectID string `json:"project_id,omitempty" db:"project_id"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read" db:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
