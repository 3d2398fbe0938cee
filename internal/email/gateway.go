// Package email delivers deadline reminder mail over SMTP.
package email

import "context"

// DeadlineReminder carries everything needed to render one reminder.
type DeadlineReminder struct {
	// ToEmail is the recipient address.
	ToEmail string

	// UserName is the recipient's display name.
	UserName string

	// TaskName and TaskDescription identify the task.
	TaskName        string
	TaskDescription string

	// ProjectName is the task's project, if any.
	ProjectName string

	// HoursUntilDue is how far away the deadline is.
	HoursUntilDue float64

	// DueDateDisplay is the pre-formatted due date for the mail body.
	DueDateDisplay string

	// PriorityLabel is the task priority's display name.
	PriorityLabel string
}

// Gateway sends deadline reminders. Implementations must be safe for
// sequential use within a single scan; a send failure affects only the
// recipient it happened for.
type Gateway interface {
	SendDeadlineReminder(ctx context.Context, r DeadlineReminder) error
}
