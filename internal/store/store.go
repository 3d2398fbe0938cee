package store

import (
	"context"
	"time"

	"github.com/nhle/deadline-reminder/internal/model"
)

// Store defines the persistence interface for tasks, users,
// notifications, and the reminder dedupe log.
type Store interface {
	// === Tasks ===

	UpsertTasks(ctx context.Context, tasks []model.Task) error
	ListActiveTasks(ctx context.Context) ([]model.Task, error)
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)

	// === Users ===

	UpsertUser(ctx context.Context, u model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (bool, error)
	DeleteNotification(ctx context.Context, id string) (bool, error)

	// === Reminder dedupe log ===

	LastNotified(ctx context.Context, taskID, userID string) (time.Time, bool, error)
	RecordNotified(ctx context.Context, taskID, userID string, at time.Time) error
}
