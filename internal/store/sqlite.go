package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/deadline-reminder/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertTasks inserts or replaces a batch of tasks.
func (s *SQLiteStore) UpsertTasks(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO tasks (
			id, title, description, status, priority,
			start_date, end_date, assigned_to, project_id,
			is_deleted, recurrence, created_at, updated_at
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		assignedTo, err := json.Marshal(t.AssignedTo)
		if err != nil {
			return fmt.Errorf("marshaling assigned_to for task %s: %w", t.ID, err)
		}

		recurrence := ""
		if t.Recurrence != nil {
			raw, err := json.Marshal(t.Recurrence)
			if err != nil {
				return fmt.Errorf("marshaling recurrence for task %s: %w", t.ID, err)
			}
			recurrence = string(raw)
		}

		_, err = stmt.ExecContext(ctx,
			t.ID, t.Title, t.Description, t.Status, t.Priority,
			nullableTime(t.StartDate), nullableTime(t.EndDate),
			string(assignedTo), t.ProjectID,
			boolToInt(t.IsDeleted), recurrence,
			t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// ListActiveTasks retrieves every task eligible for deadline scanning:
// not soft-deleted and not completed.
func (s *SQLiteStore) ListActiveTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM tasks WHERE is_deleted = 0 AND status != ? ORDER BY created_at",
		model.StatusCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("querying active tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// GetTaskByID retrieves a single task by its ID. Returns (nil, nil)
// when no such task exists.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying task %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	task, err := scanTask(rows)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	return &task, nil
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		task       model.Task
		startDate  sql.NullTime
		endDate    sql.NullTime
		assignedTo string
		isDeleted  int
		recurrence string
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := rows.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&startDate, &endDate, &assignedTo, &task.ProjectID,
		&isDeleted, &recurrence, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	if startDate.Valid {
		task.StartDate = startDate.Time
	}
	if endDate.Valid {
		task.EndDate = endDate.Time
	}
	task.IsDeleted = isDeleted != 0
	task.CreatedAt = createdAt
	task.UpdatedAt = updatedAt

	if assignedTo != "" {
		if err := json.Unmarshal([]byte(assignedTo), &task.AssignedTo); err != nil {
			return model.Task{}, fmt.Errorf("unmarshaling assigned_to: %w", err)
		}
	}
	if recurrence != "" {
		var rec model.Recurrence
		if err := json.Unmarshal([]byte(recurrence), &rec); err != nil {
			return model.Task{}, fmt.Errorf("unmarshaling recurrence: %w", err)
		}
		task.Recurrence = &rec
	}

	return task, nil
}

// nullableTime maps the zero time to NULL for storage.
func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
