package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/repository"
)

// compile-time check that *DB implements repository.TaskRepository
var _ repository.TaskRepository = (*DB)(nil)

const taskColumns = `id, user_id, category_id, description, priority, is_completed, created_at, updated_at`

// CreateTask inserts a new task, filling in the generated ID and timestamps.
func (db *DB) CreateTask(ctx context.Context, task *model.Task) error {
	now := time.Now().UTC()
	task.ID = xid.New().String()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, category_id, description, priority, is_completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.UserID,
		task.CategoryID,
		task.Description,
		task.Priority,
		task.IsCompleted,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting task: %w", err)
	}

	return nil
}

// GetTask retrieves one task scoped to its owner.
func (db *DB) GetTask(ctx context.Context, userID, id string) (*model.Task, error) {
	var t model.Task

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(
		&t.ID, &t.UserID, &t.CategoryID, &t.Description,
		&t.Priority, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("sqlite: getting task %s: %w", id, err)
	}

	return &t, nil
}

// ListTasks returns one user's tasks, newest first, with optional category
// and completion-status filters. The WHERE clause is assembled from fixed
// fragments only — user input travels exclusively through placeholders.
func (db *DB) ListTasks(ctx context.Context, userID string, filter repository.TaskFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if filter.CategoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, filter.CategoryID)
	}
	switch filter.Status {
	case repository.StatusActive:
		query += ` AND is_completed = 0`
	case repository.StatusCompleted:
		query += ` AND is_completed = 1`
	}

	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, filter.Limit)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.CategoryID, &t.Description,
			&t.Priority, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask writes the mutable fields back, scoped to the owner. Zero rows
// affected means the task does not exist for this user.
func (db *DB) UpdateTask(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE tasks
		 SET category_id = ?, description = ?, priority = ?, is_completed = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		task.CategoryID,
		task.Description,
		task.Priority,
		task.IsCompleted,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", task.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("task", task.ID)
	}

	return nil
}

// DeleteTask removes one task scoped to its owner.
func (db *DB) DeleteTask(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("task", id)
	}

	return nil
}

// TaskStats aggregates one user's task counts in a single scan over the
// user's rows. The completion percentage is rounded to two decimals and 0
// when there are no tasks.
func (db *DB) TaskStats(ctx context.Context, userID string) (*model.TaskStats, error) {
	var stats model.TaskStats

	err := db.conn.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(is_completed), 0),
			COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN priority = 'medium' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN priority = 'low' THEN 1 ELSE 0 END), 0)
		 FROM tasks WHERE user_id = ?`,
		userID,
	).Scan(
		&stats.TotalTasks,
		&stats.CompletedTasks,
		&stats.ByPriority.High,
		&stats.ByPriority.Medium,
		&stats.ByPriority.Low,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating task stats: %w", err)
	}

	stats.ActiveTasks = stats.TotalTasks - stats.CompletedTasks
	if stats.TotalTasks > 0 {
		pct := float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
		stats.CompletionPercentage = math.Round(pct*100) / 100
	}

	return &stats, nil
}
