// Package repository defines the storage interfaces consumed by the service
// layer. Services depend on these interfaces, never on the sqlite package,
// so tests swap in fakes and the backend could change without touching
// business logic.
//
// Ownership scoping lives in the method signatures: every task and category
// read or mutation takes the owning user's id and the implementation must
// filter by it. A row belonging to another user is indistinguishable from an
// absent row — both are ErrNotFound.
package repository

import (
	"context"

	"github.com/sakif/todo-api/internal/model"
)

// Task status filter values. An empty status means "all".
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// TaskFilter narrows a task listing. Zero values mean "no filter"; Limit and
// Offset are applied after the service clamps them.
type TaskFilter struct {
	CategoryID string
	Status     string
	Limit      int
	Offset     int
}

type UserRepository interface {
	// CreateUser inserts a new user, generating ID and timestamps. Returns
	// apperror.ErrConflict if the email is already registered.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByEmail returns apperror.ErrNotFound when no account uses the email.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, userID, id string) (*model.Category, error)
	// GetCategoryByName looks up a category by its per-user unique name.
	GetCategoryByName(ctx context.Context, userID, name string) (*model.Category, error)
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	// DeleteCategory removes the category and clears category_id on all of
	// the user's tasks that referenced it, atomically.
	DeleteCategory(ctx context.Context, userID, id string) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, userID, id string) (*model.Task, error)
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, userID, id string) error
	// TaskStats aggregates counts for one user's tasks.
	TaskStats(ctx context.Context, userID string) (*model.TaskStats, error)
}
