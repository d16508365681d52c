package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/repository"
)

// Task listing and validation constants.
const (
	MaxDescriptionLength = 1000
	DefaultTaskPageSize  = 50
	MaxTaskPageSize      = 100
)

// TaskService holds the business rules for tasks. Every method takes the
// authenticated owner's userID explicitly — ownership scoping is a visible
// parameter, not ambient state, and no method can be called without one.
type TaskService struct {
	tasks      repository.TaskRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewTaskService(
	tasks repository.TaskRepository,
	categories repository.CategoryRepository,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		tasks:      tasks,
		categories: categories,
		logger:     logger,
	}
}

// ListTasksInput narrows and pages a task listing.
type ListTasksInput struct {
	CategoryID string
	Status     string
	Limit      int
	Offset     int
}

// CreateTaskInput carries the fields for a new task. Priority defaults to
// medium when empty; CategoryID nil means no category.
type CreateTaskInput struct {
	Description string
	Priority    model.TaskPriority
	CategoryID  *string
}

// UpdateTaskInput carries a partial update. Nil pointers mean "leave
// unchanged". A non-nil CategoryID pointing at an empty string detaches the
// task from its category.
type UpdateTaskInput struct {
	Description *string
	Priority    *model.TaskPriority
	CategoryID  *string
	IsCompleted *bool
}

// List returns the user's tasks, newest first. Status must be "active",
// "completed" or empty (all). The page size defaults to 50 and is capped at
// 100 — one consistent policy for every task listing path.
func (s *TaskService) List(ctx context.Context, userID string, in ListTasksInput) ([]model.Task, error) {
	switch in.Status {
	case "", repository.StatusActive, repository.StatusCompleted:
	default:
		return nil, apperror.ValidationFailed("status", "status must be 'active' or 'completed'")
	}

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultTaskPageSize
	}
	if limit > MaxTaskPageSize {
		limit = MaxTaskPageSize
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	tasks, err := s.tasks.ListTasks(ctx, userID, repository.TaskFilter{
		CategoryID: in.CategoryID,
		Status:     in.Status,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		s.logger.Error("failed to list tasks", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	return tasks, nil
}

// Get returns one task. A task owned by another user is NotFound.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	return s.tasks.GetTask(ctx, userID, id)
}

// Create validates and stores a new task.
//
// The category reference, when present, must resolve to a category owned by
// the same user; a missing or foreign category is an invalid-input error,
// deliberately distinct from the 404 a direct category lookup would give.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*model.Task, error) {
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperror.ValidationFailed("priority", "priority must be one of: high, medium, low")
	}

	categoryID, err := s.resolveCategoryRef(ctx, userID, in.CategoryID)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:      userID,
		CategoryID:  categoryID,
		Description: in.Description,
		Priority:    priority,
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		s.logger.Error("failed to create task", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created", slog.String("id", task.ID), slog.String("userID", userID))
	return task, nil
}

// Update applies a partial update to one of the user's tasks. Only provided
// fields change; a changed category reference is re-validated against the
// caller's categories.
func (s *TaskService) Update(ctx context.Context, userID, id string, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.tasks.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Description != nil {
		if err := validateDescription(*in.Description); err != nil {
			return nil, err
		}
		task.Description = *in.Description
	}

	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, apperror.ValidationFailed("priority", "priority must be one of: high, medium, low")
		}
		task.Priority = *in.Priority
	}

	if in.CategoryID != nil {
		categoryID, err := s.resolveCategoryRef(ctx, userID, in.CategoryID)
		if err != nil {
			return nil, err
		}
		task.CategoryID = categoryID
	}

	if in.IsCompleted != nil {
		task.IsCompleted = *in.IsCompleted
	}

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task updated", slog.String("id", task.ID), slog.String("userID", userID))
	return task, nil
}

// Toggle sets the completion flag to exactly the given value. Toggling a
// completed task to completed is a no-op, not an error.
func (s *TaskService) Toggle(ctx context.Context, userID, id string, completed bool) (*model.Task, error) {
	task, err := s.tasks.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = completed
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Delete removes one of the user's tasks.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if err := s.tasks.DeleteTask(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("task deleted", slog.String("id", id), slog.String("userID", userID))
	return nil
}

// Stats returns the user's task statistics.
func (s *TaskService) Stats(ctx context.Context, userID string) (*model.TaskStats, error) {
	stats, err := s.tasks.TaskStats(ctx, userID)
	if err != nil {
		s.logger.Error("failed to aggregate stats", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("aggregating stats: %w", err)
	}
	return stats, nil
}

// resolveCategoryRef turns a request-level category reference into the
// stored value: nil or empty clears the reference; anything else must be a
// category owned by userID.
func (s *TaskService) resolveCategoryRef(ctx context.Context, userID string, ref *string) (*string, error) {
	if ref == nil || *ref == "" {
		return nil, nil
	}
	if _, err := s.categories.GetCategory(ctx, userID, *ref); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidInput("invalid category")
		}
		return nil, err
	}
	id := *ref
	return &id, nil
}

func validateDescription(description string) error {
	if description == "" {
		return apperror.ValidationFailed("description", "description is required")
	}
	if len(description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	return nil
}
