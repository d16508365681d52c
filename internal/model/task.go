package model

import "time"

// TaskPriority is the priority level of a task, stored and serialized as a
// lowercase string.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Valid reports whether p is one of the three known priority levels.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Task represents a single todo item.
//
// UserID is the owner; every repository query on tasks filters by it.
// CategoryID is optional — a nil pointer means "no category". When set, it
// must reference a category owned by the same user; the service layer checks
// this on create and on update, and the schema's ON DELETE SET NULL clears it
// when the category goes away.
type Task struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	CategoryID  *string      `json:"category_id"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	IsCompleted bool         `json:"is_completed"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskStats summarises one user's tasks. CompletionPercentage is rounded to
// two decimal places and is 0 when the user has no tasks.
type TaskStats struct {
	TotalTasks           int           `json:"total_tasks"`
	CompletedTasks       int           `json:"completed_tasks"`
	ActiveTasks          int           `json:"active_tasks"`
	CompletionPercentage float64       `json:"completion_percentage"`
	ByPriority           PriorityStats `json:"by_priority"`
}

// PriorityStats is the per-priority task count breakdown.
type PriorityStats struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}
