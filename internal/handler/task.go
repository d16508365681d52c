package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/todo-api/internal/auth"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/service"
)

// TaskHandler maps the task endpoints onto TaskService. Every handler runs
// behind RequireAuth, so the owner is always present in the context.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

type createTaskRequest struct {
	Description string             `json:"description"`
	Priority    model.TaskPriority `json:"priority"`
	CategoryID  *string            `json:"category_id"`
}

// updateTaskRequest uses pointers throughout: an absent field and a field
// set to its zero value are different requests, and partial-update semantics
// need to tell them apart.
type updateTaskRequest struct {
	Description *string             `json:"description"`
	Priority    *model.TaskPriority `json:"priority"`
	CategoryID  *string             `json:"category_id"`
	IsCompleted *bool               `json:"is_completed"`
}

type toggleTaskRequest struct {
	IsCompleted bool `json:"is_completed"`
}

// HandleList lists the caller's tasks.
//
// HTTP: GET /api/v1/tasks?category_id=&status=&limit=&offset=
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	q := r.URL.Query()

	tasks, err := h.tasks.List(r.Context(), user.ID, service.ListTasksInput{
		CategoryID: q.Get("category_id"),
		Status:     q.Get("status"),
		Limit:      queryInt(q.Get("limit")),
		Offset:     queryInt(q.Get("offset")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleCreate creates a task.
//
// HTTP: POST /api/v1/tasks
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), user.ID, service.CreateTaskInput{
		Description: req.Description,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// HandleGet returns a single task.
//
// HTTP: GET /api/v1/tasks/{id}
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	task, err := h.tasks.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleUpdate applies a partial update to a task.
//
// HTTP: PUT /api/v1/tasks/{id}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), user.ID, chi.URLParam(r, "id"), service.UpdateTaskInput{
		Description: req.Description,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleToggle sets a task's completion flag.
//
// HTTP: PATCH /api/v1/tasks/{id}/toggle
func (h *TaskHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req toggleTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.tasks.Toggle(r.Context(), user.ID, chi.URLParam(r, "id"), req.IsCompleted)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleDelete deletes a task.
//
// HTTP: DELETE /api/v1/tasks/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := h.tasks.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleStats returns the caller's task statistics.
//
// HTTP: GET /api/v1/tasks/stats
func (h *TaskHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	stats, err := h.tasks.Stats(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// queryInt parses an optional integer query parameter; anything unparsable
// collapses to 0 and picks up the service-layer default.
func queryInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
