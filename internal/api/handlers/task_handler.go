package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/services"
)

const defaultTaskLimit = 100

// TaskHandler handles HTTP requests for the current account's to-do list.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// TaskList is the body of GET /todos/.
type TaskList struct {
	Todos []models.Task `json:"todos"`
}

// Create handles adding a task for the current account.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.AccountFromContext(r.Context())

	var payload TaskPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.service.Create(r.Context(), current, payload.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// List returns the current account's tasks, filtered by title, description
// and state, paged with offset and limit.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.AccountFromContext(r.Context())
	query := r.URL.Query()

	state := query.Get("state")
	if err := validation.Validate(state, validation.By(knownState)); err != nil {
		writeError(w, r, validation.Errors{"state": err})
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultTaskLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := models.TaskFilter{
		Title:       query.Get("title"),
		Description: query.Get("description"),
		State:       models.TaskState(state),
	}
	tasks, err := h.service.List(r.Context(), current, filter, models.Page{Offset: offset, Limit: limit})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, TaskList{Todos: tasks})
}

// Get handles fetching one of the current account's tasks.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.AccountFromContext(r.Context())
	task, err := h.service.Get(r.Context(), current, chi.URLParam(r, "todo_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update applies a partial update; fields absent from the body are kept.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.AccountFromContext(r.Context())

	var payload TaskPatchPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), current, chi.URLParam(r, "todo_id"), payload.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles removing one of the current account's tasks.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.AccountFromContext(r.Context())
	if err := h.service.Delete(r.Context(), current, chi.URLParam(r, "todo_id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Message{Message: "Task has been deleted successfully."})
}
