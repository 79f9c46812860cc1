package services

import (
	"context"
	"fmt"

	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/store"
)

// TaskInput carries a validated new task.
type TaskInput struct {
	Title       string
	Description string
	State       models.TaskState
}

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	Create(ctx context.Context, current models.Account, in TaskInput) (models.Task, error)
	List(ctx context.Context, current models.Account, filter models.TaskFilter, page models.Page) ([]models.Task, error)
	Get(ctx context.Context, current models.Account, id string) (models.Task, error)
	Update(ctx context.Context, current models.Account, id string, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, current models.Account, id string) error
}

// TaskService provides business logic for an account's to-do list. Every
// operation is scoped to the current account; tasks of other accounts are
// reported as apperr.ErrTaskNotFound.
type TaskService struct {
	db     *database.DB
	tasks  *store.TaskStore
	events *EventService
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *database.DB, tasks *store.TaskStore, events *EventService) *TaskService {
	return &TaskService{db: db, tasks: tasks, events: events}
}

// Create adds a task owned by the current account.
func (s *TaskService) Create(ctx context.Context, current models.Account, in TaskInput) (models.Task, error) {
	var created models.Task
	err := database.WithTx(ctx, s.db.DB, nil, func(ctx context.Context, tx database.DBTX) error {
		var err error
		created, err = s.tasks.InsertTask(ctx, tx, models.Task{
			OwnerID:     current.ID,
			Title:       in.Title,
			Description: in.Description,
			State:       in.State,
		})
		if err != nil {
			return err
		}
		return s.events.Record(ctx, tx, current.ID, models.EventTaskCreated, fmt.Sprintf("Created task %q", created.Title))
	})
	if err != nil {
		return models.Task{}, err
	}
	return created, nil
}

// List returns the current account's tasks matching filter.
func (s *TaskService) List(ctx context.Context, current models.Account, filter models.TaskFilter, page models.Page) ([]models.Task, error) {
	return s.tasks.FindTasksByOwner(ctx, s.db, current.ID, filter, page)
}

// Get returns one of the current account's tasks.
func (s *TaskService) Get(ctx context.Context, current models.Account, id string) (models.Task, error) {
	return s.tasks.FindTaskByOwner(ctx, s.db, current.ID, id)
}

// Update applies patch to one of the current account's tasks.
func (s *TaskService) Update(ctx context.Context, current models.Account, id string, patch models.TaskPatch) (models.Task, error) {
	var updated models.Task
	err := database.WithTx(ctx, s.db.DB, nil, func(ctx context.Context, tx database.DBTX) error {
		task, err := s.tasks.FindTaskByOwner(ctx, tx, current.ID, id)
		if err != nil {
			return err
		}
		patch.Apply(&task)

		updated, err = s.tasks.UpdateTask(ctx, tx, task)
		if err != nil {
			return err
		}
		return s.events.Record(ctx, tx, current.ID, models.EventTaskUpdated,
			fmt.Sprintf("Updated task %q (%s)", updated.Title, updated.State))
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// Delete removes one of the current account's tasks.
func (s *TaskService) Delete(ctx context.Context, current models.Account, id string) error {
	return database.WithTx(ctx, s.db.DB, nil, func(ctx context.Context, tx database.DBTX) error {
		task, err := s.tasks.FindTaskByOwner(ctx, tx, current.ID, id)
		if err != nil {
			return err
		}
		if err := s.tasks.DeleteTask(ctx, tx, current.ID, id); err != nil {
			return err
		}
		return s.events.Record(ctx, tx, current.ID, models.EventTaskDeleted, fmt.Sprintf("Deleted task %q", task.Title))
	})
}
