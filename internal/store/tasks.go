package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/todo-be/internal/apperr"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/models"
)

const taskColumns = "id, owner_id, title, description, state, created_at, updated_at"

// TaskStore provides persistence for tasks. Every read and write is scoped
// to an owner, so a task of another account behaves as if it did not exist.
type TaskStore struct{}

// NewTaskStore creates a new TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

// FindTasksByOwner lists an owner's tasks matching filter within page.
// Title and description match as substrings, state matches exactly.
func (s *TaskStore) FindTasksByOwner(ctx context.Context, db database.DBTX, ownerID string, filter models.TaskFilter, page models.Page) ([]models.Task, error) {
	var (
		where = []string{"owner_id = $1"}
		args  = []any{ownerID}
	)
	if filter.Title != "" {
		args = append(args, "%"+escapeLike(filter.Title)+"%")
		where = append(where, fmt.Sprintf("title LIKE $%d ESCAPE '\\'", len(args)))
	}
	if filter.Description != "" {
		args = append(args, "%"+escapeLike(filter.Description)+"%")
		where = append(where, fmt.Sprintf("description LIKE $%d ESCAPE '\\'", len(args)))
	}
	if filter.State != "" {
		args = append(args, string(filter.State))
		where = append(where, fmt.Sprintf("state = $%d", len(args)))
	}
	args = append(args, page.Limit, page.Offset)

	query := fmt.Sprintf("SELECT %s FROM tasks WHERE %s ORDER BY created_at, id LIMIT $%d OFFSET $%d",
		taskColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tasks, nil
}

// FindTaskByOwner retrieves one task if, and only if, it belongs to ownerID.
func (s *TaskStore) FindTaskByOwner(ctx context.Context, db database.DBTX, ownerID, id string) (models.Task, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE owner_id = $1 AND id = $2", ownerID, id)
	return scanTask(row)
}

// InsertTask stores a new task. ID and timestamps are assigned here.
func (s *TaskStore) InsertTask(ctx context.Context, db database.DBTX, task models.Task) (models.Task, error) {
	task.ID = uuid.New().String()
	task.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	task.UpdatedAt = task.CreatedAt

	_, err := db.ExecContext(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		task.ID, task.OwnerID, task.Title, task.Description, string(task.State), task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// UpdateTask writes title, description and state of an owned task.
func (s *TaskStore) UpdateTask(ctx context.Context, db database.DBTX, task models.Task) (models.Task, error) {
	task.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	res, err := db.ExecContext(ctx,
		"UPDATE tasks SET title = $1, description = $2, state = $3, updated_at = $4 WHERE owner_id = $5 AND id = $6",
		task.Title, task.Description, string(task.State), task.UpdatedAt, task.OwnerID, task.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("db error: %w", err)
	}
	if err := expectOneRow(res, apperr.ErrTaskNotFound); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes an owned task.
func (s *TaskStore) DeleteTask(ctx context.Context, db database.DBTX, ownerID, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM tasks WHERE owner_id = $1 AND id = $2", ownerID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, apperr.ErrTaskNotFound)
}

// PurgeTrash deletes every task of any owner that has been in the trash
// state since before cutoff, and reports how many were removed.
func (s *TaskStore) PurgeTrash(ctx context.Context, db database.DBTX, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx,
		"DELETE FROM tasks WHERE state = $1 AND updated_at < $2",
		string(models.TaskStateTrash), cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func scanTask(scanner interface{ Scan(...any) error }) (models.Task, error) {
	var (
		task  models.Task
		state string
	)
	err := scanner.Scan(&task.ID, &task.OwnerID, &task.Title, &task.Description, &state, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, apperr.ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("db error: %w", err)
	}
	task.State = models.TaskState(state)
	return task, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
