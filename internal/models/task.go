package models

import (
	"fmt"
	"time"
)

// TaskState is the lifecycle state of a to-do item.
type TaskState string

const (
	TaskStateDraft TaskState = "draft"
	TaskStateTodo  TaskState = "todo"
	TaskStateDoing TaskState = "doing"
	TaskStateDone  TaskState = "done"
	TaskStateTrash TaskState = "trash"
)

// TaskStates lists every accepted state, in lifecycle order.
var TaskStates = []TaskState{TaskStateDraft, TaskStateTodo, TaskStateDoing, TaskStateDone, TaskStateTrash}

// Valid reports whether s is one of TaskStates.
func (s TaskState) Valid() bool {
	for _, known := range TaskStates {
		if s == known {
			return true
		}
	}
	return false
}

// ParseTaskState converts a raw string into a TaskState.
func ParseTaskState(raw string) (TaskState, error) {
	s := TaskState(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown task state %q", raw)
	}
	return s, nil
}

// Task is a to-do item owned by exactly one account.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       TaskState `json:"state"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskFilter narrows an owner's task listing. Empty fields do not filter.
type TaskFilter struct {
	Title       string
	Description string
	State       TaskState
}

// Page is an offset/limit window over a result set.
type Page struct {
	Offset int
	Limit  int
}

// TaskPatch carries a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	State       *TaskState
}

// Apply copies the set fields of p onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.State != nil {
		t.State = *p.State
	}
}
