package services

import (
	"context"
	"testing"

	"github.com/isdelr/todo-be/internal/apperr"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_CRUD(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, alice, TaskInput{Title: "Test todo", Description: "desc", State: models.TaskStateDraft})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, task.OwnerID)

	title := "Updated title"
	updated, err := f.tasks.Update(ctx, alice, task.ID, models.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Updated title", updated.Title)
	assert.Equal(t, "desc", updated.Description, "unset fields are kept")
	assert.Equal(t, models.TaskStateDraft, updated.State)

	list, err := f.tasks.List(ctx, alice, models.TaskFilter{}, models.Page{Limit: 100})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Updated title", list[0].Title)

	require.NoError(t, f.tasks.Delete(ctx, alice, task.ID))
	assert.ErrorIs(t, f.tasks.Delete(ctx, alice, task.ID), apperr.ErrTaskNotFound)
}

func TestTaskService_ForeignTaskIsNotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	bobs, err := f.tasks.Create(ctx, bob, TaskInput{Title: "private", State: models.TaskStateTodo})
	require.NoError(t, err)

	_, err = f.tasks.Get(ctx, alice, bobs.ID)
	assert.ErrorIs(t, err, apperr.ErrTaskNotFound)

	done := models.TaskStateDone
	_, err = f.tasks.Update(ctx, alice, bobs.ID, models.TaskPatch{State: &done})
	assert.ErrorIs(t, err, apperr.ErrTaskNotFound)

	assert.ErrorIs(t, f.tasks.Delete(ctx, alice, bobs.ID), apperr.ErrTaskNotFound)

	list, err := f.tasks.List(ctx, alice, models.TaskFilter{}, models.Page{Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, list)

	still, err := f.tasks.Get(ctx, bob, bobs.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStateTodo, still.State)
}
