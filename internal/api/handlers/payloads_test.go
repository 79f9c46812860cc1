package handlers

import (
	"strings"
	"testing"

	"github.com/isdelr/todo-be/internal/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestUserPayload_Validate(t *testing.T) {
	valid := UserPayload{Username: "alice", Email: "alice@example.com", Password: "secret"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		payload UserPayload
	}{
		{"missing username", UserPayload{Email: "alice@example.com", Password: "secret"}},
		{"bad email", UserPayload{Username: "alice", Email: "alice", Password: "secret"}},
		{"missing password", UserPayload{Username: "alice", Email: "alice@example.com"}},
		{"password too long", UserPayload{Username: "alice", Email: "alice@example.com", Password: strings.Repeat("x", 73)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.payload.Validate())
		})
	}
}

func TestTaskPayload_Validate(t *testing.T) {
	assert.NoError(t, TaskPayload{Title: "Buy milk", State: "todo"}.Validate())
	assert.Error(t, TaskPayload{State: "todo"}.Validate())
	assert.Error(t, TaskPayload{Title: "Buy milk"}.Validate())
	assert.Error(t, TaskPayload{Title: "Buy milk", State: "later"}.Validate())
}

func TestTaskPatchPayload(t *testing.T) {
	assert.NoError(t, TaskPatchPayload{}.Validate())
	assert.NoError(t, TaskPatchPayload{State: strPtr("done")}.Validate())
	assert.Error(t, TaskPatchPayload{State: strPtr("later")}.Validate())
	assert.Error(t, TaskPatchPayload{Title: strPtr("")}.Validate())

	patch := TaskPatchPayload{Description: strPtr("two litres"), State: strPtr("doing")}.patch()
	assert.Nil(t, patch.Title)
	assert.Equal(t, "two litres", *patch.Description)
	assert.Equal(t, models.TaskStateDoing, *patch.State)
}
