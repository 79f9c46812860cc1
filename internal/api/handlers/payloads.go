package handlers

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/services"
)

// UserPayload defines the structure for registration and profile updates.
type UserPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the payload. bcrypt ignores input past 72 bytes, so longer
// passwords are refused.
func (p UserPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(1, 72)),
	)
}

func (p UserPayload) input() services.AccountInput {
	return services.AccountInput{Username: p.Username, Email: p.Email, Password: p.Password}
}

// LoginPayload carries OAuth2 password-flow credentials; Username holds the email.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

// TaskPayload defines the structure for creating a task.
type TaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`
}

func (p TaskPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Description, validation.Length(0, 4000)),
		validation.Field(&p.State, validation.Required, validation.By(knownState)),
	)
}

func (p TaskPayload) input() services.TaskInput {
	return services.TaskInput{Title: p.Title, Description: p.Description, State: models.TaskState(p.State)}
}

// TaskPatchPayload defines the structure for partial task updates.
type TaskPatchPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	State       *string `json:"state"`
}

func (p TaskPatchPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&p.Description, validation.Length(0, 4000)),
		validation.Field(&p.State, validation.NilOrNotEmpty, validation.By(knownState)),
	)
}

func (p TaskPatchPayload) patch() models.TaskPatch {
	patch := models.TaskPatch{Title: p.Title, Description: p.Description}
	if p.State != nil {
		state := models.TaskState(*p.State)
		patch.State = &state
	}
	return patch
}

var errUnknownState = errors.New("must be one of draft, todo, doing, done, trash")

func knownState(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := models.ParseTaskState(s); err != nil {
		return errUnknownState
	}
	return nil
}
