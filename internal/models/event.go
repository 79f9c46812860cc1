package models

import "time"

// Event types recorded in an account's activity log.
const (
	EventAccountRegistered = "account.registered"
	EventAccountUpdated    = "account.updated"
	EventAccountLogin      = "account.login"
	EventTaskCreated       = "task.created"
	EventTaskUpdated       = "task.updated"
	EventTaskDeleted       = "task.deleted"
)

// Event represents a recorded action taken by an account.
type Event struct {
	ID        string    `json:"id"`
	AccountID string    `json:"-"`
	Type      string    `json:"type"` // e.g., "task.created"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
