package services

import (
	"context"
	"fmt"

	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/store"
)

const defaultEventLimit = 20

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Recent(ctx context.Context, current models.Account, limit int) ([]models.Event, error)
}

// EventService records and lists account activity.
type EventService struct {
	db     *database.DB
	events *store.EventStore
}

// NewEventService creates a new EventService.
func NewEventService(db *database.DB, events *store.EventStore) *EventService {
	return &EventService{db: db, events: events}
}

// Record appends an event for accountID using db, which is usually the
// transaction of the operation being recorded.
func (s *EventService) Record(ctx context.Context, db database.DBTX, accountID, eventType, message string) error {
	_, err := s.events.InsertEvent(ctx, db, models.Event{
		AccountID: accountID,
		Type:      eventType,
		Message:   message,
	})
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", eventType, err)
	}
	return nil
}

// Recent returns the current account's newest events. A non-positive limit
// falls back to the default.
func (s *EventService) Recent(ctx context.Context, current models.Account, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	return s.events.FindEventsByAccount(ctx, s.db, current.ID, limit)
}
