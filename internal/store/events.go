package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/models"
)

// EventStore provides persistence for the per-account activity log.
type EventStore struct{}

// NewEventStore creates a new EventStore.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// InsertEvent appends an event. ID and timestamp are assigned here.
func (s *EventStore) InsertEvent(ctx context.Context, db database.DBTX, event models.Event) (models.Event, error) {
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	_, err := db.ExecContext(ctx,
		"INSERT INTO events (id, account_id, type, message, created_at) VALUES ($1, $2, $3, $4, $5)",
		event.ID, event.AccountID, event.Type, event.Message, event.CreatedAt)
	if err != nil {
		return models.Event{}, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

// FindEventsByAccount returns the newest events of an account first.
func (s *EventStore) FindEventsByAccount(ctx context.Context, db database.DBTX, accountID string, limit int) ([]models.Event, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, account_id, type, message, created_at FROM events WHERE account_id = $1 ORDER BY created_at DESC, id LIMIT $2",
		accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.AccountID, &event.Type, &event.Message, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return events, nil
}
