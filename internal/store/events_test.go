package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/isdelr/todo-be/internal/database/databasetest"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStore_InsertAndFind(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()
	alice, bob := seedOwners(t, db)
	s := NewEventStore()

	for _, typ := range []string{models.EventAccountRegistered, models.EventTaskCreated, models.EventTaskDeleted} {
		event, err := s.InsertEvent(ctx, db, models.Event{AccountID: alice.ID, Type: typ, Message: typ})
		require.NoError(t, err)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.CreatedAt.IsZero())
	}
	_, err := s.InsertEvent(ctx, db, models.Event{AccountID: bob.ID, Type: models.EventAccountLogin, Message: "Signed in"})
	require.NoError(t, err)

	events, err := s.FindEventsByAccount(ctx, db, alice.ID, 10)
	require.NoError(t, err)
	assert.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, alice.ID, e.AccountID)
	}

	events, err = s.FindEventsByAccount(ctx, db, alice.ID, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEventStore_CascadesWithAccount(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()
	alice, _ := seedOwners(t, db)
	s := NewEventStore()

	_, err := s.InsertEvent(ctx, db, models.Event{AccountID: alice.ID, Type: models.EventTaskCreated, Message: "x"})
	require.NoError(t, err)
	require.NoError(t, NewAccountStore().DeleteAccount(ctx, db, alice.ID))

	events, err := s.FindEventsByAccount(ctx, db, alice.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventStore_InsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO events")).WillReturnError(errors.New("disk full"))

	_, err = NewEventStore().InsertEvent(context.Background(), db, models.Event{AccountID: "a", Type: "t", Message: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
	assert.NoError(t, mock.ExpectationsWereMet())
}
