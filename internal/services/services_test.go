package services

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/database/databasetest"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users  *UserService
	tasks  *TaskService
	events *EventService
	tokens *auth.TokenService
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.New(t)

	f := &fixture{now: time.Now()}
	tokens, err := auth.NewTokenService(
		auth.TokenConfig{SecretKey: "test-secret", Algorithm: "HS256", Lifetime: 30 * time.Minute},
		auth.WithClock(func() time.Time { return f.now }),
	)
	require.NoError(t, err)

	f.tokens = tokens
	f.events = NewEventService(db, store.NewEventStore())
	f.users = NewUserService(db, store.NewAccountStore(), f.events, auth.NewPasswordHasher(bcrypt.MinCost), tokens)
	f.tasks = NewTaskService(db, store.NewTaskStore(), f.events)
	return f
}

func (f *fixture) register(t *testing.T, username string) models.Account {
	t.Helper()
	account, err := f.users.Register(context.Background(), AccountInput{
		Username: username,
		Email:    username + "@example.com",
		Password: username + "_password",
	})
	require.NoError(t, err)
	return account
}
