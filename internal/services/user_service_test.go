package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/todo-be/internal/apperr"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, err := f.users.Register(ctx, AccountInput{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, alice.ID)
	assert.NotEqual(t, "secret", alice.PasswordHash, "plaintext must never be stored")

	_, err = f.users.Register(ctx, AccountInput{Username: "alice", Email: "new@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperr.ErrUsernameExists)

	_, err = f.users.Register(ctx, AccountInput{Username: "newuser", Email: "alice@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperr.ErrEmailExists)
}

func TestUserService_Register_UsernameConflictWinsAcrossAccounts(t *testing.T) {
	f := newFixture(t)
	f.register(t, "bob")
	f.register(t, "alice")

	_, err := f.users.Register(context.Background(), AccountInput{
		Username: "alice",
		Email:    "bob@example.com",
		Password: "x",
	})
	assert.ErrorIs(t, err, apperr.ErrUsernameExists)
}

func TestUserService_ConcurrentDuplicateRegistration(t *testing.T) {
	f := newFixture(t)

	const n = 2
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.users.Register(context.Background(), AccountInput{
				Username: "racer",
				Email:    []string{"a@example.com", "b@example.com"}[i],
				Password: "pw",
			})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.KindOf(err) == apperr.KindConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
}

func TestUserService_Login(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	token, err := f.users.Login(ctx, alice.Email, "alice_password")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.EqualValues(t, 30*60, token.ExpiresIn)

	subject, err := f.tokens.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, subject)

	_, err = f.users.Login(ctx, alice.Email, "wrong")
	assert.ErrorIs(t, err, apperr.ErrIncorrectLogin)

	_, err = f.users.Login(ctx, "nobody@example.com", "alice_password")
	assert.ErrorIs(t, err, apperr.ErrIncorrectLogin)
}

func TestUserService_Refresh(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	first, err := f.users.Login(context.Background(), alice.Email, "alice_password")
	require.NoError(t, err)

	f.now = f.now.Add(10 * time.Minute)
	refreshed, err := f.users.Refresh(alice)
	require.NoError(t, err)
	assert.NotEqual(t, first.AccessToken, refreshed.AccessToken)

	f.now = f.now.Add(25 * time.Minute)
	_, err = f.tokens.Validate(first.AccessToken)
	assert.Error(t, err, "original token expired")
	_, err = f.tokens.Validate(refreshed.AccessToken)
	assert.NoError(t, err, "refreshed token carries a fresh expiry")
}

func TestUserService_UpdateAndDelete_Guarded(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	in := AccountInput{Username: "mallory", Email: "mallory@example.com", Password: "pw"}
	_, err := f.users.Update(ctx, alice, bob.ID, in)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.ErrorIs(t, f.users.Delete(ctx, alice, bob.ID), apperr.ErrForbidden)

	updated, err := f.users.Update(ctx, alice, alice.ID, AccountInput{Username: "alice2", Email: "alice2@example.com", Password: "newpw"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.NotEqual(t, alice.PasswordHash, updated.PasswordHash)

	_, err = f.users.Login(ctx, "alice2@example.com", "newpw")
	require.NoError(t, err)
	_, err = f.users.Login(ctx, "alice2@example.com", "alice_password")
	assert.ErrorIs(t, err, apperr.ErrIncorrectLogin)

	_, err = f.users.Update(ctx, updated, updated.ID, AccountInput{Username: "bob", Email: "alice2@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperr.ErrUsernameExists)

	require.NoError(t, f.users.Delete(ctx, bob, bob.ID))
	accounts, err := f.users.List(ctx, models.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestUserService_DeleteCascadesTasks(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, alice, TaskInput{Title: "t", State: models.TaskStateDraft})
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, alice, alice.ID))

	_, err = f.tasks.Get(ctx, alice, task.ID)
	assert.ErrorIs(t, err, apperr.ErrTaskNotFound)
}
