// Package databasetest opens migrated in-memory SQLite databases for tests.
package databasetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/stretchr/testify/require"
)

// New returns a freshly migrated, isolated in-memory database that is closed
// when the test finishes.
func New(t testing.TB) *database.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}
