package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/isdelr/todo-be/internal/database/migrations"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Driver names registered by the imported database/sql drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DB wraps a connection pool together with the driver it was opened with.
type DB struct {
	*sql.DB
	Driver string
}

// New creates a new database connection pool. DSNs starting with
// postgres:// or postgresql:// use pgx; anything else is treated as SQLite.
func New(dsn string) (*DB, error) {
	driver, source := resolve(dsn)

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// SQLite allows a single writer; one connection keeps transactions serialized.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{DB: db, Driver: driver}, nil
}

func resolve(dsn string) (driver, source string) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres, dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return DriverSQLite, dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *DB) error {
	dialect := goose.DialectSQLite3
	if db.Driver == DriverPostgres {
		dialect = goose.DialectPostgres
	}

	provider, err := goose.NewProvider(dialect, db.DB, migrations.FS)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
