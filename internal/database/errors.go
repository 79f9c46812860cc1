package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

// UniqueViolation reports whether err is a unique-constraint failure and, if
// so, which column it concerns ("username", "email", ...). The column is
// empty when the driver does not expose it.
func UniqueViolation(err error) (column string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		return columnFromConstraint(pgErr.ConstraintName), true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		// Extended result codes are not always enabled, so match the primary code.
		msg := liteErr.Error()
		if liteErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT || !strings.Contains(msg, "UNIQUE constraint failed") {
			return "", false
		}
		return columnFromMessage(msg), true
	}

	return "", false
}

// accounts_username_key -> username
func columnFromConstraint(name string) string {
	name = strings.TrimSuffix(name, "_key")
	if i := strings.Index(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// "UNIQUE constraint failed: accounts.email (2067)" -> email
func columnFromMessage(msg string) string {
	const marker = "UNIQUE constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexAny(rest, " ,"); j >= 0 {
		rest = rest[:j]
	}
	if k := strings.LastIndex(rest, "."); k >= 0 {
		rest = rest[k+1:]
	}
	return rest
}
