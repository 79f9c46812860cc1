// Package store maps accounts and tasks onto SQL. Every operation takes a
// database.DBTX so the caller decides the transaction scope.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/todo-be/internal/apperr"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/models"
)

const accountColumns = "id, username, email, password_hash, created_at"

// AccountStore provides persistence for accounts.
type AccountStore struct{}

// NewAccountStore creates a new AccountStore.
func NewAccountStore() *AccountStore {
	return &AccountStore{}
}

// FindAccountByID retrieves a single account by its ID.
func (s *AccountStore) FindAccountByID(ctx context.Context, db database.DBTX, id string) (models.Account, error) {
	row := db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1", id)
	return scanAccount(row)
}

// FindAccountByEmail retrieves a single account by its email, including the password hash.
func (s *AccountStore) FindAccountByEmail(ctx context.Context, db database.DBTX, email string) (models.Account, error) {
	row := db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE email = $1", email)
	return scanAccount(row)
}

// FindAccountByEmailOrUsername returns an account holding either the username
// or the email. An account matching the username is preferred.
func (s *AccountStore) FindAccountByEmailOrUsername(ctx context.Context, db database.DBTX, email, username string) (models.Account, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE username = $1 OR email = $2 ORDER BY (username = $1) DESC LIMIT 1",
		username, email)
	return scanAccount(row)
}

// ListAccounts returns a page of accounts ordered by creation.
func (s *AccountStore) ListAccounts(ctx context.Context, db database.DBTX, page models.Page) ([]models.Account, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts ORDER BY created_at, id LIMIT $1 OFFSET $2",
		page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return accounts, nil
}

// InsertAccount stores a new account. ID and CreatedAt are assigned here.
func (s *AccountStore) InsertAccount(ctx context.Context, db database.DBTX, account models.Account) (models.Account, error) {
	account.ID = uuid.New().String()
	account.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	_, err := db.ExecContext(ctx,
		"INSERT INTO accounts (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)",
		account.ID, account.Username, account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		return models.Account{}, translateAccountErr(err)
	}
	return account, nil
}

// UpdateAccount overwrites username, email and password hash of an existing account.
func (s *AccountStore) UpdateAccount(ctx context.Context, db database.DBTX, account models.Account) (models.Account, error) {
	res, err := db.ExecContext(ctx,
		"UPDATE accounts SET username = $1, email = $2, password_hash = $3 WHERE id = $4",
		account.Username, account.Email, account.PasswordHash, account.ID)
	if err != nil {
		return models.Account{}, translateAccountErr(err)
	}
	if err := expectOneRow(res, apperr.ErrAccountNotFound); err != nil {
		return models.Account{}, err
	}
	return s.FindAccountByID(ctx, db, account.ID)
}

// DeleteAccount removes an account; its tasks go with it via ON DELETE CASCADE.
func (s *AccountStore) DeleteAccount(ctx context.Context, db database.DBTX, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, apperr.ErrAccountNotFound)
}

func scanAccount(scanner interface{ Scan(...any) error }) (models.Account, error) {
	var account models.Account
	err := scanner.Scan(&account.ID, &account.Username, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, apperr.ErrAccountNotFound
		}
		return models.Account{}, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func translateAccountErr(err error) error {
	column, ok := database.UniqueViolation(err)
	if !ok {
		return fmt.Errorf("db error: %w", err)
	}
	switch column {
	case "email":
		return apperr.ErrEmailExists
	default:
		return apperr.ErrUsernameExists
	}
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
