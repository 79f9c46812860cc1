package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/isdelr/todo-be/internal/apperr"
	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/store"
	"github.com/rs/zerolog/log"
)

// TokenTypeBearer is the token_type reported with every issued token.
const TokenTypeBearer = "Bearer"

// Token is the credential handed to a client after login or refresh.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AccountInput carries validated registration or profile data.
type AccountInput struct {
	Username string
	Email    string
	Password string
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, in AccountInput) (models.Account, error)
	List(ctx context.Context, page models.Page) ([]models.Account, error)
	Update(ctx context.Context, current models.Account, id string, in AccountInput) (models.Account, error)
	Delete(ctx context.Context, current models.Account, id string) error
	Login(ctx context.Context, email, password string) (Token, error)
	Refresh(current models.Account) (Token, error)
}

// UserService provides business logic for accounts and sessions.
type UserService struct {
	db       *database.DB
	accounts *store.AccountStore
	events   *EventService
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
}

// NewUserService creates a new UserService.
func NewUserService(db *database.DB, accounts *store.AccountStore, events *EventService, hasher *auth.PasswordHasher, tokens *auth.TokenService) *UserService {
	return &UserService{db: db, accounts: accounts, events: events, hasher: hasher, tokens: tokens}
}

// Register creates a new account. A taken username is reported before a
// taken email, matching the order clients see when both collide.
func (s *UserService) Register(ctx context.Context, in AccountInput) (models.Account, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created models.Account
	err = database.WithTx(ctx, s.db.DB, nil, func(ctx context.Context, tx database.DBTX) error {
		existing, err := s.accounts.FindAccountByEmailOrUsername(ctx, tx, in.Email, in.Username)
		switch {
		case err == nil:
			if existing.Username == in.Username {
				return apperr.ErrUsernameExists
			}
			return apperr.ErrEmailExists
		case !errors.Is(err, apperr.ErrAccountNotFound):
			return err
		}

		created, err = s.accounts.InsertAccount(ctx, tx, models.Account{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		return s.events.Record(ctx, tx, created.ID, models.EventAccountRegistered, "Registered as "+created.Username)
	})
	if err != nil {
		return models.Account{}, err
	}

	log.Info().Str("user_id", created.ID).Msg("User registered")
	return created, nil
}

// List returns a page of accounts.
func (s *UserService) List(ctx context.Context, page models.Page) ([]models.Account, error) {
	return s.accounts.ListAccounts(ctx, s.db, page)
}

// Update replaces the profile of the current account and rotates its
// password hash. Acting on another account fails with apperr.ErrForbidden.
func (s *UserService) Update(ctx context.Context, current models.Account, id string, in AccountInput) (models.Account, error) {
	if err := auth.Authorize(id, current); err != nil {
		return models.Account{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to hash new password: %w", err)
	}

	var updated models.Account
	err = database.WithTx(ctx, s.db.DB, nil, func(ctx context.Context, tx database.DBTX) error {
		current.Username = in.Username
		current.Email = in.Email
		current.PasswordHash = hash

		var err error
		updated, err = s.accounts.UpdateAccount(ctx, tx, current)
		if err != nil {
			return err
		}
		return s.events.Record(ctx, tx, updated.ID, models.EventAccountUpdated, "Profile updated")
	})
	if err != nil {
		return models.Account{}, err
	}
	return updated, nil
}

// Delete removes the current account together with its tasks.
func (s *UserService) Delete(ctx context.Context, current models.Account, id string) error {
	if err := auth.Authorize(id, current); err != nil {
		return err
	}
	err := database.WithTx(ctx, s.db.DB, nil, func(ctx context.Context, tx database.DBTX) error {
		return s.accounts.DeleteAccount(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	log.Info().Str("user_id", id).Msg("User deleted")
	return nil
}

// Login verifies an email/password pair and issues a token for it. An
// unknown email and a wrong password fail identically.
func (s *UserService) Login(ctx context.Context, email, password string) (Token, error) {
	account, err := s.accounts.FindAccountByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, apperr.ErrAccountNotFound) {
			return Token{}, apperr.ErrIncorrectLogin
		}
		return Token{}, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return Token{}, apperr.ErrIncorrectLogin
	}
	if err := s.events.Record(ctx, s.db, account.ID, models.EventAccountLogin, "Signed in"); err != nil {
		log.Warn().Err(err).Str("user_id", account.ID).Msg("Failed to record login")
	}

	return s.issue(account)
}

// Refresh issues a new token with a fresh expiry for an already
// authenticated account.
func (s *UserService) Refresh(current models.Account) (Token, error) {
	return s.issue(current)
}

func (s *UserService) issue(account models.Account) (Token, error) {
	accessToken, err := s.tokens.Issue(account.Email)
	if err != nil {
		return Token{}, err
	}
	return Token{
		AccessToken: accessToken,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(s.tokens.Lifetime().Seconds()),
	}, nil
}
