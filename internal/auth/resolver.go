package auth

import (
	"context"
	"errors"

	"github.com/isdelr/todo-be/internal/apperr"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/rs/zerolog/log"
)

// TokenValidator extracts the subject of a bearer token.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// AccountFinder looks up the account a token subject refers to.
type AccountFinder interface {
	FindAccountByEmail(ctx context.Context, db database.DBTX, email string) (models.Account, error)
}

// Resolver turns a bearer token into the authenticated account.
type Resolver struct {
	tokens   TokenValidator
	accounts AccountFinder
}

// NewResolver creates a new Resolver.
func NewResolver(tokens TokenValidator, accounts AccountFinder) *Resolver {
	return &Resolver{tokens: tokens, accounts: accounts}
}

// Resolve returns the account identified by token. Invalid, expired and
// orphaned tokens all fail with apperr.ErrUnauthenticated so callers cannot
// tell whether an account exists. Storage failures are returned as is.
func (r *Resolver) Resolve(ctx context.Context, db database.DBTX, token string) (models.Account, error) {
	subject, err := r.tokens.Validate(token)
	if err != nil {
		return models.Account{}, apperr.ErrUnauthenticated
	}

	account, err := r.accounts.FindAccountByEmail(ctx, db, subject)
	if err != nil {
		if errors.Is(err, apperr.ErrAccountNotFound) {
			log.Debug().Msg("Token subject has no matching account")
			return models.Account{}, apperr.ErrUnauthenticated
		}
		return models.Account{}, err
	}
	return account, nil
}
