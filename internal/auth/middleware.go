package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/isdelr/todo-be/internal/apperr"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/rs/zerolog/hlog"
)

type contextKey string

// accountKey is the context key for the authenticated account.
const accountKey = contextKey("account")

// WithAccount returns a copy of ctx carrying account.
func WithAccount(ctx context.Context, account models.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// AccountFromContext returns the account stored by JWTMiddleware.
func AccountFromContext(ctx context.Context) (models.Account, bool) {
	account, ok := ctx.Value(accountKey).(models.Account)
	return account, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// JWTMiddleware creates a middleware for protecting routes. Requests without a
// resolvable bearer token are answered with 401 and a Bearer challenge.
func JWTMiddleware(db database.DBTX, resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				challenge(w, apperr.ErrNotAuthenticated)
				return
			}

			account, err := resolver.Resolve(r.Context(), db, token)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindUnauthenticated {
					hlog.FromRequest(r).Info().Msg("Rejected bearer token")
					challenge(w, apperr.ErrUnauthenticated)
					return
				}
				hlog.FromRequest(r).Error().Err(err).Msg("Failed to resolve identity")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"detail": apperr.Message(err)})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

func challenge(w http.ResponseWriter, err *apperr.Error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"detail": err.Message})
}
