package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/services"
	"github.com/rs/zerolog/hlog"
)

// UserHandler handles HTTP requests for account management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// UserList is the body of GET /users/.
type UserList struct {
	Users []models.Account `json:"users"`
}

// Register handles new account registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload UserPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.service.Register(r.Context(), payload.input())
	if err != nil {
		writeError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("accountID", account.ID).Msg("Account registered")
	writeJSON(w, http.StatusCreated, account)
}

// List returns a page of public account records.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeError(w, r, err)
		return
	}

	accounts, err := h.service.List(r.Context(), models.Page{Offset: skip, Limit: limit})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, UserList{Users: accounts})
}

// Me returns the authenticated account.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, _ := auth.AccountFromContext(r.Context())
	writeJSON(w, http.StatusOK, account)
}

// Update replaces the profile of the account named in the path.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.AccountFromContext(r.Context())
	id := chi.URLParam(r, "user_id")

	var payload UserPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.service.Update(r.Context(), current, id, payload.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Delete removes the account named in the path together with its tasks.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.AccountFromContext(r.Context())
	id := chi.URLParam(r, "user_id")

	if err := h.service.Delete(r.Context(), current, id); err != nil {
		writeError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("accountID", id).Msg("Account deleted")
	w.WriteHeader(http.StatusNoContent)
}
