package handlers

import (
	"mime"
	"net/http"

	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/services"
)

// AuthHandler issues and refreshes bearer tokens.
type AuthHandler struct {
	service services.UserServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// Token handles the OAuth2 password flow. Credentials are read from a
// urlencoded or multipart form body, or from JSON when the request says so.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if !decodeJSON(w, r, &payload) {
			return
		}
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			badRequest(w, "Invalid form body")
			return
		}
		payload.Username = r.PostFormValue("username")
		payload.Password = r.PostFormValue("password")
	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			badRequest(w, "Invalid form body")
			return
		}
		payload.Username = r.PostForm.Get("username")
		payload.Password = r.PostForm.Get("password")
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// Refresh issues a fresh token for the authenticated account.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.AccountFromContext(r.Context())
	token, err := h.service.Refresh(current)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}
