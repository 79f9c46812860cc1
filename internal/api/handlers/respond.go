package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/isdelr/todo-be/internal/apperr"
	"github.com/rs/zerolog/hlog"
)

const maxBodyBytes = 1 << 20

// Message is the body of responses that only carry a human readable text.
type Message struct {
	Message string `json:"message"`
}

// errorBody mirrors the {"detail": ...} shape clients expect for failures.
type errorBody struct {
	Detail any `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidCredentials, apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err using the taxonomy in apperr. Unclassified errors
// are logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: verrs})
		return
	}

	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		hlog.FromRequest(r).Error().Err(err).Msg("Request failed")
	}
	if kind == apperr.KindUnauthenticated {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, statusFor(kind), errorBody{Detail: apperr.Message(err)})
}

func badRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Detail: detail})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "Invalid request body")
		return false
	}
	return true
}

// queryInt parses a non-negative integer query parameter.
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.Errors{key: errors.New("must be an integer")}
	}
	if n < 0 {
		return 0, validation.Errors{key: errors.New("must be no less than 0")}
	}
	return n, nil
}
