package handlers

import (
	"net/http"

	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/services"
)

// EventHandler handles HTTP requests for the current account's activity log.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// EventList is the body of GET /users/me/events.
type EventList struct {
	Events []models.Event `json:"events"`
}

// Recent handles the request to get recent activity.
func (h *EventHandler) Recent(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.AccountFromContext(r.Context())
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}

	events, err := h.service.Recent(r.Context(), current, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, EventList{Events: events})
}
