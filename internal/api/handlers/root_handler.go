package handlers

import "net/http"

// Root answers the service's liveness greeting.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Message{Message: "Hello, World!"})
}
