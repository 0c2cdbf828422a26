package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"foxx-popup-service/internal/application"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps application errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *application.ValidationError
	switch {
	case errors.As(err, &validationErr):
		payload := map[string]string{"error": validationErr.Message}
		if validationErr.Field != "" {
			payload["field"] = validationErr.Field
		}
		writeJSON(w, http.StatusBadRequest, payload)
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, application.ErrOriginNotAllowed):
		writeError(w, http.StatusForbidden, "origin not allowed")
	case errors.Is(err, application.ErrDuplicateSubscriber):
		writeError(w, http.StatusBadRequest, "already subscribed")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
