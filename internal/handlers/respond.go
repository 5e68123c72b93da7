package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/VIVEK-27UX/Readers/internal/logging"
	"github.com/VIVEK-27UX/Readers/internal/social"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondCommandError maps a core error kind onto an HTTP status. Unknown
// errors are treated as internal and their detail is kept out of the body.
func respondCommandError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	respondJSON(ctx, w, status, map[string]string{"error": message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, social.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, social.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, social.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, social.ErrEmptyState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
