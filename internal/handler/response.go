// Package handler implements the HTTP layer: request decoding, response
// encoding and the single place where domain errors become status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/todo-api/internal/apperror"
)

// ErrorResponse is the error envelope returned by every endpoint, so clients
// always parse the same shape regardless of status code.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable kind, e.g. "not_found"
	Message string `json:"message"`         // human-readable description
	Field   string `json:"field,omitempty"` // offending field for validation errors
}

// writeJSON sends a JSON response. Headers and status must be set before the
// first body write; this helper keeps the order right everywhere.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; all that is left is the log line.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into its status code and envelope.
//
// The mapping is the whole error contract in one switch:
//
//	validation     → 422   invalid input → 400   unauthenticated → 401
//	forbidden      → 403   not found     → 404   conflict        → 409
//
// Anything unclassified is an unexpected failure: logged with its full chain
// server-side, reported to the caller as a generic 500 with no internals.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		kind := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusUnprocessableEntity
			kind = "validation_error"
		case errors.Is(err, apperror.ErrInvalidInput):
			status = http.StatusBadRequest
			kind = "invalid_input"
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
			kind = "unauthenticated"
			w.Header().Set("WWW-Authenticate", "Bearer")
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			kind = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			kind = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			kind = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   kind,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	slog.Error("unexpected error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a request body into dst. A body that is not valid JSON
// for the target shape is a schema violation (422), matching the behaviour
// clients already rely on.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "request body must be valid JSON")
	}
	return nil
}
