// Package apperror defines the application's error taxonomy.
//
// Services return these typed errors; the handler layer performs the single
// translation to HTTP status codes (see handler.writeError). Nothing below
// the handlers knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers classify failures with errors.Is against these;
// the concrete *AppError carries the human-readable message.
var (
	ErrValidation      = errors.New("validation error") // 422
	ErrInvalidInput    = errors.New("invalid input")    // 400
	ErrUnauthenticated = errors.New("unauthenticated")  // 401
	ErrForbidden       = errors.New("forbidden")        // 403
	ErrNotFound        = errors.New("not found")        // 404
	ErrConflict        = errors.New("conflict")         // 409
)

type AppError struct {
	Err     error  // sentinel classifying the failure
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports an absent resource. The same error is returned whether the
// resource truly does not exist or belongs to another user, so a caller can
// never probe for other tenants' data.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports a field-level schema violation (422).
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidInput reports a semantically invalid request (400), such as a
// password confirmation mismatch or a reference to a category the caller
// does not own.
func InvalidInput(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidInput,
		Message: message,
	}
}

// Conflict reports a uniqueness violation (409).
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthenticated reports a missing, invalid or expired credential (401).
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// Forbidden reports a valid identity that lacks permission (403), for
// example a deactivated account.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
