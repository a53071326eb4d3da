// Package apperror carries the error taxonomy of the API: validation,
// authentication, not-found and internal errors, each mapped to an HTTP
// status and a `{"message": ...}` JSON body.
package apperror

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// Kind defines the category of an application error
type Kind int

const (
	// Internal represents a database or hashing failure; details are logged, never sent to the client
	Internal Kind = iota
	// Validation represents a malformed, missing, empty or mistyped field
	Validation
	// Auth represents missing/invalid credentials or acting on another identity's resource
	Auth
	// NotFound represents a valid id with no matching record
	NotFound
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, internal only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error kind
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Validation:
		return http.StatusUnprocessableEntity
	case Auth:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewValidation(message string) *Error {
	return &Error{Kind: Validation, Message: message}
}

func NewAuth(message string) *Error {
	return &Error{Kind: Auth, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: NotFound, Message: message}
}

func NewInternal(err error) *Error {
	return &Error{Kind: Internal, Message: "Internal server error", Err: err}
}

type messageBody struct {
	Message string `json:"message"`
}

// Write converts err into the HTTP response for the request. Errors that are
// not *Error, and internal errors, are logged server-side and reported to the
// client as a generic 500.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	appErr := &Error{}
	if !errors.As(err, &appErr) {
		appErr = NewInternal(err)
	}

	if appErr.Kind == Internal {
		hlog.FromRequest(r).Error().Err(appErr).Msg("Request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	_ = json.NewEncoder(w).Encode(messageBody{Message: appErr.Message})
}
