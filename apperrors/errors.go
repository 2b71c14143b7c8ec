package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for display and for the HTTP status it maps to
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
	KindTransient     Kind = "transient"
)

// AppError is the error type returned across package boundaries
type AppError struct {
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Status  int               `json:"-"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithFields attaches per-field validation messages
func (e *AppError) WithFields(fields map[string]string) *AppError {
	e.Fields = fields
	return e
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func Authorization(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

// Unauthenticated is an authorization failure caused by a missing or dead session
func Unauthenticated(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message, Status: http.StatusUnauthorized}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Transient wraps a network or upstream failure behind a generic message
func Transient(err error, message string) *AppError {
	return &AppError{Kind: KindTransient, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindTransient for errors outside the taxonomy
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindTransient
}

// Is reports whether err belongs to kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FromStatus classifies a failed upstream response.
// serverMessage is surfaced verbatim when present, otherwise fallback is used.
func FromStatus(status int, serverMessage, fallback string) *AppError {
	message := serverMessage
	if message == "" {
		message = fallback
	}

	var appErr *AppError
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if serverMessage == "" {
			message = "access denied"
		}
		appErr = Authorization(message)
	case status == http.StatusNotFound:
		appErr = NotFound(message)
	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		appErr = Conflict(message)
	default:
		appErr = &AppError{Kind: KindTransient, Message: fallback}
	}
	appErr.Status = status
	return appErr
}

// HTTPStatus returns the status this service answers with for err
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		if appErr.Status == http.StatusUnauthorized {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
