package domain

import (
	"errors"
	"fmt"
)

// AuthError is a rejected credential or a missing/expired session. Recovery is a fresh login.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError is incomplete form input, caught before any backend call.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// BackendError is a transport failure (Status 0) or a non-2xx backend response.
type BackendError struct {
	Status  int
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("backend unreachable: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("backend status %d", e.Status)
	}
}

func (e *BackendError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ErrLoginRequired is returned by operations that need an authenticated identity.
var ErrLoginRequired = &AuthError{Message: "Please log in to continue."}

func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// UserMessage extracts the message worth showing to the user, falling back to fallback.
func UserMessage(err error, fallback string) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) && validationErr.Message != "" {
		return validationErr.Message
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) && notFound.Message != "" {
		return notFound.Message
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) && backendErr.Message != "" {
		return backendErr.Message
	}
	return fallback
}

// WithMessage keeps auth and not-found errors as they are and gives anything else the
// user-facing message msg, preserving the backend status and cause.
func WithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsAuth(err) || IsNotFound(err) {
		return err
	}
	out := &BackendError{Message: msg, Err: err}
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		out.Status = backendErr.Status
	}
	return out
}
