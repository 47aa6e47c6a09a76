package restclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadRequest   = errors.New("payroll backend rejected the request")
	ErrUnauthorized = errors.New("payroll backend session is not valid")
	ErrForbidden    = errors.New("payroll backend denied access")
	ErrNotFound     = errors.New("resource not found on payroll backend")
	ErrConflict     = errors.New("resource was modified concurrently, refetch and retry")
	ErrUnavailable  = errors.New("payroll backend is unavailable")
)

// fallbackMessage is surfaced when the backend gives no usable message.
const fallbackMessage = "Une erreur est survenue"

// APIError represents a non-2xx answer from the payroll backend
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payroll backend error [%d] %s %s: %s", e.StatusCode, e.Method, e.Path, e.Message)
}

// Is lets callers match an APIError against the package sentinels with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode >= 400 && e.StatusCode < 500 &&
			e.StatusCode != http.StatusUnauthorized &&
			e.StatusCode != http.StatusForbidden &&
			e.StatusCode != http.StatusNotFound &&
			e.StatusCode != http.StatusConflict
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict || e.StatusCode == http.StatusPreconditionFailed
	case ErrUnavailable:
		return e.StatusCode >= 500
	}
	return false
}

// UserMessage returns the backend's message, or a generic fallback.
func (e *APIError) UserMessage() string {
	if e.Message == "" {
		return fallbackMessage
	}
	return e.Message
}
