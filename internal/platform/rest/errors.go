package rest

import (
	"errors"
	"fmt"
)

// Sentinel errors for the status classes callers branch on.
var (
	// ErrNotFound maps 404 responses. List endpoints treat it as "no
	// data yet" rather than a failure.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized maps 401/403 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is a non-2xx response from the practice API.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Unwrap lets errors.Is match the sentinel for the status class.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case 404:
		return ErrNotFound
	case 401, 403:
		return ErrUnauthorized
	}
	return nil
}

// IsNotFound reports whether err represents a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
