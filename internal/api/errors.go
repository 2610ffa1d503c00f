package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidID       = errors.New("id must be a positive integer")
	ErrUnauthenticated = errors.New("not logged in")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthenticated && e.Status == http.StatusUnauthorized
}

func newAPIError(status int, msg string) *APIError {
	if msg == "" {
		msg = fmt.Sprintf("API returned %d", status)
	}
	return &APIError{Status: status, Message: msg}
}

// Message returns display text for err, preferring the server message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
