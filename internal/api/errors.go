package api

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned before any request is sent when no bearer
// credential is available.
var ErrAuthRequired = errors.New("authentication required")

// ErrSessionExpired is returned when the server answers 401.
var ErrSessionExpired = errors.New("session expired")

// StatusError is any other non-success HTTP response.
type StatusError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrInvalidResponse means a response body did not match its schema.
type ErrInvalidResponse struct {
	Body []byte
	Err  error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }
