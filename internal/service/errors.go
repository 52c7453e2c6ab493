package service

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/store"
)

// ErrStandardNotFound is returned for an id missing from the catalog.
var ErrStandardNotFound = errors.New("standard not found")

// ValidationError reports invalid request fields, keyed by field name.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StatusOf maps a service error to the API error contract. Unknown errors
// become a 500 without leaking their text.
func StatusOf(err error) *api.StatusError {
	var (
		verr ValidationError
		jerr justification.ValidationErrors
		serr *api.StatusError
	)
	switch {
	case errors.As(err, &serr):
		return serr
	case errors.As(err, &jerr):
		return &api.StatusError{
			Status:  http.StatusBadRequest,
			Code:    "validation_failed",
			Message: "Justification is invalid",
			Details: map[string]string(jerr),
		}
	case errors.As(err, &verr):
		return &api.StatusError{
			Status:  http.StatusBadRequest,
			Code:    "validation_failed",
			Message: "Request is invalid",
			Details: map[string]string(verr),
		}
	case errors.Is(err, ccn.ErrEmptyTitle), errors.Is(err, ccn.ErrInvalidUnits):
		return &api.StatusError{Status: http.StatusBadRequest, Code: "invalid_course", Message: err.Error()}
	case errors.Is(err, store.ErrNotFound):
		return &api.StatusError{Status: http.StatusNotFound, Code: "not_found", Message: "Course not found"}
	case errors.Is(err, ErrStandardNotFound):
		return &api.StatusError{Status: http.StatusNotFound, Code: "not_found", Message: "Standard not found"}
	default:
		return &api.StatusError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "Internal error"}
	}
}
