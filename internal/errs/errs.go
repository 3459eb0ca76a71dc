// Package errs defines the error kinds shared by the store, service and
// handler layers, and how each kind maps onto an HTTP status.
//
// Stores wrap one of the sentinels below with %w so callers can classify
// a failure with errors.Is without matching on message text.
package errs

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound reports that the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable reports that the store could not be reached in time.
	ErrUnavailable = errors.New("store unavailable")

	// ErrConstraint reports a rejected write, e.g. a duplicate key.
	ErrConstraint = errors.New("constraint violation")
)

// Status returns the HTTP status code for err.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConstraint):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
