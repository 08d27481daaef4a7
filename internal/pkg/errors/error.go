// Package xerrors holds the sentinel errors shared across the service.
// Callers wrap them with fmt.Errorf("...: %w") and match with errors.Is.
package xerrors

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("too many requests")
)

// Session and gateway errors. Some messages are shown to the user verbatim.
var (
	ErrPasswordRequired = errors.New("Password required")
	ErrNoSession        = errors.New("no stored session")
)

// Fleet errors.
var (
	ErrVehicleUnavailable = errors.New("vehicle is not available for rental")
	ErrDriverOnTrip       = errors.New("Cannot change status while on a trip.")
	ErrNotDriver          = errors.New("current account is not a driver")
)
