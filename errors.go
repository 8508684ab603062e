// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package gpiosensor

import (
	"errors"
	"fmt"
)

var (
	// ErrPinUnavailable indicates the pin is already claimed or is not a
	// valid pin identifier.
	ErrPinUnavailable = errors.New("pin unavailable")

	// ErrConfigurationConflict indicates the requested numbering convention
	// differs from the one already in effect.
	ErrConfigurationConflict = errors.New("numbering convention conflict")

	// ErrBackendUnsupported indicates the GPIO hardware or platform required
	// by the backend is not present.
	ErrBackendUnsupported = errors.New("backend unsupported")

	// ErrCallbackNotFound indicates the callback is not registered with the
	// sensor.
	ErrCallbackNotFound = errors.New("callback not found")

	// ErrClosed indicates the sensor or board has already been closed.
	ErrClosed = errors.New("already closed")

	// ErrInvalidEdge indicates the edge is not valid for the operation,
	// e.g. waiting for an edge the sensor is not detecting.
	ErrInvalidEdge = errors.New("invalid edge")
)

// BackendError indicates an operation on the backend failed.
//
// The underlying error is available via errors.Is and errors.As.
type BackendError struct {
	// The sensor operation that failed.
	Op string

	// The pin the operation was applied to.
	Pin int

	// The error returned by the backend.
	Err error
}

func (e BackendError) Error() string {
	return fmt.Sprintf("%s pin %d: %s", e.Op, e.Pin, e.Err)
}

// Unwrap returns the error returned by the backend.
func (e BackendError) Unwrap() error {
	return e.Err
}
