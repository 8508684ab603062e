// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package gpiosensor

import (
	"context"
	"time"
)

// Backend provides access to GPIO pins on a particular platform.
//
// Pins are identified in the numbering convention passed to SetNumbering.
//
// Implementations are provided by the cdev, periph, rpio and mockup packages.
type Backend interface {
	// SetNumbering sets the pin numbering convention.
	//
	// The first call fixes the convention for the lifetime of the backend.
	// Subsequent calls with a different convention return
	// ErrConfigurationConflict.
	SetNumbering(n Numbering) error

	// ConfigureInput claims the pin and configures it as an input.
	//
	// Returns ErrPinUnavailable if the pin is already claimed or is invalid.
	ConfigureInput(pin int) error

	// WatchEdges enables edge detection on a claimed pin, passing detected
	// edges to eh.
	//
	// Repeated calls replace the edge, debounce period and handler.
	// A zero debounce period disables debouncing.
	WatchEdges(pin int, edge Edge, debounce time.Duration, eh EventHandler) error

	// Value returns the current level of a claimed pin, 0 or 1.
	Value(pin int) (int, error)

	// WaitEdge blocks until an edge of the given type is detected on a
	// watched pin, the context is done, or the pin is released.
	WaitEdge(ctx context.Context, pin int, edge Edge) (Event, error)

	// Release disables edge detection on the pin and releases the claim.
	//
	// Releasing an unclaimed pin is not an error.
	Release(pin int) error
}
