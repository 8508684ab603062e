// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package gpiosensor is a library for reading digital sensors connected to
// GPIO pins, and for being notified when their level changes.
//
// A Sensor binds a single pin, configured as an input, and dispatches edge
// events on that pin to the registered callbacks.
//
// Sensors are created from a Board, which fixes the pin numbering convention
// for the process and wraps the Backend providing access to the GPIO
// hardware.
//
// Supports:
// - Pin read (low/high)
// - Edge detection (rising/falling/both)
// - Debounce
// - Logical (chip line offset) and physical (header position) pin numbering
// - Waiting for edges, with cancellation
//
// Example of use:
//
//	be, err := cdev.New(cdev.WithChip("gpiochip0"))
//	if err != nil {
//		panic(err)
//	}
//	b, err := gpiosensor.NewBoard(be)
//	if err != nil {
//		panic(err)
//	}
//	defer b.Close()
//	s, err := b.NewSensor(17, gpiosensor.WithRisingEdge)
//	if err != nil {
//		panic(err)
//	}
//	s.OnEdge(func(evt gpiosensor.Event) {
//		fmt.Printf("pin %d %s\n", evt.Pin, evt.Type)
//	})
package gpiosensor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Sensor represents a digital sensor bound to a single input pin.
type Sensor struct {
	board     *Board
	pin       int
	numbering Numbering
	log       logrus.FieldLogger

	// the registered callbacks.
	cbs callbackSet

	// cmu serializes changes to the backend configuration of the pin.
	cmu sync.Mutex

	// mu covers the attributes below it.
	mu       sync.Mutex
	edge     Edge
	debounce time.Duration
	closed   bool
}

// NewSensor binds the pin to a new Sensor.
//
// The pin is claimed and configured as an input with edge detection enabled.
// By default both edges are detected, without debounce.
//
// If the pin cannot be configured then any claim made on it is released
// before returning the error.
func (b *Board) NewSensor(pin int, options ...SensorOption) (*Sensor, error) {
	so := sensorOptions{
		numbering: b.numbering,
		edge:      EdgeBoth,
	}
	for _, option := range options {
		option.applySensorOption(&so)
	}
	if so.hasNumbering && so.numbering != b.numbering {
		return nil, ErrConfigurationConflict
	}
	if !EdgeBoth.Covers(so.edge) {
		return nil, ErrInvalidEdge
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	if _, ok := b.sensors[pin]; ok {
		return nil, BackendError{"configure", pin, ErrPinUnavailable}
	}
	s := &Sensor{
		board:     b,
		pin:       pin,
		numbering: b.numbering,
		log:       b.log.WithField("pin", pin),
		edge:      so.edge,
		debounce:  so.debounce,
	}
	if err := b.backend.ConfigureInput(pin); err != nil {
		return nil, BackendError{"configure", pin, err}
	}
	if err := b.backend.WatchEdges(pin, so.edge, so.debounce, s.dispatch); err != nil {
		if rerr := b.backend.Release(pin); rerr != nil {
			s.log.WithError(rerr).Warn("release after failed edge watch")
		}
		return nil, BackendError{"watch", pin, err}
	}
	b.sensors[pin] = s
	s.log.WithFields(logrus.Fields{
		"numbering": s.numbering,
		"edge":      s.edge,
		"debounce":  s.debounce,
	}).Debug("sensor bound")
	return s, nil
}

// PinID returns the pin bound to the sensor, in the sensor's numbering
// convention.
func (s *Sensor) PinID() int {
	return s.pin
}

// Numbering returns the numbering convention of the sensor pin.
func (s *Sensor) Numbering() Numbering {
	return s.numbering
}

// EdgeMode returns the edges currently detected by the sensor.
func (s *Sensor) EdgeMode() Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edge
}

// Debounce returns the current debounce period of the sensor.
func (s *Sensor) Debounce() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debounce
}

// Read returns the current level of the sensor pin, 0 for low and 1 for high.
func (s *Sensor) Read() (int, error) {
	if s.isClosed() {
		return 0, ErrClosed
	}
	v, err := s.board.backend.Value(s.pin)
	if err != nil {
		return 0, BackendError{"read", s.pin, err}
	}
	return v, nil
}

// WaitForEdge blocks until an edge matching the current edge mode is detected
// on the pin.
//
// Returns the context error if the context is done first, or ErrClosed if the
// sensor is closed while waiting.
func (s *Sensor) WaitForEdge(ctx context.Context) (Event, error) {
	return s.WaitFor(ctx, s.EdgeMode())
}

// WaitFor blocks until an edge of the given type is detected on the pin.
//
// The edge must be covered by the current edge mode of the sensor, else
// ErrInvalidEdge is returned.
func (s *Sensor) WaitFor(ctx context.Context, edge Edge) (Event, error) {
	s.mu.Lock()
	closed, mode := s.closed, s.edge
	s.mu.Unlock()
	if closed {
		return Event{}, ErrClosed
	}
	if !mode.Covers(edge) {
		return Event{}, ErrInvalidEdge
	}
	evt, err := s.board.backend.WaitEdge(ctx, s.pin, edge)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return Event{}, cerr
		}
		if errors.Is(err, ErrClosed) {
			return Event{}, ErrClosed
		}
		if errors.Is(err, ErrInvalidEdge) {
			return Event{}, ErrInvalidEdge
		}
		return Event{}, BackendError{"wait", s.pin, err}
	}
	return evt, nil
}

// SetEdgeMode changes the edges detected by the sensor.
//
// The debounce period is reset to zero unless provided by WithDebounce.
// If the backend rejects the change the previous edge mode remains in effect.
func (s *Sensor) SetEdgeMode(edge Edge, options ...EdgeModeOption) error {
	if !EdgeBoth.Covers(edge) {
		return ErrInvalidEdge
	}
	eo := edgeModeOptions{}
	for _, option := range options {
		option.applyEdgeModeOption(&eo)
	}
	s.cmu.Lock()
	defer s.cmu.Unlock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	prevEdge, prevDebounce := s.edge, s.debounce
	s.edge = edge
	s.debounce = eo.debounce
	s.mu.Unlock()
	err := s.board.backend.WatchEdges(s.pin, edge, eo.debounce, s.dispatch)
	if err != nil {
		s.mu.Lock()
		s.edge = prevEdge
		s.debounce = prevDebounce
		s.mu.Unlock()
		return BackendError{"watch", s.pin, err}
	}
	s.log.WithFields(logrus.Fields{
		"edge":     edge,
		"debounce": eo.debounce,
	}).Debug("edge mode changed")
	return nil
}

// AddCallback registers the callback to be called when an edge is detected.
//
// Callbacks are called from the backend's event goroutine, so must not block.
// Adding a callback that is already registered has no effect.
func (s *Sensor) AddCallback(cb *Callback) {
	if cb == nil {
		return
	}
	s.cbs.add(cb)
}

// OnEdge registers the function to be called when an edge is detected.
//
// Returns the Callback handle which can be used to remove the registration.
func (s *Sensor) OnEdge(fn func(Event)) *Callback {
	cb := NewCallback(fn)
	s.cbs.add(cb)
	return cb
}

// RemoveCallback removes the callback from the sensor.
//
// Returns ErrCallbackNotFound if the callback is not registered.
func (s *Sensor) RemoveCallback(cb *Callback) error {
	if !s.cbs.remove(cb) {
		return ErrCallbackNotFound
	}
	return nil
}

// ClearCallbacks removes all callbacks from the sensor.
func (s *Sensor) ClearCallbacks() {
	s.cbs.clear()
}

// Callbacks returns the callbacks currently registered with the sensor.
func (s *Sensor) Callbacks() []*Callback {
	return append([]*Callback(nil), s.cbs.snapshot()...)
}

// Close releases the pin and removes all callbacks.
//
// If the backend fails to release the pin the sensor remains bound, and the
// release may be retried by calling Close again.
//
// Closing a closed sensor, or a nil sensor, is a no-op.
func (s *Sensor) Close() error {
	if s == nil {
		return nil
	}
	s.cmu.Lock()
	defer s.cmu.Unlock()
	if s.isClosed() {
		return nil
	}
	if err := s.board.backend.Release(s.pin); err != nil {
		return BackendError{"release", s.pin, err}
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.board.forget(s)
	s.cbs.clear()
	s.log.Debug("sensor released")
	return nil
}

func (s *Sensor) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// dispatch is the handler passed to the backend.
func (s *Sensor) dispatch(evt Event) {
	s.mu.Lock()
	edge, closed := s.edge, s.closed
	s.mu.Unlock()
	if closed || !edge.Includes(evt.Type) {
		return
	}
	for _, cb := range s.cbs.snapshot() {
		cb.call(evt)
	}
}
