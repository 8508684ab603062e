// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package gpiosensor

import (
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Board is the process wide context for sensors sharing a backend.
//
// The pin numbering convention is fixed when the board is created and applies
// to all sensors created from it. A pin may be bound to at most one sensor at
// a time.
type Board struct {
	backend   Backend
	numbering Numbering
	log       logrus.FieldLogger

	// mu covers the attributes below it.
	mu sync.Mutex

	// the live sensors, keyed by pin.
	sensors map[int]*Sensor

	closed bool
}

// NewBoard creates a Board using the backend.
//
// The numbering convention, logical by default, is applied to the backend.
func NewBoard(backend Backend, options ...BoardOption) (*Board, error) {
	bo := boardOptions{
		numbering: NumberingLogical,
		log:       logrus.StandardLogger(),
	}
	for _, option := range options {
		option.applyBoardOption(&bo)
	}
	if err := backend.SetNumbering(bo.numbering); err != nil {
		return nil, err
	}
	b := Board{
		backend:   backend,
		numbering: bo.numbering,
		log:       bo.log,
		sensors:   map[int]*Sensor{},
	}
	b.log.WithField("numbering", b.numbering).Debug("board initialised")
	return &b, nil
}

// Numbering returns the pin numbering convention used by the board.
func (b *Board) Numbering() Numbering {
	return b.numbering
}

// Sensors returns the pins currently bound to sensors, in ascending order.
func (b *Board) Sensors() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	pins := make([]int, 0, len(b.sensors))
	for pin := range b.sensors {
		pins = append(pins, pin)
	}
	sort.Ints(pins)
	return pins
}

// Close releases all sensors bound on the board, then closes the backend if
// it is an io.Closer.
//
// Returns the first error encountered.
func (b *Board) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.closed = true
	ss := make([]*Sensor, 0, len(b.sensors))
	for _, s := range b.sensors {
		ss = append(ss, s)
	}
	b.mu.Unlock()

	var err error
	for _, s := range ss {
		if serr := s.Close(); serr != nil && err == nil {
			err = serr
		}
	}
	if c, ok := b.backend.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	b.log.Debug("board closed")
	return err
}

// forget removes the sensor's claim on its pin.
func (b *Board) forget(s *Sensor) {
	b.mu.Lock()
	if b.sensors[s.pin] == s {
		delete(b.sensors, s.pin)
	}
	b.mu.Unlock()
}
