// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package mockup provides an in-memory GPIO backend.
//
// This is intended for testing gpiosensor, but could also be used for testing
// by users of their own code that uses gpiosensor, without requiring GPIO
// hardware or kernel support.
//
// Line levels are driven by the test using SetValue or Toggle. Level changes
// on lines with edge detection enabled are delivered to the installed handler
// synchronously, on the goroutine changing the level, which stands in for the
// event thread of a real backend.
package mockup

import (
	"context"
	"fmt"
	"sync"
	"time"

	sensor "github.com/warthog618/go-gpiosensor"
	"github.com/warthog618/go-gpiosensor/internal/watch"
)

// Op identifies a backend operation, for fault injection.
type Op string

const (
	// OpSetNumbering identifies SetNumbering.
	OpSetNumbering Op = "SetNumbering"

	// OpConfigureInput identifies ConfigureInput.
	OpConfigureInput Op = "ConfigureInput"

	// OpWatchEdges identifies WatchEdges.
	OpWatchEdges Op = "WatchEdges"

	// OpValue identifies Value.
	OpValue Op = "Value"

	// OpWaitEdge identifies WaitEdge.
	OpWaitEdge Op = "WaitEdge"

	// OpRelease identifies Release.
	OpRelease Op = "Release"
)

// Mockup is an in-memory implementation of the gpiosensor.Backend.
type Mockup struct {
	lines int
	start time.Time

	// mu covers the attributes below it.
	mu           sync.Mutex
	numbering    sensor.Numbering
	hasNumbering bool
	values       []int

	// claimed lines, keyed by offset.
	claims map[int]*claim

	// errors to be returned by the next call of the op.
	faults map[Op]error
}

type claim struct {
	pin      int
	watched  bool
	edge     sensor.Edge
	debounce time.Duration
	seqno    uint32
	w        *watch.Pin
}

// Option defines the interface required to provide an option to New.
type Option interface {
	applyOption(*Mockup)
}

// LinesOption specifies the number of lines provided by the mockup.
type LinesOption int

// WithLines specifies the number of lines provided by the mockup.
//
// The default is 64.
func WithLines(n int) LinesOption {
	return LinesOption(n)
}

func (o LinesOption) applyOption(m *Mockup) {
	m.lines = int(o)
}

// New creates a Mockup with all lines low.
func New(options ...Option) *Mockup {
	m := Mockup{
		lines:  64,
		start:  time.Now(),
		claims: map[int]*claim{},
		faults: map[Op]error{},
	}
	for _, option := range options {
		option.applyOption(&m)
	}
	m.values = make([]int, m.lines)
	return &m
}

// SetNumbering sets the numbering convention for the mockup.
func (m *Mockup) SetNumbering(n sensor.Numbering) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpSetNumbering); err != nil {
		return err
	}
	if m.hasNumbering && m.numbering != n {
		return sensor.ErrConfigurationConflict
	}
	m.numbering = n
	m.hasNumbering = true
	return nil
}

// ConfigureInput claims the line for the pin as an input.
func (m *Mockup) ConfigureInput(pin int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpConfigureInput); err != nil {
		return err
	}
	offset, err := m.offset(pin)
	if err != nil {
		return err
	}
	if _, ok := m.claims[offset]; ok {
		return sensor.ErrPinUnavailable
	}
	m.claims[offset] = &claim{pin: pin, w: watch.New()}
	return nil
}

// WatchEdges enables edge detection on the claimed pin.
func (m *Mockup) WatchEdges(pin int, edge sensor.Edge, debounce time.Duration, eh sensor.EventHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpWatchEdges); err != nil {
		return err
	}
	c, err := m.claimed(pin)
	if err != nil {
		return err
	}
	c.watched = true
	c.edge = edge
	c.debounce = debounce
	c.w.Install(edge, debounce, eh)
	return nil
}

// Value returns the level of the claimed pin.
func (m *Mockup) Value(pin int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpValue); err != nil {
		return 0, err
	}
	offset, err := m.offset(pin)
	if err != nil {
		return 0, err
	}
	if _, ok := m.claims[offset]; !ok {
		return 0, sensor.ErrPinUnavailable
	}
	return m.values[offset], nil
}

// WaitEdge blocks until an edge is detected on the watched pin.
func (m *Mockup) WaitEdge(ctx context.Context, pin int, edge sensor.Edge) (sensor.Event, error) {
	m.mu.Lock()
	if err := m.fault(OpWaitEdge); err != nil {
		m.mu.Unlock()
		return sensor.Event{}, err
	}
	c, err := m.claimed(pin)
	if err != nil {
		m.mu.Unlock()
		return sensor.Event{}, err
	}
	if !c.watched || !c.edge.Covers(edge) {
		m.mu.Unlock()
		return sensor.Event{}, sensor.ErrInvalidEdge
	}
	w := c.w
	m.mu.Unlock()
	return w.Wait(ctx, edge)
}

// Release releases the claim on the pin.
func (m *Mockup) Release(pin int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpRelease); err != nil {
		return err
	}
	offset, err := m.offset(pin)
	if err != nil {
		return err
	}
	c, ok := m.claims[offset]
	if !ok {
		return nil
	}
	delete(m.claims, offset)
	c.w.Close()
	return nil
}

// SetValue sets the level of the line.
//
// If the level changes and the line is watched for that edge then the event
// is delivered before SetValue returns.
func (m *Mockup) SetValue(offset int, value int) error {
	if value != 0 {
		value = 1
	}
	m.mu.Lock()
	if offset < 0 || offset >= m.lines {
		m.mu.Unlock()
		return ErrorIndexRange{offset, m.lines}
	}
	if m.values[offset] == value {
		m.mu.Unlock()
		return nil
	}
	m.values[offset] = value
	c, ok := m.claims[offset]
	if !ok || !c.watched {
		m.mu.Unlock()
		return nil
	}
	c.seqno++
	evt := sensor.Event{
		Pin:       c.pin,
		Type:      sensor.EventFallingEdge,
		Timestamp: time.Since(m.start),
		Seqno:     c.seqno,
	}
	if value == 1 {
		evt.Type = sensor.EventRisingEdge
	}
	w := c.w
	m.mu.Unlock()
	w.Notify(evt)
	return nil
}

// LineValue returns the level of the line, whether it is claimed or not.
func (m *Mockup) LineValue(offset int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if offset < 0 || offset >= m.lines {
		return 0, ErrorIndexRange{offset, m.lines}
	}
	return m.values[offset], nil
}

// Toggle inverts the level of the line.
func (m *Mockup) Toggle(offset int) error {
	v, err := m.LineValue(offset)
	if err != nil {
		return err
	}
	return m.SetValue(offset, v^1)
}

// Claimed returns true if the line is claimed.
func (m *Mockup) Claimed(offset int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.claims[offset]
	return ok
}

// Edge returns the edge detection enabled on the line.
func (m *Mockup) Edge(offset int) sensor.Edge {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.claims[offset]; ok {
		return c.edge
	}
	return sensor.EdgeNone
}

// Debounce returns the debounce period applied to the line.
func (m *Mockup) Debounce(offset int) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.claims[offset]; ok {
		return c.debounce
	}
	return 0
}

// Waiters returns the number of goroutines waiting for edges on the line.
func (m *Mockup) Waiters(offset int) int {
	m.mu.Lock()
	c, ok := m.claims[offset]
	m.mu.Unlock()
	if !ok {
		return 0
	}
	return c.w.Waiters()
}

// Numbering returns the numbering convention set on the mockup, if any.
func (m *Mockup) Numbering() (sensor.Numbering, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.numbering, m.hasNumbering
}

// FailNext causes the next call of op to return err.
func (m *Mockup) FailNext(op Op, err error) {
	m.mu.Lock()
	m.faults[op] = err
	m.mu.Unlock()
}

// assumes m is locked.
func (m *Mockup) fault(op Op) error {
	err := m.faults[op]
	delete(m.faults, op)
	return err
}

// assumes m is locked.
func (m *Mockup) offset(pin int) (int, error) {
	offset, err := m.numbering.Offset(pin)
	if err != nil {
		return 0, err
	}
	if offset >= m.lines {
		return 0, fmt.Errorf("%w: %w", sensor.ErrPinUnavailable, ErrorIndexRange{offset, m.lines})
	}
	return offset, nil
}

// assumes m is locked.
func (m *Mockup) claimed(pin int) (*claim, error) {
	offset, err := m.offset(pin)
	if err != nil {
		return nil, err
	}
	c, ok := m.claims[offset]
	if !ok {
		return nil, sensor.ErrPinUnavailable
	}
	return c, nil
}

// ErrorIndexRange indicates the requested index is beyond the limit of the array.
type ErrorIndexRange struct {
	Req   int
	Limit int
}

func (e ErrorIndexRange) Error() string {
	return fmt.Sprintf("index out of range - got %d, limit is %d.", e.Req, e.Limit)
}
