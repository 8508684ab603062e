// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package watch distributes edge events detected on a pin to the installed
// handler and to any goroutines waiting for an edge.
//
// It provides the edge filtering and software debounce for backends that
// cannot have the hardware perform them.
package watch

import (
	"context"
	"sync"
	"time"

	sensor "github.com/warthog618/go-gpiosensor"
)

// Pin watches edges on a single pin.
type Pin struct {
	// closed once the pin is closed.
	done chan struct{}

	// mu covers the attributes below it.
	mu       sync.Mutex
	edge     sensor.Edge
	debounce time.Duration
	eh       sensor.EventHandler
	waiters  map[*waiter]struct{}
	closed   bool

	// the timestamp of the last accepted event.
	last time.Duration
	seen bool
}

type waiter struct {
	edge sensor.Edge
	ch   chan result
}

type result struct {
	evt sensor.Event
	err error
}

// New creates a Pin with edge detection disabled.
func New() *Pin {
	return &Pin{
		done:    make(chan struct{}),
		waiters: map[*waiter]struct{}{},
	}
}

// Install sets the edges accepted by the pin, the debounce period, and the
// handler to be called for each accepted event.
//
// Waiters for edges no longer accepted are unblocked with
// sensor.ErrInvalidEdge.
func (p *Pin) Install(edge sensor.Edge, debounce time.Duration, eh sensor.EventHandler) {
	p.mu.Lock()
	p.edge = edge
	p.debounce = debounce
	p.eh = eh
	p.seen = false
	for w := range p.waiters {
		if !edge.Covers(w.edge) {
			delete(p.waiters, w)
			w.ch <- result{err: sensor.ErrInvalidEdge}
		}
	}
	p.mu.Unlock()
}

// Edge returns the edges accepted by the pin.
func (p *Pin) Edge() sensor.Edge {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.edge
}

// Notify passes the event to the handler and waiters if the event is
// accepted.
//
// Events are rejected if their type is not covered by the installed edge or
// they fall within the debounce period of the last accepted event.
//
// The handler is called on the calling goroutine.
func (p *Pin) Notify(evt sensor.Event) bool {
	p.mu.Lock()
	if p.closed || !p.edge.Includes(evt.Type) {
		p.mu.Unlock()
		return false
	}
	if p.debounce > 0 && p.seen && evt.Timestamp-p.last < p.debounce {
		p.mu.Unlock()
		return false
	}
	p.last = evt.Timestamp
	p.seen = true
	eh := p.eh
	for w := range p.waiters {
		if w.edge.Includes(evt.Type) {
			delete(p.waiters, w)
			w.ch <- result{evt: evt}
		}
	}
	p.mu.Unlock()
	if eh != nil {
		eh(evt)
	}
	return true
}

// Wait blocks until an event covered by edge is accepted by the pin.
//
// Returns sensor.ErrClosed if the pin is closed while waiting,
// sensor.ErrInvalidEdge if the edge stops being accepted, or the context
// error if the context is done first.
func (p *Pin) Wait(ctx context.Context, edge sensor.Edge) (sensor.Event, error) {
	w := &waiter{edge: edge, ch: make(chan result, 1)}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return sensor.Event{}, sensor.ErrClosed
	}
	p.waiters[w] = struct{}{}
	p.mu.Unlock()
	select {
	case r := <-w.ch:
		return r.evt, r.err
	case <-p.done:
		return sensor.Event{}, sensor.ErrClosed
	case <-ctx.Done():
		p.mu.Lock()
		delete(p.waiters, w)
		p.mu.Unlock()
		// the event may have raced the cancellation
		select {
		case r := <-w.ch:
			return r.evt, r.err
		default:
		}
		return sensor.Event{}, ctx.Err()
	}
}

// Waiters returns the number of goroutines blocked in Wait.
func (p *Pin) Waiters() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waiters)
}

// Close stops the pin accepting events and unblocks any waiters.
func (p *Pin) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.eh = nil
	p.waiters = map[*waiter]struct{}{}
	close(p.done)
}
