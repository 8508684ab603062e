// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// Package cdev provides a gpiosensor.Backend using the Linux GPIO character
// device.
//
// Edge detection and debounce are performed by the kernel.
package cdev

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
	sensor "github.com/warthog618/go-gpiosensor"
	"github.com/warthog618/go-gpiosensor/internal/watch"
	"golang.org/x/sys/unix"
)

// Cdev is a gpiosensor.Backend for a single GPIO chip.
type Cdev struct {
	chip *gpiocdev.Chip

	// mu covers the attributes below it.
	mu        sync.Mutex
	numbering sensor.Numbering
	lines     map[int]*line
	closed    bool
}

type line struct {
	offset int
	pin    int
	w      *watch.Pin

	// cmu serializes changes to the line configuration.
	cmu sync.Mutex

	// mu covers the attributes below it.
	mu       sync.Mutex
	req      *request
	edge     sensor.Edge
	debounce time.Duration
}

// request is a single request of the line from the kernel.
type request struct {
	ln *line
	l  *gpiocdev.Line

	// mu covers the attributes below it.
	mu     sync.Mutex
	closed bool
	// set while the event handler is running.
	busy bool
}

// Option defines the interface required to provide an option to New.
type Option interface {
	applyOption(*options)
}

type options struct {
	chip     string
	consumer string
}

// ChipOption specifies the GPIO chip.
type ChipOption string

// WithChip specifies the GPIO chip, by name or path.
//
// The default is gpiochip0.
func WithChip(name string) ChipOption {
	return ChipOption(name)
}

func (o ChipOption) applyOption(opts *options) {
	opts.chip = string(o)
}

// ConsumerOption specifies the consumer label applied to requested lines.
type ConsumerOption string

// WithConsumer specifies the consumer label applied to requested lines.
//
// The default is "gpiosensor".
func WithConsumer(consumer string) ConsumerOption {
	return ConsumerOption(consumer)
}

func (o ConsumerOption) applyOption(opts *options) {
	opts.consumer = string(o)
}

// New opens the GPIO chip.
//
// Returns an error wrapping gpiosensor.ErrBackendUnsupported if the chip
// cannot be opened.
func New(opts ...Option) (*Cdev, error) {
	o := options{chip: "gpiochip0", consumer: "gpiosensor"}
	for _, opt := range opts {
		opt.applyOption(&o)
	}
	c, err := gpiocdev.NewChip(o.chip, gpiocdev.WithConsumer(o.consumer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sensor.ErrBackendUnsupported, err)
	}
	return &Cdev{chip: c, lines: map[int]*line{}}, nil
}

// Chip returns the name of the GPIO chip.
func (c *Cdev) Chip() string {
	return c.chip.Name
}

// SetNumbering sets the numbering convention used to map pins to line
// offsets.
func (c *Cdev) SetNumbering(n sensor.Numbering) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) != 0 && n != c.numbering {
		return sensor.ErrConfigurationConflict
	}
	c.numbering = n
	return nil
}

// ConfigureInput requests the line for the pin as an input.
func (c *Cdev) ConfigureInput(pin int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return sensor.ErrClosed
	}
	offset, err := c.numbering.Offset(pin)
	if err != nil {
		return err
	}
	if _, ok := c.lines[offset]; ok {
		return sensor.ErrPinUnavailable
	}
	ln := &line{offset: offset, pin: pin, w: watch.New()}
	req, err := c.request(ln, gpiocdev.AsInput)
	if err != nil {
		return requestError(err)
	}
	ln.req = req
	c.lines[offset] = ln
	return nil
}

// WatchEdges enables edge detection on the line of a configured pin.
//
// The line configuration is updated in place where the kernel supports it,
// else the line is re-requested with the new configuration.
//
// If the change is rejected the previous configuration is retained.
func (c *Cdev) WatchEdges(pin int, edge sensor.Edge, debounce time.Duration, eh sensor.EventHandler) error {
	ln, err := c.line(pin)
	if err != nil {
		return err
	}
	ln.cmu.Lock()
	defer ln.cmu.Unlock()
	ln.mu.Lock()
	req, prevEdge, prevDebounce := ln.req, ln.edge, ln.debounce
	ln.mu.Unlock()

	err = req.l.Reconfigure(lineConfig(edge, debounce, prevDebounce)...)
	if err != nil {
		if !needsRerequest(err) {
			return err
		}
		req, err = c.rerequest(ln, req, edge, debounce, prevEdge, prevDebounce)
		if err != nil {
			return err
		}
	}
	ln.w.Install(edge, 0, eh)
	ln.mu.Lock()
	ln.req = req
	ln.edge = edge
	ln.debounce = debounce
	ln.mu.Unlock()
	return nil
}

// rerequest replaces the request with one having the new edge
// configuration.
//
// If the line cannot be requested with the new configuration it is requested
// with the previous configuration. The line is only dropped if that fails
// too.
func (c *Cdev) rerequest(ln *line, req *request, edge sensor.Edge, debounce time.Duration,
	prevEdge sensor.Edge, prevDebounce time.Duration) (*request, error) {
	req.close()
	nreq, err := c.request(ln, reqOptions(edge, debounce)...)
	if err == nil {
		return nreq, nil
	}
	err = requestError(err)
	preq, perr := c.request(ln, reqOptions(prevEdge, prevDebounce)...)
	if perr != nil {
		c.mu.Lock()
		if c.lines[ln.offset] == ln {
			delete(c.lines, ln.offset)
		}
		c.mu.Unlock()
		ln.w.Close()
		return nil, err
	}
	ln.mu.Lock()
	ln.req = preq
	ln.mu.Unlock()
	return nil, err
}

func (c *Cdev) request(ln *line, options ...gpiocdev.LineReqOption) (*request, error) {
	req := &request{ln: ln}
	options = append(options, gpiocdev.WithEventHandler(req.handler))
	l, err := c.chip.RequestLine(ln.offset, options...)
	if err != nil {
		return nil, err
	}
	req.l = l
	return req, nil
}

// Value returns the level of the line of a configured pin.
func (c *Cdev) Value(pin int) (int, error) {
	ln, err := c.line(pin)
	if err != nil {
		return 0, err
	}
	ln.mu.Lock()
	req := ln.req
	ln.mu.Unlock()
	return req.l.Value()
}

// WaitEdge blocks until an edge is detected on the line of a watched pin.
func (c *Cdev) WaitEdge(ctx context.Context, pin int, edge sensor.Edge) (sensor.Event, error) {
	ln, err := c.line(pin)
	if err != nil {
		return sensor.Event{}, err
	}
	ln.mu.Lock()
	mode := ln.edge
	ln.mu.Unlock()
	if !mode.Covers(edge) {
		return sensor.Event{}, sensor.ErrInvalidEdge
	}
	return ln.w.Wait(ctx, edge)
}

// Release releases the line of the pin.
//
// Releasing a pin that is not configured is a no-op.
func (c *Cdev) Release(pin int) error {
	c.mu.Lock()
	offset, err := c.numbering.Offset(pin)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	ln, ok := c.lines[offset]
	delete(c.lines, offset)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return ln.release()
}

// Close releases all lines and closes the chip.
func (c *Cdev) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return sensor.ErrClosed
	}
	c.closed = true
	lines := c.lines
	c.lines = map[int]*line{}
	c.mu.Unlock()
	for _, ln := range lines {
		ln.release()
	}
	return c.chip.Close()
}

func (c *Cdev) line(pin int) (*line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, sensor.ErrClosed
	}
	offset, err := c.numbering.Offset(pin)
	if err != nil {
		return nil, err
	}
	ln, ok := c.lines[offset]
	if !ok {
		return nil, sensor.ErrPinUnavailable
	}
	return ln, nil
}

func (ln *line) release() error {
	ln.cmu.Lock()
	defer ln.cmu.Unlock()
	ln.w.Close()
	ln.mu.Lock()
	req := ln.req
	ln.edge = sensor.EdgeNone
	ln.mu.Unlock()
	return req.close()
}

// close releases the line.
//
// Closing the line waits for the event handler to return, so if called from
// the handler the line is closed once the handler returns.
func (req *request) close() error {
	req.mu.Lock()
	if req.closed {
		req.mu.Unlock()
		return nil
	}
	req.closed = true
	busy := req.busy
	req.mu.Unlock()
	if busy {
		go req.l.Close()
		return nil
	}
	return req.l.Close()
}

// handler converts line events to sensor events.
func (req *request) handler(evt gpiocdev.LineEvent) {
	req.mu.Lock()
	if req.closed {
		req.mu.Unlock()
		return
	}
	req.busy = true
	req.mu.Unlock()
	defer func() {
		req.mu.Lock()
		req.busy = false
		req.mu.Unlock()
	}()
	et := sensor.EventFallingEdge
	if evt.Type == gpiocdev.LineEventRisingEdge {
		et = sensor.EventRisingEdge
	}
	req.ln.w.Notify(sensor.Event{
		Pin:       req.ln.pin,
		Type:      et,
		Timestamp: evt.Timestamp,
		Seqno:     evt.LineSeqno,
	})
}

// lineConfig returns the options to reconfigure a line for the edge.
//
// The debounce is only included if it is being set or cleared.
func lineConfig(edge sensor.Edge, debounce, prevDebounce time.Duration) []gpiocdev.LineConfigOption {
	opts := []gpiocdev.LineConfigOption{edgeOption(edge)}
	if debounce > 0 || prevDebounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(debounce))
	}
	return opts
}

// reqOptions returns the options to request a line for the edge.
func reqOptions(edge sensor.Edge, debounce time.Duration) []gpiocdev.LineReqOption {
	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput, edgeOption(edge)}
	if debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(debounce))
	}
	return opts
}

// needsRerequest returns true if the error indicates the kernel cannot
// reconfigure the edge detection of a requested line, as is the case for
// uAPI v1.
func needsRerequest(err error) bool {
	var uerr gpiocdev.ErrUapiIncompatibility
	return errors.Is(err, unix.EINVAL) || errors.As(err, &uerr)
}

func edgeOption(edge sensor.Edge) gpiocdev.LineEdge {
	switch edge {
	case sensor.EdgeRising:
		return gpiocdev.WithRisingEdge
	case sensor.EdgeFalling:
		return gpiocdev.WithFallingEdge
	case sensor.EdgeBoth:
		return gpiocdev.WithBothEdges
	}
	return gpiocdev.WithoutEdges
}

// requestError maps line request errors indicating the line cannot be
// claimed to gpiosensor.ErrPinUnavailable.
func requestError(err error) error {
	if errors.Is(err, unix.EBUSY) || errors.Is(err, gpiocdev.ErrInvalidOffset) {
		return fmt.Errorf("%w: %w", sensor.ErrPinUnavailable, err)
	}
	return err
}
