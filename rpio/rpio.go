// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// Package rpio provides a gpiosensor.Backend driving the Raspberry Pi GPIO
// registers directly, using go-rpio.
//
// Edge detection is performed by the hardware, but the detect flags are
// polled, so edges closer together than the poll interval are merged.
// Debounce is performed in software.
package rpio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
	sensor "github.com/warthog618/go-gpiosensor"
	"github.com/warthog618/go-gpiosensor/internal/watch"
)

// NumGPIOs is the number of GPIOs provided by the BCM283x.
const NumGPIOs = 54

// Pin is the subset of rpio.Pin used by the backend.
type Pin interface {
	Input()
	Read() rpio.State
	Detect(edge rpio.Edge)
	EdgeDetected() bool
}

// PinFactory returns the Pin for a BCM GPIO.
type PinFactory func(gpio int) Pin

// Rpio is a gpiosensor.Backend using go-rpio.
type Rpio struct {
	factory PinFactory
	poll    time.Duration
	start   time.Time
	opened  bool

	// mu covers the attributes below it.
	mu        sync.Mutex
	numbering sensor.Numbering
	pins      map[int]*pin
	closed    bool
}

type pin struct {
	pin int
	p   Pin
	w   *watch.Pin

	// cmu serializes changes to the pin configuration.
	cmu  sync.Mutex
	edge   sensor.Edge
	loop   *watch.Loop
	ticker *time.Ticker
}

// Option defines the interface required to provide an option to New.
type Option interface {
	applyOption(*Rpio)
}

// PinFactoryOption specifies the function used to access GPIOs.
type PinFactoryOption PinFactory

// WithPinFactory specifies the function used to access GPIOs.
//
// The default maps the GPIO registers and returns rpio.Pin.
func WithPinFactory(f PinFactory) PinFactoryOption {
	return PinFactoryOption(f)
}

func (o PinFactoryOption) applyOption(r *Rpio) {
	r.factory = PinFactory(o)
}

// PollOption specifies the period between checks of the edge detect flags.
type PollOption time.Duration

// WithPollInterval specifies the period between checks of the edge detect
// flags.
//
// The default is 5ms.
func WithPollInterval(period time.Duration) PollOption {
	return PollOption(period)
}

func (o PollOption) applyOption(r *Rpio) {
	r.poll = time.Duration(o)
}

// New creates an Rpio backend.
//
// Unless a pin factory is provided, the GPIO registers are mapped, and an
// error wrapping gpiosensor.ErrBackendUnsupported is returned if that
// fails.
func New(opts ...Option) (*Rpio, error) {
	r := Rpio{
		poll:  5 * time.Millisecond,
		start: time.Now(),
		pins:  map[int]*pin{},
	}
	for _, opt := range opts {
		opt.applyOption(&r)
	}
	if r.factory == nil {
		if err := rpio.Open(); err != nil {
			return nil, fmt.Errorf("%w: %w", sensor.ErrBackendUnsupported, err)
		}
		r.opened = true
		r.factory = func(gpio int) Pin {
			return rpio.Pin(gpio)
		}
	}
	return &r, nil
}

// SetNumbering sets the numbering convention used to map pins to BCM GPIOs.
func (r *Rpio) SetNumbering(n sensor.Numbering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pins) != 0 && n != r.numbering {
		return sensor.ErrConfigurationConflict
	}
	r.numbering = n
	return nil
}

// ConfigureInput configures the GPIO for the pin as an input, with edge
// detection disabled.
func (r *Rpio) ConfigureInput(pn int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return sensor.ErrClosed
	}
	gpio, err := r.numbering.Offset(pn)
	if err != nil {
		return err
	}
	if gpio >= NumGPIOs {
		return sensor.ErrPinUnavailable
	}
	if _, ok := r.pins[gpio]; ok {
		return sensor.ErrPinUnavailable
	}
	p := r.factory(gpio)
	p.Input()
	p.Detect(rpio.NoEdge)
	r.pins[gpio] = &pin{pin: pn, p: p, w: watch.New()}
	return nil
}

// WatchEdges enables edge detection on the GPIO of a configured pin.
//
// The detect flags are polled by a goroutine dedicated to the pin, which
// calls the handler.
func (r *Rpio) WatchEdges(pn int, edge sensor.Edge, debounce time.Duration, eh sensor.EventHandler) error {
	gp, err := r.lookupPin(pn)
	if err != nil {
		return err
	}
	gp.cmu.Lock()
	defer gp.cmu.Unlock()
	gp.stopWatcher()
	gp.w.Install(edge, debounce, eh)
	gp.p.Detect(pinEdge(edge))
	gp.edge = edge
	if edge != sensor.EdgeNone {
		gp.ticker = time.NewTicker(r.poll)
		gp.loop = watch.Go(gp.w, gp.detector(gp.ticker.C, r.start))
	}
	return nil
}

// Value returns the level of the GPIO of a configured pin.
func (r *Rpio) Value(pn int) (int, error) {
	gp, err := r.lookupPin(pn)
	if err != nil {
		return 0, err
	}
	return int(gp.p.Read()), nil
}

// WaitEdge blocks until an edge is detected on the GPIO of a watched pin.
func (r *Rpio) WaitEdge(ctx context.Context, pn int, edge sensor.Edge) (sensor.Event, error) {
	gp, err := r.lookupPin(pn)
	if err != nil {
		return sensor.Event{}, err
	}
	gp.cmu.Lock()
	mode := gp.edge
	gp.cmu.Unlock()
	if !mode.Covers(edge) {
		return sensor.Event{}, sensor.ErrInvalidEdge
	}
	return gp.w.Wait(ctx, edge)
}

// Release disables edge detection on the GPIO of the pin.
//
// Releasing a pin that is not configured is a no-op.
func (r *Rpio) Release(pn int) error {
	r.mu.Lock()
	gpio, err := r.numbering.Offset(pn)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	gp, ok := r.pins[gpio]
	delete(r.pins, gpio)
	r.mu.Unlock()
	if ok {
		gp.release()
	}
	return nil
}

// Close releases all pins and unmaps the GPIO registers, if they were mapped
// by New.
func (r *Rpio) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return sensor.ErrClosed
	}
	r.closed = true
	pins := r.pins
	r.pins = map[int]*pin{}
	r.mu.Unlock()
	for _, gp := range pins {
		gp.release()
	}
	if r.opened {
		return rpio.Close()
	}
	return nil
}

func (r *Rpio) lookupPin(pn int) (*pin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, sensor.ErrClosed
	}
	gpio, err := r.numbering.Offset(pn)
	if err != nil {
		return nil, err
	}
	gp, ok := r.pins[gpio]
	if !ok {
		return nil, sensor.ErrPinUnavailable
	}
	return gp, nil
}

func (gp *pin) release() {
	gp.cmu.Lock()
	defer gp.cmu.Unlock()
	gp.stopWatcher()
	gp.w.Close()
	gp.edge = sensor.EdgeNone
	gp.p.Detect(rpio.NoEdge)
}

// assumes gp.cmu is locked.
func (gp *pin) stopWatcher() {
	if gp.loop == nil {
		return
	}
	gp.loop.Stop()
	gp.ticker.Stop()
	gp.loop = nil
	gp.ticker = nil
}

// detector polls the detect flag of the pin.
//
// The edge direction is taken from the level following the edge.
func (gp *pin) detector(tick <-chan time.Time, start time.Time) watch.Detector {
	var seqno uint32
	return func(stop <-chan struct{}) (sensor.Event, bool) {
		select {
		case <-stop:
			return sensor.Event{}, false
		case <-tick:
		}
		if !gp.p.EdgeDetected() {
			return sensor.Event{}, false
		}
		seqno++
		evt := sensor.Event{
			Pin:       gp.pin,
			Type:      sensor.EventFallingEdge,
			Timestamp: time.Since(start),
			Seqno:     seqno,
		}
		if gp.p.Read() == rpio.High {
			evt.Type = sensor.EventRisingEdge
		}
		return evt, true
	}
}

func pinEdge(edge sensor.Edge) rpio.Edge {
	switch edge {
	case sensor.EdgeRising:
		return rpio.RiseEdge
	case sensor.EdgeFalling:
		return rpio.FallEdge
	case sensor.EdgeBoth:
		return rpio.AnyEdge
	}
	return rpio.NoEdge
}
