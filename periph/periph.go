// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package periph provides a gpiosensor.Backend using the periph.io host
// drivers.
//
// Pins are located by their BCM name, GPIOn, in the periph pin registry.
// Edges are detected by the periph driver, and debounce is performed in
// software.
package periph

import (
	"context"
	"fmt"
	"sync"
	"time"

	sensor "github.com/warthog618/go-gpiosensor"
	"github.com/warthog618/go-gpiosensor/internal/watch"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PinLookup returns the pin with the given name, or nil if there is no such
// pin.
type PinLookup func(name string) gpio.PinIO

// Periph is a gpiosensor.Backend using periph.io.
type Periph struct {
	lookup PinLookup
	poll   time.Duration
	start  time.Time

	// mu covers the attributes below it.
	mu        sync.Mutex
	numbering sensor.Numbering
	pins      map[int]*pin
}

type pin struct {
	pin int
	p   gpio.PinIO
	w   *watch.Pin

	// cmu serializes changes to the pin configuration.
	cmu  sync.Mutex
	edge sensor.Edge
	loop *watch.Loop
}

// Option defines the interface required to provide an option to New.
type Option interface {
	applyOption(*Periph)
}

// PinLookupOption specifies the function used to locate pins.
type PinLookupOption PinLookup

// WithPinLookup specifies the function used to locate pins.
//
// The default is gpioreg.ByName, with the host drivers loaded by New.
func WithPinLookup(lookup PinLookup) PinLookupOption {
	return PinLookupOption(lookup)
}

func (o PinLookupOption) applyOption(p *Periph) {
	p.lookup = PinLookup(o)
}

// PollOption specifies the maximum period an edge watcher blocks waiting for
// an edge before checking if it has been stopped.
type PollOption time.Duration

// WithPollInterval specifies the maximum period an edge watcher blocks
// waiting for an edge before checking if it has been stopped.
//
// The default is 100ms.
func WithPollInterval(period time.Duration) PollOption {
	return PollOption(period)
}

func (o PollOption) applyOption(p *Periph) {
	p.poll = time.Duration(o)
}

// New creates a Periph backend.
//
// Unless a pin lookup is provided, the periph host drivers are loaded, and
// an error wrapping gpiosensor.ErrBackendUnsupported is returned if that
// fails.
func New(opts ...Option) (*Periph, error) {
	p := Periph{
		poll:  100 * time.Millisecond,
		start: time.Now(),
		pins:  map[int]*pin{},
	}
	for _, opt := range opts {
		opt.applyOption(&p)
	}
	if p.lookup == nil {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("%w: %w", sensor.ErrBackendUnsupported, err)
		}
		p.lookup = gpioreg.ByName
	}
	return &p, nil
}

// SetNumbering sets the numbering convention used to map pins to BCM GPIOs.
func (p *Periph) SetNumbering(n sensor.Numbering) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pins) != 0 && n != p.numbering {
		return sensor.ErrConfigurationConflict
	}
	p.numbering = n
	return nil
}

// ConfigureInput configures the GPIO for the pin as an input, with edge
// detection disabled.
func (p *Periph) ConfigureInput(pn int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	gpioNum, err := p.numbering.Offset(pn)
	if err != nil {
		return err
	}
	if _, ok := p.pins[gpioNum]; ok {
		return sensor.ErrPinUnavailable
	}
	gp := p.lookup(fmt.Sprintf("GPIO%d", gpioNum))
	if gp == nil {
		return sensor.ErrPinUnavailable
	}
	if err := gp.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return err
	}
	p.pins[gpioNum] = &pin{pin: pn, p: gp, w: watch.New()}
	return nil
}

// WatchEdges enables edge detection on the GPIO of a configured pin.
//
// The events are detected by a goroutine dedicated to the pin, which calls
// the handler.
//
// If the driver rejects the edge the previous configuration is retained.
func (p *Periph) WatchEdges(pn int, edge sensor.Edge, debounce time.Duration, eh sensor.EventHandler) error {
	gp, err := p.lookupPin(pn)
	if err != nil {
		return err
	}
	gp.cmu.Lock()
	defer gp.cmu.Unlock()
	gp.stopWatcher()
	if err := gp.p.In(gpio.PullNoChange, pinEdge(edge)); err != nil {
		gp.startWatcher(p.poll, p.start)
		return err
	}
	gp.w.Install(edge, debounce, eh)
	gp.edge = edge
	gp.startWatcher(p.poll, p.start)
	return nil
}

// Value returns the level of the GPIO of a configured pin.
func (p *Periph) Value(pn int) (int, error) {
	gp, err := p.lookupPin(pn)
	if err != nil {
		return 0, err
	}
	if gp.p.Read() == gpio.High {
		return 1, nil
	}
	return 0, nil
}

// WaitEdge blocks until an edge is detected on the GPIO of a watched pin.
func (p *Periph) WaitEdge(ctx context.Context, pn int, edge sensor.Edge) (sensor.Event, error) {
	gp, err := p.lookupPin(pn)
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

// Release disables edge detection on the GPIO of the pin and halts it.
//
// Releasing a pin that is not configured is a no-op.
func (p *Periph) Release(pn int) error {
	p.mu.Lock()
	gpioNum, err := p.numbering.Offset(pn)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	gp, ok := p.pins[gpioNum]
	delete(p.pins, gpioNum)
	p.mu.Unlock()
	if !ok {
		return nil
	}
	gp.cmu.Lock()
	defer gp.cmu.Unlock()
	gp.stopWatcher()
	gp.w.Close()
	if err := gp.p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return err
	}
	return gp.p.Halt()
}

func (p *Periph) lookupPin(pn int) (*pin, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	gpioNum, err := p.numbering.Offset(pn)
	if err != nil {
		return nil, err
	}
	gp, ok := p.pins[gpioNum]
	if !ok {
		return nil, sensor.ErrPinUnavailable
	}
	return gp, nil
}

// assumes gp.cmu is locked.
func (gp *pin) startWatcher(poll time.Duration, start time.Time) {
	if gp.edge != sensor.EdgeNone {
		gp.loop = watch.Go(gp.w, gp.detector(poll, start))
	}
}

// assumes gp.cmu is locked.
func (gp *pin) stopWatcher() {
	if gp.loop == nil {
		return
	}
	gp.loop.Stop()
	gp.loop = nil
}

// detector waits for edges detected by the driver.
//
// The edge direction is taken from the level following the edge.
func (gp *pin) detector(poll time.Duration, start time.Time) watch.Detector {
	var seqno uint32
	return func(<-chan struct{}) (sensor.Event, bool) {
		if !gp.p.WaitForEdge(poll) {
			return sensor.Event{}, false
		}
		evt := sensor.Event{
			Pin:       gp.pin,
			Type:      sensor.EventFallingEdge,
			Timestamp: time.Since(start),
		}
		if gp.p.Read() == gpio.High {
			evt.Type = sensor.EventRisingEdge
		}
		seqno++
		evt.Seqno = seqno
		return evt, true
	}
}

func pinEdge(edge sensor.Edge) gpio.Edge {
	switch edge {
	case sensor.EdgeRising:
		return gpio.RisingEdge
	case sensor.EdgeFalling:
		return gpio.FallingEdge
	case sensor.EdgeBoth:
		return gpio.BothEdges
	}
	return gpio.NoEdge
}
