// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package gpiosensor

import (
	"fmt"
	"strings"
	"time"

	"github.com/warthog618/go-gpiosensor/device/rpi"
)

// Edge indicates the edges detected by a sensor.
type Edge int

const (
	// EdgeNone indicates edge detection is disabled.
	EdgeNone Edge = iota

	// EdgeRising indicates rising edge detection, i.e. low to high.
	EdgeRising

	// EdgeFalling indicates falling edge detection, i.e. high to low.
	EdgeFalling

	// EdgeBoth indicates both rising and falling edge detection.
	EdgeBoth = EdgeRising | EdgeFalling
)

// Includes returns true if events of type t are detected by the edge.
func (e Edge) Includes(t EventType) bool {
	switch t {
	case EventRisingEdge:
		return e&EdgeRising != 0
	case EventFallingEdge:
		return e&EdgeFalling != 0
	}
	return false
}

// Covers returns true if all the edges in o are detected by e.
func (e Edge) Covers(o Edge) bool {
	return o != EdgeNone && e&o == o
}

func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	}
	return fmt.Sprintf("Edge(%d)", int(e))
}

// ParseEdge converts the name of an edge, as returned by Edge.String, to the
// Edge.
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(s) {
	case "rising":
		return EdgeRising, nil
	case "falling":
		return EdgeFalling, nil
	case "both", "":
		return EdgeBoth, nil
	}
	return EdgeNone, fmt.Errorf("%w: '%s'", ErrInvalidEdge, s)
}

// Numbering indicates the convention used to identify pins.
type Numbering int

const (
	// NumberingLogical identifies pins by their line offset on the GPIO chip,
	// e.g. the BCM GPIO number on a Raspberry Pi.
	NumberingLogical Numbering = iota

	// NumberingPhysical identifies pins by their position on the board
	// header, e.g. J8 pin 11 on a Raspberry Pi.
	NumberingPhysical
)

func (n Numbering) String() string {
	switch n {
	case NumberingLogical:
		return "logical"
	case NumberingPhysical:
		return "physical"
	}
	return fmt.Sprintf("Numbering(%d)", int(n))
}

// Offset maps a pin in the numbering convention to its line offset.
func (n Numbering) Offset(pin int) (int, error) {
	switch n {
	case NumberingLogical:
		if pin < 0 {
			return 0, ErrPinUnavailable
		}
		return pin, nil
	case NumberingPhysical:
		o, err := rpi.Logical(pin)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrPinUnavailable, err)
		}
		return o, nil
	}
	return 0, ErrConfigurationConflict
}

// ParseNumbering converts the name of a numbering convention to the
// Numbering.
//
// The RPi.GPIO names, "bcm" and "board", are accepted as aliases.
func ParseNumbering(s string) (Numbering, error) {
	switch strings.ToLower(s) {
	case "logical", "bcm", "":
		return NumberingLogical, nil
	case "physical", "board":
		return NumberingPhysical, nil
	}
	return NumberingLogical, fmt.Errorf("unknown numbering '%s'", s)
}

// EventType indicates the type of level transition an Event represents.
type EventType int

const (
	_ EventType = iota

	// EventRisingEdge indicates a low to high transition.
	EventRisingEdge

	// EventFallingEdge indicates a high to low transition.
	EventFallingEdge
)

func (t EventType) String() string {
	switch t {
	case EventRisingEdge:
		return "rising"
	case EventFallingEdge:
		return "falling"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event represents an edge detected on a sensor pin.
type Event struct {
	// The pin, in the numbering convention of the board.
	Pin int

	// The type of transition.
	Type EventType

	// Timestamp indicates the time the event was detected.
	//
	// It is intended for measuring intervals between events and is not
	// based on a particular clock.
	Timestamp time.Duration

	// Seqno is the sequence number of the event on the pin, as reported by
	// the backend. Zero if the backend does not number events.
	Seqno uint32
}

// EventHandler is a receiver for edge events.
type EventHandler func(Event)
