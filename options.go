// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package gpiosensor

import (
	"time"

	"github.com/sirupsen/logrus"
)

// BoardOption defines the interface required to provide a Board option.
type BoardOption interface {
	applyBoardOption(*boardOptions)
}

// boardOptions contains the options for a Board.
type boardOptions struct {
	numbering Numbering
	log       logrus.FieldLogger
}

// SensorOption defines the interface required to provide an option for
// NewSensor.
type SensorOption interface {
	applySensorOption(*sensorOptions)
}

// sensorOptions contains the options for a Sensor.
type sensorOptions struct {
	numbering    Numbering
	hasNumbering bool
	edge         Edge
	debounce     time.Duration
}

// EdgeModeOption defines the interface required to provide an option for
// Sensor.SetEdgeMode.
type EdgeModeOption interface {
	applyEdgeModeOption(*edgeModeOptions)
}

type edgeModeOptions struct {
	debounce time.Duration
}

// NumberingOption specifies the pin numbering convention.
type NumberingOption Numbering

// WithNumbering specifies the pin numbering convention.
//
// When applied to a Board it sets the convention for all sensors on the
// board. When applied to a Sensor it asserts the convention, and the sensor
// cannot be created if it differs from the board's.
func WithNumbering(n Numbering) NumberingOption {
	return NumberingOption(n)
}

func (o NumberingOption) applyBoardOption(bo *boardOptions) {
	bo.numbering = Numbering(o)
}

func (o NumberingOption) applySensorOption(so *sensorOptions) {
	so.numbering = Numbering(o)
	so.hasNumbering = true
}

// LoggerOption specifies the logger used by a Board and its sensors.
type LoggerOption struct {
	log logrus.FieldLogger
}

// WithLogger specifies the logger used by a Board and its sensors.
//
// The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) LoggerOption {
	return LoggerOption{log}
}

func (o LoggerOption) applyBoardOption(bo *boardOptions) {
	bo.log = o.log
}

// EdgeOption indicates the edges a sensor will generate events for.
type EdgeOption Edge

const (
	// WithRisingEdge indicates that a sensor will generate events when its
	// level transitions from low to high.
	WithRisingEdge = EdgeOption(EdgeRising)

	// WithFallingEdge indicates that a sensor will generate events when its
	// level transitions from high to low.
	WithFallingEdge = EdgeOption(EdgeFalling)

	// WithBothEdges indicates that a sensor will generate events when its
	// level transitions in either direction.
	//
	// This is the default.
	WithBothEdges = EdgeOption(EdgeBoth)
)

func (o EdgeOption) applySensorOption(so *sensorOptions) {
	so.edge = Edge(o)
}

// DebounceOption indicates a sensor is debounced.
type DebounceOption time.Duration

// WithDebounce sets the period used to suppress spurious rapid transitions,
// such as switch bounce, from being reported as distinct edges.
//
// Whether the period is applied in the kernel or in software depends on the
// backend.
//
// A zero period disables debouncing.
func WithDebounce(period time.Duration) DebounceOption {
	return DebounceOption(period)
}

func (o DebounceOption) applySensorOption(so *sensorOptions) {
	so.debounce = time.Duration(o)
}

func (o DebounceOption) applyEdgeModeOption(eo *edgeModeOptions) {
	eo.debounce = time.Duration(o)
}
