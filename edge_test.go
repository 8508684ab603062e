// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package gpiosensor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	sensor "github.com/warthog618/go-gpiosensor"
)

func TestEdgeIncludes(t *testing.T) {
	patterns := []struct {
		edge    sensor.Edge
		rising  bool
		falling bool
	}{
		{sensor.EdgeNone, false, false},
		{sensor.EdgeRising, true, false},
		{sensor.EdgeFalling, false, true},
		{sensor.EdgeBoth, true, true},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			assert.Equal(t, p.rising, p.edge.Includes(sensor.EventRisingEdge))
			assert.Equal(t, p.falling, p.edge.Includes(sensor.EventFallingEdge))
			assert.False(t, p.edge.Includes(sensor.EventType(0)))
		}
		t.Run(p.edge.String(), tf)
	}
}

func TestEdgeCovers(t *testing.T) {
	assert.True(t, sensor.EdgeBoth.Covers(sensor.EdgeRising))
	assert.True(t, sensor.EdgeBoth.Covers(sensor.EdgeFalling))
	assert.True(t, sensor.EdgeBoth.Covers(sensor.EdgeBoth))
	assert.True(t, sensor.EdgeRising.Covers(sensor.EdgeRising))
	assert.False(t, sensor.EdgeRising.Covers(sensor.EdgeFalling))
	assert.False(t, sensor.EdgeRising.Covers(sensor.EdgeBoth))
	assert.False(t, sensor.EdgeBoth.Covers(sensor.EdgeNone))
	assert.False(t, sensor.EdgeBoth.Covers(sensor.Edge(4)))
}

func TestParseEdge(t *testing.T) {
	patterns := []struct {
		name string
		edge sensor.Edge
		err  error
	}{
		{"rising", sensor.EdgeRising, nil},
		{"Falling", sensor.EdgeFalling, nil},
		{"BOTH", sensor.EdgeBoth, nil},
		{"", sensor.EdgeBoth, nil},
		{"none", sensor.EdgeNone, sensor.ErrInvalidEdge},
		{"up", sensor.EdgeNone, sensor.ErrInvalidEdge},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			edge, err := sensor.ParseEdge(p.name)
			assert.Equal(t, p.edge, edge)
			assert.True(t, errors.Is(err, p.err), err)
			if p.err == nil {
				assert.Nil(t, err)
			}
		}
		t.Run(p.name, tf)
	}
	assert.Equal(t, "Edge(4)", sensor.Edge(4).String())
}

func TestParseNumbering(t *testing.T) {
	patterns := []struct {
		name      string
		numbering sensor.Numbering
		ok        bool
	}{
		{"logical", sensor.NumberingLogical, true},
		{"BCM", sensor.NumberingLogical, true},
		{"", sensor.NumberingLogical, true},
		{"physical", sensor.NumberingPhysical, true},
		{"Board", sensor.NumberingPhysical, true},
		{"wiringpi", sensor.NumberingLogical, false},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			n, err := sensor.ParseNumbering(p.name)
			assert.Equal(t, p.numbering, n)
			if p.ok {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
			}
		}
		t.Run(p.name, tf)
	}
	assert.Equal(t, "logical", sensor.NumberingLogical.String())
	assert.Equal(t, "physical", sensor.NumberingPhysical.String())
}

func TestNumberingOffset(t *testing.T) {
	o, err := sensor.NumberingLogical.Offset(17)
	assert.Nil(t, err)
	assert.Equal(t, 17, o)

	_, err = sensor.NumberingLogical.Offset(-1)
	assert.Equal(t, sensor.ErrPinUnavailable, err)

	o, err = sensor.NumberingPhysical.Offset(11)
	assert.Nil(t, err)
	assert.Equal(t, 17, o)

	_, err = sensor.NumberingPhysical.Offset(1)
	assert.True(t, errors.Is(err, sensor.ErrPinUnavailable))

	_, err = sensor.Numbering(5).Offset(1)
	assert.Equal(t, sensor.ErrConfigurationConflict, err)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "rising", sensor.EventRisingEdge.String())
	assert.Equal(t, "falling", sensor.EventFallingEdge.String())
	assert.Equal(t, "EventType(0)", sensor.EventType(0).String())
}
