// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package mockup_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sensor "github.com/warthog618/go-gpiosensor"
	"github.com/warthog618/go-gpiosensor/mockup"
)

func TestNew(t *testing.T) {
	m := mockup.New()
	v, err := m.LineValue(63)
	assert.Nil(t, err)
	assert.Equal(t, 0, v)
	_, err = m.LineValue(64)
	assert.Equal(t, mockup.ErrorIndexRange{Req: 64, Limit: 64}, err)

	m = mockup.New(mockup.WithLines(4))
	_, err = m.LineValue(4)
	assert.Equal(t, mockup.ErrorIndexRange{Req: 4, Limit: 4}, err)
	_, err = m.LineValue(-1)
	assert.Equal(t, mockup.ErrorIndexRange{Req: -1, Limit: 4}, err)

	_, ok := m.Numbering()
	assert.False(t, ok)
}

func TestSetNumbering(t *testing.T) {
	m := mockup.New()
	assert.Nil(t, m.SetNumbering(sensor.NumberingPhysical))
	assert.Nil(t, m.SetNumbering(sensor.NumberingPhysical))
	assert.Equal(t, sensor.ErrConfigurationConflict, m.SetNumbering(sensor.NumberingLogical))
	n, ok := m.Numbering()
	assert.True(t, ok)
	assert.Equal(t, sensor.NumberingPhysical, n)
}

func TestConfigureInput(t *testing.T) {
	m := mockup.New(mockup.WithLines(8))
	require.Nil(t, m.SetNumbering(sensor.NumberingLogical))

	assert.Nil(t, m.ConfigureInput(3))
	assert.True(t, m.Claimed(3))
	assert.Equal(t, sensor.EdgeNone, m.Edge(3))

	assert.Equal(t, sensor.ErrPinUnavailable, m.ConfigureInput(3))

	err := m.ConfigureInput(8)
	assert.True(t, errors.Is(err, sensor.ErrPinUnavailable))
	var ier mockup.ErrorIndexRange
	assert.True(t, errors.As(err, &ier))

	assert.Nil(t, m.Release(3))
	assert.False(t, m.Claimed(3))
	assert.Nil(t, m.Release(3))
	assert.Nil(t, m.ConfigureInput(3))
}

func TestValue(t *testing.T) {
	m := mockup.New(mockup.WithLines(8))

	_, err := m.Value(2)
	assert.Equal(t, sensor.ErrPinUnavailable, err)

	require.Nil(t, m.ConfigureInput(2))
	v, err := m.Value(2)
	assert.Nil(t, err)
	assert.Equal(t, 0, v)

	require.Nil(t, m.SetValue(2, 5))
	v, err = m.Value(2)
	assert.Nil(t, err)
	assert.Equal(t, 1, v)

	require.Nil(t, m.Toggle(2))
	v, err = m.Value(2)
	assert.Nil(t, err)
	assert.Equal(t, 0, v)

	assert.Equal(t, mockup.ErrorIndexRange{Req: 9, Limit: 8}, m.SetValue(9, 1))
	assert.Equal(t, mockup.ErrorIndexRange{Req: 9, Limit: 8}, m.Toggle(9))
}

func TestWatchEdges(t *testing.T) {
	m := mockup.New(mockup.WithLines(8))
	eh := func(sensor.Event) {}

	assert.Equal(t, sensor.ErrPinUnavailable, m.WatchEdges(2, sensor.EdgeBoth, 0, eh))

	require.Nil(t, m.ConfigureInput(2))
	var evts []sensor.Event
	err := m.WatchEdges(2, sensor.EdgeRising, time.Millisecond, func(evt sensor.Event) {
		evts = append(evts, evt)
	})
	require.Nil(t, err)
	assert.Equal(t, sensor.EdgeRising, m.Edge(2))
	assert.Equal(t, time.Millisecond, m.Debounce(2))

	m.SetValue(2, 1)
	require.Len(t, evts, 1)
	assert.Equal(t, 2, evts[0].Pin)
	assert.Equal(t, sensor.EventRisingEdge, evts[0].Type)

	m.SetValue(2, 0)
	assert.Len(t, evts, 1)

	require.Nil(t, m.Release(2))
	assert.Equal(t, sensor.EdgeNone, m.Edge(2))
	assert.Equal(t, time.Duration(0), m.Debounce(2))
	m.SetValue(2, 1)
	assert.Len(t, evts, 1)
}

func TestWaitEdge(t *testing.T) {
	m := mockup.New(mockup.WithLines(8))
	ctx := context.Background()

	_, err := m.WaitEdge(ctx, 2, sensor.EdgeBoth)
	assert.Equal(t, sensor.ErrPinUnavailable, err)

	require.Nil(t, m.ConfigureInput(2))
	_, err = m.WaitEdge(ctx, 2, sensor.EdgeBoth)
	assert.Equal(t, sensor.ErrInvalidEdge, err)

	require.Nil(t, m.WatchEdges(2, sensor.EdgeRising, 0, nil))
	_, err = m.WaitEdge(ctx, 2, sensor.EdgeFalling)
	assert.Equal(t, sensor.ErrInvalidEdge, err)

	done := make(chan sensor.Event, 1)
	go func() {
		evt, err := m.WaitEdge(ctx, 2, sensor.EdgeRising)
		assert.Nil(t, err)
		done <- evt
	}()
	require.Eventually(t, func() bool { return m.Waiters(2) == 1 },
		time.Second, time.Millisecond)
	m.SetValue(2, 1)
	select {
	case evt := <-done:
		assert.Equal(t, sensor.EventRisingEdge, evt.Type)
		assert.Equal(t, uint32(1), evt.Seqno)
	case <-time.After(time.Second):
		assert.Fail(t, "timeout waiting for edge")
	}
	assert.Equal(t, 0, m.Waiters(5))
}

func TestFailNext(t *testing.T) {
	m := mockup.New()
	fault := errors.New("fault")

	m.FailNext(mockup.OpConfigureInput, fault)
	assert.Equal(t, fault, m.ConfigureInput(1))
	assert.False(t, m.Claimed(1))
	assert.Nil(t, m.ConfigureInput(1))

	m.FailNext(mockup.OpRelease, fault)
	assert.Equal(t, fault, m.Release(1))
	assert.True(t, m.Claimed(1))
	assert.Nil(t, m.Release(1))
}
