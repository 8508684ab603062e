// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package cdev

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiocdev"
	"github.com/warthog618/go-gpiosim"
	sensor "github.com/warthog618/go-gpiosensor"
	"golang.org/x/sys/unix"
)

func TestNeedsRerequest(t *testing.T) {
	patterns := []struct {
		name string
		err  error
		want bool
	}{
		{"einval", unix.EINVAL, true},
		{"wrapped einval", fmt.Errorf("reconfigure: %w", unix.EINVAL), true},
		{"uapi v1", gpiocdev.ErrUapiIncompatibility{Feature: "debounce", AbiVersion: 1}, true},
		{"closed", gpiocdev.ErrClosed, false},
		{"busy", unix.EBUSY, false},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			assert.Equal(t, p.want, needsRerequest(p.err))
		}
		t.Run(p.name, tf)
	}
}

func TestWatchEdgesRejected(t *testing.T) {
	s, err := gpiosim.NewSimpleton(4)
	if err != nil {
		t.Skip("gpio-sim unavailable:", err)
	}
	defer s.Close()
	c, err := New(WithChip(s.DevPath()))
	require.Nil(t, err)
	defer c.Close()

	offset := 1
	require.Nil(t, c.ConfigureInput(offset))
	require.Nil(t, c.WatchEdges(offset, sensor.EdgeRising, 0, nil))
	ln, err := c.line(offset)
	require.Nil(t, err)

	// the kernel request is gone, so the reconfigure fails
	ln.req.l.Close()
	err = c.WatchEdges(offset, sensor.EdgeFalling, 0, nil)
	assert.ErrorIs(t, err, gpiocdev.ErrClosed)

	// previous configuration retained
	ln2, err := c.line(offset)
	require.Nil(t, err)
	assert.Same(t, ln, ln2)
	assert.Equal(t, sensor.EdgeRising, ln.edge)
	assert.Equal(t, sensor.EdgeRising, ln.w.Edge())
}
