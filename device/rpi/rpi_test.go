// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package rpi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/go-gpiosensor/device/rpi"
)

var patterns = []struct {
	name string
	val  int
	err  error
}{
	{"gpio0", 0, rpi.ErrInvalid},
	{"gpio1", 0, rpi.ErrInvalid},
	{"gpio2", 2, nil},
	{"gpio02", 2, nil},
	{"GPIO2", 2, nil},
	{"Gpio17", 17, nil},
	{"gpio27", 27, nil},
	{"gpio28", 0, rpi.ErrInvalid},
	{"gpiox", 0, rpi.ErrInvalid},
	{"J8p1", 0, rpi.ErrInvalid},
	{"J8p2", 0, rpi.ErrInvalid},
	{"j8p3", 2, nil},
	{"J8P3", 2, nil},
	{"J8p7", 4, nil},
	{"J8p11", 17, nil},
	{"J8p14", 0, rpi.ErrInvalid},
	{"J8p27", 0, rpi.ErrInvalid},
	{"J8p28", 0, rpi.ErrInvalid},
	{"J8p40", 21, nil},
	{"J8p41", 0, rpi.ErrInvalid},
	{"0", 0, rpi.ErrInvalid},
	{"02", 2, nil},
	{"17", 17, nil},
	{"40", 0, rpi.ErrInvalid},
	{"", 0, rpi.ErrInvalid},
}

func TestPin(t *testing.T) {
	for _, p := range patterns {
		tf := func(t *testing.T) {
			val, err := rpi.Pin(p.name)
			assert.Equal(t, p.err, err)
			assert.Equal(t, p.val, val)
		}
		t.Run(p.name, tf)
	}
}

func TestMustPin(t *testing.T) {
	for _, p := range patterns {
		tf := func(t *testing.T) {
			if p.err != nil {
				assert.Panics(t, func() {
					rpi.MustPin(p.name)
				})
			} else {
				val := rpi.MustPin(p.name)
				assert.Equal(t, p.val, val)
			}
		}
		t.Run(p.name, tf)
	}
}

func TestLogical(t *testing.T) {
	patterns := []struct {
		physical int
		gpio     int
		err      error
	}{
		{1, 0, rpi.ErrInvalid},
		{3, 2, nil},
		{7, 4, nil},
		{11, 17, nil},
		{13, 27, nil},
		{27, 0, rpi.ErrInvalid},
		{40, 21, nil},
		{41, 0, rpi.ErrInvalid},
		{-1, 0, rpi.ErrInvalid},
	}
	for _, p := range patterns {
		g, err := rpi.Logical(p.physical)
		assert.Equal(t, p.err, err, p.physical)
		assert.Equal(t, p.gpio, g, p.physical)
	}
}

func TestPhysicalRoundTrip(t *testing.T) {
	for g := 2; g <= 27; g++ {
		p, err := rpi.Physical(g)
		assert.Nil(t, err, g)
		l, err := rpi.Logical(p)
		assert.Nil(t, err, g)
		assert.Equal(t, g, l)
	}
	_, err := rpi.Physical(28)
	assert.Equal(t, rpi.ErrInvalid, err)
}
