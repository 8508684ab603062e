// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package jetsonnano_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/go-gpiosensor/device/jetsonnano"
)

func TestPin(t *testing.T) {
	patterns := []struct {
		name string
		val  int
		err  error
	}{
		{"J41p7", 216, nil},
		{"j41p40", 78, nil},
		{"GPIO17", 50, nil},
		{"gpio4", 216, nil},
		{"J41p1", 0, jetsonnano.ErrInvalid},
		{"J41pX", 0, jetsonnano.ErrInvalid},
		{"GPIO1", 0, jetsonnano.ErrInvalid},
		{"17", 0, jetsonnano.ErrInvalid},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			v, err := jetsonnano.Pin(p.name)
			assert.Equal(t, p.err, err)
			assert.Equal(t, p.val, v)
		}
		t.Run(p.name, tf)
	}
}

func TestMustPin(t *testing.T) {
	assert.Equal(t, 12, jetsonnano.MustPin("J41p37"))
	assert.Panics(t, func() { jetsonnano.MustPin("J41p2") })
}
