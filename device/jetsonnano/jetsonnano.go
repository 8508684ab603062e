// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
// SPDX-FileCopyrightText: 2023 Alex Bucknall <alex.bucknall@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package jetsonnano maps the pin names of the Jetson Nano J41 header to
// GPIO chip line offsets.
package jetsonnano

import (
	"errors"
	"strconv"
	"strings"

	"github.com/warthog618/go-gpiosensor/device/rpi"
)

// j41 maps J41 header positions to tegra-gpio line offsets.
var j41 = map[int]int{
	7:  216,
	11: 50,
	12: 79,
	13: 14,
	15: 194,
	16: 232,
	18: 15,
	19: 16,
	21: 17,
	22: 13,
	23: 18,
	24: 19,
	26: 20,
	29: 149,
	31: 200,
	32: 168,
	33: 38,
	35: 76,
	36: 51,
	37: 12,
	38: 77,
	40: 78,
}

// ErrInvalid indicates the pin does not match a known pin.
var ErrInvalid = errors.New("invalid pin")

// Offset returns the line offset wired to the J41 header position.
func Offset(position int) (int, error) {
	o, ok := j41[position]
	if !ok {
		return 0, ErrInvalid
	}
	return o, nil
}

// Pin maps a pin name to a line offset.
//
// Pin names are case insensitive and may be of the form J41pX, where X is the
// header position, or GPIOX, where X is the Raspberry Pi compatible GPIO
// number.
func Pin(s string) (int, error) {
	s = strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "j41p"):
		v, err := strconv.ParseUint(s[4:], 10, 8)
		if err != nil {
			return 0, ErrInvalid
		}
		return Offset(int(v))
	case strings.HasPrefix(s, "gpio"):
		v, err := strconv.ParseUint(s[4:], 10, 8)
		if err != nil {
			return 0, ErrInvalid
		}
		p, err := rpi.Physical(int(v))
		if err != nil {
			return 0, ErrInvalid
		}
		return Offset(p)
	}
	return 0, ErrInvalid
}

// MustPin converts the string to the corresponding line offset or panics if
// that is not possible.
func MustPin(s string) int {
	v, err := Pin(s)
	if err != nil {
		panic(err)
	}
	return v
}
