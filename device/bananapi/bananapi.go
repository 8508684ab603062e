// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package bananapi maps the Raspberry Pi compatible pin names of the Banana Pi
// header to GPIO chip line offsets.
package bananapi

import (
	"errors"

	"github.com/warthog618/go-gpiosensor/device/rpi"
)

// offsets maps the Raspberry Pi compatible GPIO numbers to line offsets.
var offsets = map[int]int{
	2:  53,
	3:  52,
	4:  259,
	5:  37,
	6:  38,
	7:  270,
	8:  266,
	9:  269,
	10: 268,
	11: 267,
	12: 38,
	13: 39,
	14: 224,
	15: 225,
	16: 277,
	17: 275,
	18: 226,
	19: 40,
	20: 276,
	21: 45,
	22: 273,
	23: 244,
	24: 245,
	25: 272,
	26: 35,
	27: 274,
}

// ErrInvalid indicates the pin does not match a known pin.
var ErrInvalid = errors.New("invalid pin")

// Offset returns the line offset of the Raspberry Pi compatible GPIO.
func Offset(gpio int) (int, error) {
	o, ok := offsets[gpio]
	if !ok {
		return 0, ErrInvalid
	}
	return o, nil
}

// Pin maps a pin name to a line offset.
//
// Pin names are as for rpi.Pin, J8pX or GPIOX, and are mapped to the line
// wired to the same position on the header.
func Pin(s string) (int, error) {
	g, err := rpi.Pin(s)
	if err != nil {
		return 0, ErrInvalid
	}
	return Offset(g)
}
