// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package rpi maps between the physical pin positions on the Raspberry Pi J8
// header and the logical GPIO (BCM) line numbers.
package rpi

import (
	"errors"
	"strconv"
	"strings"
)

// j8 maps J8 header positions to BCM GPIO numbers.
//
// Only positions wired to GPIO lines are included - power, ground and the
// ID EEPROM pins are not.
var j8 = map[int]int{
	3:  2,
	5:  3,
	7:  4,
	8:  14,
	10: 15,
	11: 17,
	12: 18,
	13: 27,
	15: 22,
	16: 23,
	18: 24,
	19: 10,
	21: 9,
	22: 25,
	23: 11,
	24: 8,
	26: 7,
	29: 5,
	31: 6,
	32: 12,
	33: 13,
	35: 19,
	36: 16,
	37: 26,
	38: 20,
	40: 21,
}

// bcm is the inverse of j8.
var bcm = func() map[int]int {
	m := make(map[int]int, len(j8))
	for p, g := range j8 {
		m[g] = p
	}
	return m
}()

// ErrInvalid indicates the pin does not match a known pin.
var ErrInvalid = errors.New("invalid pin")

// Logical returns the BCM GPIO number wired to the J8 header position.
func Logical(physical int) (int, error) {
	g, ok := j8[physical]
	if !ok {
		return 0, ErrInvalid
	}
	return g, nil
}

// Physical returns the J8 header position wired to the BCM GPIO.
func Physical(gpio int) (int, error) {
	p, ok := bcm[gpio]
	if !ok {
		return 0, ErrInvalid
	}
	return p, nil
}

// Pin maps a pin string name to a BCM GPIO number.
//
// Pin names are case insensitive and may be of the form J8pX, where X is the
// header position, or GPIOX or X, where X is the GPIO number.
func Pin(s string) (int, error) {
	s = strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "j8p"):
		v, err := strconv.ParseUint(s[3:], 10, 8)
		if err != nil {
			return 0, ErrInvalid
		}
		return Logical(int(v))
	case strings.HasPrefix(s, "gpio"):
		s = s[4:]
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, ErrInvalid
	}
	if _, err := Physical(int(v)); err != nil {
		return 0, err
	}
	return int(v), nil
}

// MustPin converts the string to the corresponding GPIO number or panics if
// that is not possible.
func MustPin(s string) int {
	v, err := Pin(s)
	if err != nil {
		panic(err)
	}
	return v
}
