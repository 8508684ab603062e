// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package main

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosensor"
)

func TestParsePin(t *testing.T) {
	patterns := []struct {
		name      string
		numbering gpiosensor.Numbering
		header    string
		in        string
		val       int
		err       bool
	}{
		{"logical", gpiosensor.NumberingLogical, "rpi", "17", 17, false},
		{"logical beyond header", gpiosensor.NumberingLogical, "rpi", "112", 112, false},
		{"gpio name", gpiosensor.NumberingLogical, "rpi", "GPIO4", 4, false},
		{"j8 name", gpiosensor.NumberingLogical, "rpi", "J8p11", 17, false},
		{"logical junk", gpiosensor.NumberingLogical, "rpi", "nonsense", 0, true},
		{"physical", gpiosensor.NumberingPhysical, "rpi", "11", 11, false},
		{"physical j8 name", gpiosensor.NumberingPhysical, "rpi", "j8p40", 40, false},
		{"physical gpio name", gpiosensor.NumberingPhysical, "rpi", "GPIO4", 0, true},
		{"bananapi name", gpiosensor.NumberingLogical, "bananapi", "GPIO17", 275, false},
		{"jetsonnano name", gpiosensor.NumberingLogical, "JetsonNano", "J41p7", 216, false},
		{"unknown header", gpiosensor.NumberingLogical, "odroid", "GPIO17", 0, true},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			v, err := parsePin(p.in, p.numbering, p.header)
			if p.err {
				assert.NotNil(t, err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, p.val, v)
		}
		t.Run(p.name, tf)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("GPIOSENSOR_CHIP", "gpiochip4")
	t.Setenv("GPIOSENSOR_NUMBERING", "logical")
	t.Setenv("GPIOSENSOR_LOG_LEVEL", "info")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("numbering", "N", "logical", "")
	cmd.Flags().String("log-level", "warning", "")
	cmd.Flags().String("config-file", "nonexistent.json", "")
	cmd.Flags().UintP("num-events", "n", 0, "")
	require.Nil(t, cmd.Flags().Parse([]string{"-N", "physical", "--num-events", "3"}))

	m := flagMap(cmd.Flags())
	assert.Equal(t, map[string]interface{}{
		"numbering":  "physical",
		"num.events": "3",
	}, m)

	cfg := loadConfig(cmd)
	// flag
	assert.Equal(t, "physical", cfg.MustGet("numbering").String())
	assert.Equal(t, 3, cfg.MustGet("num.events").Int())
	// env
	assert.Equal(t, "gpiochip4", cfg.MustGet("chip").String())
	assert.Equal(t, "info", cfg.MustGet("log.level").String())
	// default
	assert.Equal(t, "cdev", cfg.MustGet("backend").String())
	assert.Equal(t, "both", cfg.MustGet("edge").String())
	assert.Equal(t, "rpi", cfg.MustGet("header").String())
}

func TestNewBackend(t *testing.T) {
	t.Setenv("GPIOSENSOR_BACKEND", "gpiomem")
	cmd := &cobra.Command{Use: "test"}
	cfg := loadConfig(cmd)
	_, err := newBackend(cfg)
	assert.True(t, errors.Is(err, gpiosensor.ErrBackendUnsupported))

	t.Setenv("GPIOSENSOR_BACKEND", "cdev")
	t.Setenv("GPIOSENSOR_CHIP", "/dev/nonexistent")
	cfg = loadConfig(cmd)
	_, err = newBoard(cfg)
	assert.True(t, errors.Is(err, gpiosensor.ErrBackendUnsupported))

	t.Setenv("GPIOSENSOR_LOG_LEVEL", "chatty")
	cfg = loadConfig(cmd)
	_, err = newBoard(cfg)
	assert.NotNil(t, err)
}
