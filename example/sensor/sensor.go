// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/config/pflag"
	"github.com/warthog618/go-gpiosensor"
	"github.com/warthog618/go-gpiosensor/cdev"
	"github.com/warthog618/go-gpiosensor/device/rpi"
)

// This example watches GPIO 17, which is pin J8-11 on a Raspberry Pi, and
// prints the level of the pin each time it changes.
// The pin can be altered via configuration (env, flag or config file).
func main() {
	cfg := loadConfig()
	if cfg.MustGet("verbose").Bool() {
		logrus.SetLevel(logrus.DebugLevel)
	}
	be, err := cdev.New(cdev.WithChip(cfg.MustGet("gpiochip").String()))
	if err != nil {
		die(err)
	}
	b, err := gpiosensor.NewBoard(be)
	if err != nil {
		be.Close()
		die(err)
	}
	defer b.Close()

	s, err := b.NewSensor(rpi.MustPin(cfg.MustGet("pin").String()))
	if err != nil {
		b.Close()
		die(err)
	}
	s.OnEdge(func(evt gpiosensor.Event) {
		v, err := s.Read()
		if err != nil {
			fmt.Printf("read error: %s\n", err)
			return
		}
		fmt.Printf("%d\n", v)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	<-quit
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "sensor: %s\n", err)
	os.Exit(1)
}

func loadConfig() *config.Config {
	defaultConfig := map[string]interface{}{
		"gpiochip": "gpiochip0",
		"pin":      "GPIO17",
		"verbose":  false,
	}
	def := dict.New(dict.WithMap(defaultConfig))
	flags := []pflag.Flag{
		{Short: 'c', Name: "config-file"},
		{Short: 'v', Name: "verbose", Options: pflag.IsBool},
	}
	cfg := config.New(
		pflag.New(pflag.WithFlags(flags)),
		env.New(env.WithEnvPrefix("SENSOR_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "sensor.json", json.NewDecoder()))
	cfg = cfg.GetConfig("", config.WithMust())
	return cfg
}
