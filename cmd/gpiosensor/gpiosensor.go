// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// A utility to read and monitor digital sensors on GPIO pins.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/go-gpiosensor"
	"github.com/warthog618/go-gpiosensor/cdev"
	"github.com/warthog618/go-gpiosensor/device/bananapi"
	"github.com/warthog618/go-gpiosensor/device/jetsonnano"
	"github.com/warthog618/go-gpiosensor/device/rpi"
	"github.com/warthog618/go-gpiosensor/periph"
	"github.com/warthog618/go-gpiosensor/rpio"
)

var rootCmd = &cobra.Command{
	Use:   "gpiosensor",
	Short: "gpiosensor is a utility to read digital sensors",
	Long:  "gpiosensor is a utility to read and monitor digital sensors connected to GPIO pins",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("backend", "b", "cdev", "the GPIO backend (cdev, periph or rpio)")
	pf.StringP("chip", "c", "gpiochip0", "the GPIO chip used by the cdev backend")
	pf.StringP("numbering", "N", "logical", "the pin numbering (logical or physical)")
	pf.String("header", "rpi", "the header used to resolve pin names (rpi, bananapi or jetsonnano)")
	pf.String("log-level", "warning", "the logging level")
	pf.String("config-file", "gpiosensor.json", "the configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(os.Stderr, "gpiosensor %s: %s\n", cmd.Name(), err)
}

var defaultConfig = map[string]interface{}{
	"backend":     "cdev",
	"chip":        "gpiochip0",
	"numbering":   "logical",
	"header":      "rpi",
	"edge":        "both",
	"debounce":    "0s",
	"timeout":     "0s",
	"num.events":  0,
	"quiet":       false,
	"log.level":   "warning",
	"config.file": "gpiosensor.json",
}

// flagMap returns the flags set on the command line, keyed by config key.
func flagMap(fs *pflag.FlagSet) map[string]interface{} {
	m := map[string]interface{}{}
	fs.Visit(func(f *pflag.Flag) {
		m[strings.ReplaceAll(f.Name, "-", ".")] = f.Value.String()
	})
	return m
}

// loadConfig layers the command line flags over the environment, the config
// file and the defaults.
func loadConfig(cmd *cobra.Command) *config.Config {
	def := dict.New(dict.WithMap(defaultConfig))
	cfg := config.New(
		dict.New(dict.WithMap(flagMap(cmd.Flags()))),
		env.New(env.WithEnvPrefix("GPIOSENSOR_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "gpiosensor.json", json.NewDecoder()))
	return cfg.GetConfig("", config.WithMust())
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(cfg.MustGet("log.level").String())
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}

func newBackend(cfg *config.Config) (gpiosensor.Backend, error) {
	switch name := cfg.MustGet("backend").String(); strings.ToLower(name) {
	case "cdev":
		return cdev.New(
			cdev.WithChip(cfg.MustGet("chip").String()),
			cdev.WithConsumer("gpiosensor"))
	case "periph":
		return periph.New()
	case "rpio":
		return rpio.New()
	default:
		return nil, fmt.Errorf("%w: '%s'", gpiosensor.ErrBackendUnsupported, name)
	}
}

// newBoard creates the board described by the configuration.
//
// The board owns the backend and closes it when closed.
func newBoard(cfg *config.Config) (*gpiosensor.Board, error) {
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	n, err := gpiosensor.ParseNumbering(cfg.MustGet("numbering").String())
	if err != nil {
		return nil, err
	}
	be, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	b, err := gpiosensor.NewBoard(be,
		gpiosensor.WithNumbering(n),
		gpiosensor.WithLogger(log))
	if err != nil {
		if c, ok := be.(interface{ Close() error }); ok {
			c.Close()
		}
		return nil, err
	}
	return b, nil
}

// headers resolve pin names to line offsets.
var headers = map[string]func(string) (int, error){
	"rpi":        rpi.Pin,
	"bananapi":   bananapi.Pin,
	"jetsonnano": jetsonnano.Pin,
}

// parsePin converts a pin argument to a pin in the numbering convention.
//
// Logical pins may also be given as names on the header, e.g. GPIOn, and
// physical pins as J8pn.
func parsePin(s string, n gpiosensor.Numbering, header string) (int, error) {
	if n == gpiosensor.NumberingPhysical {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "j8p"), 10, 8)
		if err != nil {
			return 0, fmt.Errorf("can't parse pin '%s'", s)
		}
		return int(v), nil
	}
	if v, err := strconv.ParseUint(s, 10, 16); err == nil {
		return int(v), nil
	}
	pin, ok := headers[strings.ToLower(header)]
	if !ok {
		return 0, fmt.Errorf("unknown header '%s'", header)
	}
	v, err := pin(s)
	if err != nil {
		return 0, fmt.Errorf("can't parse pin '%s'", s)
	}
	return v, nil
}

// openSensor creates the board described by the configuration and binds the
// pin named by arg.
func openSensor(cfg *config.Config, arg string, options ...gpiosensor.SensorOption) (*gpiosensor.Board, *gpiosensor.Sensor, error) {
	b, err := newBoard(cfg)
	if err != nil {
		return nil, nil, err
	}
	pin, err := parsePin(arg, b.Numbering(), cfg.MustGet("header").String())
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	s, err := b.NewSensor(pin, options...)
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	return b, s, nil
}
