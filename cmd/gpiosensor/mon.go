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
	"time"

	"github.com/spf13/cobra"
	"github.com/warthog618/go-gpiosensor"
)

func init() {
	monCmd.Flags().StringP("edge", "e", "both", "select the edge detection")
	monCmd.Flags().DurationP("debounce", "d", 0, "the debounce period")
	monCmd.Flags().UintP("num-events", "n", 0, "exit after n edges")
	monCmd.Flags().BoolP("quiet", "q", false, "don't display event details")
	monCmd.SetHelpTemplate(monCmd.HelpTemplate() + extendedEdgeHelp)
	rootCmd.AddCommand(monCmd)
}

var monCmd = &cobra.Command{
	Use:   "mon [flags] <pin>",
	Short: "Monitor the edges on a sensor",
	Long:  `Wait for edges on the sensor on a pin and print them to standard output.`,
	Args:  cobra.ExactArgs(1),
	RunE:  mon,
}

func mon(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	edge, err := gpiosensor.ParseEdge(cfg.MustGet("edge").String())
	if err != nil {
		return err
	}
	b, s, err := openSensor(cfg, args[0],
		gpiosensor.EdgeOption(edge),
		gpiosensor.WithDebounce(cfg.MustGet("debounce").Duration()))
	if err != nil {
		return err
	}
	defer b.Close()
	evtchan := make(chan gpiosensor.Event, 16)
	s.OnEdge(func(evt gpiosensor.Event) {
		select {
		case evtchan <- evt:
		default:
		}
	})
	monWait(evtchan, cfg.MustGet("num.events").Int(), cfg.MustGet("quiet").Bool())
	return nil
}

func monWait(evtchan <-chan gpiosensor.Event, numEvents int, quiet bool) {
	sigdone := make(chan os.Signal, 1)
	signal.Notify(sigdone, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigdone)
	count := 0
	for {
		select {
		case evt := <-evtchan:
			if !quiet {
				printEvent(evt)
			}
			count++
			if numEvents > 0 && count >= numEvents {
				return
			}
		case <-sigdone:
			return
		}
	}
}

func printEvent(evt gpiosensor.Event) {
	edge := "rising"
	if evt.Type == gpiosensor.EventFallingEdge {
		edge = "falling"
	}
	fmt.Printf("event:%3d %-7s %s (%s)\n",
		evt.Pin,
		edge,
		time.Now().Format(time.RFC3339Nano),
		evt.Timestamp)
}
