// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/warthog618/go-gpiosensor"
)

func init() {
	waitCmd.Flags().StringP("edge", "e", "both", "the edge to wait for")
	waitCmd.Flags().DurationP("timeout", "t", 0, "the maximum time to wait, 0 for no limit")
	waitCmd.SetHelpTemplate(waitCmd.HelpTemplate() + extendedEdgeHelp)
	rootCmd.AddCommand(waitCmd)
}

var extendedEdgeHelp = `
Edges:
  both:         both rising and falling edge events are detected
                and reported
  rising:       only rising edge events are detected and reported
  falling:      only falling edge events are detected and reported
`

var waitCmd = &cobra.Command{
	Use:   "wait [flags] <pin>",
	Short: "Wait for an edge on a sensor",
	Long:  `Wait for an edge on the sensor on a pin and print it to standard output.`,
	Args:  cobra.ExactArgs(1),
	RunE:  wait,
}

func wait(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	edge, err := gpiosensor.ParseEdge(cfg.MustGet("edge").String())
	if err != nil {
		return err
	}
	b, s, err := openSensor(cfg, args[0], gpiosensor.EdgeOption(edge))
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout := cfg.MustGet("timeout").Duration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	evt, err := s.WaitForEdge(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("no %s edge detected", edge)
	}
	if err != nil {
		return err
	}
	printEvent(evt)
	return nil
}
