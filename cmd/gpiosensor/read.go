// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(readCmd)
}

var readCmd = &cobra.Command{
	Use:   "read <pin>",
	Short: "Read the level of a sensor",
	Long:  `Read the level of the sensor on a pin and print it to standard output.`,
	Args:  cobra.ExactArgs(1),
	RunE:  read,
}

func read(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	b, s, err := openSensor(cfg, args[0])
	if err != nil {
		return err
	}
	defer b.Close()
	v, err := s.Read()
	if err != nil {
		return err
	}
	fmt.Println(v)
	return nil
}
