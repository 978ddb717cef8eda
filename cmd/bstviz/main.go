// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"log"
	"os"
	"time"

	"github.com/cockroachdb/bstviz"
	"github.com/spf13/cobra"
)

var (
	codec    string
	delay    time.Duration
	optsFile string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "bstviz [command] (flags)",
	Short: "animated binary search tree",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		playCmd,
		layoutCmd,
		shapeCmd,
		replayCmd,
	)

	for _, cmd := range []*cobra.Command{playCmd, layoutCmd, shapeCmd} {
		cmd.Flags().StringVar(
			&optsFile, "options", "", "read options from the given file")
	}

	playCmd.Flags().DurationVarP(
		&delay, "delay", "d", bstviz.DefaultStepDelay, "the pause between two steps")
	playCmd.Flags().BoolVarP(
		&verbose, "verbose", "v", false, "enable verbose event logging")
	playCmd.Flags().BoolVar(
		&playConfig.keepHighlights, "keep-highlights", false,
		"do not clear the highlights before every animation")
	playCmd.Flags().StringVar(
		&playConfig.record, "record", "", "write a recording of every step to the given file")
	playCmd.Flags().StringVar(
		&codec, "codec", "zstd", "compression of the recording (none, snappy, minlz, zstd)")
	playCmd.Flags().BoolVar(
		&playConfig.metrics, "metrics", false, "print the prometheus metrics at the end")

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}

// loadOptions returns the options with the contents of --options applied.
func loadOptions() (*bstviz.Options, error) {
	opts := &bstviz.Options{}
	if optsFile == "" {
		return opts, nil
	}
	data, err := os.ReadFile(optsFile)
	if err != nil {
		return nil, err
	}
	if err := opts.Parse(string(data)); err != nil {
		return nil, err
	}
	return opts, nil
}
