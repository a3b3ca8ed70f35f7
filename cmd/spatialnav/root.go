// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command spatialnav is a terminal harness for the navigation engine: it
// loads an HTML fixture and an optional TOML config, then drives
// directional moves from stdin, printing the resulting focus after each
// move. It exists to exercise navengine end to end outside a browser
// host, not as a production embedding example.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	htmlPath   string
	configPath string
	wsURL      string
)

var rootCmd = &cobra.Command{
	Use:   "spatialnav",
	Short: "spatialnav drives the spatial navigation engine from the terminal",
	Long:  `spatialnav loads an HTML document and replays up/down/left/right moves against the navigation engine, printing the focused element after each one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&htmlPath, "html", "", "path to an HTML fixture (reads stdin if empty)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a spatialnav.toml config file")
	rootCmd.Flags().StringVar(&wsURL, "bridge", "", "websocket URL of a native-messaging host to connect to")
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
