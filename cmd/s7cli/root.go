// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/s7gate/s7link/internal/config"
)

// cfg is populated by the root command's PersistentPreRunE and read by
// every subcommand; s7cli only ever drives one connection per
// invocation.
var cfg *config.Config

func newRootCmd() *cobra.Command {
	var configFile, host, connectionType, logLevel, logFile string
	var port, timeoutMs int
	var rack, slot uint8

	root := &cobra.Command{
		Use:   "s7cli",
		Short: "Command-line client for the Siemens S7 industrial PLC protocol",
		Long: `s7cli opens one connection to an S7-family PLC over ISO-on-TCP and
issues a single read, write, time, status, control or diagnostic
operation per invocation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig(configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("host") {
				loaded.Host = host
			}
			if cmd.Flags().Changed("port") {
				loaded.Port = port
			}
			if cmd.Flags().Changed("rack") {
				loaded.Rack = rack
			}
			if cmd.Flags().Changed("slot") {
				loaded.Slot = slot
			}
			if cmd.Flags().Changed("connection-type") {
				loaded.ConnectionType = connectionType
			}
			if cmd.Flags().Changed("timeout-ms") {
				loaded.TimeoutMs = timeoutMs
			}
			if loaded.Host == "" {
				return fmt.Errorf("no PLC host configured (set --host or the config file's host field)")
			}
			cfg = loaded
			setupLogger(logLevel, logFile)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&host, "host", "", "PLC host (overrides config)")
	root.PersistentFlags().IntVar(&port, "port", 0, "PLC port (overrides config, default 102)")
	root.PersistentFlags().Uint8Var(&rack, "rack", 0, "CPU rack number (overrides config)")
	root.PersistentFlags().Uint8Var(&slot, "slot", 0, "CPU slot number (overrides config)")
	root.PersistentFlags().StringVar(&connectionType, "connection-type", "", "pg|op|s7basic (overrides config)")
	root.PersistentFlags().IntVar(&timeoutMs, "timeout-ms", 0, "socket timeout in milliseconds (overrides config)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug|info|warn|error")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (default: stdout)")

	root.AddCommand(newReadCmd())
	root.AddCommand(newWriteCmd())
	root.AddCommand(newTimeCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newStopCmd())
	root.AddCommand(newStartCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newSZLCmd())

	return root
}

func setupLogger(level, file string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	switch level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}

	var handler slog.Handler
	if file != "" && file != "-" {
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Printf("failed to open log file, falling back to stdout: %v\n", err)
			handler = slog.NewTextHandler(os.Stdout, opts)
		} else {
			handler = slog.NewTextHandler(f, opts)
		}
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
