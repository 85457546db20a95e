// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s7gate/s7link/s7ops"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the CPU (no-op if already stopped)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(context.Background())
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s7ops.Stop(s)
			if err != nil {
				return err
			}
			if ok {
				fmt.Println("cpu stopped (request accepted or cpu already stopped)")
			} else {
				fmt.Println("stop request rejected by the cpu")
			}
			return nil
		},
	}
}

func newStartCmd() *cobra.Command {
	var cold bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the CPU (no-op if already running)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(context.Background())
			if err != nil {
				return err
			}
			defer s.Close()

			var ok bool
			if cold {
				ok, err = s7ops.StartPLCCold(s)
			} else {
				ok, err = s7ops.StartPLCHot(s)
			}
			if err != nil {
				return err
			}
			if ok {
				fmt.Println("cpu running (request accepted or cpu already running)")
			} else {
				fmt.Println("start request rejected by the cpu")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&cold, "cold", false, "cold restart instead of hot restart")
	return cmd
}
