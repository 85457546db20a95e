// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/s7gate/s7link/s7ops"
)

func newTimeCmd() *cobra.Command {
	var setValue string
	var sync bool
	var utc bool

	cmd := &cobra.Command{
		Use:   "time",
		Short: "Read, set or synchronize the CPU's clock",
		Example: `  s7cli time
  s7cli time --set 2026-08-06T09:00:00Z
  s7cli time --sync --utc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(context.Background())
			if err != nil {
				return err
			}
			defer s.Close()

			switch {
			case sync:
				ts, err := s7ops.SyncPLCTime(s, utc)
				if err != nil {
					return err
				}
				fmt.Printf("plc clock synchronized to %s\n", ts.Format(time.RFC3339))
			case setValue != "":
				ts, err := time.Parse(time.RFC3339, setValue)
				if err != nil {
					return fmt.Errorf("invalid --set value %q: %w", setValue, err)
				}
				written, err := s7ops.SetPLCTime(s, ts)
				if err != nil {
					return err
				}
				fmt.Printf("plc clock set to %s\n", written.Format(time.RFC3339))
			default:
				ts, err := s7ops.ReadPLCTime(s)
				if err != nil {
					return err
				}
				fmt.Println(ts.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&setValue, "set", "", "set the clock to this RFC3339 timestamp")
	cmd.Flags().BoolVar(&sync, "sync", false, "set the clock to the host's current time")
	cmd.Flags().BoolVar(&utc, "utc", false, "use UTC when --sync is given")
	return cmd
}
