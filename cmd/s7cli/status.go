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

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Read the CPU's previous and requested run mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(context.Background())
			if err != nil {
				return err
			}
			defer s.Close()

			st := s7ops.ReadCPUStatus(s)
			if st.Error != nil {
				return st.Error
			}
			fmt.Printf("previous mode:  %s\n", st.PreviousMode)
			fmt.Printf("requested mode: %s\n", st.RequestedMode)
			return nil
		},
	}
}
