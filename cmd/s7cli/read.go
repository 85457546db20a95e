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

func newReadCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read one or more tags in a single batch",
		Example: `  s7cli read --tag DWORD:DB1.DBX0.0 --tag BIT:M0.4
  s7cli read --tag STRING:DB2.DBX10.0:20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(tags) == 0 {
				return fmt.Errorf("read: at least one --tag is required")
			}
			batch := make([]s7ops.Tag, len(tags))
			for i, spec := range tags {
				tag, err := parseReadSpec(spec)
				if err != nil {
					return err
				}
				batch[i] = tag
			}

			s, err := openSession(context.Background())
			if err != nil {
				return err
			}
			defer s.Close()

			out, err := s7ops.ReadArea(s, batch)
			if err != nil {
				return err
			}
			for i, tag := range out {
				if tag.Error != nil {
					fmt.Printf("%s: error: %v\n", tags[i], tag.Error)
					continue
				}
				fmt.Printf("%s: %v\n", tags[i], tag.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "TYPE:ADDRESS[:COUNT], repeatable")
	return cmd
}
