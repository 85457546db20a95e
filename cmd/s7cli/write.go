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

func newWriteCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write one or more tags in a single batch",
		Example: `  s7cli write --tag DWORD:DB1.DBX0.0=42 --tag BIT:M0.4=true`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(tags) == 0 {
				return fmt.Errorf("write: at least one --tag is required")
			}
			batch := make([]s7ops.Tag, len(tags))
			for i, spec := range tags {
				tag, err := parseWriteSpec(spec)
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

			out, err := s7ops.WriteArea(s, batch)
			if err != nil {
				return err
			}
			failed := 0
			for i, tag := range out {
				if tag.Error != nil {
					failed++
					fmt.Printf("%s: error: %v\n", tags[i], tag.Error)
					continue
				}
				fmt.Printf("%s: ok\n", tags[i])
			}
			if failed > 0 {
				return fmt.Errorf("write: %d of %d tags failed", failed, len(out))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "TYPE:ADDRESS=VALUE, repeatable")
	return cmd
}
