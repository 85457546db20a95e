// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s7gate/s7link/s7ops"
)

func newSZLCmd() *cobra.Command {
	var idHex, indexHex string

	cmd := &cobra.Command{
		Use:   "szl",
		Short: "Read an arbitrary System Status List and print its raw bytes",
		Example: `  s7cli szl --id 0x0424
  s7cli szl --id 0131 --index 0001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseHex16(idHex)
			if err != nil {
				return fmt.Errorf("invalid --id: %w", err)
			}
			index, err := parseHex16(indexHex)
			if err != nil {
				return fmt.Errorf("invalid --index: %w", err)
			}

			s, err := openSession(context.Background())
			if err != nil {
				return err
			}
			defer s.Close()

			raw, err := s7ops.ReadSZL(s, id, index)
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(raw))
			return nil
		},
	}
	cmd.Flags().StringVar(&idHex, "id", "0x0000", "SZL ID, hex (e.g. 0x0424)")
	cmd.Flags().StringVar(&indexHex, "index", "0x0000", "SZL index, hex")
	return cmd
}

func parseHex16(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}
