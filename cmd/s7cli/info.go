// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s7gate/s7link/s7ops"
)

var blockTypeCodes = map[string]byte{
	"OB": 0x08, "DB": 0x0A, "SDB": 0x0B, "FC": 0x0C, "SFC": 0x0D, "FB": 0x0E, "SFB": 0x0F,
}

func newInfoCmd() *cobra.Command {
	var section string
	var blockType string
	var blockNumber uint16

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Read CPU identification and diagnostic tables",
		Example: `  s7cli info --section catalog
  s7cli info --section block --block-type FC --block-number 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(context.Background())
			if err != nil {
				return err
			}
			defer s.Close()

			switch strings.ToLower(section) {
			case "catalog":
				cc := s7ops.ReadCatalogCode(s)
				if cc.Error != nil {
					return cc.Error
				}
				fmt.Printf("module:  %s (v%s)\n", cc.ModuleOrderNo, cc.ModuleVersion)
				fmt.Printf("hw:      %s (v%s)\n", cc.HwID, cc.HwVersion)
				fmt.Printf("fw:      %s (v%s)\n", cc.FwID, cc.FwVersion)
				fmt.Printf("fw ext:  %s (v%s)\n", cc.FwExtID, cc.FwExtVersion)
			case "cpu":
				ci := s7ops.ReadCPUInfo(s)
				if ci.Error != nil {
					return ci.Error
				}
				fmt.Printf("system name:  %s\n", ci.SystemName)
				fmt.Printf("module name:  %s\n", ci.ModuleName)
				fmt.Printf("plant id:     %s\n", ci.PlantID)
				fmt.Printf("serial no:    %s\n", ci.SerialNumber)
				fmt.Printf("cpu type:     %s\n", ci.CPUType)
			case "commproc":
				for _, cp := range s7ops.ReadCommProc(s) {
					if cp.Error != nil {
						return cp.Error
					}
					fmt.Printf("max pdu: %d, max connections: %d, mpi rate: %d, mkbus rate: %d\n",
						cp.MaxPDU, cp.MaxConnections, cp.MPIRate, cp.MKBusRate)
				}
			case "protection":
				for _, p := range s7ops.ReadProtection(s) {
					if p.Error != nil {
						return p.Error
					}
					fmt.Printf("protection level: %d, password level: %d, mode selector: %s, startup switch: %s\n",
						p.ProtectionLevel, p.PasswordLevel, p.ModeSelector, p.StartupSwitch)
				}
			case "diagnostics":
				for _, d := range s7ops.ReadCPUDiagnostics(s) {
					if d.Error != nil {
						return d.Error
					}
					fmt.Printf("%s  event 0x%04X: %s\n", d.Timestamp.Format("2006-01-02T15:04:05.000"), d.EventID, d.Description)
				}
			case "leds":
				for _, l := range s7ops.ReadCPULeds(s) {
					if l.Error != nil {
						return l.Error
					}
					fmt.Printf("%s: on=%v flashing=%v\n", l.ID, l.On, l.Flashing)
				}
			case "block":
				code, ok := blockTypeCodes[strings.ToUpper(blockType)]
				if !ok {
					return fmt.Errorf("unknown --block-type %q (want OB|DB|SDB|FC|SFC|FB|SFB)", blockType)
				}
				bi := s7ops.ReadBlockInfo(s, code, blockNumber)
				if bi.Error != nil {
					return bi.Error
				}
				fmt.Printf("%s %d: language %s, author %q, family %q, name %q, v%d.%d\n",
					bi.Type, bi.Number, bi.Language, bi.Author, bi.Family, bi.Name, bi.VersionMajor, bi.VersionMinor)
				fmt.Printf("code timestamp: %s, interface timestamp: %s\n",
					bi.CodeTimestamp.Format("2006-01-02T15:04:05.000"), bi.InterfaceTimestamp.Format("2006-01-02T15:04:05.000"))
			default:
				return fmt.Errorf("unknown --section %q (want catalog|cpu|commproc|protection|diagnostics|leds|block)", section)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&section, "section", "catalog", "catalog|cpu|commproc|protection|diagnostics|leds|block")
	cmd.Flags().StringVar(&blockType, "block-type", "", "OB|DB|SDB|FC|SFC|FB|SFB (required for --section block)")
	cmd.Flags().Uint16Var(&blockNumber, "block-number", 0, "block number (required for --section block)")
	return cmd
}
