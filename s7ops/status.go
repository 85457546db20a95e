// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"fmt"

	"github.com/s7gate/s7link/session"
)

const szlCPUStatus = 0x0424

// CPUStatus reports the CPU's previous and currently-requested run
// mode (§13, SZL 0x0424).
type CPUStatus struct {
	RequestedMode string
	PreviousMode  string
	Error         error
}

func runMode(nibble byte) string {
	switch nibble {
	case 0x00:
		return "Unknown"
	case 0x08:
		return "Run"
	case 0x04:
		return "Stop"
	default:
		return fmt.Sprintf("Mode(0x%X)", nibble)
	}
}

// ReadCPUStatus reads the CPU's run-state SZL and reports the previous
// and requested run modes.
func ReadCPUStatus(s *session.Session) CPUStatus {
	raw, err := ReadSZL(s, szlCPUStatus, 0x0000)
	if err != nil {
		return CPUStatus{Error: err}
	}
	if len(raw) < 12 {
		return CPUStatus{Error: fmt.Errorf("s7ops: short cpu status response (%d bytes)", len(raw))}
	}
	status := raw[11]
	hi, lo := status>>4, status&0x0F
	return CPUStatus{RequestedMode: runMode(lo), PreviousMode: runMode(hi)}
}
