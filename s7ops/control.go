// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"log/slog"

	"github.com/s7gate/s7link/s7proto"
	"github.com/s7gate/s7link/session"
)

// Stop requests the CPU move to STOP, first checking read_cpu_status
// and skipping the request if the CPU already reports STOP requested
// (§13, matches original_source's stop_plc idempotency check).
func Stop(s *session.Session) (bool, error) {
	status := ReadCPUStatus(s)
	if status.Error == nil && status.RequestedMode == "Stop" {
		return true, nil
	}
	return sendControlRequest(s, s7proto.EncodePLCStopParams())
}

// StartPLCCold requests a cold restart, skipping the request if the
// CPU already reports RUN requested.
func StartPLCCold(s *session.Session) (bool, error) {
	return startPLC(s, true)
}

// StartPLCHot requests a hot restart, skipping the request if the CPU
// already reports RUN requested.
func StartPLCHot(s *session.Session) (bool, error) {
	return startPLC(s, false)
}

func startPLC(s *session.Session, cold bool) (bool, error) {
	status := ReadCPUStatus(s)
	if status.Error == nil && status.RequestedMode == "Run" {
		return true, nil
	}
	return sendControlRequest(s, s7proto.EncodePLCStartParams(cold))
}

func sendControlRequest(s *session.Session, param []byte) (bool, error) {
	_, _, _, err := s.Exchange(s7proto.Job, param, nil)
	if err != nil {
		if _, ok := err.(*s7proto.S7Error); ok {
			slog.Warn("s7ops: control request rejected", "err", err)
			return false, nil
		}
		return false, err
	}
	slog.Debug("s7ops: control request succeeded")
	return true, nil
}
