// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"fmt"
	"time"

	"github.com/s7gate/s7link/s7proto"
	"github.com/s7gate/s7link/s7type"
	"github.com/s7gate/s7link/session"
)

func timeUserDataParams(subfunc byte) []byte {
	return s7proto.UserDataParams{
		Method:        s7proto.MethodRequest,
		FunctionGroup: s7proto.GroupTimeRequest,
		Subfunction:   subfunc,
	}.Encode()
}

// ReadPLCTime reads the CPU's current clock.
func ReadPLCTime(s *session.Session) (time.Time, error) {
	param := timeUserDataParams(s7proto.SubfuncReadClock)
	data := s7proto.EncodeUserData(0x0A, s7proto.TransportNull, nil)
	_, _, respData, err := s.Exchange(s7proto.UserData, param, data)
	if err != nil {
		return time.Time{}, err
	}
	returnCode, _, payload, err := s7proto.DecodeUserData(respData)
	if err != nil {
		return time.Time{}, err
	}
	if returnCode != 0xFF {
		return time.Time{}, &s7proto.ItemError{ReturnCode: returnCode}
	}
	// the clock response prefixes the 8-byte BCD DATETIME with two
	// reserved bytes, mirroring the set-clock request's own layout.
	if len(payload) < 10 {
		return time.Time{}, fmt.Errorf("s7ops: short read_plc_time response (%d bytes)", len(payload))
	}
	value, err := s7type.Decode(s7type.DateTime, payload[2:10])
	if err != nil {
		return time.Time{}, err
	}
	return value.(time.Time), nil
}

// SetPLCTime writes ts to the CPU's clock and echoes it back on
// success.
func SetPLCTime(s *session.Session, ts time.Time) (time.Time, error) {
	bcd, err := s7type.Encode(s7type.DateTime, ts)
	if err != nil {
		return time.Time{}, err
	}
	param := timeUserDataParams(s7proto.SubfuncSetClock)
	data := s7proto.EncodeSetClockRequest(bcd)
	_, _, respData, err := s.Exchange(s7proto.UserData, param, data)
	if err != nil {
		return time.Time{}, err
	}
	returnCode, _, _, err := s7proto.DecodeUserData(respData)
	if err != nil {
		return time.Time{}, err
	}
	if returnCode != 0xFF {
		return time.Time{}, &s7proto.ItemError{ReturnCode: returnCode}
	}
	return ts, nil
}

// SyncPLCTime sets the CPU's clock to the host's current time, in UTC
// when utc is true, else local time.
func SyncPLCTime(s *session.Session, utc bool) (time.Time, error) {
	now := time.Now()
	if utc {
		now = now.UTC()
	}
	return SetPLCTime(s, now)
}
