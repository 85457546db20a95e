// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"testing"

	"github.com/s7gate/s7link/s7proto"
)

// fragmentedSZLHandler answers the first request with a More fragment
// and the follow-up (echoed Method=Response, matching Sequence) with a
// Done fragment, exercising ReadSZL's continuation loop.
func fragmentedSZLHandler(t *testing.T, first, second []byte) requestHandler {
	const seq = 0x07
	call := 0
	return func(h s7proto.Header, param, data []byte) (s7proto.ROSCTR, []byte, []byte) {
		call++
		up, err := s7proto.DecodeUserDataParams(param)
		if err != nil {
			t.Fatalf("DecodeUserDataParams: %v", err)
		}
		switch call {
		case 1:
			if up.HasFollowup {
				t.Fatal("first request should not carry follow-up fields")
			}
			respParam := s7proto.UserDataParams{
				Method:        s7proto.MethodResponse,
				FunctionGroup: s7proto.GroupCPUResponse,
				Subfunction:   s7proto.SubfuncReadSZL,
				Sequence:      seq,
				HasFollowup:   true,
				LastDataUnit:  s7proto.LastDataUnitMore,
			}.Encode()
			respData := s7proto.EncodeUserData(0xFF, s7proto.TransportOctetString, first)
			return s7proto.UserData, respParam, respData
		default:
			if !up.HasFollowup || up.Method != s7proto.MethodResponse || up.Sequence != seq {
				t.Fatalf("unexpected follow-up request: %+v", up)
			}
			respParam := s7proto.UserDataParams{
				Method:        s7proto.MethodResponse,
				FunctionGroup: s7proto.GroupCPUResponse,
				Subfunction:   s7proto.SubfuncReadSZL,
				Sequence:      seq,
				HasFollowup:   true,
				LastDataUnit:  s7proto.LastDataUnitDone,
			}.Encode()
			respData := s7proto.EncodeUserData(0xFF, s7proto.TransportOctetString, second)
			return s7proto.UserData, respParam, respData
		}
	}
}

func TestReadSZLFollowsContinuation(t *testing.T) {
	first := szlResponsePayload(0x001C, 0x0000, 34, make([]byte, 34))
	second := make([]byte, 34) // a bare continuation record, no header repeated

	s, ln := openTestSession(t, 240, fragmentedSZLHandler(t, first, second))
	defer ln.Close()
	defer s.Close()

	raw, err := ReadSZL(s, 0x001C, 0x0000)
	if err != nil {
		t.Fatalf("ReadSZL: %v", err)
	}
	want := len(first) + len(second)
	if len(raw) != want {
		t.Fatalf("len(raw) = %d, want %d", len(raw), want)
	}
}
