// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"log/slog"

	"github.com/s7gate/s7link/s7proto"
	"github.com/s7gate/s7link/session"
)

// continuationReturnCode is the placeholder return-code carried on a
// follow-up SZL request's data block; the PLC ignores it and treats
// the request's Method/Sequence/PDU-reference as the continuation
// signal (original_source's S7_SZL_NEXT template).
const continuationReturnCode byte = 0x0A

// ReadSZL fetches one System Status List (id, index), transparently
// following the PLC's multi-PDU continuation protocol when a single
// response cannot carry the whole table (§13), and returns the
// concatenated raw record bytes.
func ReadSZL(s *session.Session, id, index uint16) ([]byte, error) {
	param := s7proto.UserDataParams{
		Method:        s7proto.MethodRequest,
		FunctionGroup: s7proto.GroupCPURequest,
		Subfunction:   s7proto.SubfuncReadSZL,
	}.Encode()
	data := s7proto.EncodeSZLRequest(id, index)

	_, respParam, respData, err := s.Exchange(s7proto.UserData, param, data)
	if err != nil {
		return nil, err
	}
	up, err := s7proto.DecodeUserDataParams(respParam)
	if err != nil {
		return nil, err
	}
	returnCode, _, payload, err := s7proto.DecodeUserData(respData)
	if err != nil {
		return nil, err
	}
	if returnCode != 0xFF {
		return nil, &s7proto.ItemError{ReturnCode: returnCode}
	}
	result := append([]byte(nil), payload...)

	fragments := 1
	for up.LastDataUnit == s7proto.LastDataUnitMore {
		followParam := s7proto.UserDataParams{
			Method:        s7proto.MethodResponse,
			FunctionGroup: s7proto.GroupCPURequest,
			Subfunction:   s7proto.SubfuncReadSZL,
			Sequence:      up.Sequence,
			HasFollowup:   true,
		}.Encode()
		followData := s7proto.EncodeUserData(continuationReturnCode, s7proto.TransportNull, nil)

		_, respParam, respData, err = s.Exchange(s7proto.UserData, followParam, followData)
		if err != nil {
			return nil, err
		}
		up, err = s7proto.DecodeUserDataParams(respParam)
		if err != nil {
			return nil, err
		}
		returnCode, _, payload, err = s7proto.DecodeUserData(respData)
		if err != nil {
			return nil, err
		}
		if returnCode == 0xFF {
			result = append(result, payload...)
		}
		fragments++
	}
	slog.Debug("s7ops: read_szl", "id", id, "index", index, "fragments", fragments, "bytes", len(result))
	return result, nil
}
