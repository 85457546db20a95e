// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7proto

import (
	"fmt"

	"github.com/s7gate/s7link/codec"
)

// UserData method byte (first byte of the userdata parameter proper).
const (
	MethodRequest  byte = 0x11
	MethodResponse byte = 0x12
)

// Function group + direction, packed into one byte: low nibble names
// the group, high nibble names the direction (4=request, 8=response).
const (
	GroupBlockRequest  byte = 0x43
	GroupBlockResponse byte = 0x83
	GroupCPURequest    byte = 0x44
	GroupCPUResponse   byte = 0x84
	GroupTimeRequest   byte = 0x47
	GroupTimeResponse  byte = 0x87
)

// CPU subfunctions.
const (
	SubfuncReadSZL byte = 0x01
	SubfuncStop    byte = 0x03
)

// Block subfunctions.
const SubfuncBlockInfo byte = 0x03

// LastDataUnit values in a userdata response parameter's follow-up
// fields: Done means the SZL transfer is complete, More means a
// follow-up request is required to fetch the remaining records.
const (
	LastDataUnitDone byte = 0x00
	LastDataUnitMore byte = 0x01
)

// Time subfunctions.
const (
	SubfuncReadClock byte = 0x01
	SubfuncSetClock  byte = 0x02
)

// UserData transport-size tags used in the data block header.
const (
	TransportNull        byte = 0x00
	TransportBit         byte = 0x03
	TransportByteWordDW  byte = 0x04
	TransportOctetString byte = 0x09
)

const userDataParamHead = 0x000112

// UserDataParams is the 8- or 12-byte userdata parameter (§4.5).
// Followup/response fields (DataUnitRef, LastDataUnit, ErrorCode) are
// only present when HasFollowup is set.
type UserDataParams struct {
	Method        byte
	FunctionGroup byte
	Subfunction   byte
	Sequence      byte
	HasFollowup   bool
	DataUnitRef   byte
	LastDataUnit  byte
	ErrorCode     uint16
}

// Encode writes the userdata parameter block.
func (p UserDataParams) Encode() []byte {
	paramLen := byte(4)
	if p.HasFollowup {
		paramLen = 8
	}
	buf := []byte{0x00, 0x01, 0x12, paramLen, p.Method, p.FunctionGroup, p.Subfunction, p.Sequence}
	if p.HasFollowup {
		buf = append(buf, p.DataUnitRef, p.LastDataUnit)
		errBuf := make([]byte, 2)
		_ = codec.WriteU16(errBuf, 0, p.ErrorCode)
		buf = append(buf, errBuf...)
	}
	return buf
}

// DecodeUserDataParams parses a userdata parameter block.
func DecodeUserDataParams(b []byte) (UserDataParams, error) {
	if len(b) < 8 {
		return UserDataParams{}, codec.ErrShortBuffer
	}
	if b[0] != 0x00 || b[1] != 0x01 || b[2] != 0x12 {
		return UserDataParams{}, fmt.Errorf("s7proto: bad userdata parameter head % x", b[:3])
	}
	paramLen := b[3]
	p := UserDataParams{Method: b[4], FunctionGroup: b[5], Subfunction: b[6], Sequence: b[7]}
	if paramLen >= 8 {
		if len(b) < 12 {
			return UserDataParams{}, codec.ErrShortBuffer
		}
		p.HasFollowup = true
		p.DataUnitRef = b[8]
		p.LastDataUnit = b[9]
		ec, err := codec.ReadU16(b, 10)
		if err != nil {
			return UserDataParams{}, err
		}
		p.ErrorCode = ec
	}
	return p, nil
}

// EncodeUserData builds the {return-code, transport-size, length,
// payload} data block that follows the userdata parameter.
func EncodeUserData(returnCode, transportSize byte, payload []byte) []byte {
	buf := make([]byte, 4+len(payload))
	buf[0] = returnCode
	buf[1] = transportSize
	_ = codec.WriteU16(buf, 2, uint16(len(payload)))
	copy(buf[4:], payload)
	return buf
}

// DecodeUserData parses the userdata data block.
func DecodeUserData(b []byte) (returnCode, transportSize byte, payload []byte, err error) {
	if len(b) < 4 {
		return 0, 0, nil, codec.ErrShortBuffer
	}
	length, err := codec.ReadU16(b, 2)
	if err != nil {
		return 0, 0, nil, err
	}
	if 4+int(length) > len(b) {
		return 0, 0, nil, codec.ErrShortBuffer
	}
	return b[0], b[1], b[4 : 4+int(length)], nil
}

// EncodeSZLRequest builds the 4-byte {szl-id, szl-index} SZL request
// payload.
func EncodeSZLRequest(id, index uint16) []byte {
	payload := make([]byte, 4)
	_ = codec.WriteU16(payload, 0, id)
	_ = codec.WriteU16(payload, 2, index)
	return EncodeUserData(0xFF, TransportOctetString, payload)
}

// EncodeBlockInfoRequest builds the block-info request payload: a
// literal '0', the block-type byte, a 5-digit zero-padded ASCII block
// number, and a fixed filesystem byte ('A' = active blocks).
func EncodeBlockInfoRequest(blockType byte, number uint16) []byte {
	payload := make([]byte, 8)
	payload[0] = '0'
	payload[1] = blockType
	numStr := fmt.Sprintf("%05d", number)
	copy(payload[2:7], numStr)
	payload[7] = 'A'
	return EncodeUserData(0xFF, TransportOctetString, payload)
}

// EncodeSetClockRequest builds the set-clock userdata payload: an
// 8-byte BCD datetime record (the same layout as s7type.DateTime)
// prefixed by two reserved bytes (a reserved byte and a century byte
// the PLC ignores on write).
func EncodeSetClockRequest(datetimeBCD []byte) []byte {
	payload := make([]byte, 2+len(datetimeBCD))
	copy(payload[2:], datetimeBCD)
	return EncodeUserData(0xFF, TransportOctetString, payload)
}
