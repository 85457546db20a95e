// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package s7proto assembles and parses S7 PDUs: the header, the
// ReadVar/WriteVar parameter and data items, the userdata (SZL, time,
// block-info) parameter and data blocks, and the S7 error-class/code
// table.
package s7proto

import (
	"fmt"

	"github.com/s7gate/s7link/codec"
)

// ROSCTR identifies the kind of S7 PDU.
type ROSCTR byte

const (
	Job      ROSCTR = 1
	Ack      ROSCTR = 2
	AckData  ROSCTR = 3
	UserData ROSCTR = 7
)

const protocolID = 0x32

// Function codes carried in a Job PDU's parameter.
const (
	FuncReadVar           byte = 0x04
	FuncWriteVar          byte = 0x05
	FuncRequestDownload   byte = 0x1A
	FuncDownloadBlock     byte = 0x1B
	FuncPLCStart          byte = 0x28
	FuncPLCStop           byte = 0x29
	FuncSetupCommunication byte = 0xF0
)

// Header is the S7 PDU header (§4.5). ErrorClass/ErrorCode are only
// meaningful (and only present on the wire) for Ack and AckData.
type Header struct {
	ROSCTR      ROSCTR
	PDURef      uint16
	ParamLength uint16
	DataLength  uint16
	ErrorClass  byte
	ErrorCode   byte
}

func hasErrorFields(r ROSCTR) bool { return r == Ack || r == AckData }

// Size returns the encoded header length: 10 bytes for Job/UserData, 12
// for Ack/AckData.
func (h Header) Size() int {
	if hasErrorFields(h.ROSCTR) {
		return 12
	}
	return 10
}

// Encode writes the header to a fresh byte slice.
func (h Header) Encode() []byte {
	buf := make([]byte, h.Size())
	buf[0] = protocolID
	buf[1] = byte(h.ROSCTR)
	buf[2], buf[3] = 0x00, 0x00
	_ = codec.WriteU16(buf, 4, h.PDURef)
	_ = codec.WriteU16(buf, 6, h.ParamLength)
	_ = codec.WriteU16(buf, 8, h.DataLength)
	if hasErrorFields(h.ROSCTR) {
		buf[10] = h.ErrorClass
		buf[11] = h.ErrorCode
	}
	return buf
}

// DecodeHeader parses an S7 PDU header from b, returning the header and
// the number of bytes consumed.
func DecodeHeader(b []byte) (Header, int, error) {
	if len(b) < 10 {
		return Header{}, 0, codec.ErrShortBuffer
	}
	if b[0] != protocolID {
		return Header{}, 0, fmt.Errorf("s7proto: bad protocol id 0x%02X", b[0])
	}
	h := Header{ROSCTR: ROSCTR(b[1])}
	pduRef, err := codec.ReadU16(b, 4)
	if err != nil {
		return Header{}, 0, err
	}
	paramLen, err := codec.ReadU16(b, 6)
	if err != nil {
		return Header{}, 0, err
	}
	dataLen, err := codec.ReadU16(b, 8)
	if err != nil {
		return Header{}, 0, err
	}
	h.PDURef, h.ParamLength, h.DataLength = pduRef, paramLen, dataLen
	n := 10
	if hasErrorFields(h.ROSCTR) {
		if len(b) < 12 {
			return Header{}, 0, codec.ErrShortBuffer
		}
		h.ErrorClass, h.ErrorCode = b[10], b[11]
		n = 12
	}
	return h, n, nil
}
