// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package frame

import (
	"fmt"
)

// COTP PDU types (ISO 8073 §13.2). Only the class-0 subset this library
// speaks is named.
const (
	cotpConnectRequest = 0xE0
	cotpConnectConfirm = 0xD0
	cotpData           = 0xF0
)

// ConnectionType selects the destination TSAP's connection kind.
type ConnectionType byte

const (
	PG      ConnectionType = 0x01
	OP      ConnectionType = 0x02
	S7Basic ConnectionType = 0x03
)

// EncodeConnectRequest builds the COTP connection-request TPDU (18
// bytes) proposing a 1024-byte max TPDU size and the destination TSAP
// derived from connType/rack/slot.
func EncodeConnectRequest(connType ConnectionType, rack, slot uint8) []byte {
	dstTSAPLo := rack<<5 | slot&0x1F
	buf := []byte{
		0x11,             // length: 17 bytes follow
		cotpConnectRequest,
		0x00, 0x00, // destination reference
		0x00, 0x01, // source reference
		0x00,       // class + options
		0xC0, 0x01, 0x0A, // TPDU size = 2^10 = 1024
		0xC1, 0x02, 0x01, 0x00, // source TSAP
		0xC2, 0x02, byte(connType), dstTSAPLo, // destination TSAP
	}
	return buf
}

// DecodeConnectConfirm checks that b (the COTP PDU received in reply to
// a connect request) is a connect confirm.
func DecodeConnectConfirm(b []byte) error {
	if len(b) < 2 {
		return &ProtocolError{Reason: "short COTP connect confirm"}
	}
	if b[1] != cotpConnectConfirm {
		return &ProtocolError{Reason: fmt.Sprintf("expected COTP CC (0xD0), got 0x%02X", b[1])}
	}
	return nil
}

// EncodeDataHeader returns the 3-byte COTP data header (length=2,
// PDU-type=DT, TPDU-number=0x80 meaning end-of-TSDU) that precedes
// every S7 PDU.
func EncodeDataHeader() []byte {
	return []byte{0x02, cotpData, 0x80}
}

// DecodeDataHeader validates the 3-byte COTP data header at the front
// of b and returns the S7 PDU bytes that follow it.
func DecodeDataHeader(b []byte) ([]byte, error) {
	if len(b) < 3 {
		return nil, &ProtocolError{Reason: "short COTP data header"}
	}
	if b[0] != 0x02 || b[1] != cotpData {
		return nil, &ProtocolError{Reason: fmt.Sprintf("expected COTP DT header, got % x", b[:2])}
	}
	return b[3:], nil
}
