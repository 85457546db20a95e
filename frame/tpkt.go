// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package frame implements the TPKT (RFC 1006) and COTP (ISO 8073 class
// 0) layers that carry S7 PDUs over TCP.
package frame

import (
	"fmt"
	"io"

	"github.com/s7gate/s7link/codec"
)

const (
	tpktVersion    = 3
	tpktHeaderSize = 4
	// MaxTPDULength bounds a single TPKT frame; large enough for any
	// negotiated S7 PDU size this library will ever propose.
	MaxTPDULength = 8192
)

// ProtocolError reports malformed TPKT/COTP/S7 framing.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "frame: " + e.Reason }

// WriteTPKT wraps payload in a 4-byte TPKT header (version 3) and
// writes the whole frame to w.
func WriteTPKT(w io.Writer, payload []byte) error {
	total := tpktHeaderSize + len(payload)
	if total > MaxTPDULength {
		return &ProtocolError{Reason: fmt.Sprintf("frame too large: %d bytes", total)}
	}
	buf := make([]byte, total)
	buf[0] = tpktVersion
	buf[1] = 0x00
	if err := codec.WriteU16(buf, 2, uint16(total)); err != nil {
		return err
	}
	copy(buf[tpktHeaderSize:], payload)
	_, err := w.Write(buf)
	return err
}

// ReadTPKT blocks until a full TPKT frame has arrived on r, then returns
// the payload that follows the 4-byte header.
func ReadTPKT(r io.Reader) ([]byte, error) {
	header := make([]byte, tpktHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if header[0] != tpktVersion {
		return nil, &ProtocolError{Reason: fmt.Sprintf("unexpected TPKT version %d", header[0])}
	}
	length, err := codec.ReadU16(header, 2)
	if err != nil {
		return nil, err
	}
	if int(length) < tpktHeaderSize || int(length) > MaxTPDULength {
		return nil, &ProtocolError{Reason: fmt.Sprintf("implausible TPKT length %d", length)}
	}
	payload := make([]byte, int(length)-tpktHeaderSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
