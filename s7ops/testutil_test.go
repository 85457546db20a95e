// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/s7gate/s7link/frame"
	"github.com/s7gate/s7link/s7proto"
	"github.com/s7gate/s7link/session"
)

// requestHandler decodes one request PDU's header/param/data and
// returns the ROSCTR, parameter and data of the response PDU to send
// back; the caller stamps in the matching PDU reference.
type requestHandler func(header s7proto.Header, param, data []byte) (rosctr s7proto.ROSCTR, respParam, respData []byte)

// serveMock completes the handshake with pduSize, then answers every
// subsequent request by calling handle, until the connection closes.
func serveMock(t *testing.T, ln net.Listener, pduSize uint16, handle requestHandler) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	if _, err := frame.ReadTPKT(conn); err != nil {
		return
	}
	cc := []byte{0x0A, 0xD0, 0x00, 0x01, 0x00, 0x01, 0x00, 0xC0, 0x01, 0x0A, 0xC2, 0x02, 0x01, 0x02}
	if err := frame.WriteTPKT(conn, cc); err != nil {
		return
	}

	reqPayload, err := frame.ReadTPKT(conn)
	if err != nil {
		return
	}
	s7Req, err := frame.DecodeDataHeader(reqPayload)
	if err != nil {
		return
	}
	reqHeader, _, err := s7proto.DecodeHeader(s7Req)
	if err != nil {
		return
	}
	respParam := make([]byte, 8)
	respParam[0] = s7proto.FuncSetupCommunication
	respParam[6] = byte(pduSize >> 8)
	respParam[7] = byte(pduSize)
	respHeader := s7proto.Header{ROSCTR: s7proto.AckData, PDURef: reqHeader.PDURef, ParamLength: 8}
	full := append(frame.EncodeDataHeader(), append(respHeader.Encode(), respParam...)...)
	if err := frame.WriteTPKT(conn, full); err != nil {
		return
	}

	for {
		reqPayload, err := frame.ReadTPKT(conn)
		if err != nil {
			return
		}
		s7Req, err := frame.DecodeDataHeader(reqPayload)
		if err != nil {
			return
		}
		reqHeader, n, err := s7proto.DecodeHeader(s7Req)
		if err != nil {
			return
		}
		param := s7Req[n : n+int(reqHeader.ParamLength)]
		data := s7Req[n+int(reqHeader.ParamLength) : n+int(reqHeader.ParamLength)+int(reqHeader.DataLength)]

		rosctr, rParam, rData := handle(reqHeader, param, data)
		rHeader := s7proto.Header{ROSCTR: rosctr, PDURef: reqHeader.PDURef, ParamLength: uint16(len(rParam)), DataLength: uint16(len(rData))}
		respPDU := append(rHeader.Encode(), rParam...)
		respPDU = append(respPDU, rData...)
		full := append(frame.EncodeDataHeader(), respPDU...)
		if err := frame.WriteTPKT(conn, full); err != nil {
			return
		}
	}
}

// openTestSession dials a fresh listener, runs the handshake and
// request loop through handle in the background, and returns a ready
// *session.Session. The caller must eventually close ln.
func openTestSession(t *testing.T, pduSize uint16, handle requestHandler) (*session.Session, net.Listener) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go serveMock(t, ln, pduSize, handle)

	addr := ln.Addr().(*net.TCPAddr)
	s := session.New(session.Options{Host: addr.IP.String(), Port: addr.Port, Timeout: 2 * time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, ln
}
