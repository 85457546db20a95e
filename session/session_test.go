// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package session

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/s7gate/s7link/frame"
	"github.com/s7gate/s7link/s7proto"
)

// serveHandshake accepts one connection, replays the COTP connect
// confirm and a SetupCommunication AckData negotiating pduLen, then
// blocks until the test closes the listener.
func serveHandshake(t *testing.T, ln net.Listener, pduLen uint16, done chan<- error) {
	conn, err := ln.Accept()
	if err != nil {
		done <- err
		return
	}
	defer conn.Close()

	if _, err := frame.ReadTPKT(conn); err != nil {
		done <- err
		return
	}
	cc := []byte{0x0A, 0xD0, 0x00, 0x01, 0x00, 0x01, 0x00, 0xC0, 0x01, 0x0A, 0xC2, 0x02, 0x01, 0x02}
	if err := frame.WriteTPKT(conn, cc); err != nil {
		done <- err
		return
	}

	reqPayload, err := frame.ReadTPKT(conn)
	if err != nil {
		done <- err
		return
	}
	s7Req, err := frame.DecodeDataHeader(reqPayload)
	if err != nil {
		done <- err
		return
	}
	reqHeader, _, err := s7proto.DecodeHeader(s7Req)
	if err != nil {
		done <- err
		return
	}

	respParam := make([]byte, 8)
	respParam[0] = s7proto.FuncSetupCommunication
	respParam[2], respParam[3] = 0x00, 0x01
	respParam[4], respParam[5] = 0x00, 0x01
	respParam[6] = byte(pduLen >> 8)
	respParam[7] = byte(pduLen)
	respHeader := s7proto.Header{ROSCTR: s7proto.AckData, PDURef: reqHeader.PDURef, ParamLength: uint16(len(respParam))}
	respPDU := append(respHeader.Encode(), respParam...)
	full := append(frame.EncodeDataHeader(), respPDU...)
	if err := frame.WriteTPKT(conn, full); err != nil {
		done <- err
		return
	}
	done <- nil
}

func TestOpenNegotiatesPDUSize(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	done := make(chan error, 1)
	go serveHandshake(t, ln, 0x00F0, done)

	addr := ln.Addr().(*net.TCPAddr)
	s := New(Options{Host: addr.IP.String(), Port: addr.Port, Rack: 0, Slot: 2, Timeout: 2 * time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if s.State() != S7Ready {
		t.Fatalf("state = %v want S7Ready", s.State())
	}
	if s.PDUSize() != 0x00F0 {
		t.Fatalf("pdu size = %d want 240", s.PDUSize())
	}
	if err := <-done; err != nil {
		t.Fatalf("server: %v", err)
	}
}

func TestOpenRejectsUndersizedPDU(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	done := make(chan error, 1)
	go serveHandshake(t, ln, 100, done)

	addr := ln.Addr().(*net.TCPAddr)
	s := New(Options{Host: addr.IP.String(), Port: addr.Port, Timeout: 2 * time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Open(ctx); err == nil {
		t.Fatal("expected negotiation error for undersized pdu")
	}
	if s.State() != Faulted {
		t.Fatalf("state = %v want Faulted", s.State())
	}
	<-done
}

func TestExchangeRequiresS7Ready(t *testing.T) {
	s := New(Options{Host: "127.0.0.1"})
	_, _, _, err := s.Exchange(s7proto.Job, nil, nil)
	if err != ErrNotConnected {
		t.Fatalf("got %v want ErrNotConnected", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := New(Options{Host: "127.0.0.1"})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if s.State() != Closed {
		t.Fatalf("state = %v want Closed", s.State())
	}
}
