// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package session

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/s7gate/s7link/codec"
	"github.com/s7gate/s7link/frame"
	"github.com/s7gate/s7link/s7proto"
)

// State is one point in the connection lifecycle (§4.6).
type State int

const (
	Disconnected State = iota
	TCPConnected
	COTPConnected
	S7Ready
	Closed
	Faulted
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case TCPConnected:
		return "TcpConnected"
	case COTPConnected:
		return "CotpConnected"
	case S7Ready:
		return "S7Ready"
	case Closed:
		return "Closed"
	case Faulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// Session owns one TCP connection to a PLC and the state driven across
// its handshake and every subsequent request/response exchange. It is
// not safe for concurrent use (§5).
type Session struct {
	opts   Options
	conn   net.Conn
	state  State
	pduRef uint16
	pduLen uint16
}

// New constructs a disconnected Session. Call Open to run the
// handshake.
func New(opts Options) *Session {
	return &Session{opts: opts.withDefaults(), state: Disconnected}
}

// State reports the current lifecycle state.
func (s *Session) State() State { return s.state }

// PDUSize reports the negotiated PDU size in bytes, valid once S7Ready.
func (s *Session) PDUSize() uint16 { return s.pduLen }

// Open runs the TCP connect, COTP connection-request/connect-confirm
// exchange, and S7 SetupCommunication negotiation (§4.6).
func (s *Session) Open(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	dialer := net.Dialer{Timeout: s.opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		s.state = Faulted
		return &TransportError{Err: err}
	}
	s.conn = conn
	s.state = TCPConnected
	slog.Debug("session: tcp connected", "addr", addr)

	if err := s.deadline(); err != nil {
		return s.faultf(err)
	}
	cr := frame.EncodeConnectRequest(s.opts.ConnectionType, s.opts.Rack, s.opts.Slot)
	if err := frame.WriteTPKT(s.conn, cr); err != nil {
		return s.faultf(&TransportError{Err: err})
	}
	ccPayload, err := frame.ReadTPKT(s.conn)
	if err != nil {
		return s.faultf(&TransportError{Err: err})
	}
	if err := frame.DecodeConnectConfirm(ccPayload); err != nil {
		return s.faultf(&ProtocolError{Err: err})
	}
	s.state = COTPConnected
	slog.Debug("session: cotp connected")

	if err := s.negotiatePDUSize(); err != nil {
		return err
	}
	s.state = S7Ready
	slog.Debug("session: s7 ready", "pdu_size", s.pduLen)
	return nil
}

func (s *Session) negotiatePDUSize() error {
	param := encodeSetupCommParams(proposedPDUSize)
	ref := s.nextPDURef()
	header := s7proto.Header{ROSCTR: s7proto.Job, PDURef: ref, ParamLength: uint16(len(param))}
	if err := s.writePDU(header, param, nil); err != nil {
		return s.faultf(err)
	}
	respHeader, respParam, err := s.readPDU()
	if err != nil {
		return s.faultf(err)
	}
	if respHeader.PDURef != ref || respHeader.ROSCTR != s7proto.AckData {
		return s.faultf(ErrProtocolDesync)
	}
	if len(respParam) < 8 {
		return s.faultf(&NegotiationError{Reason: "short SetupCommunication response"})
	}
	pduLen, err := codec.ReadU16(respParam, 6)
	if err != nil {
		return s.faultf(&NegotiationError{Reason: err.Error()})
	}
	if pduLen < minNegotiatedPDUSize {
		return s.faultf(&NegotiationError{Reason: fmt.Sprintf("negotiated pdu size %d below minimum %d", pduLen, minNegotiatedPDUSize)})
	}
	s.pduLen = pduLen
	return nil
}

func encodeSetupCommParams(pduLen uint16) []byte {
	buf := make([]byte, 8)
	buf[0] = s7proto.FuncSetupCommunication
	buf[1] = 0x00
	_ = codec.WriteU16(buf, 2, 1) // max AmQ caller
	_ = codec.WriteU16(buf, 4, 1) // max AmQ callee
	_ = codec.WriteU16(buf, 6, pduLen)
	return buf
}

// Exchange sends one request PDU and returns the matching response's
// header, parameter and data sections. It is the single point every
// s7ops operation funnels through.
func (s *Session) Exchange(rosctr s7proto.ROSCTR, param, data []byte) (s7proto.Header, []byte, []byte, error) {
	if s.state != S7Ready {
		return s7proto.Header{}, nil, nil, ErrNotConnected
	}
	ref := s.nextPDURef()
	header := s7proto.Header{ROSCTR: rosctr, PDURef: ref, ParamLength: uint16(len(param)), DataLength: uint16(len(data))}
	if err := s.writePDU(header, param, data); err != nil {
		return s7proto.Header{}, nil, nil, s.faultf(err)
	}
	respHeader, respParam, respData, err := s.readFullPDU()
	if err != nil {
		return s7proto.Header{}, nil, nil, s.faultf(err)
	}
	if respHeader.PDURef != ref {
		return s7proto.Header{}, nil, nil, s.faultf(ErrProtocolDesync)
	}
	wantROSCTR := s7proto.AckData
	if rosctr == s7proto.UserData {
		wantROSCTR = s7proto.UserData
	}
	if respHeader.ROSCTR != wantROSCTR && !(rosctr == s7proto.Job && respHeader.ROSCTR == s7proto.Ack) {
		return s7proto.Header{}, nil, nil, s.faultf(ErrProtocolDesync)
	}
	if respHeader.ErrorClass != 0 || respHeader.ErrorCode != 0 {
		return respHeader, respParam, respData, &s7proto.S7Error{Class: respHeader.ErrorClass, Code: respHeader.ErrorCode}
	}
	return respHeader, respParam, respData, nil
}

// NextPDURef advances the rotating reference counter and returns the
// new value. Exchange stamps every request with its own reference, SZL
// continuation requests included, so no s7ops operation calls it.
func (s *Session) NextPDURef() uint16 { return s.nextPDURef() }

func (s *Session) nextPDURef() uint16 {
	s.pduRef++
	if s.pduRef == 0 {
		s.pduRef = 1
	}
	return s.pduRef
}

func (s *Session) writePDU(header s7proto.Header, param, data []byte) error {
	if err := s.deadline(); err != nil {
		return err
	}
	pdu := append(header.Encode(), param...)
	pdu = append(pdu, data...)
	full := append(frame.EncodeDataHeader(), pdu...)
	slog.Debug("session: send pdu", "rosctr", header.ROSCTR, "pdu_ref", header.PDURef, "bytes", hex.EncodeToString(full))
	if err := frame.WriteTPKT(s.conn, full); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

// readPDU reads one response and returns its header and parameter
// bytes only (used during negotiation, before pduLen is known).
func (s *Session) readPDU() (s7proto.Header, []byte, error) {
	header, param, _, err := s.readFullPDU()
	return header, param, err
}

func (s *Session) readFullPDU() (s7proto.Header, []byte, []byte, error) {
	payload, err := frame.ReadTPKT(s.conn)
	if err != nil {
		return s7proto.Header{}, nil, nil, &TransportError{Err: err}
	}
	s7Payload, err := frame.DecodeDataHeader(payload)
	if err != nil {
		return s7proto.Header{}, nil, nil, &ProtocolError{Err: err}
	}
	header, n, err := s7proto.DecodeHeader(s7Payload)
	if err != nil {
		return s7proto.Header{}, nil, nil, &ProtocolError{Err: err}
	}
	end := n + int(header.ParamLength)
	if end > len(s7Payload) {
		return s7proto.Header{}, nil, nil, &ProtocolError{Err: fmt.Errorf("parameter length %d exceeds pdu", header.ParamLength)}
	}
	param := s7Payload[n:end]
	dataEnd := end + int(header.DataLength)
	if dataEnd > len(s7Payload) {
		return s7proto.Header{}, nil, nil, &ProtocolError{Err: fmt.Errorf("data length %d exceeds pdu", header.DataLength)}
	}
	data := s7Payload[end:dataEnd]
	slog.Debug("session: recv pdu", "rosctr", header.ROSCTR, "pdu_ref", header.PDURef)
	return header, param, data, nil
}

func (s *Session) deadline() error {
	if err := s.conn.SetDeadline(time.Now().Add(s.opts.Timeout)); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

func (s *Session) faultf(err error) error {
	s.state = Faulted
	if s.conn != nil {
		_ = s.conn.Close()
	}
	slog.Warn("session: faulted", "err", err)
	return err
}

// Close performs a best-effort TCP shutdown and moves the session to
// Closed regardless of outcome.
func (s *Session) Close() error {
	if s.state == Closed || s.conn == nil {
		s.state = Closed
		return nil
	}
	err := s.conn.Close()
	s.state = Closed
	return err
}
