// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package session

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by any operation invoked before the
// handshake has reached S7Ready.
var ErrNotConnected = errors.New("session: not connected")

// ErrProtocolDesync is a fatal error: an unexpected PDU reference or
// ROSCTR arrived, and the session has moved to Faulted.
var ErrProtocolDesync = errors.New("session: protocol desync")

// TransportError wraps a TCP/TPKT read or write failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("session: transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError wraps malformed TPKT/COTP/S7 framing.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("session: protocol: %v", e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// NegotiationError reports a rejected or undersized SetupCommunication
// response.
type NegotiationError struct {
	Reason string
}

func (e *NegotiationError) Error() string { return "session: negotiation failed: " + e.Reason }
