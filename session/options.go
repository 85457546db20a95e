// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package session drives the TCP/TPKT/COTP/S7 handshake, negotiates the
// PDU size, and exchanges request/response PDUs for one connection to a
// PLC. A Session is single-owner: one caller goroutine drives it at a
// time (§5); concurrent use requires external serialization.
package session

import (
	"time"

	"github.com/s7gate/s7link/frame"
)

const (
	// DefaultPort is the ISO-on-TCP port S7 PLCs listen on.
	DefaultPort = 102
	// DefaultTimeout bounds every blocking socket operation.
	DefaultTimeout = 5 * time.Second
	// proposedPDUSize is what this library offers in SetupCommunication;
	// the PLC may negotiate it down.
	proposedPDUSize = 0x03C0 // 960
	// minNegotiatedPDUSize below this the PLC's answer is rejected.
	minNegotiatedPDUSize = 240
)

// Options configures a Session. Host is required; every other field
// has a documented default (§6).
type Options struct {
	Host           string
	Port           int
	Rack           uint8
	Slot           uint8
	ConnectionType frame.ConnectionType
	Timeout        time.Duration
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.ConnectionType == 0 {
		o.ConnectionType = frame.PG
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}
