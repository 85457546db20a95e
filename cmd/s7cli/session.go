// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"context"

	"github.com/s7gate/s7link/internal/config"
	"github.com/s7gate/s7link/session"
)

// openSession dials, handshakes and negotiates the PDU size against
// the currently loaded cfg.
func openSession(ctx context.Context) (*session.Session, error) {
	opts := session.Options{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Rack:           cfg.Rack,
		Slot:           cfg.Slot,
		ConnectionType: config.ResolveConnectionType(cfg.ConnectionType),
		Timeout:        cfg.Timeout,
	}
	s := session.New(opts)
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
