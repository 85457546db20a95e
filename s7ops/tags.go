// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package s7ops is the Operation Façade (§4.7): one exported function
// per public operation, each taking a *session.Session explicitly
// rather than hanging every operation off one stateful object (Design
// Notes §9).
package s7ops

import (
	"github.com/s7gate/s7link/address"
	"github.com/s7gate/s7link/s7type"
)

// Tag is one item of a read_area/write_area batch. Callers build a
// slice of Tags, pass it to ReadArea/WriteArea, and get back a new
// slice in the same order with Value (reads) or Error populated.
// Count is the element count for scalar types and the requested string
// length for s7type.String; it defaults to 1 when zero.
type Tag struct {
	Addr  address.Address
	Type  s7type.Type
	Count uint16
	Value any
	Error error
}

func (t Tag) count() uint16 {
	if t.Count == 0 {
		return 1
	}
	return t.Count
}

// itemWireSize estimates the ReadVar response / WriteVar request data
// block size for one tag, used to decide where a batch must split
// across multiple PDUs. STRING has no fixed size; Count is read as the
// caller's declared buffer length (§4.2).
func itemWireSize(t Tag) int {
	if t.Type == s7type.String {
		n := int(t.count())
		if n == 0 || n > 254 {
			n = 254
		}
		return 2 + n // length header + payload, no return-code/tag/len wrapper counted here
	}
	sz, err := s7type.Size(t.Type, nil)
	if err != nil {
		return 0
	}
	return sz * int(t.count())
}
