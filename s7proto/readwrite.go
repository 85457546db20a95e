// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7proto

import (
	"fmt"

	"github.com/s7gate/s7link/address"
	"github.com/s7gate/s7link/codec"
	"github.com/s7gate/s7link/s7type"
)

const anyItemSize = 12

// AnyItem is one ReadVar/WriteVar "any" address descriptor.
type AnyItem struct {
	TransportSize byte
	Count         uint16
	DBNumber      uint16
	AreaCode      byte
	BitAddress    uint32 // byte*8 + bit, packed into 3 bytes on the wire
}

// ItemFor builds the any-descriptor for one tag address/type pair.
func ItemFor(a address.Address, t s7type.Type, count uint16) AnyItem {
	return AnyItem{
		TransportSize: t.TransportSize(),
		Count:         count,
		DBNumber:      a.Number,
		AreaCode:      byte(a.Area),
		BitAddress:    a.BitAddress(),
	}
}

// Encode writes the 12-byte any descriptor.
func (it AnyItem) Encode() []byte {
	buf := make([]byte, anyItemSize)
	buf[0] = 0x12
	buf[1] = 0x0A
	buf[2] = 0x10
	buf[3] = it.TransportSize
	_ = codec.WriteU16(buf, 4, it.Count)
	_ = codec.WriteU16(buf, 6, it.DBNumber)
	buf[8] = it.AreaCode
	buf[9] = byte(it.BitAddress >> 16)
	buf[10] = byte(it.BitAddress >> 8)
	buf[11] = byte(it.BitAddress)
	return buf
}

// DecodeAnyItem parses one 12-byte any descriptor.
func DecodeAnyItem(b []byte) (AnyItem, error) {
	if len(b) < anyItemSize {
		return AnyItem{}, codec.ErrShortBuffer
	}
	if b[0] != 0x12 || b[1] != 0x0A || b[2] != 0x10 {
		return AnyItem{}, fmt.Errorf("s7proto: malformed any descriptor % x", b[:3])
	}
	count, _ := codec.ReadU16(b, 4)
	db, _ := codec.ReadU16(b, 6)
	addr := uint32(b[9])<<16 | uint32(b[10])<<8 | uint32(b[11])
	return AnyItem{
		TransportSize: b[3],
		Count:         count,
		DBNumber:      db,
		AreaCode:      b[8],
		BitAddress:    addr,
	}, nil
}

// EncodeReadVarParams builds the ReadVar (0x04) parameter block for
// one or more items.
func EncodeReadVarParams(items []AnyItem) []byte {
	buf := []byte{FuncReadVar, byte(len(items))}
	for _, it := range items {
		buf = append(buf, it.Encode()...)
	}
	return buf
}

// EncodeWriteVarParams builds the WriteVar (0x05) parameter block.
func EncodeWriteVarParams(items []AnyItem) []byte {
	buf := []byte{FuncWriteVar, byte(len(items))}
	for _, it := range items {
		buf = append(buf, it.Encode()...)
	}
	return buf
}

// dataTransportTag selects the WriteVar item data header's
// transport-size tag: 0x03 for BIT, 0x04 for the byte-scalar types
// whose length is expressed in bits, 0x09 for everything else (length
// expressed in bytes).
func dataTransportTag(t s7type.Type) byte {
	switch t {
	case s7type.Bit:
		return 0x03
	case s7type.Byte, s7type.Word, s7type.Char, s7type.Counter, s7type.Timer:
		return 0x04
	default:
		return 0x09
	}
}

// EncodeWriteItemData builds one WriteVar request data block:
// {return-code=0x00, transport-size-tag, length, payload}.
func EncodeWriteItemData(t s7type.Type, payload []byte) []byte {
	tag := dataTransportTag(t)
	var length uint16
	switch tag {
	case 0x03:
		length = 1
	case 0x04:
		length = uint16(len(payload)) * 8
	default:
		length = uint16(len(payload))
	}
	buf := make([]byte, 4+len(payload))
	buf[0] = 0x00
	buf[1] = tag
	_ = codec.WriteU16(buf, 2, length)
	copy(buf[4:], payload)
	return buf
}

// PackWriteData concatenates each item's write data block, padding
// every block but the last to an even length (§4.5).
func PackWriteData(blocks [][]byte) []byte {
	var out []byte
	for i, b := range blocks {
		out = append(out, b...)
		if i != len(blocks)-1 && len(b)%2 != 0 {
			out = append(out, 0x00)
		}
	}
	return out
}

// ReadVarItemResult is one decoded ReadVar response item.
type ReadVarItemResult struct {
	ReturnCode byte
	Payload    []byte
}

// DecodeReadVarItem parses one ReadVar response item starting at
// offset, returning the result and the number of bytes consumed.
// {return-code, transport-size-tag, length, payload}: length is a bit
// count for tags 0x03 (BIT) and 0x04 (BYTE/WORD, per §4.5), a byte
// count otherwise. Non-success
// return codes carry a zero-length payload. last must be true only for
// the final item in the response, since the even-padding byte between
// items is never present after the last one (mirrors PackWriteData).
func DecodeReadVarItem(b []byte, offset int, last bool) (ReadVarItemResult, int, error) {
	if offset+4 > len(b) {
		return ReadVarItemResult{}, 0, codec.ErrShortBuffer
	}
	returnCode := b[offset]
	tag := b[offset+1]
	length, err := codec.ReadU16(b, offset+2)
	if err != nil {
		return ReadVarItemResult{}, 0, err
	}
	nBytes := int(length)
	if tag == 0x03 || tag == 0x04 {
		nBytes = (nBytes + 7) / 8
	}
	if offset+4+nBytes > len(b) {
		return ReadVarItemResult{}, 0, codec.ErrShortBuffer
	}
	payload := b[offset+4 : offset+4+nBytes]
	consumed := 4 + nBytes
	if !last && consumed%2 != 0 {
		consumed++ // even-padding, mirrors the write side
	}
	return ReadVarItemResult{ReturnCode: returnCode, Payload: payload}, consumed, nil
}
