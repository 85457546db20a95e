// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7proto

import "fmt"

// S7Error reports a non-zero error-class/error-code pair from an Ack
// PDU (§7).
type S7Error struct {
	Class byte
	Code  byte
}

func (e *S7Error) Error() string {
	return fmt.Sprintf("s7: class 0x%02X code 0x%02X: %s", e.Class, e.Code, describeS7Error(e.Class, e.Code))
}

// errorTable maps a representative subset of the documented Siemens
// error-class/error-code pairs to human-readable strings. Unknown pairs
// format generically rather than failing.
var errorTable = map[[2]byte]string{
	{0x81, 0x01}: "Invalid block number",
	{0x81, 0x04}: "Object does not exist",
	{0x82, 0x01}: "Invalid organization block type number",
	{0x83, 0x01}: "Insufficient PLC resources",
	{0x84, 0x01}: "PDU size error",
	{0x85, 0x00}: "Cannot process request, resources unavailable",
	{0x87, 0x01}: "Object access not allowed",
	{0xD2, 0x01}: "Wrong syntax-ID",
	{0xD2, 0x04}: "Wrong address",
	{0xD6, 0x02}: "Invalid parameter block",
}

func describeS7Error(class, code byte) string {
	if s, ok := errorTable[[2]byte{class, code}]; ok {
		return s
	}
	return fmt.Sprintf("undocumented error class/code 0x%02X/0x%02X", class, code)
}

// ItemError reports a per-item return-code on a ReadVar/WriteVar batch
// (§7); it does not abort the batch.
type ItemError struct {
	ReturnCode byte
}

func (e *ItemError) Error() string { return describeItemError(e.ReturnCode) }

func describeItemError(code byte) string {
	switch code {
	case 0x00:
		return "reserved"
	case 0x01:
		return "hardware error"
	case 0x03:
		return "access denied"
	case 0x05:
		return "invalid address"
	case 0x06:
		return "datatype not supported"
	case 0x07:
		return "datatype inconsistent"
	case 0x0A:
		return "object not available"
	case 0xFF:
		return "success"
	default:
		return fmt.Sprintf("undocumented return code 0x%02X", code)
	}
}
