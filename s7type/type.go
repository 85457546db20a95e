// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package s7type implements encode/decode for the S7 user datatypes: the
// mapping between host values and wire bytes, each type's size, and its
// S7 transport-size tag.
package s7type

import (
	"errors"
	"fmt"
)

// Type identifies an S7 user datatype. Its numeric value is also the S7
// wire transport-size tag used in ReadVar/WriteVar item descriptors.
type Type uint8

const (
	Bit        Type = 1
	Byte       Type = 2
	Char       Type = 3
	Word       Type = 4
	Int        Type = 5
	DWord      Type = 6
	DInt       Type = 7
	Real       Type = 8
	Date       Type = 9
	TimeOfDay  Type = 10
	Time       Type = 11
	S5Time     Type = 12
	DateTime   Type = 13
	String     Type = 14
	Counter    Type = 28
	Timer      Type = 29
	IECCounter Type = 30
	IECTimer   Type = 31
)

func (t Type) String() string {
	switch t {
	case Bit:
		return "BIT"
	case Byte:
		return "BYTE"
	case Char:
		return "CHAR"
	case Word:
		return "WORD"
	case Int:
		return "INT"
	case DWord:
		return "DWORD"
	case DInt:
		return "DINT"
	case Real:
		return "REAL"
	case Date:
		return "DATE"
	case TimeOfDay:
		return "TIME_OF_DAY"
	case Time:
		return "TIME"
	case S5Time:
		return "S5TIME"
	case DateTime:
		return "DATETIME"
	case String:
		return "STRING"
	case Counter:
		return "COUNTER"
	case Timer:
		return "TIMER"
	case IECCounter:
		return "IEC_COUNTER"
	case IECTimer:
		return "IEC_TIMER"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// TransportSize returns the S7 wire transport-size tag for t (§4.2).
func (t Type) TransportSize() byte { return byte(t) }

// RangeError reports a value outside the legal range for its datatype.
type RangeError struct {
	Type   Type
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("s7type: %s: %s", e.Type, e.Reason)
}

// ErrUnknownType is returned by Size/Encode/Decode for a Type with no
// registered codec.
var ErrUnknownType = errors.New("s7type: unknown type")

// codec bundles the three operations a Type needs. size may inspect v to
// support STRING's variable length; for fixed-size types it ignores v.
type codec struct {
	fixedSize int // -1 if variable
	size      func(v any) (int, error)
	encode    func(v any) ([]byte, error)
	decode    func(b []byte) (any, error)
}

// registry is the tagged-variant dispatch table (Design Notes §9) that
// replaces a conditional chain keyed on the type code.
var registry = map[Type]codec{}

func register(t Type, fixedSize int, encode func(v any) ([]byte, error), decode func(b []byte) (any, error)) {
	registry[t] = codec{
		fixedSize: fixedSize,
		size: func(v any) (int, error) {
			return fixedSize, nil
		},
		encode: encode,
		decode: decode,
	}
}

// registerVariable is used by types (STRING) whose wire size depends on
// the value being encoded.
func registerVariable(t Type, size func(v any) (int, error), encode func(v any) ([]byte, error), decode func(b []byte) (any, error)) {
	registry[t] = codec{fixedSize: -1, size: size, encode: encode, decode: decode}
}

// Size returns the wire size in bytes for a value of type t. For String
// this depends on v; for every other type it is fixed.
func Size(t Type, v any) (int, error) {
	c, ok := registry[t]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	return c.size(v)
}

// Encode converts a host value into its wire bytes for type t.
func Encode(t Type, v any) ([]byte, error) {
	c, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	return c.encode(v)
}

// Decode converts wire bytes into a host value for type t.
func Decode(t Type, b []byte) (any, error) {
	c, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	return c.decode(b)
}
