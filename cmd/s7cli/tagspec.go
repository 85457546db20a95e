// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/s7gate/s7link/address"
	"github.com/s7gate/s7link/s7ops"
	"github.com/s7gate/s7link/s7type"
)

var typeNames = map[string]s7type.Type{
	"BIT": s7type.Bit, "BYTE": s7type.Byte, "CHAR": s7type.Char, "WORD": s7type.Word,
	"INT": s7type.Int, "DWORD": s7type.DWord, "DINT": s7type.DInt, "REAL": s7type.Real,
	"DATE": s7type.Date, "TIME_OF_DAY": s7type.TimeOfDay, "TIME": s7type.Time,
	"S5TIME": s7type.S5Time, "DATETIME": s7type.DateTime, "STRING": s7type.String,
	"COUNTER": s7type.Counter, "TIMER": s7type.Timer,
}

// parseReadSpec parses "TYPE:ADDRESS[:COUNT]" into a read Tag.
func parseReadSpec(spec string) (s7ops.Tag, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return s7ops.Tag{}, fmt.Errorf("malformed tag spec %q, want TYPE:ADDRESS[:COUNT]", spec)
	}
	typ, ok := typeNames[strings.ToUpper(parts[0])]
	if !ok {
		return s7ops.Tag{}, fmt.Errorf("unknown type %q", parts[0])
	}
	addr, err := address.Parse(parts[1])
	if err != nil {
		return s7ops.Tag{}, err
	}
	tag := s7ops.Tag{Addr: addr, Type: typ}
	if len(parts) == 3 {
		n, err := strconv.ParseUint(parts[2], 10, 16)
		if err != nil {
			return s7ops.Tag{}, fmt.Errorf("invalid count %q: %w", parts[2], err)
		}
		tag.Count = uint16(n)
	}
	return tag, nil
}

// parseWriteSpec parses "TYPE:ADDRESS=VALUE" into a write Tag.
func parseWriteSpec(spec string) (s7ops.Tag, error) {
	eq := strings.IndexByte(spec, '=')
	if eq < 0 {
		return s7ops.Tag{}, fmt.Errorf("malformed write spec %q, want TYPE:ADDRESS=VALUE", spec)
	}
	tag, err := parseReadSpec(spec[:eq])
	if err != nil {
		return s7ops.Tag{}, err
	}
	value, err := parseValue(tag.Type, spec[eq+1:])
	if err != nil {
		return s7ops.Tag{}, fmt.Errorf("parsing value for %q: %w", spec[:eq], err)
	}
	tag.Value = value
	return tag, nil
}

func parseValue(t s7type.Type, s string) (any, error) {
	switch t {
	case s7type.Bit:
		return strconv.ParseBool(s)
	case s7type.Byte:
		n, err := strconv.ParseUint(s, 10, 8)
		return byte(n), err
	case s7type.Char, s7type.String:
		return s, nil
	case s7type.Word, s7type.Counter, s7type.Timer:
		n, err := strconv.ParseUint(s, 10, 16)
		return uint16(n), err
	case s7type.Int:
		n, err := strconv.ParseInt(s, 10, 16)
		return int16(n), err
	case s7type.DWord:
		n, err := strconv.ParseUint(s, 10, 32)
		return uint32(n), err
	case s7type.DInt:
		n, err := strconv.ParseInt(s, 10, 32)
		return int32(n), err
	case s7type.Real:
		n, err := strconv.ParseFloat(s, 32)
		return float32(n), err
	case s7type.Date, s7type.DateTime:
		return time.Parse(time.RFC3339, s)
	case s7type.TimeOfDay, s7type.Time, s7type.S5Time:
		return time.ParseDuration(s)
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}
