// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7type

import (
	"fmt"

	wcodec "github.com/s7gate/s7link/codec"
)

func init() {
	register(Bit, 1, encodeBit, decodeBit)
	register(Byte, 1, encodeByte, decodeByte)
	register(Char, 1, encodeChar, decodeChar)
	register(Word, 2, encodeWord, decodeWord)
	register(Int, 2, encodeInt, decodeInt)
	register(DWord, 4, encodeDWord, decodeDWord)
	register(DInt, 4, encodeDInt, decodeDInt)
	register(Real, 4, encodeReal, decodeReal)
	register(Counter, 2, encodeCounter, decodeCounter)
	register(Timer, 2, encodeCounter, decodeCounter)
}

func encodeBit(v any) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("s7type: BIT wants bool, got %T", v)
	}
	if b {
		return []byte{0x01}, nil
	}
	return []byte{0x00}, nil
}

func decodeBit(b []byte) (any, error) {
	if len(b) < 1 {
		return nil, wcodec.ErrShortBuffer
	}
	return b[0] != 0x00, nil
}

func encodeByte(v any) ([]byte, error) {
	n, err := toUint8(v)
	if err != nil {
		return nil, err
	}
	return []byte{n}, nil
}

func decodeByte(b []byte) (any, error) {
	v, err := wcodec.ReadU8(b, 0)
	return v, err
}

func encodeChar(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok || len(s) != 1 {
		return nil, fmt.Errorf("s7type: CHAR wants a single-byte string, got %#v", v)
	}
	return []byte{s[0]}, nil
}

func decodeChar(b []byte) (any, error) {
	v, err := wcodec.ReadU8(b, 0)
	if err != nil {
		return nil, err
	}
	return string(rune(v)), nil
}

func encodeWord(v any) ([]byte, error) {
	n, err := toUint16(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 2)
	_ = wcodec.WriteU16(buf, 0, n)
	return buf, nil
}

func decodeWord(b []byte) (any, error) {
	return wcodec.ReadU16(b, 0)
}

func encodeInt(v any) ([]byte, error) {
	n, err := toInt16(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 2)
	_ = wcodec.WriteI16(buf, 0, n)
	return buf, nil
}

func decodeInt(b []byte) (any, error) {
	return wcodec.ReadI16(b, 0)
}

func encodeDWord(v any) ([]byte, error) {
	n, err := toUint32(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 4)
	_ = wcodec.WriteU32(buf, 0, n)
	return buf, nil
}

func decodeDWord(b []byte) (any, error) {
	return wcodec.ReadU32(b, 0)
}

func encodeDInt(v any) ([]byte, error) {
	n, err := toInt32(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 4)
	_ = wcodec.WriteI32(buf, 0, n)
	return buf, nil
}

func decodeDInt(b []byte) (any, error) {
	return wcodec.ReadI32(b, 0)
}

func encodeReal(v any) ([]byte, error) {
	f, err := toFloat32(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 4)
	_ = wcodec.WriteF32(buf, 0, f)
	return buf, nil
}

func decodeReal(b []byte) (any, error) {
	return wcodec.ReadF32(b, 0)
}

// encodeCounter/decodeCounter treat COUNTER/TIMER as the raw 16-bit
// register content; the caller interprets the S7 counter/timer bit
// pattern for the specific CPU family being addressed.
func encodeCounter(v any) ([]byte, error) {
	n, err := toUint16(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 2)
	_ = wcodec.WriteU16(buf, 0, n)
	return buf, nil
}

func decodeCounter(b []byte) (any, error) {
	return wcodec.ReadU16(b, 0)
}

func toUint8(v any) (byte, error) {
	switch n := v.(type) {
	case byte:
		return n, nil
	case int:
		if n < 0 || n > 0xFF {
			return 0, &RangeError{Type: Byte, Reason: "out of byte range"}
		}
		return byte(n), nil
	default:
		return 0, fmt.Errorf("s7type: BYTE wants byte/int, got %T", v)
	}
}

func toUint16(v any) (uint16, error) {
	switch n := v.(type) {
	case uint16:
		return n, nil
	case int:
		if n < 0 || n > 0xFFFF {
			return 0, &RangeError{Type: Word, Reason: "out of word range"}
		}
		return uint16(n), nil
	default:
		return 0, fmt.Errorf("s7type: WORD wants uint16/int, got %T", v)
	}
}

func toInt16(v any) (int16, error) {
	switch n := v.(type) {
	case int16:
		return n, nil
	case int:
		if n < -0x8000 || n > 0x7FFF {
			return 0, &RangeError{Type: Int, Reason: "out of int16 range"}
		}
		return int16(n), nil
	default:
		return 0, fmt.Errorf("s7type: INT wants int16/int, got %T", v)
	}
}

func toUint32(v any) (uint32, error) {
	switch n := v.(type) {
	case uint32:
		return n, nil
	case int:
		if n < 0 {
			return 0, &RangeError{Type: DWord, Reason: "negative value"}
		}
		return uint32(n), nil
	default:
		return 0, fmt.Errorf("s7type: DWORD wants uint32/int, got %T", v)
	}
}

func toInt32(v any) (int32, error) {
	switch n := v.(type) {
	case int32:
		return n, nil
	case int:
		return int32(n), nil
	default:
		return 0, fmt.Errorf("s7type: DINT wants int32/int, got %T", v)
	}
}

func toFloat32(v any) (float32, error) {
	switch n := v.(type) {
	case float32:
		return n, nil
	case float64:
		return float32(n), nil
	default:
		return 0, fmt.Errorf("s7type: REAL wants float32/float64, got %T", v)
	}
}
