// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7type

import (
	"fmt"

	wcodec "github.com/s7gate/s7link/codec"
)

// maxStringLen is the Siemens STRING type's declared maximum length; the
// header's first byte always carries it regardless of actual content.
const maxStringLen = 254

func init() {
	registerVariable(String, sizeString, encodeString, decodeString)
}

func sizeString(v any) (int, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("s7type: STRING wants string, got %T", v)
	}
	return 2 + len(s), nil
}

func encodeString(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("s7type: STRING wants string, got %T", v)
	}
	if len(s) > maxStringLen {
		return nil, &RangeError{Type: String, Reason: fmt.Sprintf("length %d exceeds max %d", len(s), maxStringLen)}
	}
	buf := make([]byte, 2+len(s))
	buf[0] = maxStringLen
	if err := wcodec.WriteU8(buf, 1, byte(len(s))); err != nil {
		return nil, err
	}
	if err := wcodec.WriteASCII(buf, 2, len(s), s); err != nil {
		return nil, err
	}
	return buf, nil
}

func decodeString(b []byte) (any, error) {
	if len(b) < 2 {
		return nil, wcodec.ErrShortBuffer
	}
	curLen := int(b[1])
	if 2+curLen > len(b) {
		return nil, wcodec.ErrShortBuffer
	}
	return wcodec.ReadASCII(b, 2, curLen, false)
}
