// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"strings"

	"github.com/s7gate/s7link/codec"
)

// szlRecords slices an SZL payload (as returned by ReadSZL) into its
// fixed-length records. Every SZL table shares the same 8-byte header:
// a 2-byte ID echo, a 2-byte index echo, a per-record length, and a
// record count.
func szlRecords(raw []byte) [][]byte {
	if len(raw) < 8 {
		return nil
	}
	recLen, err := codec.ReadU16(raw, 4)
	if err != nil || recLen == 0 {
		return nil
	}
	count, err := codec.ReadU16(raw, 6)
	if err != nil {
		return nil
	}
	var records [][]byte
	offset := 8
	for i := 0; i < int(count); i++ {
		if offset+int(recLen) > len(raw) {
			break
		}
		records = append(records, raw[offset:offset+int(recLen)])
		offset += int(recLen)
	}
	return records
}

func trimField(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}
