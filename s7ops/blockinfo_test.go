// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"testing"

	"github.com/s7gate/s7link/codec"
	"github.com/s7gate/s7link/s7proto"
)

func TestReadBlockInfo(t *testing.T) {
	rec := make([]byte, 61)
	rec[0] = 0x01        // flags
	rec[1] = 4           // language: SCL
	rec[2] = 0x0C        // type: FC
	_ = codec.WriteU16(rec, 3, 100)
	_ = codec.WriteU32(rec, 5, 0)
	_ = codec.WriteU32(rec, 9, 0)
	_ = codec.WriteU32(rec, 13, 0)   // code timestamp ms
	_ = codec.WriteU16(rec, 17, 100) // code timestamp days
	_ = codec.WriteU32(rec, 19, 0)   // interface timestamp ms
	_ = codec.WriteU16(rec, 23, 100) // interface timestamp days
	_ = codec.WriteU16(rec, 25, 20)  // ssb length
	_ = codec.WriteU16(rec, 27, 0)   // add length
	_ = codec.WriteU16(rec, 29, 0)   // local data length
	_ = codec.WriteU16(rec, 31, 512) // mc7 length
	copy(rec[33:41], "AUTHOR  ")
	copy(rec[41:49], "FAMILY  ")
	copy(rec[49:57], "BLKNAME ")
	rec[57] = 0x21 // version 2.1
	_ = codec.WriteU16(rec, 59, 0xABCD)

	s, ln := openTestSession(t, 240, func(h s7proto.Header, param, data []byte) (s7proto.ROSCTR, []byte, []byte) {
		respParam := s7proto.UserDataParams{
			Method:        s7proto.MethodResponse,
			FunctionGroup: s7proto.GroupBlockResponse,
			Subfunction:   s7proto.SubfuncBlockInfo,
		}.Encode()
		respData := s7proto.EncodeUserData(0xFF, s7proto.TransportOctetString, rec)
		return s7proto.UserData, respParam, respData
	})
	defer ln.Close()
	defer s.Close()

	info := ReadBlockInfo(s, 0x0C, 100)
	if info.Error != nil {
		t.Fatalf("ReadBlockInfo: %v", info.Error)
	}
	if info.Type != "FC" || info.Language != "SCL" {
		t.Fatalf("Type/Language = %q/%q", info.Type, info.Language)
	}
	if info.Number != 100 {
		t.Fatalf("Number = %d, want 100", info.Number)
	}
	if info.Author != "AUTHOR" || info.Family != "FAMILY" || info.Name != "BLKNAME" {
		t.Fatalf("Author/Family/Name = %q/%q/%q", info.Author, info.Family, info.Name)
	}
	if info.VersionMajor != 2 || info.VersionMinor != 1 {
		t.Fatalf("Version = %d.%d, want 2.1", info.VersionMajor, info.VersionMinor)
	}
	if info.Checksum != 0xABCD {
		t.Fatalf("Checksum = 0x%04X, want 0xABCD", info.Checksum)
	}
}
