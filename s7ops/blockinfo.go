// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"fmt"
	"time"

	"github.com/s7gate/s7link/codec"
	"github.com/s7gate/s7link/s7proto"
	"github.com/s7gate/s7link/session"
)

// blockInfoEpoch matches s7type's DATE epoch: block timestamps are
// split into a day count from this date plus a millisecond offset.
var blockInfoEpoch = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

func siemensSplitTime(ms uint32, days uint16) time.Time {
	return blockInfoEpoch.Add(time.Duration(days) * 24 * time.Hour).Add(time.Duration(ms) * time.Millisecond)
}

var blockLanguages = map[byte]string{
	1: "AWL", 2: "KOP", 3: "FUP", 4: "SCL", 5: "DB", 6: "GRAPH", 7: "SDB",
}

var subBlockTypes = map[byte]string{
	0x08: "OB", 0x0A: "DB", 0x0B: "SDB", 0x0C: "FC", 0x0D: "SFC", 0x0E: "FB", 0x0F: "SFB",
}

// BlockInfo is the fixed-offset record surfaced by read_block_info
// (§13, userdata block-info response).
type BlockInfo struct {
	Flags                             byte
	Language, Type                    string
	Number                            uint16
	LoadMemory, Security              uint32
	CodeTimestamp, InterfaceTimestamp time.Time
	SSBLength, AddLength              uint16
	LocalDataLength, MC7Length        uint16
	Author, Family, Name              string
	VersionMajor, VersionMinor        byte
	Checksum                          uint16
	Error                             error
}

// ReadBlockInfo requests the block-info userdata for one program
// block and decodes its fixed-offset record.
func ReadBlockInfo(s *session.Session, blockType byte, number uint16) BlockInfo {
	param := s7proto.UserDataParams{
		Method:        s7proto.MethodRequest,
		FunctionGroup: s7proto.GroupBlockRequest,
		Subfunction:   s7proto.SubfuncBlockInfo,
	}.Encode()
	data := s7proto.EncodeBlockInfoRequest(blockType, number)

	_, _, respData, err := s.Exchange(s7proto.UserData, param, data)
	if err != nil {
		return BlockInfo{Error: err}
	}
	returnCode, _, payload, err := s7proto.DecodeUserData(respData)
	if err != nil {
		return BlockInfo{Error: err}
	}
	if returnCode != 0xFF {
		return BlockInfo{Error: &s7proto.ItemError{ReturnCode: returnCode}}
	}
	if len(payload) < 61 {
		return BlockInfo{Error: fmt.Errorf("s7ops: short block-info response (%d bytes)", len(payload))}
	}

	num, _ := codec.ReadU16(payload, 3)
	loadMem, _ := codec.ReadU32(payload, 5)
	security, _ := codec.ReadU32(payload, 9)
	codeMs, _ := codec.ReadU32(payload, 13)
	codeDays, _ := codec.ReadU16(payload, 17)
	ifaceMs, _ := codec.ReadU32(payload, 19)
	ifaceDays, _ := codec.ReadU16(payload, 23)
	ssbLen, _ := codec.ReadU16(payload, 25)
	addLen, _ := codec.ReadU16(payload, 27)
	localLen, _ := codec.ReadU16(payload, 29)
	mc7Len, _ := codec.ReadU16(payload, 31)
	author := trimField(payload[33:41])
	family := trimField(payload[41:49])
	name := trimField(payload[49:57])
	version := payload[57]
	checksum, _ := codec.ReadU16(payload, 59)

	lang, ok := blockLanguages[payload[1]]
	if !ok {
		lang = fmt.Sprintf("Language(0x%02X)", payload[1])
	}
	typ, ok := subBlockTypes[payload[2]]
	if !ok {
		typ = fmt.Sprintf("Type(0x%02X)", payload[2])
	}

	return BlockInfo{
		Flags:              payload[0],
		Language:           lang,
		Type:               typ,
		Number:             num,
		LoadMemory:         loadMem,
		Security:           security,
		CodeTimestamp:      siemensSplitTime(codeMs, codeDays),
		InterfaceTimestamp: siemensSplitTime(ifaceMs, ifaceDays),
		SSBLength:          ssbLen,
		AddLength:          addLen,
		LocalDataLength:    localLen,
		MC7Length:          mc7Len,
		Author:             author,
		Family:             family,
		Name:               name,
		VersionMajor:       version >> 4,
		VersionMinor:       version & 0x0F,
		Checksum:           checksum,
	}
}
