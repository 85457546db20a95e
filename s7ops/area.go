// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"log/slog"

	"github.com/s7gate/s7link/s7proto"
	"github.com/s7gate/s7link/s7type"
	"github.com/s7gate/s7link/session"
)

// readRespOverhead is the AckData header (12 bytes) plus the ReadVar
// response parameter (function code + item count, 2 bytes).
const readRespOverhead = 14

// writeReqOverhead is the Job header (10 bytes) plus the WriteVar
// request parameter's function code + item count (2 bytes); each
// item then adds its own 12-byte descriptor and data block.
const writeReqOverhead = 12

// chunkByBudget splits tags into runs whose accumulated per-item size
// (as reported by size) does not exceed budget, preserving order. A
// single oversized item still gets its own chunk rather than being
// dropped, so every tag lands in exactly one chunk.
func chunkByBudget(tags []Tag, budget int, size func(Tag) int) [][]Tag {
	var chunks [][]Tag
	var cur []Tag
	used := 0
	for _, t := range tags {
		s := size(t)
		if len(cur) > 0 && used+s > budget {
			chunks = append(chunks, cur)
			cur = nil
			used = 0
		}
		cur = append(cur, t)
		used += s
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

// ReadArea issues one or more ReadVar requests to satisfy tags,
// returning a new slice in the same order with each Tag's Value or
// Error populated. A per-item ItemError never aborts the batch; a
// transport/protocol failure does.
func ReadArea(s *session.Session, tags []Tag) ([]Tag, error) {
	out := make([]Tag, len(tags))
	copy(out, tags)
	if len(out) == 0 {
		return out, nil
	}

	budget := int(s.PDUSize()) - readRespOverhead
	chunks := chunkByBudget(out, budget, func(t Tag) int { return 4 + itemWireSize(t) })
	slog.Debug("s7ops: read_area", "tags", len(out), "chunks", len(chunks))

	pos := 0
	for _, chunk := range chunks {
		items := make([]s7proto.AnyItem, len(chunk))
		for i, t := range chunk {
			items[i] = s7proto.ItemFor(t.Addr, t.Type, t.count())
		}
		param := s7proto.EncodeReadVarParams(items)
		_, _, data, err := s.Exchange(s7proto.Job, param, nil)
		if err != nil {
			return nil, err
		}
		offset := 0
		for i := range chunk {
			last := i == len(chunk)-1
			result, consumed, err := s7proto.DecodeReadVarItem(data, offset, last)
			if err != nil {
				return nil, err
			}
			offset += consumed
			tag := &out[pos+i]
			if result.ReturnCode != 0xFF {
				tag.Error = &s7proto.ItemError{ReturnCode: result.ReturnCode}
				continue
			}
			value, err := s7type.Decode(tag.Type, result.Payload)
			if err != nil {
				tag.Error = err
				continue
			}
			tag.Value = value
		}
		pos += len(chunk)
	}
	return out, nil
}

// WriteArea issues one or more WriteVar requests to write each tag's
// Value, returning a new slice with per-item Error populated (nil on
// success).
func WriteArea(s *session.Session, tags []Tag) ([]Tag, error) {
	out := make([]Tag, len(tags))
	copy(out, tags)
	if len(out) == 0 {
		return out, nil
	}

	payloads := make([][]byte, len(out))
	for i, t := range out {
		p, err := s7type.Encode(t.Type, t.Value)
		if err != nil {
			out[i].Error = err
			continue
		}
		payloads[i] = p
	}

	type indexed struct {
		tag     Tag
		payload []byte
		idx     int
	}
	items := make([]indexed, 0, len(out))
	for i, t := range out {
		if t.Error != nil {
			continue
		}
		items = append(items, indexed{tag: t, payload: payloads[i], idx: i})
	}

	budget := int(s.PDUSize()) - writeReqOverhead
	var chunks [][]indexed
	var cur []indexed
	used := 0
	for _, it := range items {
		block := 12 + 4 + len(it.payload) // any-item descriptor + write data block
		if block%2 != 0 {
			block++ // even-padding between items (§4.5)
		}
		if len(cur) > 0 && used+block > budget {
			chunks = append(chunks, cur)
			cur = nil
			used = 0
		}
		cur = append(cur, it)
		used += block
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	slog.Debug("s7ops: write_area", "tags", len(out), "chunks", len(chunks))

	for _, chunk := range chunks {
		anyItems := make([]s7proto.AnyItem, len(chunk))
		blocks := make([][]byte, len(chunk))
		for i, it := range chunk {
			anyItems[i] = s7proto.ItemFor(it.tag.Addr, it.tag.Type, it.tag.count())
			blocks[i] = s7proto.EncodeWriteItemData(it.tag.Type, it.payload)
		}
		param := s7proto.EncodeWriteVarParams(anyItems)
		data := s7proto.PackWriteData(blocks)
		_, _, respData, err := s.Exchange(s7proto.Job, param, data)
		if err != nil {
			return nil, err
		}
		for i, it := range chunk {
			var code byte = 0x0A
			if i < len(respData) {
				code = respData[i]
			}
			if code != 0xFF {
				out[it.idx].Error = &s7proto.ItemError{ReturnCode: code}
			}
		}
	}
	return out, nil
}
