// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7proto

// programBlockName is the fixed ASCII argument every PLC control
// request carries (§4.7).
var programBlockName = []byte("P_PROGRAM")

// EncodePLCStopParams builds the PlcStop (0x29) request parameter:
// function code, 3 reserved bytes, 2 reserved bytes, then the
// length-prefixed "P_PROGRAM" string.
func EncodePLCStopParams() []byte {
	buf := []byte{FuncPLCStop, 0x00, 0x00, 0x00, 0x00, 0x00, byte(len(programBlockName))}
	return append(buf, programBlockName...)
}

// EncodePLCStartParams builds the PlcStart (0x28) request parameter
// for a hot or cold restart. Cold adds a 2-byte block-argument field
// ('C ') that hot omits (§4.7).
func EncodePLCStartParams(cold bool) []byte {
	buf := []byte{FuncPLCStart, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFD}
	if cold {
		buf = append(buf, 0x00, 0x02, 'C', ' ')
	} else {
		buf = append(buf, 0x00, 0x00)
	}
	buf = append(buf, byte(len(programBlockName)))
	return append(buf, programBlockName...)
}
