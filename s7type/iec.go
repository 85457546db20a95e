// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7type

import (
	"fmt"

	wcodec "github.com/s7gate/s7link/codec"
)

// IECCounterValue is the decoded value of an IEC_COUNTER instance.
type IECCounterValue struct {
	CDU   bool
	LoadR bool
	PV    int16
	Q     bool
	CV    int16
	CDUO  bool
}

// IECTimerValue is the decoded value of an IEC_TIMER instance. PT, ET,
// STime and ATime are all durations in milliseconds on the wire.
type IECTimerValue struct {
	IN    bool
	PT    int32
	Q     bool
	ET    int32
	State byte
	STime int32
	ATime int32
}

func init() {
	register(IECCounter, 8, encodeIECCounter, decodeIECCounter)
	register(IECTimer, 19, encodeIECTimer, decodeIECTimer)
}

func encodeIECCounter(v any) ([]byte, error) {
	c, ok := v.(IECCounterValue)
	if !ok {
		return nil, fmt.Errorf("s7type: IEC_COUNTER wants IECCounterValue, got %T", v)
	}
	buf := make([]byte, 8)
	buf[0] = boolByte(c.CDU)
	buf[1] = boolByte(c.LoadR)
	if err := wcodec.WriteI16(buf, 2, c.PV); err != nil {
		return nil, err
	}
	buf[4] = boolByte(c.Q)
	if err := wcodec.WriteI16(buf, 5, c.CV); err != nil {
		return nil, err
	}
	buf[7] = boolByte(c.CDUO)
	return buf, nil
}

func decodeIECCounter(b []byte) (any, error) {
	if len(b) < 8 {
		return nil, wcodec.ErrShortBuffer
	}
	pv, err := wcodec.ReadI16(b, 2)
	if err != nil {
		return nil, err
	}
	cv, err := wcodec.ReadI16(b, 5)
	if err != nil {
		return nil, err
	}
	return IECCounterValue{
		CDU:   b[0] != 0,
		LoadR: b[1] != 0,
		PV:    pv,
		Q:     b[4] != 0,
		CV:    cv,
		CDUO:  b[7] != 0,
	}, nil
}

func encodeIECTimer(v any) ([]byte, error) {
	t, ok := v.(IECTimerValue)
	if !ok {
		return nil, fmt.Errorf("s7type: IEC_TIMER wants IECTimerValue, got %T", v)
	}
	buf := make([]byte, 19)
	buf[0] = boolByte(t.IN)
	if err := wcodec.WriteI32(buf, 1, t.PT); err != nil {
		return nil, err
	}
	buf[5] = boolByte(t.Q)
	if err := wcodec.WriteI32(buf, 6, t.ET); err != nil {
		return nil, err
	}
	buf[10] = t.State
	if err := wcodec.WriteI32(buf, 11, t.STime); err != nil {
		return nil, err
	}
	if err := wcodec.WriteI32(buf, 15, t.ATime); err != nil {
		return nil, err
	}
	return buf, nil
}

func decodeIECTimer(b []byte) (any, error) {
	if len(b) < 19 {
		return nil, wcodec.ErrShortBuffer
	}
	pt, err := wcodec.ReadI32(b, 1)
	if err != nil {
		return nil, err
	}
	et, err := wcodec.ReadI32(b, 6)
	if err != nil {
		return nil, err
	}
	stime, err := wcodec.ReadI32(b, 11)
	if err != nil {
		return nil, err
	}
	atime, err := wcodec.ReadI32(b, 15)
	if err != nil {
		return nil, err
	}
	return IECTimerValue{
		IN:    b[0] != 0,
		PT:    pt,
		Q:     b[5] != 0,
		ET:    et,
		State: b[10],
		STime: stime,
		ATime: atime,
	}, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
