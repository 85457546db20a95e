// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7type

import (
	"fmt"
	"time"

	wcodec "github.com/s7gate/s7link/codec"
)

var dateEpoch = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

func init() {
	register(Date, 2, encodeDate, decodeDate)
	register(TimeOfDay, 4, encodeTimeOfDay, decodeTimeOfDay)
	register(Time, 4, encodeTime, decodeTime)
	register(S5Time, 2, encodeS5Time, decodeS5Time)
	register(DateTime, 8, encodeDateTime, decodeDateTime)
}

func encodeDate(v any) ([]byte, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("s7type: DATE wants time.Time, got %T", v)
	}
	days := int(t.UTC().Truncate(24*time.Hour).Sub(dateEpoch) / (24 * time.Hour))
	if days < 0 || days > 0xFFFF {
		return nil, &RangeError{Type: Date, Reason: "before 1990-01-01 or beyond 16-bit range"}
	}
	buf := make([]byte, 2)
	_ = wcodec.WriteU16(buf, 0, uint16(days))
	return buf, nil
}

func decodeDate(b []byte) (any, error) {
	days, err := wcodec.ReadU16(b, 0)
	if err != nil {
		return nil, err
	}
	return dateEpoch.Add(time.Duration(days) * 24 * time.Hour), nil
}

func encodeTimeOfDay(v any) ([]byte, error) {
	d, err := toDuration(v, TimeOfDay)
	if err != nil {
		return nil, err
	}
	ms := d.Milliseconds()
	if ms < 0 || ms > 86_399_999 {
		return nil, &RangeError{Type: TimeOfDay, Reason: "outside 0..86399999 ms"}
	}
	buf := make([]byte, 4)
	_ = wcodec.WriteU32(buf, 0, uint32(ms))
	return buf, nil
}

func decodeTimeOfDay(b []byte) (any, error) {
	ms, err := wcodec.ReadU32(b, 0)
	if err != nil {
		return nil, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func encodeTime(v any) ([]byte, error) {
	d, err := toDuration(v, Time)
	if err != nil {
		return nil, err
	}
	ms := d.Milliseconds()
	if ms < -0x80000000 || ms > 0x7FFFFFFF {
		return nil, &RangeError{Type: Time, Reason: "outside int32 millisecond range"}
	}
	buf := make([]byte, 4)
	_ = wcodec.WriteI32(buf, 0, int32(ms))
	return buf, nil
}

func decodeTime(b []byte) (any, error) {
	ms, err := wcodec.ReadI32(b, 0)
	if err != nil {
		return nil, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// encodeS5Time packs milliseconds into a 16-bit BCD time base (high
// nibble of byte 0) plus a 12-bit BCD count (low nibble of byte 0 and
// all of byte 1), choosing the smallest base such that the count fits
// in three BCD digits. Range 10 <= ms <= 9_990_000.
func encodeS5Time(v any) ([]byte, error) {
	d, err := toDuration(v, S5Time)
	if err != nil {
		return nil, err
	}
	ms := d.Milliseconds()
	if ms < 10 || ms > 9_990_000 {
		return nil, &RangeError{Type: S5Time, Reason: "outside 10..9990000 ms"}
	}
	count := ms / 10
	base := 0
	for count > 999 {
		count /= 10
		base++
	}
	buf := make([]byte, 2)
	buf[0] = byte(base<<4) | byte(count/100)
	if err := wcodec.WriteBCDByte(buf, 1, int(count%100)); err != nil {
		return nil, err
	}
	return buf, nil
}

func decodeS5Time(b []byte) (any, error) {
	if len(b) < 2 {
		return nil, wcodec.ErrShortBuffer
	}
	base := b[0] >> 4
	hiDigit := b[0] & 0x0F
	if hiDigit > 9 || base > 3 {
		return nil, fmt.Errorf("s7type: malformed S5TIME bytes % x", b)
	}
	lo, err := wcodec.ReadBCDByte(b, 1)
	if err != nil {
		return nil, err
	}
	count := int(hiDigit)*100 + lo
	unit := int64(10)
	for i := byte(0); i < base; i++ {
		unit *= 10
	}
	ms := int64(count) * unit
	return time.Duration(ms) * time.Millisecond, nil
}

// encodeDateTime packs a time.Time into 8 BCD bytes: year, month, day,
// hour, minute, second, millisecond-high, millisecond-low+weekday.
func encodeDateTime(v any) ([]byte, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("s7type: DATETIME wants time.Time, got %T", v)
	}
	year := t.Year() % 100
	dow := int(t.Weekday()) + 1 // Go Sunday=0 -> S7 Sunday=1
	ms := t.Nanosecond() / 1_000_000
	msecHi := ms / 10
	msecLo := (ms%10)*10 + dow

	buf := make([]byte, 8)
	fields := []int{year, int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), msecHi, msecLo}
	for i, f := range fields {
		if err := wcodec.WriteBCDByte(buf, i, f); err != nil {
			return nil, fmt.Errorf("s7type: DATETIME field %d: %w", i, err)
		}
	}
	return buf, nil
}

func decodeDateTime(b []byte) (any, error) {
	if len(b) < 8 {
		return nil, wcodec.ErrShortBuffer
	}
	fields := make([]int, 8)
	for i := range fields {
		v, err := wcodec.ReadBCDByte(b, i)
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	year := fields[0]
	if year < 90 {
		year += 2000
	} else {
		year += 1900
	}
	msecHi, msecLo := fields[6], fields[7]
	ms := msecHi*10 + msecLo/10
	return time.Date(year, time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], ms*1_000_000, time.UTC), nil
}

func toDuration(v any, t Type) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	default:
		return 0, fmt.Errorf("s7type: %s wants time.Duration, got %T", t, v)
	}
}
