// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7type

import (
	"testing"
	"time"
)

func TestBitRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		b, err := Encode(Bit, v)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Decode(Bit, b)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("got %v want %v", got, v)
		}
	}
}

func TestCharEncoding(t *testing.T) {
	b, err := Encode(Char, "T")
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 1 || b[0] != 0x54 {
		t.Fatalf("CHAR 'T' encoded as % x, want 54", b)
	}
}

func TestNumericRoundTrip(t *testing.T) {
	cases := []struct {
		typ Type
		v   any
	}{
		{Byte, byte(0x7F)},
		{Word, uint16(0xBEEF)},
		{Int, int16(-1234)},
		{DWord, uint32(0xDEADBEEF)},
		{DInt, int32(-100000)},
		{Real, float32(6.6)},
	}
	for _, c := range cases {
		b, err := Encode(c.typ, c.v)
		if err != nil {
			t.Fatalf("%s: %v", c.typ, err)
		}
		if n, _ := Size(c.typ, c.v); n != len(b) {
			t.Fatalf("%s: Size=%d but encoded %d bytes", c.typ, n, len(b))
		}
		got, err := Decode(c.typ, b)
		if err != nil {
			t.Fatalf("%s: %v", c.typ, err)
		}
		if c.typ == Real {
			gf := got.(float32)
			wf := c.v.(float32)
			if gf < wf-0.001 || gf > wf+0.001 {
				t.Fatalf("REAL round trip: got %v want %v", gf, wf)
			}
			continue
		}
		if got != c.v {
			t.Fatalf("%s round trip: got %v want %v", c.typ, got, c.v)
		}
	}
}

func TestRealWriteBytes(t *testing.T) {
	b, err := Encode(Real, float32(6.6))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x40, 0xD3, 0x33, 0x33}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("REAL 6.6 encoded as % x, want % x", b, want)
		}
	}
}

func TestStringEncoding(t *testing.T) {
	b, err := Encode(String, "Hello World")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xFE, 0x0B, 'H', 'e', 'l', 'l', 'o', ' ', 'W', 'o', 'r', 'l', 'd'}
	if len(b) != len(want) {
		t.Fatalf("got % x want % x", b, want)
	}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("got % x want % x", b, want)
		}
	}
	got, err := Decode(String, b)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello World" {
		t.Fatalf("got %q", got)
	}
}

func TestDateBoundaries(t *testing.T) {
	cases := []struct {
		date time.Time
		days uint16
	}{
		{time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC), 365},
	}
	for _, c := range cases {
		b, err := Encode(Date, c.date)
		if err != nil {
			t.Fatal(err)
		}
		got := uint16(b[0])<<8 | uint16(b[1])
		if got != c.days {
			t.Fatalf("%v: got %d days want %d", c.date, got, c.days)
		}
		back, err := Decode(Date, b)
		if err != nil {
			t.Fatal(err)
		}
		if !back.(time.Time).Equal(c.date) {
			t.Fatalf("round trip: got %v want %v", back, c.date)
		}
	}
}

func TestDateTimeYearCentury(t *testing.T) {
	cases := []struct {
		year int
		bcd  int
	}{
		{2022, 22},
		{1995, 95},
	}
	for _, c := range cases {
		when := time.Date(c.year, time.March, 4, 5, 6, 7, 0, time.UTC)
		b, err := Encode(DateTime, when)
		if err != nil {
			t.Fatal(err)
		}
		if int(b[0]>>4)*10+int(b[0]&0x0F) != c.bcd {
			t.Fatalf("year %d encoded as % x", c.year, b[0])
		}
		back, err := Decode(DateTime, b)
		if err != nil {
			t.Fatal(err)
		}
		if back.(time.Time).Year() != c.year {
			t.Fatalf("got year %d want %d", back.(time.Time).Year(), c.year)
		}
	}
}

func TestReadPlcTimeScenario(t *testing.T) {
	wire := []byte{0x22, 0x09, 0x08, 0x17, 0x07, 0x25, 0x38, 0x04}
	got, err := Decode(DateTime, wire)
	if err != nil {
		t.Fatal(err)
	}
	when := got.(time.Time)
	want := time.Date(2022, time.September, 8, 17, 7, 25, 380*1_000_000, time.UTC)
	if !when.Equal(want) {
		t.Fatalf("got %v want %v", when, want)
	}
}

func TestS5TimeBoundaries(t *testing.T) {
	cases := []struct {
		ms   int64
		base byte
		hi   byte
		lo   int
	}{
		{10, 0, 0, 1},
		{9_990_000, 3, 9, 99},
	}
	for _, c := range cases {
		b, err := Encode(S5Time, time.Duration(c.ms)*time.Millisecond)
		if err != nil {
			t.Fatal(err)
		}
		gotBase := b[0] >> 4
		gotHi := b[0] & 0x0F
		if gotBase != c.base || gotHi != c.hi {
			t.Fatalf("ms=%d: got base=%d hi=%d, want base=%d hi=%d", c.ms, gotBase, gotHi, c.base, c.hi)
		}
		gotLo, err := decodeBCDForTest(b[1])
		if err != nil {
			t.Fatal(err)
		}
		if gotLo != c.lo {
			t.Fatalf("ms=%d: got lo=%d want %d", c.ms, gotLo, c.lo)
		}
		back, err := Decode(S5Time, b)
		if err != nil {
			t.Fatal(err)
		}
		if back.(time.Duration).Milliseconds() != c.ms {
			t.Fatalf("round trip: got %v want %dms", back, c.ms)
		}
	}
}

func decodeBCDForTest(b byte) (int, error) {
	hi, lo := b>>4, b&0x0F
	return int(hi)*10 + int(lo), nil
}

func TestS5TimeOutOfRange(t *testing.T) {
	for _, ms := range []int64{0, 5, 9_990_001} {
		if _, err := Encode(S5Time, time.Duration(ms)*time.Millisecond); err == nil {
			t.Fatalf("ms=%d: expected RangeError, got nil", ms)
		}
	}
}

func TestIECCounterRoundTrip(t *testing.T) {
	v := IECCounterValue{CDU: true, LoadR: false, PV: 12, Q: true, CV: 7, CDUO: false}
	b, err := Encode(IECCounter, v)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 8 {
		t.Fatalf("IEC_COUNTER encoded to %d bytes, want 8", len(b))
	}
	got, err := Decode(IECCounter, b)
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Fatalf("got %+v want %+v", got, v)
	}
}

func TestIECTimerRoundTrip(t *testing.T) {
	v := IECTimerValue{IN: true, PT: 5000, Q: false, ET: 1200, State: 2, STime: 99, ATime: 42}
	b, err := Encode(IECTimer, v)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 19 {
		t.Fatalf("IEC_TIMER encoded to %d bytes, want 19", len(b))
	}
	got, err := Decode(IECTimer, b)
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Fatalf("got %+v want %+v", got, v)
	}
}
