// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"testing"
	"time"

	"github.com/s7gate/s7link/s7type"
)

func TestParseReadSpecScalar(t *testing.T) {
	tag, err := parseReadSpec("DWORD:DB1.DBX0.0")
	if err != nil {
		t.Fatalf("parseReadSpec: %v", err)
	}
	if tag.Type != s7type.DWord {
		t.Errorf("Type = %v, want DWord", tag.Type)
	}
	if tag.Count != 0 {
		t.Errorf("Count = %d, want 0 (unset)", tag.Count)
	}
}

func TestParseReadSpecWithCount(t *testing.T) {
	tag, err := parseReadSpec("STRING:DB2.DBX10.0:20")
	if err != nil {
		t.Fatalf("parseReadSpec: %v", err)
	}
	if tag.Type != s7type.String {
		t.Errorf("Type = %v, want String", tag.Type)
	}
	if tag.Count != 20 {
		t.Errorf("Count = %d, want 20", tag.Count)
	}
}

func TestParseReadSpecErrors(t *testing.T) {
	cases := []string{"", "DWORD", "BOGUS:M0.0", "DWORD:M0.0:x", "DWORD:M0.0:1:2"}
	for _, spec := range cases {
		if _, err := parseReadSpec(spec); err == nil {
			t.Errorf("parseReadSpec(%q): expected error, got nil", spec)
		}
	}
}

func TestParseWriteSpec(t *testing.T) {
	tag, err := parseWriteSpec("DWORD:DB1.DBX0.0=42")
	if err != nil {
		t.Fatalf("parseWriteSpec: %v", err)
	}
	if tag.Value != uint32(42) {
		t.Errorf("Value = %#v, want uint32(42)", tag.Value)
	}
}

func TestParseWriteSpecMissingEquals(t *testing.T) {
	if _, err := parseWriteSpec("DWORD:DB1.DBX0.0"); err == nil {
		t.Fatal("expected error for missing '='")
	}
}

func TestParseValueEachType(t *testing.T) {
	cases := []struct {
		typ  s7type.Type
		in   string
		want any
	}{
		{s7type.Bit, "true", true},
		{s7type.Byte, "255", byte(255)},
		{s7type.Word, "65535", uint16(65535)},
		{s7type.Int, "-1", int16(-1)},
		{s7type.DWord, "4294967295", uint32(4294967295)},
		{s7type.DInt, "-1", int32(-1)},
		{s7type.Real, "3.5", float32(3.5)},
		{s7type.Char, "A", "A"},
		{s7type.String, "hello", "hello"},
	}
	for _, c := range cases {
		got, err := parseValue(c.typ, c.in)
		if err != nil {
			t.Errorf("parseValue(%v, %q): %v", c.typ, c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseValue(%v, %q) = %#v, want %#v", c.typ, c.in, got, c.want)
		}
	}
}

func TestParseValueTimeOfDay(t *testing.T) {
	got, err := parseValue(s7type.TimeOfDay, "1h30m")
	if err != nil {
		t.Fatalf("parseValue: %v", err)
	}
	if got != 90*time.Minute {
		t.Errorf("got %v, want 90m", got)
	}
}

func TestParseValueDateTime(t *testing.T) {
	got, err := parseValue(s7type.DateTime, "2026-08-06T09:00:00Z")
	if err != nil {
		t.Fatalf("parseValue: %v", err)
	}
	ts, ok := got.(time.Time)
	if !ok || ts.Year() != 2026 {
		t.Errorf("got %#v, want 2026 timestamp", got)
	}
}

func TestParseValueUnsupportedType(t *testing.T) {
	if _, err := parseValue(s7type.Type(255), "x"); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
