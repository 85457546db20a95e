// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package s7ops

import (
	"fmt"
	"time"

	"github.com/s7gate/s7link/codec"
	"github.com/s7gate/s7link/s7type"
	"github.com/s7gate/s7link/session"
)

const (
	szlCatalogCode    = 0x0011
	szlCPUInfo        = 0x001C
	szlCommProc       = 0x0131
	szlProtection     = 0x0232
	szlCPUDiagnostics = 0x00A0
	szlCPULeds        = 0x0074
)

// CatalogCode reports the CPU's module/hardware/firmware order numbers
// and versions (§13, SZL 0x0011).
type CatalogCode struct {
	ModuleOrderNo, ModuleVersion         string
	HwID, HwVersion                      string
	FwID, FwVersion                      string
	FwExtID, FwExtVersion                string
	Error                                error
}

// ReadCatalogCode reads SZL 0x0011 and decodes the module/hardware/
// firmware identification records.
func ReadCatalogCode(s *session.Session) CatalogCode {
	raw, err := ReadSZL(s, szlCatalogCode, 0x0000)
	if err != nil {
		return CatalogCode{Error: err}
	}
	var cc CatalogCode
	for _, rec := range szlRecords(raw) {
		if len(rec) < 28 {
			continue
		}
		index, _ := codec.ReadU16(rec, 0)
		mlfb := trimField(rec[2:22])
		bgLo, _ := codec.ReadU16(rec, 24)
		bgHi, _ := codec.ReadU16(rec, 26)
		version := fmt.Sprintf("%d.%d", bgLo, bgHi)
		switch index {
		case 0x0001:
			cc.ModuleOrderNo, cc.ModuleVersion = mlfb, version
		case 0x0006:
			cc.HwID, cc.HwVersion = mlfb, version
		case 0x0007:
			cc.FwID, cc.FwVersion = mlfb, version
		case 0x0081:
			cc.FwExtID, cc.FwExtVersion = mlfb, version
		}
	}
	return cc
}

// CPUInfo reports the 14 identification strings decoded from SZL
// 0x001C (§13, §README).
type CPUInfo struct {
	SystemName, ModuleName, PlantID, Copyright, SerialNumber string
	CPUType, MemCardSerialNumber                             string
	ManufacturerID, ProfileID, ProfileSpec                   string
	OEMCopyright, OEMID, OEMAddID                            string
	LocationID                                               string
	Error                                                    error
}

// ReadCPUInfo reads SZL 0x001C and decodes the CPU identification
// table.
func ReadCPUInfo(s *session.Session) CPUInfo {
	raw, err := ReadSZL(s, szlCPUInfo, 0x0000)
	if err != nil {
		return CPUInfo{Error: err}
	}
	var info CPUInfo
	for _, rec := range szlRecords(raw) {
		if len(rec) < 34 {
			continue
		}
		index, _ := codec.ReadU16(rec, 0)
		name := rec[2:34]
		switch index {
		case 0x0001:
			info.SystemName = trimField(name)
		case 0x0002:
			info.ModuleName = trimField(name)
		case 0x0003:
			info.PlantID = trimField(name)
		case 0x0004:
			info.Copyright = trimField(name)
		case 0x0005:
			info.SerialNumber = trimField(name)
		case 0x0007:
			info.CPUType = trimField(name)
		case 0x0008:
			info.MemCardSerialNumber = trimField(name)
		case 0x0009:
			info.ManufacturerID = fmt.Sprintf("0x%X", name[0:2])
			info.ProfileID = fmt.Sprintf("0x%X", name[2:4])
			info.ProfileSpec = fmt.Sprintf("0x%X", name[4:6])
		case 0x000A:
			info.OEMCopyright = trimField(name[0:26])
			info.OEMID = fmt.Sprintf("0x%X", name[26:28])
			info.OEMAddID = fmt.Sprintf("0x%X", name[28:32])
		case 0x000B:
			info.LocationID = trimField(name)
		}
	}
	return info
}

// CommProc reports one entry of SZL 0x0131 index 0x0001.
type CommProc struct {
	MaxPDU, MaxConnections uint16
	MPIRate, MKBusRate     uint32
	Error                  error
}

// ReadCommProc reads SZL 0x0131 index 0x0001 and decodes the
// communication-processor capability records.
func ReadCommProc(s *session.Session) []CommProc {
	raw, err := ReadSZL(s, szlCommProc, 0x0001)
	if err != nil {
		return []CommProc{{Error: err}}
	}
	var out []CommProc
	for _, rec := range szlRecords(raw) {
		if len(rec) < 14 {
			continue
		}
		maxPDU, _ := codec.ReadU16(rec, 2)
		maxConn, _ := codec.ReadU16(rec, 4)
		mpi, _ := codec.ReadU32(rec, 6)
		mkbus, _ := codec.ReadU32(rec, 10)
		out = append(out, CommProc{MaxPDU: maxPDU, MaxConnections: maxConn, MPIRate: mpi, MKBusRate: mkbus})
	}
	return out
}

// ModeSelector and StartupSwitch name the physical CPU mode-selector
// switch positions decoded out of a Protection record.
func modeSelector(v uint16) string {
	switch v {
	case 1:
		return "RUN"
	case 2:
		return "RUN-P"
	case 3:
		return "STOP"
	case 4:
		return "MRES"
	default:
		return fmt.Sprintf("Mode(0x%04X)", v)
	}
}

func startupSwitch(v uint16) string {
	switch v {
	case 1:
		return "CRST"
	case 2:
		return "WRST"
	default:
		return fmt.Sprintf("Switch(0x%04X)", v)
	}
}

// Protection reports one entry of SZL 0x0232 index 0x0004.
type Protection struct {
	ProtectionLevel, PasswordLevel, ValidProtectionLevel uint16
	ModeSelector, StartupSwitch                          string
	Error                                                 error
}

// ReadProtection reads SZL 0x0232 index 0x0004 and decodes the
// protection-level records.
func ReadProtection(s *session.Session) []Protection {
	raw, err := ReadSZL(s, szlProtection, 0x0004)
	if err != nil {
		return []Protection{{Error: err}}
	}
	var out []Protection
	for _, rec := range szlRecords(raw) {
		if len(rec) < 12 {
			continue
		}
		schSchal, _ := codec.ReadU16(rec, 2)
		schPar, _ := codec.ReadU16(rec, 4)
		schRel, _ := codec.ReadU16(rec, 6)
		bartSch, _ := codec.ReadU16(rec, 8)
		anlSch, _ := codec.ReadU16(rec, 10)
		out = append(out, Protection{
			ProtectionLevel:       schSchal,
			PasswordLevel:         schPar,
			ValidProtectionLevel:  schRel,
			ModeSelector:          modeSelector(bartSch),
			StartupSwitch:         startupSwitch(anlSch),
		})
	}
	return out
}

// eventDescriptions is a representative subset of the documented
// Siemens diagnostic event-ID table; unknown IDs format generically.
var eventDescriptions = map[uint16]string{
	0x1381: "mode transition: RUN",
	0x1382: "mode transition: STOP",
	0x1385: "mode transition: STARTUP",
	0x4306: "battery low",
	0x4506: "backed-up memory lost",
	0x4326: "watchdog stop",
}

func describeEvent(id uint16) string {
	if d, ok := eventDescriptions[id]; ok {
		return d
	}
	return fmt.Sprintf("event 0x%04X", id)
}

// CPUDiagnostics reports one diagnostic buffer entry from SZL 0x00A0.
type CPUDiagnostics struct {
	EventID            uint16
	Description        string
	Priority, OBNumber uint8
	DatID              uint16
	Info1              uint16
	Info2              uint32
	Timestamp          time.Time
	Error              error
}

// ReadCPUDiagnostics reads SZL 0x00A0 and decodes the diagnostic
// buffer entries.
func ReadCPUDiagnostics(s *session.Session) []CPUDiagnostics {
	raw, err := ReadSZL(s, szlCPUDiagnostics, 0x0000)
	if err != nil {
		return []CPUDiagnostics{{Error: err}}
	}
	var out []CPUDiagnostics
	for _, rec := range szlRecords(raw) {
		if len(rec) < 20 {
			continue
		}
		eventID, _ := codec.ReadU16(rec, 0)
		priority := rec[2]
		obNumber := rec[3]
		datID, _ := codec.ReadU16(rec, 4)
		info1, _ := codec.ReadU16(rec, 6)
		info2, _ := codec.ReadU32(rec, 8)
		tsVal, err := s7type.Decode(s7type.DateTime, rec[12:20])
		if err != nil {
			continue
		}
		out = append(out, CPUDiagnostics{
			EventID:     eventID,
			Description: describeEvent(eventID),
			Priority:    priority,
			OBNumber:    obNumber,
			DatID:       datID,
			Info1:       info1,
			Info2:       info2,
			Timestamp:   tsVal.(time.Time),
		})
	}
	return out
}

// ledNames maps the low byte of an SZL 0x0074 record's packed id
// field to the LED it names.
var ledNames = map[byte]string{
	0: "SF", 1: "RUN", 2: "STOP", 3: "FRCE", 4: "CRST", 5: "BUS1F", 6: "BUS2F", 7: "REDF",
}

// CPULeds reports one front-panel LED state from SZL 0x0074.
type CPULeds struct {
	Rack           uint16
	Type           uint16
	ID             string
	On, Flashing   bool
	Error          error
}

// ReadCPULeds reads SZL 0x0074 and decodes the front-panel LED table.
func ReadCPULeds(s *session.Session) []CPULeds {
	raw, err := ReadSZL(s, szlCPULeds, 0x0000)
	if err != nil {
		return []CPULeds{{Error: err}}
	}
	var out []CPULeds
	for _, rec := range szlRecords(raw) {
		if len(rec) < 4 {
			continue
		}
		id, _ := codec.ReadU16(rec, 0)
		on := rec[2] != 0
		flashing := rec[3] != 0
		rack := (id >> 8) & 0x07
		ledType := (id >> 11) & 0x01
		name, ok := ledNames[byte(id&0xFF)]
		if !ok {
			name = fmt.Sprintf("LED(0x%02X)", byte(id&0xFF))
		}
		out = append(out, CPULeds{Rack: rack, Type: ledType, ID: name, On: on, Flashing: flashing})
	}
	return out
}
