// Package mbr reads a classic DOS/MBR partition table from the first
// sector of a block device. It is a thin, independently-specifiable
// collaborator (spec.md §6): the LDM probe only needs partition 0's
// type byte and its reported extent, never the full boot-code region.
package mbr

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/hillu/libldm-go/ldmerr"
	"github.com/hillu/libldm-go/sector"
)

// Well-known partition type bytes the LDM probe cares about.
const (
	TypeWindowsLDM     = 0x42 // Windows LDM (dynamic disk)
	TypeEFIProtective  = 0xEE // GPT protective MBR
	signatureOffset    = 0x1FE
	partitionTableBase = 0x1BE
	partitionEntrySize = 16
	expectedSignature  = 0xAA55
)

// Entry is a single 16-byte MBR partition-table entry.
type Entry struct {
	BootIndicator uint8
	Type          uint8
	StartLBA      uint32
	SectorCount   uint32
}

// Table is the four-entry MBR partition table.
type Table struct {
	Entries [4]Entry
}

// Read parses the MBR partition table from r's sector 0.
//
// Errors: invalid (bad 0x55AA signature), read (underlying I/O failure).
func Read(r *sector.Reader) (*Table, error) {
	buf, err := r.ReadSectors(0, 1)
	if err != nil {
		return nil, errors.Wrap(err, "reading MBR sector")
	}
	if len(buf) < signatureOffset+2 {
		return nil, ldmerr.New(ldmerr.KindInvalid, "MBR sector too short")
	}
	if sig := binary.LittleEndian.Uint16(buf[signatureOffset:]); sig != expectedSignature {
		return nil, ldmerr.New(ldmerr.KindInvalid, "bad MBR signature 0x%04x", sig)
	}

	var t Table
	for i := 0; i < 4; i++ {
		off := partitionTableBase + i*partitionEntrySize
		e := buf[off : off+partitionEntrySize]
		t.Entries[i] = Entry{
			BootIndicator: e[0x00],
			Type:          e[0x04],
			StartLBA:      binary.LittleEndian.Uint32(e[0x08:0x0C]),
			SectorCount:   binary.LittleEndian.Uint32(e[0x0C:0x10]),
		}
	}
	return &t, nil
}
