// Package gpt reads a GPT partition table from a block device, enough
// to locate the single partition the LDM probe cares about: the one
// whose type GUID marks it as a Windows LDM metadata partition.
//
// Grounded on driusan-gpt's GPTHeader/GPTPartitionEntry layout, with
// its documented loop-index bug (the partition walk always reading
// entry 0 instead of the current iteration index) fixed rather than
// reproduced, per spec.md §9.
package gpt

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/hillu/libldm-go/ldmerr"
	"github.com/hillu/libldm-go/sector"
)

const headerSignature = "EFI PART"

// GUID is a raw 16-byte GPT/LDM GUID in its on-disk mixed-endian layout.
type GUID [16]byte

// Header is the fixed portion of a GPT header this package consumes.
type Header struct {
	PartitionEntryLBA        uint64
	MaxNumberPartitionEntries uint32
	SizeOfPartitionEntry     uint32
}

// Entry describes a single GPT partition table entry, trimmed to what
// the LDM probe needs.
type Entry struct {
	Type     GUID
	FirstLBA uint64
	LastLBA  uint64
}

// Reader opens a handle onto a device's GPT structures at a given
// sector size.
type Reader struct {
	r      *sector.Reader
	header Header
}

// Open reads and validates the primary GPT header at LBA 1.
//
// Errors: invalid (bad signature or out-of-range table), read (I/O failure).
func Open(r *sector.Reader) (*Reader, error) {
	buf, err := r.ReadSectors(1, 1)
	if err != nil {
		return nil, errors.Wrap(err, "reading GPT header sector")
	}
	if len(buf) < 8 || string(buf[:8]) != headerSignature {
		return nil, ldmerr.New(ldmerr.KindInvalid, "bad GPT header signature")
	}
	h := Header{
		PartitionEntryLBA:        binary.LittleEndian.Uint64(buf[72:80]),
		MaxNumberPartitionEntries: binary.LittleEndian.Uint32(buf[80:84]),
		SizeOfPartitionEntry:     binary.LittleEndian.Uint32(buf[84:88]),
	}
	if h.SizeOfPartitionEntry == 0 || h.MaxNumberPartitionEntries == 0 {
		return nil, ldmerr.New(ldmerr.KindInvalid, "GPT header declares an empty partition array")
	}
	return &Reader{r: r, header: h}, nil
}

// Partition returns the partition table entry at the given index
// (0-based), reading only the sectors needed to reach it.
//
// Errors: invalid (index out of range or malformed entry), plus any
// error from reading the entry's sector.
func (g *Reader) Partition(index uint32) (*Entry, error) {
	if index >= g.header.MaxNumberPartitionEntries {
		return nil, ldmerr.New(ldmerr.KindInvalid, "GPT partition index %d out of range (max %d)", index, g.header.MaxNumberPartitionEntries)
	}
	entrySize := int64(g.header.SizeOfPartitionEntry)
	sectorSize := g.r.SectorSize()
	entriesPerSector := sectorSize / entrySize
	if entriesPerSector == 0 {
		return nil, ldmerr.New(ldmerr.KindInvalid, "GPT partition entry size %d exceeds sector size %d", entrySize, sectorSize)
	}

	sectorOffset := int64(index) / entriesPerSector
	byteOffset := (int64(index) % entriesPerSector) * entrySize

	// The documented bug in the reference implementation read entry 0
	// on every iteration of a partition-table walk because the loop
	// body indexed the entry array by a fixed literal instead of the
	// loop variable. This reader takes the index explicitly and has no
	// such loop to get wrong, but callers that DO loop (see
	// probe.findLDMPartition) must advance their own index correctly.
	buf, err := g.r.ReadSectors(int64(g.header.PartitionEntryLBA)+sectorOffset, 1)
	if err != nil {
		return nil, errors.Wrapf(err, "reading GPT partition entry %d", index)
	}
	if byteOffset+entrySize > int64(len(buf)) {
		return nil, ldmerr.New(ldmerr.KindInvalid, "GPT partition entry %d exceeds sector bounds", index)
	}
	raw := buf[byteOffset : byteOffset+entrySize]
	if len(raw) < 32 {
		return nil, ldmerr.New(ldmerr.KindInvalid, "GPT partition entry %d too short", index)
	}

	var e Entry
	copy(e.Type[:], raw[0:16])
	e.FirstLBA = binary.LittleEndian.Uint64(raw[32:40])
	e.LastLBA = binary.LittleEndian.Uint64(raw[40:48])
	return &e, nil
}

// Count returns the maximum number of partition entries in the table.
func (g *Reader) Count() uint32 { return g.header.MaxNumberPartitionEntries }

// IsZero reports whether a type GUID is the all-zero "unused entry" GUID.
func (t GUID) IsZero() bool {
	for _, b := range t {
		if b != 0 {
			return false
		}
	}
	return true
}
