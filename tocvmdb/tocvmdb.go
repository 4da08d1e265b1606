// Package tocvmdb locates the TOCBLOCK and VMDB within a loaded LDM
// config region, and parses the VMDB header that describes the VBLK
// array (spec.md §4.4, §6).
package tocvmdb

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/hillu/libldm-go/ldmerr"
)

const (
	tocMagic       = "TOCBLOCK"
	vmdbMagic      = "VMDB"
	tocblockOffset = 2 // sectors into the config region
	tocBitmapName  = "config"
)

// RecordKind indexes the four counted record kinds in VMDB.
type RecordKind int

const (
	KindDisk RecordKind = iota
	KindPartition
	KindComponent
	KindVolume
	numKinds
)

// VMDB is the subset of the VMDB header the LDM core consumes.
type VMDB struct {
	VBLKCellSize    uint32
	FirstVBLKOffset uint32 // bytes, relative to the start of the VMDB block

	DiskGroupName string
	DiskGroupGUID string

	CommittedSeq uint64
	PendingSeq   uint64

	CommittedCounts [numKinds]uint32
	PendingCounts   [numKinds]uint32

	vmdbAbsOffset int64
}

// Locate finds the TOCBLOCK 2 sectors into config, follows its "config"
// bitmap descriptor to the VMDB, validates both magic values, and
// parses the VMDB header.
//
// Errors: invalid (missing/bad magic, missing "config" bitmap, out of
// bounds offsets).
func Locate(config []byte, sectorSize int64) (*VMDB, error) {
	tocOff := tocblockOffset * sectorSize
	if tocOff+64 > int64(len(config)) {
		return nil, ldmerr.New(ldmerr.KindInvalid, "config region too small for TOCBLOCK")
	}
	toc := config[tocOff : tocOff+64]
	if string(toc[0:8]) != tocMagic {
		return nil, ldmerr.New(ldmerr.KindInvalid, "bad TOCBLOCK magic %q", toc[0:8])
	}

	be := binary.BigEndian
	var vmdbStartSector int64 = -1
	for _, bm := range [][]byte{toc[16:40], toc[40:64]} {
		name := strings.TrimRight(string(bm[0:8]), "\x00")
		if name == tocBitmapName {
			vmdbStartSector = int64(be.Uint64(bm[8:16]))
			break
		}
	}
	if vmdbStartSector < 0 {
		return nil, ldmerr.New(ldmerr.KindInvalid, "TOCBLOCK has no %q bitmap descriptor", tocBitmapName)
	}

	vmdbOff := vmdbStartSector * sectorSize
	if vmdbOff < 0 || vmdbOff+168 > int64(len(config)) {
		return nil, ldmerr.New(ldmerr.KindInvalid, "VMDB offset %d out of config region bounds", vmdbOff)
	}
	vb := config[vmdbOff : vmdbOff+168]
	if string(vb[0:4]) != vmdbMagic {
		return nil, ldmerr.New(ldmerr.KindInvalid, "bad VMDB magic %q", vb[0:4])
	}

	v := &VMDB{
		VBLKCellSize:    be.Uint32(vb[8:12]),
		FirstVBLKOffset: be.Uint32(vb[12:16]),
		DiskGroupName:   trimZero(vb[24:56]),
		DiskGroupGUID:   trimZero(vb[56:120]),
		CommittedSeq:    be.Uint64(vb[120:128]),
		PendingSeq:      be.Uint64(vb[128:136]),
	}
	for i := 0; i < int(numKinds); i++ {
		v.CommittedCounts[i] = be.Uint32(vb[136+i*4 : 140+i*4])
		v.PendingCounts[i] = be.Uint32(vb[152+i*4 : 156+i*4])
	}
	if v.VBLKCellSize == 0 {
		return nil, ldmerr.New(ldmerr.KindInvalid, "VMDB declares zero VBLK cell size")
	}

	// vmdbOff is returned implicitly via the absolute offset callers need
	// to add FirstVBLKOffset to; expose it so the VBLK stream parser can
	// compute "VMDB + vblk_first_offset" per spec.md §4.5.
	v.vmdbAbsOffset = vmdbOff
	return v, nil
}

// AbsoluteVMDBOffset returns the byte offset of the VMDB block within
// the config region, for computing the VBLK stream's starting offset.
func (v *VMDB) AbsoluteVMDBOffset() int64 { return v.vmdbAbsOffset }

func trimZero(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
