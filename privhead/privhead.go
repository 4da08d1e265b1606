// Package privhead reads and validates the per-disk PRIVHEAD structure
// (spec.md §4.2, §6): a fixed-layout block that identifies a disk,
// names its disk group, and locates the LDM config region.
//
// Field layout follows the published LDM PRIVHEAD documentation that
// spec.md §4.2 references; unused/opaque regions are modeled as raw
// byte arrays and never interpreted, the same way retroio's
// DiskInformation carries an explicit Padding field up to the next
// known structure (amstrad/dsk/disk_info.go).
package privhead

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"

	"github.com/hillu/libldm-go/ldmerr"
	"github.com/hillu/libldm-go/sector"
)

const (
	magic      = "PRIVHEAD"
	headerSize = 512 // bytes; fixed, sufficient to cover every field below
)

// Header is the subset of PRIVHEAD fields the LDM core consumes.
type Header struct {
	MajorVersion uint16
	MinorVersion uint16

	DiskGUID      string // ASCII hyphenated GUID
	HostGUID      string
	DiskGroupGUID string
	DiskGroupName string

	LogicalDiskStart int64 // sectors
	LogicalDiskSize  int64 // sectors
	LDMConfigStart   int64 // sectors
	LDMConfigSize    int64 // sectors
}

// Read parses the PRIVHEAD structure located at headerSector on r.
//
// Errors: invalid (bad magic or corrupt fields), io.
func Read(r *sector.Reader, headerSector int64) (*Header, error) {
	sectorsNeeded := (headerSize + int(r.SectorSize()) - 1) / int(r.SectorSize())
	if sectorsNeeded < 1 {
		sectorsNeeded = 1
	}
	buf, err := r.ReadSectors(headerSector, int64(sectorsNeeded))
	if err != nil {
		return nil, errors.Wrap(err, "reading PRIVHEAD")
	}
	if len(buf) < headerSize {
		return nil, ldmerr.New(ldmerr.KindInvalid, "PRIVHEAD truncated: got %d bytes, need %d", len(buf), headerSize)
	}
	if string(buf[0:8]) != magic {
		return nil, ldmerr.New(ldmerr.KindInvalid, "bad PRIVHEAD magic %q", buf[0:8])
	}

	be := binary.BigEndian
	h := &Header{
		MajorVersion:  be.Uint16(buf[8:10]),
		MinorVersion:  be.Uint16(buf[10:12]),
		DiskGUID:      trimGUID(buf[24:88]),
		HostGUID:      trimGUID(buf[88:152]),
		DiskGroupGUID: trimGUID(buf[152:216]),
		DiskGroupName: trimPadded(buf[216:248]),

		LogicalDiskStart: int64(be.Uint64(buf[248:256])),
		LogicalDiskSize:  int64(be.Uint64(buf[256:264])),
		LDMConfigStart:   int64(be.Uint64(buf[264:272])),
		LDMConfigSize:    int64(be.Uint64(buf[272:280])),
	}
	if h.LogicalDiskSize < 0 || h.LDMConfigSize < 0 {
		return nil, ldmerr.New(ldmerr.KindInvalid, "PRIVHEAD declares a negative extent")
	}
	return h, nil
}

func trimGUID(b []byte) string {
	return strings.TrimRight(string(b), "\x00 ")
}

func trimPadded(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
