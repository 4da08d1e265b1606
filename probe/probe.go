// Package probe locates the LDM private header on a device by reading
// its MBR and, where necessary, its GPT partition table (spec.md §4.1).
package probe

import (
	"github.com/pkg/errors"

	"github.com/hillu/libldm-go/gpt"
	"github.com/hillu/libldm-go/ldmerr"
	"github.com/hillu/libldm-go/mbr"
	"github.com/hillu/libldm-go/sector"
)

// ldmPartitionTypeGUID is the GPT partition type GUID for an LDM
// metadata partition: 5808C8AA-7E8F-42E0-85D2-E1E90434CFB3, stored
// mixed-endian as GPT type GUIDs are on disk.
var ldmPartitionTypeGUID = gpt.GUID{
	0xAA, 0xC8, 0x08, 0x58, 0x8F, 0x7E, 0xE0, 0x42,
	0x85, 0xD2, 0xE1, 0xE9, 0x04, 0x34, 0xCF, 0xB3,
}

// PrivateHeaderLocation is the sector at which the LDM reader should
// expect to find the PRIVHEAD structure.
type PrivateHeaderLocation struct {
	Sector int64
}

// Locate determines where the PRIVHEAD structure sits on the device
// addressed by r, by inspecting the MBR partition 0 type.
//
// Errors: not_ldm (neither an LDM nor a protective-MBR type 0 entry),
// invalid (malformed GPT), io.
func Locate(r *sector.Reader) (*PrivateHeaderLocation, error) {
	table, err := mbr.Read(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading MBR")
	}

	switch table.Entries[0].Type {
	case mbr.TypeWindowsLDM:
		// Private header sits at the MBR-reported partition start.
		return &PrivateHeaderLocation{Sector: int64(table.Entries[0].StartLBA)}, nil

	case mbr.TypeEFIProtective:
		part, err := findLDMPartition(r)
		if err != nil {
			return nil, err
		}
		// The private header begins at the partition's *last* LBA, per
		// spec.md §4.1 — LDM stores it at the end of its GPT partition,
		// not the start.
		return &PrivateHeaderLocation{Sector: int64(part.LastLBA)}, nil

	default:
		return nil, ldmerr.New(ldmerr.KindNotLDM, "MBR partition 0 type 0x%02x is neither LDM nor protective", table.Entries[0].Type)
	}
}

// findLDMPartition walks the GPT partition table looking for the LDM
// metadata partition type GUID. Each iteration must read the partition
// at the *current* index — a documented bug in the reference GPT
// reader always re-read index 0 instead (spec.md §9); this walk does not.
func findLDMPartition(r *sector.Reader) (*gpt.Entry, error) {
	g, err := gpt.Open(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening GPT")
	}
	for i := uint32(0); i < g.Count(); i++ {
		entry, err := g.Partition(i)
		if err != nil {
			return nil, errors.Wrapf(err, "reading GPT partition %d", i)
		}
		if entry.Type.IsZero() {
			continue
		}
		if entry.Type == ldmPartitionTypeGUID {
			return entry, nil
		}
	}
	return nil, ldmerr.New(ldmerr.KindNotLDM, "no LDM partition found in GPT table")
}
