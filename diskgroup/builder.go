// This file implements the multi-disk merge operation, spec.md §4.9.
package diskgroup

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hillu/libldm-go/ldmconfig"
	"github.com/hillu/libldm-go/ldmerr"
	"github.com/hillu/libldm-go/privhead"
	"github.com/hillu/libldm-go/probe"
	"github.com/hillu/libldm-go/record"
	"github.com/hillu/libldm-go/sector"
	"github.com/hillu/libldm-go/tocvmdb"
	"github.com/hillu/libldm-go/vblk"
)

// Builder accumulates disk groups across calls to Add. It is mutated
// only by Add; every other method is a pure reader and safe for
// concurrent use once no more Add calls are in flight (spec.md §5).
type Builder struct {
	groups map[string]*Group // keyed by canonical disk-group GUID
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{groups: map[string]*Group{}}
}

// Add reads LDM metadata from the device addressed by dev (devicePath
// is recorded verbatim for later DM table emission; it is never used
// to open anything — dev is already open).
//
// If no disk group with the same GUID has been seen yet, the full VBLK
// stream is parsed and a new Group is assembled and installed. If one
// has, the new disk's committed sequence must match the stored one, or
// KindInconsistent is returned and nothing is merged; on a match, only
// the matching Disk record's device fields are refreshed (spec.md §4.9).
//
// On any failure the Builder is left exactly as before the call.
func (b *Builder) Add(devicePath string, dev sector.Device, sectorSize int64) error {
	r := sector.New(dev, sectorSize)

	loc, err := probe.Locate(r)
	if err != nil {
		return errors.Wrap(err, "probing partition table")
	}
	ph, err := privhead.Read(r, loc.Sector)
	if err != nil {
		return errors.Wrap(err, "reading PRIVHEAD")
	}
	config, err := ldmconfig.Load(r, ph.LDMConfigStart, ph.LDMConfigSize)
	if err != nil {
		return errors.Wrap(err, "loading LDM config region")
	}
	vmdb, err := tocvmdb.Locate(config, r.SectorSize())
	if err != nil {
		return errors.Wrap(err, "locating TOCBLOCK/VMDB")
	}

	groupGUID, err := canonicalGUID(ph.DiskGroupGUID)
	if err != nil {
		return errors.Wrap(err, "parsing disk group GUID")
	}
	diskGUID, err := canonicalGUID(ph.DiskGUID)
	if err != nil {
		return errors.Wrap(err, "parsing disk GUID")
	}

	if existing, ok := b.groups[groupGUID]; ok {
		if existing.CommittedSeq != vmdb.CommittedSeq {
			return ldmerr.New(ldmerr.KindInconsistent, "disk group %s: committed_seq %d on new disk differs from stored %d", groupGUID, vmdb.CommittedSeq, existing.CommittedSeq)
		}
		for _, d := range existing.Disks {
			if d.GUID == diskGUID {
				refreshDisk(d, devicePath, ph)
				return nil
			}
		}
		// A disk with no matching record is not part of this group.
		return nil
	}

	vblks, err := vblk.Parse(config, vmdb.AbsoluteVMDBOffset()+int64(vmdb.FirstVBLKOffset), vmdb.VBLKCellSize)
	if err != nil {
		return errors.Wrap(err, "parsing VBLK stream")
	}

	decoded := make([]*record.Decoded, 0, len(vblks))
	for _, v := range vblks {
		d, err := record.Dispatch(v.Payload)
		if err != nil {
			return errors.Wrapf(err, "dispatching VBLK record %d", v.ID)
		}
		decoded = append(decoded, d)
	}

	group, err := assemble(decoded, vmdb)
	if err != nil {
		return errors.Wrap(err, "assembling disk group topology")
	}
	group.GUID = groupGUID
	group.CommittedSeq = vmdb.CommittedSeq

	if id, ok := findDiskID(group, diskGUID); ok {
		refreshDisk(group.Disks[id], devicePath, ph)
	}

	b.groups[groupGUID] = group
	return nil
}

// Groups returns every disk group assembled so far.
func (b *Builder) Groups() []*Group {
	out := make([]*Group, 0, len(b.groups))
	for _, g := range b.groups {
		out = append(out, g)
	}
	return out
}

// Group returns the disk group with the given canonical GUID, if any.
func (b *Builder) Group(guid string) (*Group, bool) {
	g, ok := b.groups[guid]
	return g, ok
}

func refreshDisk(d *Disk, devicePath string, ph *privhead.Header) {
	d.Present = true
	d.DevicePath = devicePath
	d.DataStart = ph.LogicalDiskStart
	d.DataSize = ph.LogicalDiskSize
	d.MetaStart = ph.LDMConfigStart
	d.MetaSize = ph.LDMConfigSize
}

func findDiskID(g *Group, guid string) (uint32, bool) {
	for id, d := range g.Disks {
		if d.GUID == guid {
			return id, true
		}
	}
	return 0, false
}

func canonicalGUID(ascii string) (string, error) {
	id, err := uuid.Parse(ascii)
	if err != nil {
		return "", ldmerr.New(ldmerr.KindInvalid, "malformed GUID %q: %v", ascii, err)
	}
	return id.String(), nil
}
