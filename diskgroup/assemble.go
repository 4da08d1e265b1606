package diskgroup

import (
	"sort"

	"github.com/google/uuid"

	"github.com/hillu/libldm-go/ldmerr"
	"github.com/hillu/libldm-go/record"
	"github.com/hillu/libldm-go/tocvmdb"
)

// assemble cross-links decoded records into a validated Group,
// implementing the topology assembler of spec.md §4.8.
//
// Errors: invalid (count mismatch, unresolved reference, duplicate
// column index, spanned volume-offset mismatch).
func assemble(records []*record.Decoded, vmdb *tocvmdb.VMDB) (*Group, error) {
	g := newGroup()
	var dgRecord *record.DiskGroup

	for _, d := range records {
		switch {
		case d.Disk != nil:
			g.Disks[d.Disk.ID] = &Disk{
				ID:   d.Disk.ID,
				Name: d.Disk.Name,
				GUID: uuid.UUID(d.Disk.GUID).String(),
			}
		case d.Partition != nil:
			g.Partitions[d.Partition.ID] = &Partition{
				ID:        d.Partition.ID,
				Name:      d.Partition.Name,
				ParentID:  d.Partition.ParentID,
				DiskID:    d.Partition.DiskID,
				Start:     d.Partition.Start,
				Size:      d.Partition.Size,
				VolOffset: d.Partition.VolOffset,
				Column:    d.Partition.Column,
			}
		case d.Component != nil:
			g.Components[d.Component.ID] = &Component{
				ID:         d.Component.ID,
				Name:       d.Component.Name,
				ParentID:   d.Component.ParentID,
				Type:       d.Component.Type,
				NParts:     d.Component.NParts,
				StripeSize: d.Component.StripeSize,
				NColumns:   d.Component.NColumns,
			}
		case d.Volume != nil:
			g.Volumes[d.Volume.ID] = &Volume{
				ID:            d.Volume.ID,
				Name:          d.Volume.Name,
				Type:          d.Volume.Type,
				Size:          d.Volume.Size,
				PartitionType: d.Volume.PartitionType,
				Hint:          d.Volume.Hint,
				NComponents:   d.Volume.NComponents,
			}
		case d.DiskGroup != nil:
			dgRecord = d.DiskGroup
		default:
			// blank record; nothing to do.
		}
	}

	if dgRecord == nil {
		return nil, ldmerr.New(ldmerr.KindInvalid, "no disk group record found in VBLK stream")
	}
	g.ID = dgRecord.ID
	g.Name = dgRecord.Name

	if err := checkCount(vmdb.CommittedCounts[tocvmdb.KindDisk], len(g.Disks), "disk"); err != nil {
		return nil, err
	}
	if err := checkCount(vmdb.CommittedCounts[tocvmdb.KindPartition], len(g.Partitions), "partition"); err != nil {
		return nil, err
	}
	if err := checkCount(vmdb.CommittedCounts[tocvmdb.KindComponent], len(g.Components), "component"); err != nil {
		return nil, err
	}
	if err := checkCount(vmdb.CommittedCounts[tocvmdb.KindVolume], len(g.Volumes), "volume"); err != nil {
		return nil, err
	}

	for _, p := range g.Partitions {
		disk, ok := g.Disks[p.DiskID]
		if !ok {
			return nil, ldmerr.New(ldmerr.KindInvalid, "partition %d references unknown disk %d", p.ID, p.DiskID)
		}
		p.Disk = disk

		comp, ok := g.Components[p.ParentID]
		if !ok {
			return nil, ldmerr.New(ldmerr.KindInvalid, "partition %d references unknown component %d", p.ID, p.ParentID)
		}
		comp.Partitions = append(comp.Partitions, p)
	}

	for _, c := range g.Components {
		if uint32(len(c.Partitions)) != c.NParts {
			return nil, ldmerr.New(ldmerr.KindInvalid, "component %d declares %d partitions, found %d", c.ID, c.NParts, len(c.Partitions))
		}
		sort.Slice(c.Partitions, func(i, j int) bool { return c.Partitions[i].Column < c.Partitions[j].Column })
		for i := 1; i < len(c.Partitions); i++ {
			if c.Partitions[i].Column == c.Partitions[i-1].Column {
				return nil, ldmerr.New(ldmerr.KindInvalid, "component %d has duplicate column index %d", c.ID, c.Partitions[i].Column)
			}
		}

		vol, ok := g.Volumes[c.ParentID]
		if !ok {
			return nil, ldmerr.New(ldmerr.KindInvalid, "component %d references unknown volume %d", c.ID, c.ParentID)
		}
		vol.Components = append(vol.Components, c)

		if c.Type == ComponentSpanned {
			var pos uint64
			for _, p := range c.Partitions {
				if p.VolOffset != pos {
					return nil, ldmerr.New(ldmerr.KindInvalid, "component %d partition %d: volume offset %d != expected %d", c.ID, p.ID, p.VolOffset, pos)
				}
				pos += p.Size
			}
		}
	}

	for _, v := range g.Volumes {
		if uint32(len(v.Components)) != v.NComponents {
			return nil, ldmerr.New(ldmerr.KindInvalid, "volume %d declares %d components, found %d", v.ID, v.NComponents, len(v.Components))
		}
		if len(v.Components) == 0 {
			return nil, ldmerr.New(ldmerr.KindInvalid, "volume %d has no components", v.ID)
		}
		v.DiskGroupName = g.Name
	}
	for _, c := range g.Components {
		if len(c.Partitions) == 0 {
			return nil, ldmerr.New(ldmerr.KindInvalid, "component %d has no partitions", c.ID)
		}
	}
	for _, d := range g.Disks {
		d.DiskGroupName = g.Name
	}

	return g, nil
}

func checkCount(declared uint32, actual int, kind string) error {
	if int(declared) != actual {
		return ldmerr.New(ldmerr.KindInvalid, "VMDB declares %d %s records, decoded %d", declared, kind, actual)
	}
	return nil
}
