package dmtable

import (
	"fmt"
	"strings"

	"github.com/hillu/libldm-go/diskgroup"
	"github.com/hillu/libldm-go/ldmerr"
)

// EmitVolume renders every DM table needed to instantiate v, with
// dependencies appearing before their consumers so the caller can
// create them in sequence (spec.md §4.10).
func EmitVolume(v *diskgroup.Volume) ([]Table, error) {
	switch v.Type {
	case diskgroup.VolumeGen:
		return emitGen(v)
	case diskgroup.VolumeRaid5:
		return emitRaid5(v)
	default:
		return nil, ldmerr.New(ldmerr.KindNotSupported, "volume %s: unsupported volume type", v.Name)
	}
}

func emitGen(v *diskgroup.Volume) ([]Table, error) {
	if len(v.Components) == 1 {
		return emitGenSingle(v, v.Components[0])
	}
	return emitMirror(v)
}

func emitGenSingle(v *diskgroup.Volume, c *diskgroup.Component) ([]Table, error) {
	switch c.Type {
	case diskgroup.ComponentSpanned:
		body, err := spannedBody(v, c)
		if err != nil {
			return nil, err
		}
		return []Table{{Name: tableName(v.DiskGroupName, v.Name), Body: body}}, nil
	case diskgroup.ComponentStriped:
		body, err := stripedBody(v, c)
		if err != nil {
			return nil, err
		}
		return []Table{{Name: tableName(v.DiskGroupName, v.Name), Body: body}}, nil
	case diskgroup.ComponentRaid:
		return nil, ldmerr.New(ldmerr.KindNotSupported, "volume %s: Raid component unsupported in Gen volume shape", v.Name)
	default:
		return nil, ldmerr.New(ldmerr.KindNotSupported, "volume %s: unsupported component type", v.Name)
	}
}

// spannedBody renders one linear row per partition in column order.
// Missing disks are fatal here — unlike mirror/RAID5, a spanned
// component cannot degrade (spec.md §4.10).
func spannedBody(v *diskgroup.Volume, c *diskgroup.Component) (string, error) {
	var b strings.Builder
	var pos uint64
	for _, p := range c.Partitions {
		if p.VolOffset != pos {
			return "", ldmerr.New(ldmerr.KindInvalid, "volume %s: component %s: volume offset %d != expected %d", v.Name, c.Name, p.VolOffset, pos)
		}
		if p.Disk == nil || !p.Disk.Present || p.Disk.DevicePath == "" {
			return "", ldmerr.New(ldmerr.KindMissingDisk, "volume %s: spanned component %s: disk %d has no known device", v.Name, c.Name, p.DiskID)
		}
		b.WriteString(linearLine(pos, pos+p.Size, p.Disk.DevicePath, partitionDataOffset(p)))
		pos += p.Size
	}
	return b.String(), nil
}

func stripedBody(v *diskgroup.Volume, c *diskgroup.Component) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "0 %d striped %d %d", v.Size, c.NColumns, c.StripeSize)
	for _, p := range c.Partitions {
		if p.Disk == nil || !p.Disk.Present || p.Disk.DevicePath == "" {
			return "", ldmerr.New(ldmerr.KindMissingDisk, "volume %s: striped component %s: disk %d has no known device — striping cannot degrade", v.Name, c.Name, p.DiskID)
		}
		fmt.Fprintf(&b, " %s %d", p.Disk.DevicePath, partitionDataOffset(p))
	}
	b.WriteString("\n")
	return b.String(), nil
}

func emitMirror(v *diskgroup.Volume) ([]Table, error) {
	var children []Table
	var tails []string
	missing := 0

	for _, c := range v.Components {
		if c.Type != diskgroup.ComponentSpanned || len(c.Partitions) != 1 {
			return nil, ldmerr.New(ldmerr.KindNotSupported, "volume %s: mirror component %s must be Spanned with exactly one partition", v.Name, c.Name)
		}
		child, err := partitionTable(v.DiskGroupName, c.Partitions[0])
		if err != nil {
			if ldmerr.Is(err, ldmerr.KindMissingDisk) {
				missing++
				tails = append(tails, " - -")
				continue
			}
			return nil, err
		}
		children = append(children, child)
		tails = append(tails, " - /dev/mapper/"+child.Name)
	}

	if missing == len(v.Components) {
		return nil, ldmerr.New(ldmerr.KindMissingDisk, "volume %s: every mirror leg is missing its disk", v.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "0 %d raid raid1 1 128 %d", v.Size, len(v.Components))
	for _, t := range tails {
		b.WriteString(t)
	}
	b.WriteString("\n")

	return append(children, Table{Name: tableName(v.DiskGroupName, v.Name), Body: b.String()}), nil
}

func emitRaid5(v *diskgroup.Volume) ([]Table, error) {
	if len(v.Components) != 1 || v.Components[0].Type != diskgroup.ComponentRaid {
		return nil, ldmerr.New(ldmerr.KindNotSupported, "volume %s: RAID5 volume must have exactly one Raid component", v.Name)
	}
	c := v.Components[0]

	var children []Table
	var tails []string
	missing := 0

	for _, p := range c.Partitions {
		child, err := partitionTable(v.DiskGroupName, p)
		if err != nil {
			if ldmerr.Is(err, ldmerr.KindMissingDisk) {
				missing++
				tails = append(tails, " - -")
				continue
			}
			return nil, err
		}
		children = append(children, child)
		tails = append(tails, " - /dev/mapper/"+child.Name)
	}

	if missing > 1 {
		return nil, ldmerr.New(ldmerr.KindMissingDisk, "volume %s: more than one RAID5 column missing its disk", v.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "0 %d raid raid5_ls 1 %d %d", v.Size, c.StripeSize, c.NColumns)
	for _, t := range tails {
		b.WriteString(t)
	}
	b.WriteString("\n")

	return append(children, Table{Name: tableName(v.DiskGroupName, v.Name), Body: b.String()}), nil
}
