package dmtable

import (
	"github.com/hillu/libldm-go/diskgroup"
	"github.com/hillu/libldm-go/ldmerr"
)

// partitionTable renders a single partition's standalone linear table,
// named "ldm_<dgname>_<partition-name>_part".
//
// Errors: missing-disk (the partition's disk has no known device path).
func partitionTable(dgName string, p *diskgroup.Partition) (Table, error) {
	if p.Disk == nil || !p.Disk.Present || p.Disk.DevicePath == "" {
		return Table{}, ldmerr.New(ldmerr.KindMissingDisk, "partition %s: disk %d has no known device", p.Name, p.DiskID)
	}
	return Table{
		Name: tableName(dgName, p.Name) + "_part",
		Body: linearLine(0, p.Size, p.Disk.DevicePath, partitionDataOffset(p)),
	}, nil
}
