// Package dmtable renders the validated topology assembled by package
// diskgroup into textual Linux device-mapper table descriptions
// (spec.md §4.10).
package dmtable

import (
	"fmt"
	"net/url"

	"github.com/hillu/libldm-go/diskgroup"
)

// Table is one device-mapper table: a target name and its multi-line body.
type Table struct {
	Name string
	Body string
}

// tableName builds "ldm_<dgname>_<part-or-vol-name>", percent-escaping
// both components against the path-segment reserved set so the result
// survives as a file-system-visible DM target name (spec.md §4.10, §9).
func tableName(dgName, component string) string {
	return "ldm_" + url.PathEscape(dgName) + "_" + url.PathEscape(component)
}

// partitionDataOffset is the absolute sector offset of a partition's
// data on its owning disk: the disk's data-area start plus the
// partition's own start sector.
func partitionDataOffset(p *diskgroup.Partition) uint64 {
	return uint64(p.Disk.DataStart) + p.Start
}

func linearLine(startSector, endSector uint64, device string, dataOffset uint64) string {
	return fmt.Sprintf("%d %d linear %s %d\n", startSector, endSector, device, dataOffset)
}
