package diskgroup

import (
	"fmt"
	"sort"
	"strings"
)

// String renders a human-readable summary of the disk group's topology,
// in the spirit of the teacher's Image.DisplayGeometry methods: a header
// line for the group, then one line per disk and per volume in id order;
// under each volume its components in the volume's list order, and under
// each component its partitions in column order.
func (g *Group) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "disk group %q (guid %s, committed_seq %d)\n", g.Name, g.GUID, g.CommittedSeq)

	diskIDs := make([]uint32, 0, len(g.Disks))
	for id := range g.Disks {
		diskIDs = append(diskIDs, id)
	}
	sort.Slice(diskIDs, func(i, j int) bool { return diskIDs[i] < diskIDs[j] })
	for _, id := range diskIDs {
		d := g.Disks[id]
		status := "absent"
		if d.Present {
			status = d.DevicePath
		}
		fmt.Fprintf(&b, "  disk %d %q guid=%s [%s]\n", d.ID, d.Name, d.GUID, status)
	}

	volIDs := make([]uint32, 0, len(g.Volumes))
	for id := range g.Volumes {
		volIDs = append(volIDs, id)
	}
	sort.Slice(volIDs, func(i, j int) bool { return volIDs[i] < volIDs[j] })
	for _, id := range volIDs {
		v := g.Volumes[id]
		fmt.Fprintf(&b, "  volume %d %q type=%d size=%d sectors\n", v.ID, v.Name, v.Type, v.Size)
		for _, c := range v.Components {
			fmt.Fprintf(&b, "    component %d %q type=%d\n", c.ID, c.Name, c.Type)
			for _, p := range c.Partitions {
				fmt.Fprintf(&b, "      partition %d %q disk=%d start=%d size=%d column=%d\n",
					p.ID, p.Name, p.DiskID, p.Start, p.Size, p.Column)
			}
		}
	}
	return b.String()
}
