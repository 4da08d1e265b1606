package dmtable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hillu/libldm-go/diskgroup"
)

func disk(name, path string, dataStart int64, present bool) *diskgroup.Disk {
	return &diskgroup.Disk{
		Name:       name,
		Present:    present,
		DevicePath: path,
		DataStart:  dataStart,
	}
}

func TestEmitSimpleVolumeOneDiskPresent(t *testing.T) {
	d := disk("diskA", "/dev/sda", 34, true)
	p := &diskgroup.Partition{Name: "p0", Size: 1000, Start: 2048, Disk: d}
	c := &diskgroup.Component{Name: "c0", Type: diskgroup.ComponentSpanned, Partitions: []*diskgroup.Partition{p}}
	v := &diskgroup.Volume{Name: "vol", DiskGroupName: "dg", Type: diskgroup.VolumeGen, Size: 1000, Components: []*diskgroup.Component{c}}

	tables, err := EmitVolume(v)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Equal(t, "ldm_dg_vol", tables[0].Name)
	require.Equal(t, "0 1000 linear /dev/sda 2082\n", tables[0].Body)
}

func TestEmitSpannedAcrossTwoDisks(t *testing.T) {
	a := disk("diskA", "/dev/sda", 0, true)
	b := disk("diskB", "/dev/sdb", 0, true)
	p0 := &diskgroup.Partition{Name: "p0", Size: 500, Start: 100, VolOffset: 0, Column: 0, Disk: a}
	p1 := &diskgroup.Partition{Name: "p1", Size: 700, Start: 200, VolOffset: 500, Column: 1, Disk: b}
	c := &diskgroup.Component{Name: "c0", Type: diskgroup.ComponentSpanned, Partitions: []*diskgroup.Partition{p0, p1}}
	v := &diskgroup.Volume{Name: "vol", DiskGroupName: "dg", Type: diskgroup.VolumeGen, Size: 1200, Components: []*diskgroup.Component{c}}

	tables, err := EmitVolume(v)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Equal(t, "0 500 linear /dev/sda 100\n500 1200 linear /dev/sdb 200\n", tables[0].Body)
}

func TestEmitStripedTwoColumns(t *testing.T) {
	a := disk("diskA", "/dev/sda", 0, true)
	b := disk("diskB", "/dev/sdb", 0, true)
	p0 := &diskgroup.Partition{Name: "p0", Size: 1024, Start: 100, Column: 0, Disk: a}
	p1 := &diskgroup.Partition{Name: "p1", Size: 1024, Start: 200, Column: 1, Disk: b}
	c := &diskgroup.Component{
		Name: "c0", Type: diskgroup.ComponentStriped, NColumns: 2, StripeSize: 128,
		Partitions: []*diskgroup.Partition{p0, p1},
	}
	v := &diskgroup.Volume{Name: "vol", DiskGroupName: "dg", Type: diskgroup.VolumeGen, Size: 2048, Components: []*diskgroup.Component{c}}

	tables, err := EmitVolume(v)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Equal(t, "0 2048 striped 2 128 /dev/sda 100 /dev/sdb 200\n", tables[0].Body)
}

func TestEmitMirrorWithMissingLeg(t *testing.T) {
	a := disk("diskA", "/dev/sda", 0, true)
	b := disk("diskB", "", 0, false)
	pa := &diskgroup.Partition{Name: "pa", Size: 1000, Disk: a}
	pb := &diskgroup.Partition{Name: "pb", Size: 1000, Disk: b}
	ca := &diskgroup.Component{Name: "ca", Type: diskgroup.ComponentSpanned, Partitions: []*diskgroup.Partition{pa}}
	cb := &diskgroup.Component{Name: "cb", Type: diskgroup.ComponentSpanned, Partitions: []*diskgroup.Partition{pb}}
	v := &diskgroup.Volume{Name: "vol", DiskGroupName: "dg", Type: diskgroup.VolumeGen, Size: 1000, Components: []*diskgroup.Component{ca, cb}}

	tables, err := EmitVolume(v)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	mirror := tables[len(tables)-1]
	require.Equal(t, "ldm_dg_vol", mirror.Name)
	require.Equal(t, "0 1000 raid raid1 1 128 2 - /dev/mapper/ldm_dg_pa_part - -\n", mirror.Body)
	require.Equal(t, "ldm_dg_pa_part", tables[0].Name)
}

func TestEmitMirrorEveryDiskMissing(t *testing.T) {
	a := disk("diskA", "", 0, false)
	b := disk("diskB", "", 0, false)
	ca := &diskgroup.Component{Name: "ca", Type: diskgroup.ComponentSpanned, Partitions: []*diskgroup.Partition{{Name: "pa", Size: 1000, Disk: a}}}
	cb := &diskgroup.Component{Name: "cb", Type: diskgroup.ComponentSpanned, Partitions: []*diskgroup.Partition{{Name: "pb", Size: 1000, Disk: b}}}
	v := &diskgroup.Volume{Name: "vol", DiskGroupName: "dg", Type: diskgroup.VolumeGen, Size: 1000, Components: []*diskgroup.Component{ca, cb}}

	_, err := EmitVolume(v)
	require.Error(t, err)
}

func TestEmitRaid5AllPresent(t *testing.T) {
	a := disk("diskA", "/dev/sda", 0, true)
	b := disk("diskB", "/dev/sdb", 0, true)
	c := disk("diskC", "/dev/sdc", 0, true)
	p0 := &diskgroup.Partition{Name: "p0", Size: 2048, Start: 0, Column: 0, Disk: a}
	p1 := &diskgroup.Partition{Name: "p1", Size: 2048, Start: 0, Column: 1, Disk: b}
	p2 := &diskgroup.Partition{Name: "p2", Size: 2048, Start: 0, Column: 2, Disk: c}
	comp := &diskgroup.Component{
		Name: "comp", Type: diskgroup.ComponentRaid, NColumns: 3, StripeSize: 64,
		Partitions: []*diskgroup.Partition{p0, p1, p2},
	}
	v := &diskgroup.Volume{Name: "vol", DiskGroupName: "dg", Type: diskgroup.VolumeRaid5, Size: 4096, Components: []*diskgroup.Component{comp}}

	tables, err := EmitVolume(v)
	require.NoError(t, err)
	require.Len(t, tables, 4)

	raid5 := tables[len(tables)-1]
	require.True(t, strings.HasPrefix(raid5.Body, "0 4096 raid raid5_ls 1 64 3"))
	for _, child := range tables[:3] {
		require.Contains(t, raid5.Body, "/dev/mapper/"+child.Name)
	}
}
