// Package diskgroup assembles disk, partition, component, and volume
// records decoded from one or more physical disks into a validated
// disk-group topology (spec.md §3, §4.8, §4.9).
//
// Ownership follows the teacher's "one owner, many non-owning
// back-references" shape: a Group owns its Disks/Partitions/
// Components/Volumes by id; a Partition observes its Disk but the Disk
// never points back, so the object graph stays acyclic (spec.md §9).
package diskgroup

import "github.com/hillu/libldm-go/record"

// Disk is an LDM disk, possibly observed only by reference from a
// partition on another physical disk that has not itself been added yet.
type Disk struct {
	ID   uint32
	Name string
	GUID string // canonical lowercase-hyphenated

	DiskGroupName string

	// Present is true once this disk's own physical device has been
	// added; the fields below are only meaningful then.
	Present    bool
	DevicePath string
	DataStart  int64 // sectors
	DataSize   int64 // sectors
	MetaStart  int64 // sectors
	MetaSize   int64 // sectors
}

// ComponentType mirrors record.ComponentType for the assembled topology.
type ComponentType = record.ComponentType

const (
	ComponentStriped = record.ComponentStriped
	ComponentSpanned = record.ComponentSpanned
	ComponentRaid    = record.ComponentRaid
)

// Partition references exactly one Disk and belongs to exactly one Component.
type Partition struct {
	ID        uint32
	Name      string
	ParentID  uint32 // Component id
	DiskID    uint32
	Start     uint64 // sectors on disk
	Size      uint64 // sectors
	VolOffset uint64 // sectors
	Column    uint32

	Disk *Disk // resolved by the assembler; non-owning
}

// Component contains an ordered list of Partitions and belongs to
// exactly one Volume.
type Component struct {
	ID         uint32
	Name       string
	ParentID   uint32 // Volume id
	Type       ComponentType
	NParts     uint32
	StripeSize uint64
	NColumns   uint32

	Partitions []*Partition // ordered by column index
}

// VolumeType mirrors record.VolumeType for the assembled topology.
type VolumeType = record.VolumeType

const (
	VolumeGen   = record.VolumeGen
	VolumeRaid5 = record.VolumeRaid5
)

// Volume contains an ordered list of Components.
type Volume struct {
	ID            uint32
	Name          string
	Type          VolumeType
	Size          uint64 // sectors
	PartitionType uint8
	Hint          string
	NComponents   uint32

	Components []*Component

	DiskGroupName string
}

// Group is a fully assembled, validated LDM disk group: the unit of
// administration spanning every physical disk that has contributed
// metadata to it.
type Group struct {
	GUID         string // canonical lowercase-hyphenated
	ID           uint32
	Name         string
	CommittedSeq uint64

	Disks      map[uint32]*Disk
	Partitions map[uint32]*Partition
	Components map[uint32]*Component
	Volumes    map[uint32]*Volume
}

func newGroup() *Group {
	return &Group{
		Disks:      map[uint32]*Disk{},
		Partitions: map[uint32]*Partition{},
		Components: map[uint32]*Component{},
		Volumes:    map[uint32]*Volume{},
	}
}
