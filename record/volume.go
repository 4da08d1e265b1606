package record

import "github.com/hillu/libldm-go/ldmerr"

const (
	volumeFlagID1  = 0x08
	volumeFlagID2  = 0x20
	volumeFlagSize2 = 0x80
	volumeFlagHint = 0x02
)

// VolumeType is the volume's redundancy shape (spec.md DATA MODEL).
type VolumeType uint8

const (
	VolumeGen   VolumeType = 3
	VolumeRaid5 VolumeType = 4
)

// Volume is a decoded volume record (spec.md §4.7).
type Volume struct {
	ID           uint32
	Name         string
	Type         VolumeType
	Flags        uint8
	NComponents  uint32
	Size         uint64
	PartitionType uint8

	ID1   string
	ID2   string
	Size2 uint64
	Hint  string
}

func decodeVolume(h header, body []byte) (*Volume, error) {
	if h.Revision != 5 {
		return nil, ldmerr.New(ldmerr.KindNotSupported, "volume record revision %d unsupported", h.Revision)
	}

	c := newCursor(body)

	id, err := c.varInt32()
	if err != nil {
		return nil, err
	}
	name, err := c.varString()
	if err != nil {
		return nil, err
	}
	if err := c.varSkip(); err != nil { // volume-type tag ("gen"/"raid5")
		return nil, err
	}
	if err := c.varSkip(); err != nil { // opaque "unknown" string (spec.md §9)
		return nil, err
	}
	if err := c.skip(14); err != nil {
		return nil, err
	}
	typeByte, err := c.byte()
	if err != nil {
		return nil, err
	}
	typ := VolumeType(typeByte)
	switch typ {
	case VolumeGen, VolumeRaid5:
	default:
		return nil, ldmerr.New(ldmerr.KindNotSupported, "volume type 0x%02x unsupported", typeByte)
	}
	if err := c.skip(1 + 1 + 3); err != nil {
		return nil, err
	}
	flags, err := c.byte()
	if err != nil {
		return nil, err
	}
	nComponents, err := c.varInt32()
	if err != nil {
		return nil, err
	}
	if err := c.skip(8 + 8); err != nil {
		return nil, err
	}
	size, err := c.varInt64()
	if err != nil {
		return nil, err
	}
	if err := c.skip(4); err != nil {
		return nil, err
	}
	partType, err := c.byte()
	if err != nil {
		return nil, err
	}
	if err := c.skip(16); err != nil {
		return nil, err
	}

	v := &Volume{
		ID:            id,
		Name:          name,
		Type:          typ,
		Flags:         flags,
		NComponents:   nComponents,
		Size:          size,
		PartitionType: partType,
	}

	if flags&volumeFlagID1 != 0 {
		if v.ID1, err = c.varString(); err != nil {
			return nil, err
		}
	}
	if flags&volumeFlagID2 != 0 {
		if v.ID2, err = c.varString(); err != nil {
			return nil, err
		}
	}
	if flags&volumeFlagSize2 != 0 {
		if v.Size2, err = c.varInt64(); err != nil {
			return nil, err
		}
	}
	if flags&volumeFlagHint != 0 {
		if v.Hint, err = c.varString(); err != nil {
			return nil, err
		}
	}

	return v, nil
}
