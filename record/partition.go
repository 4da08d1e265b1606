package record

import "github.com/hillu/libldm-go/ldmerr"

const partitionHasColumn = 0x08

// Partition is a decoded partition record (spec.md §4.7).
type Partition struct {
	ID         uint32
	Name       string
	Start      uint64
	VolOffset  uint64
	Size       uint64
	ParentID   uint32
	DiskID     uint32
	Column     uint32
	HasColumn  bool
}

func decodePartition(h header, body []byte) (*Partition, error) {
	if h.Revision != 3 {
		return nil, ldmerr.New(ldmerr.KindNotSupported, "partition record revision %d unsupported", h.Revision)
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
	if err := c.skip(4 + 8); err != nil {
		return nil, err
	}
	start, err := c.uint64be()
	if err != nil {
		return nil, err
	}
	volOffset, err := c.uint64be()
	if err != nil {
		return nil, err
	}
	size, err := c.varInt64()
	if err != nil {
		return nil, err
	}
	parentID, err := c.varInt32()
	if err != nil {
		return nil, err
	}
	diskID, err := c.varInt32()
	if err != nil {
		return nil, err
	}

	p := &Partition{
		ID:        id,
		Name:      name,
		Start:     start,
		VolOffset: volOffset,
		Size:      size,
		ParentID:  parentID,
		DiskID:    diskID,
	}

	if h.Flags&partitionHasColumn != 0 {
		col, err := c.varInt32()
		if err != nil {
			return nil, err
		}
		p.Column = col
		p.HasColumn = true
	}

	return p, nil
}
