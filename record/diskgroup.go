package record

import "github.com/hillu/libldm-go/ldmerr"

// DiskGroup is a decoded disk-group record (spec.md §4.7).
type DiskGroup struct {
	ID   uint32
	Name string
}

func decodeDiskGroup(h header, body []byte) (*DiskGroup, error) {
	switch h.Revision {
	case 3, 4:
	default:
		return nil, ldmerr.New(ldmerr.KindNotSupported, "disk group record revision %d unsupported", h.Revision)
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
	return &DiskGroup{ID: id, Name: name}, nil
}
