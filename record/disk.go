package record

import (
	"github.com/google/uuid"

	"github.com/hillu/libldm-go/ldmerr"
)

// Disk is a decoded disk record (spec.md §4.7).
type Disk struct {
	ID   uint32
	Name string
	GUID [16]byte
}

func decodeDisk(h header, body []byte) (*Disk, error) {
	c := newCursor(body)

	id, err := c.varInt32()
	if err != nil {
		return nil, err
	}
	name, err := c.varString()
	if err != nil {
		return nil, err
	}

	d := &Disk{ID: id, Name: name}

	switch h.Revision {
	case 3:
		s, err := c.varString()
		if err != nil {
			return nil, err
		}
		guid, err := parseASCIIGUID(s)
		if err != nil {
			return nil, err
		}
		d.GUID = guid
	case 4:
		raw, err := c.bytes(16)
		if err != nil {
			return nil, err
		}
		copy(d.GUID[:], raw)
	default:
		return nil, ldmerr.New(ldmerr.KindNotSupported, "disk record revision %d unsupported", h.Revision)
	}

	return d, nil
}

// parseASCIIGUID parses a hyphenated (or bare hex) ASCII GUID string
// into its raw 16-byte form.
func parseASCIIGUID(s string) ([16]byte, error) {
	var out [16]byte
	id, err := uuid.Parse(s)
	if err != nil {
		return out, ldmerr.New(ldmerr.KindInvalid, "malformed ASCII GUID %q: %v", s, err)
	}
	return id, nil
}
