package record

import "github.com/hillu/libldm-go/ldmerr"

// Decoded is the result of dispatching a single VBLK record payload:
// exactly one of its fields is non-nil, matching the record's type
// code, or all are nil for a blank (type 0x00) record.
type Decoded struct {
	Disk      *Disk
	Partition *Partition
	Component *Component
	Volume    *Volume
	DiskGroup *DiskGroup
}

// Dispatch parses the fixed record header from payload and routes the
// remaining TLV body to the matching decoder (spec.md §4.6).
//
// Errors: invalid (malformed header/TLV), notsupported (unknown type
// code or unsupported revision/shape combination).
func Dispatch(payload []byte) (*Decoded, error) {
	h, body, err := parseHeader(payload)
	if err != nil {
		return nil, err
	}

	switch h.Type {
	case TypeBlank:
		return &Decoded{}, nil
	case TypeVolume:
		v, err := decodeVolume(h, body)
		if err != nil {
			return nil, err
		}
		return &Decoded{Volume: v}, nil
	case TypeComponent:
		c, err := decodeComponent(h, body)
		if err != nil {
			return nil, err
		}
		return &Decoded{Component: c}, nil
	case TypePartition:
		p, err := decodePartition(h, body)
		if err != nil {
			return nil, err
		}
		return &Decoded{Partition: p}, nil
	case TypeDisk:
		d, err := decodeDisk(h, body)
		if err != nil {
			return nil, err
		}
		return &Decoded{Disk: d}, nil
	case TypeDiskGroup:
		g, err := decodeDiskGroup(h, body)
		if err != nil {
			return nil, err
		}
		return &Decoded{DiskGroup: g}, nil
	default:
		return nil, ldmerr.New(ldmerr.KindNotSupported, "record type code 0x%02x unsupported", h.Type)
	}
}
