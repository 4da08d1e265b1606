package record

import (
	"encoding/binary"

	"github.com/hillu/libldm-go/ldmerr"
)

// TypeCode identifies which decoder a record payload routes to
// (spec.md §4.6).
type TypeCode uint8

const (
	TypeBlank     TypeCode = 0x00
	TypeVolume    TypeCode = 0x01
	TypeComponent TypeCode = 0x02
	TypePartition TypeCode = 0x03
	TypeDisk      TypeCode = 0x04
	TypeDiskGroup TypeCode = 0x05
)

const headerSize = 8

// header is the fixed 8-byte record header preceding every TLV body.
type header struct {
	Status   uint8
	Flags    uint16
	Revision uint8
	Type     TypeCode
	Size     uint32
}

func parseHeader(payload []byte) (header, []byte, error) {
	if len(payload) < headerSize {
		return header{}, nil, ldmerr.New(ldmerr.KindInvalid, "record payload shorter than %d-byte header", headerSize)
	}
	typeByte := payload[3]
	h := header{
		Status:   payload[0],
		Flags:    binary.BigEndian.Uint16(payload[1:3]),
		Revision: typeByte >> 4,
		Type:     TypeCode(typeByte & 0x0F),
		Size:     binary.BigEndian.Uint32(payload[4:8]),
	}
	return h, payload[headerSize:], nil
}
