// Package vblk iterates the stream of fixed-size VBLK cells in an LDM
// config region, reassembling records that span multiple cells
// (spec.md §4.5).
package vblk

import (
	"encoding/binary"
	"sort"

	"github.com/hillu/libldm-go/ldmerr"
)

const cellHeaderSize = 16

// Record is a fully reassembled VBLK record payload, ready for
// dispatch to a record decoder.
type Record struct {
	ID      uint32
	Payload []byte
}

type reassembly struct {
	buf           []byte
	payloadSize   int
	entriesTotal  uint16
	entriesFound  uint16
	entriesSeen   map[uint16]bool
}

// Parse walks the VBLK cell stream in config starting at startOffset
// (bytes), each cell cellSize bytes, until a cell fails to begin with
// the VBLK magic. It returns every fully reassembled record, sorted by
// record id for determinism — reassembly itself is order-independent
// by construction, keyed on (record_id, entry).
//
// Errors: invalid (malformed cell header, incomplete reassembly buffer).
func Parse(config []byte, startOffset int64, cellSize uint32) ([]Record, error) {
	if cellSize <= cellHeaderSize {
		return nil, ldmerr.New(ldmerr.KindInvalid, "VBLK cell size %d too small for header", cellSize)
	}
	payloadSize := int(cellSize) - cellHeaderSize

	pending := map[uint32]*reassembly{}
	var complete []Record

	pos := startOffset
	for {
		if pos < 0 || pos+int64(cellSize) > int64(len(config)) {
			break
		}
		cell := config[pos : pos+int64(cellSize)]
		if string(cell[0:4]) != "VBLK" {
			break
		}
		pos += int64(cellSize)

		recordID := binary.BigEndian.Uint32(cell[8:12])
		entry := binary.BigEndian.Uint16(cell[12:14])
		entriesTotal := binary.BigEndian.Uint16(cell[14:16])
		payload := cell[cellHeaderSize:]

		if entriesTotal == 0 || entry >= entriesTotal {
			return nil, ldmerr.New(ldmerr.KindInvalid, "VBLK record %d: entry %d >= entries_total %d", recordID, entry, entriesTotal)
		}

		if entriesTotal == 1 {
			complete = append(complete, Record{ID: recordID, Payload: payload})
			continue
		}

		r, ok := pending[recordID]
		if !ok {
			r = &reassembly{
				buf:          make([]byte, int(entriesTotal)*payloadSize),
				payloadSize:  payloadSize,
				entriesTotal: entriesTotal,
				entriesSeen:  map[uint16]bool{},
			}
			pending[recordID] = r
		}
		if !r.entriesSeen[entry] {
			r.entriesSeen[entry] = true
			r.entriesFound++
		}
		copy(r.buf[int(entry)*payloadSize:], payload)

		if r.entriesFound == r.entriesTotal {
			complete = append(complete, Record{ID: recordID, Payload: r.buf})
			delete(pending, recordID)
		}
	}

	for id, r := range pending {
		return nil, ldmerr.New(ldmerr.KindInvalid, "VBLK record %d incomplete: got %d of %d entries", id, r.entriesFound, r.entriesTotal)
	}

	sort.Slice(complete, func(i, j int) bool { return complete[i].ID < complete[j].ID })
	return complete, nil
}
