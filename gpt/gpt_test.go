package gpt

import (
	"encoding/binary"
	"testing"

	"github.com/hillu/libldm-go/sector"
)

type memDevice []byte

func (d memDevice) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, d[off:])
	return n, nil
}

func (d memDevice) Size() (int64, error) { return int64(len(d)), nil }

const sectorSize = 512

// buildGPTImage lays out a minimal GPT header at LBA 1 and a partition
// entry array at LBA 2, entrySize bytes per entry, nEntries entries.
func buildGPTImage(nEntries uint32, entrySize uint32, fill func(i uint32, entry []byte)) []byte {
	const partitionEntryLBA = 2
	entriesPerSector := sectorSize / int(entrySize)
	arraySectors := (int(nEntries) + entriesPerSector - 1) / entriesPerSector
	totalSectors := int(partitionEntryLBA) + arraySectors + 1
	img := make([]byte, totalSectors*sectorSize)

	hdr := img[1*sectorSize : 2*sectorSize]
	copy(hdr[0:8], "EFI PART")
	binary.LittleEndian.PutUint64(hdr[72:80], partitionEntryLBA)
	binary.LittleEndian.PutUint32(hdr[80:84], nEntries)
	binary.LittleEndian.PutUint32(hdr[84:88], entrySize)

	arrayBase := partitionEntryLBA * sectorSize
	for i := uint32(0); i < nEntries; i++ {
		off := arrayBase + int(i)*int(entrySize)
		entry := img[off : off+int(entrySize)]
		fill(i, entry)
	}
	return img
}

func TestPartitionAtNonZeroIndex(t *testing.T) {
	const entrySize = 128
	ldmType := GUID{0xAA, 0xC8, 0x08, 0x58, 0x8F, 0x7E, 0xE0, 0x42, 0x85, 0xD2, 0xE1, 0xE9, 0x04, 0x34, 0xCF, 0xB3}

	img := buildGPTImage(4, entrySize, func(i uint32, entry []byte) {
		if i == 2 {
			copy(entry[0:16], ldmType[:])
			binary.LittleEndian.PutUint64(entry[32:40], 1000)
			binary.LittleEndian.PutUint64(entry[40:48], 2000)
		}
		// every other entry stays the all-zero "unused" GUID.
	})

	r := sector.New(memDevice(img), sectorSize)
	g, err := Open(r)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	for i := uint32(0); i < g.Count(); i++ {
		entry, err := g.Partition(i)
		if err != nil {
			t.Fatalf("Partition(%d): %v", i, err)
		}
		if i == 2 {
			if entry.Type.IsZero() {
				t.Fatalf("expected non-zero type at index %d", i)
			}
			if entry.Type != ldmType {
				t.Fatalf("index %d: got type %v, want %v", i, entry.Type, ldmType)
			}
			if entry.FirstLBA != 1000 || entry.LastLBA != 2000 {
				t.Fatalf("index %d: got extent [%d,%d]", i, entry.FirstLBA, entry.LastLBA)
			}
		} else if !entry.Type.IsZero() {
			t.Fatalf("expected zero type at index %d, got %v", i, entry.Type)
		}
	}
}
