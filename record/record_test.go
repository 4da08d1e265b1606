package record

import (
	"encoding/binary"
	"testing"
)

// tlvBuilder assembles a TLV record body byte by byte, the way a
// synthetic VBLK fixture would be constructed for a test.
type tlvBuilder struct {
	buf []byte
}

func (b *tlvBuilder) varInt(n int, v uint64) *tlvBuilder {
	b.buf = append(b.buf, byte(n))
	for i := n - 1; i >= 0; i-- {
		b.buf = append(b.buf, byte(v>>(8*i)))
	}
	return b
}

func (b *tlvBuilder) varString(s string) *tlvBuilder {
	raw := append([]byte(s), 0)
	b.buf = append(b.buf, byte(len(raw)))
	b.buf = append(b.buf, raw...)
	return b
}

func (b *tlvBuilder) skip(n int) *tlvBuilder {
	b.buf = append(b.buf, make([]byte, n)...)
	return b
}

func (b *tlvBuilder) byteVal(v byte) *tlvBuilder {
	b.buf = append(b.buf, v)
	return b
}

func (b *tlvBuilder) u64(v uint64) *tlvBuilder {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func header8(flags uint16, revision, typeCode uint8) []byte {
	hdr := make([]byte, 8)
	hdr[0] = 0 // status
	binary.BigEndian.PutUint16(hdr[1:3], flags)
	hdr[3] = (revision << 4) | (typeCode & 0x0F)
	binary.BigEndian.PutUint32(hdr[4:8], 0) // size, unused by decoders
	return hdr
}

func TestDecodeDiskRevision4(t *testing.T) {
	body := (&tlvBuilder{}).varInt(4, 7).varString("disk7").buf
	body = append(body, make([]byte, 16)...)
	for i := range body[len(body)-16:] {
		body[len(body)-16+i] = byte(i + 1)
	}
	payload := append(header8(0, 4, uint8(TypeDisk)), body...)

	d, err := Dispatch(payload)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if d.Disk == nil {
		t.Fatal("expected a Disk record")
	}
	if d.Disk.ID != 7 || d.Disk.Name != "disk7" {
		t.Fatalf("got %+v", d.Disk)
	}
	if d.Disk.GUID[0] != 1 || d.Disk.GUID[15] != 16 {
		t.Fatalf("GUID not copied correctly: %v", d.Disk.GUID)
	}
}

func TestDecodePartitionWithColumn(t *testing.T) {
	b := &tlvBuilder{}
	b.varInt(4, 42).varString("part1").skip(4 + 8)
	b.u64(2048).u64(0)
	b.varInt(8, 1000).varInt(4, 5).varInt(4, 9).varInt(4, 2)
	payload := append(header8(0x08, 3, uint8(TypePartition)), b.buf...)

	d, err := Dispatch(payload)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	p := d.Partition
	if p == nil {
		t.Fatal("expected a Partition record")
	}
	if p.ID != 42 || p.Start != 2048 || p.Size != 1000 || p.ParentID != 5 || p.DiskID != 9 {
		t.Fatalf("got %+v", p)
	}
	if !p.HasColumn || p.Column != 2 {
		t.Fatalf("expected column index 2, got %+v", p)
	}
}

func TestDecodePartitionUnsupportedRevision(t *testing.T) {
	payload := header8(0, 9, uint8(TypePartition))
	if _, err := Dispatch(payload); err == nil {
		t.Fatal("expected an error for unsupported revision")
	}
}

func TestDecodeComponentSpanned(t *testing.T) {
	b := &tlvBuilder{}
	b.varInt(4, 3).varString("comp1").varString("state").byteVal(2 /* Spanned */)
	b.skip(4).varInt(4, 2).skip(8 + 8).varInt(4, 1).skip(1)
	payload := append(header8(0, 3, uint8(TypeComponent)), b.buf...)

	d, err := Dispatch(payload)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if d.Component == nil || d.Component.Type != ComponentSpanned || d.Component.NParts != 2 {
		t.Fatalf("got %+v", d.Component)
	}
}

func TestDecodeComponentStripedWithStripeInfo(t *testing.T) {
	b := &tlvBuilder{}
	b.varInt(4, 3).varString("comp1").varString("state").byteVal(1 /* Striped */)
	b.skip(4).varInt(4, 2).skip(8 + 8).varInt(4, 1).skip(1)
	b.varInt(8, 128).varInt(4, 2)
	payload := append(header8(0x10, 3, uint8(TypeComponent)), b.buf...)

	d, err := Dispatch(payload)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !d.Component.HasStripe || d.Component.StripeSize != 128 || d.Component.NColumns != 2 {
		t.Fatalf("got %+v", d.Component)
	}
}

func TestDecodeBlankRecord(t *testing.T) {
	d, err := Dispatch(header8(0, 0, uint8(TypeBlank)))
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if d.Disk != nil || d.Partition != nil || d.Component != nil || d.Volume != nil || d.DiskGroup != nil {
		t.Fatalf("expected an empty Decoded, got %+v", d)
	}
}

func TestDecodeUnknownTypeCode(t *testing.T) {
	if _, err := Dispatch(header8(0, 0, 0x0F)); err == nil {
		t.Fatal("expected notsupported error for unknown type code")
	}
}

func TestParseASCIIGUIDRoundTrip(t *testing.T) {
	g, err := parseASCIIGUID("01020304-0506-0708-090a-0b0c0d0e0f10")
	if err != nil {
		t.Fatalf("parseASCIIGUID: %v", err)
	}
	want := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	if g != want {
		t.Fatalf("got %v want %v", g, want)
	}
}
