// Package record decodes VBLK record payloads: a fixed header
// (spec.md §4.6) followed by a tag-length-value body specific to each
// record type (spec.md §4.7).
//
// The TLV substrate is a read-only cursor over an immutable byte
// slice; every read validates its bounds explicitly, since malformed
// input may claim lengths past the record end (spec.md §9).
package record

import (
	"bytes"
	"encoding/binary"

	"github.com/hillu/libldm-go/ldmerr"
)

// cursor is a bounds-checked reader over a record's TLV body.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

// readLen reads the 1-byte length prefix common to every TLV field,
// checks that the L value bytes after it fit in the record, and returns
// L. It consumes nothing, not even the prefix byte.
func (c *cursor) readLen() (int, error) {
	if c.remaining() < 1 {
		return 0, ldmerr.New(ldmerr.KindInvalid, "TLV length prefix past end of record")
	}
	l := int(c.buf[c.pos])
	if c.remaining() < 1+l {
		return 0, ldmerr.New(ldmerr.KindInvalid, "TLV value of length %d past end of record", l)
	}
	return l, nil
}

// varInt reads a var-int field and accumulates up to maxBytes
// big-endian bytes into a uint64, shift-and-accumulate style. It fails
// internal if the encoded length exceeds maxBytes — the var-int's
// width never legitimately exceeds the target integer it decodes into.
func (c *cursor) varInt(maxBytes int) (uint64, error) {
	l, err := c.readLen()
	if err != nil {
		return 0, err
	}
	c.pos++
	if l > maxBytes {
		return 0, ldmerr.New(ldmerr.KindInternal, "var-int length %d exceeds %d-byte target", l, maxBytes)
	}
	var v uint64
	for i := 0; i < l; i++ {
		v = v<<8 | uint64(c.buf[c.pos+i])
	}
	c.pos += l
	return v, nil
}

// varInt32 reads a var-int expected to fit a 32-bit field (record ids).
func (c *cursor) varInt32() (uint32, error) {
	v, err := c.varInt(4)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// varInt64 reads a var-int expected to fit a 64-bit field (sizes, offsets).
func (c *cursor) varInt64() (uint64, error) {
	return c.varInt(8)
}

// varString reads a var-string field: a length-prefixed byte run
// treated as a NUL-terminated string, trimmed at the first NUL.
func (c *cursor) varString() (string, error) {
	l, err := c.readLen()
	if err != nil {
		return "", err
	}
	c.pos++
	raw := c.buf[c.pos : c.pos+l]
	c.pos += l
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw), nil
}

// varSkip reads the length prefix and advances past the value without
// interpreting it.
func (c *cursor) varSkip() error {
	l, err := c.readLen()
	if err != nil {
		return err
	}
	c.pos += 1 + l
	return nil
}

// skip advances n fixed bytes.
func (c *cursor) skip(n int) error {
	if c.remaining() < n {
		return ldmerr.New(ldmerr.KindInvalid, "fixed skip of %d bytes past end of record", n)
	}
	c.pos += n
	return nil
}

func (c *cursor) byte() (byte, error) {
	if c.remaining() < 1 {
		return 0, ldmerr.New(ldmerr.KindInvalid, "byte read past end of record")
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, ldmerr.New(ldmerr.KindInvalid, "%d-byte read past end of record", n)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) uint64be() (uint64, error) {
	b, err := c.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}
