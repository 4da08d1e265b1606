// Package sector implements positional, length-exact reads against an
// opened block device, the way retroio's storage package wraps an
// *os.File for its image-format readers, adapted here for seek+read
// instead of streaming.
package sector

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/hillu/libldm-go/ldmerr"
)

// DefaultSize is the logical sector size assumed when a device does not
// report one.
const DefaultSize = 512

// Device is the minimal collaborator surface the LDM core needs from a
// caller-supplied block device handle. Callers open the device
// themselves; this package never opens or closes one.
type Device interface {
	io.ReaderAt
	// Size returns the device length in bytes.
	Size() (int64, error)
}

// Reader performs positional sector-aligned reads against a Device.
type Reader struct {
	dev        Device
	sectorSize int64
}

// New wraps dev for sector-addressed reads. sectorSize is the logical
// sector size in bytes; if zero, DefaultSize is assumed.
func New(dev Device, sectorSize int64) *Reader {
	if sectorSize <= 0 {
		sectorSize = DefaultSize
	}
	return &Reader{dev: dev, sectorSize: sectorSize}
}

// SectorSize returns the logical sector size in use.
func (r *Reader) SectorSize() int64 { return r.sectorSize }

// Size returns the device length in bytes.
func (r *Reader) Size() (int64, error) {
	return r.dev.Size()
}

// ReadAt reads len(buf) bytes starting at byte offset off, accumulating
// short reads and failing invalid on unexpected EOF.
func (r *Reader) ReadAt(buf []byte, off int64) error {
	n, err := r.dev.ReadAt(buf, off)
	for n < len(buf) && err == nil {
		var more int
		more, err = r.dev.ReadAt(buf[n:], off+int64(n))
		n += more
	}
	if err != nil && err != io.EOF {
		return ldmerr.New(ldmerr.KindIO, "reading %d bytes at offset %d: %v", len(buf), off, err)
	}
	if n < len(buf) {
		return ldmerr.New(ldmerr.KindInvalid, "short read: got %d of %d bytes at offset %d", n, len(buf), off)
	}
	return nil
}

// ReadSectors reads count sectors starting at sector start and returns
// the raw bytes.
func (r *Reader) ReadSectors(start, count int64) ([]byte, error) {
	if start < 0 || count <= 0 {
		return nil, ldmerr.New(ldmerr.KindInvalid, "invalid sector range start=%d count=%d", start, count)
	}
	size, err := r.dev.Size()
	if err != nil {
		return nil, errors.Wrap(err, "stat device")
	}
	byteOff := start * r.sectorSize
	byteLen := count * r.sectorSize
	if byteOff < 0 || byteLen < 0 || byteOff+byteLen > size {
		return nil, ldmerr.New(ldmerr.KindInvalid, "sector range [%d,+%d) exceeds device length %d bytes", byteOff, byteLen, size)
	}
	buf := make([]byte, byteLen)
	if err := r.ReadAt(buf, byteOff); err != nil {
		return nil, errors.Wrapf(err, "reading sectors [%d,+%d)", start, count)
	}
	return buf, nil
}

// FileDevice adapts an *os.File (or block-special file opened like one)
// to the Device interface. Regular files report their stat size;
// block devices report the size the kernel exposes through seek-to-end,
// since os.File.Stat().Size() is zero for block-special files on Linux.
type FileDevice struct {
	F *os.File
}

func (d FileDevice) ReadAt(p []byte, off int64) (int, error) {
	return d.F.ReadAt(p, off)
}

func (d FileDevice) Size() (int64, error) {
	if fi, err := d.F.Stat(); err == nil && fi.Size() > 0 {
		return fi.Size(), nil
	}
	size, err := d.F.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errors.Wrap(err, "seeking to end to determine device size")
	}
	return size, nil
}
