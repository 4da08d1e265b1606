// Package ldmconfig loads the entire LDM config region named by a
// disk's PRIVHEAD into memory for the TOC/VMDB/VBLK passes that follow
// (spec.md §4.3).
package ldmconfig

import (
	"github.com/pkg/errors"

	"github.com/hillu/libldm-go/ldmerr"
	"github.com/hillu/libldm-go/sector"
)

// Load reads start·sectorSize..+size·sectorSize bytes from r into memory.
//
// Errors: invalid (bounds exceed device length or short/incomplete
// read), io (underlying read failure).
func Load(r *sector.Reader, start, size int64) ([]byte, error) {
	if start < 0 || size <= 0 {
		return nil, ldmerr.New(ldmerr.KindInvalid, "invalid config region start=%d size=%d", start, size)
	}
	buf, err := r.ReadSectors(start, size)
	if err != nil {
		return nil, errors.Wrap(err, "reading LDM config region")
	}
	return buf, nil
}
