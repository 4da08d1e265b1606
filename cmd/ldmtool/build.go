package ldmtool

import (
	"os"

	"github.com/pkg/errors"

	"github.com/hillu/libldm-go/diskgroup"
	"github.com/hillu/libldm-go/sector"
)

// buildFromDevices opens every path in turn and feeds it to a fresh
// Builder, the way retroio's cmd.* Run functions open a file, wrap it
// in storage.NewReader and hand it to a single Image.Read() call.
func buildFromDevices(paths []string) (*diskgroup.Builder, error) {
	b := diskgroup.NewBuilder()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", path)
		}
		err = b.Add(path, sector.FileDevice{F: f}, sector.DefaultSize)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "reading LDM metadata from %s", path)
		}
	}
	return b, nil
}
