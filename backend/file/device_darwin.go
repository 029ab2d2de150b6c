package file

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// these constants should be part of golang.org/x/sys/unix, but aren't, yet
const (
	dkioGetBlockSize  = 0x40046418
	dkioGetBlockCount = 0x40086419
)

// DeviceSize returns the size in bytes of the block device backing f, via
// DKIOCGETBLOCKSIZE and DKIOCGETBLOCKCOUNT, mirroring how the teacher's own
// diskfs_darwin.go reads logical sector size on macOS.
func DeviceSize(f *os.File) (int64, error) {
	fd := int(f.Fd())

	blockSize, err := unix.IoctlGetInt(fd, dkioGetBlockSize)
	if err != nil {
		return 0, fmt.Errorf("unable to get device block size for %s: %w", f.Name(), err)
	}
	blockCount, err := unix.IoctlGetInt(fd, dkioGetBlockCount)
	if err != nil {
		return 0, fmt.Errorf("unable to get device block count for %s: %w", f.Name(), err)
	}
	return int64(blockSize) * int64(blockCount), nil
}
