//go:build linux

package file

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// blkgetsize64 is BLKGETSIZE64 from linux/fs.h: returns the device size in
// bytes as a uint64, unlike the 32-bit-sector-count BLKGETSIZE. x/sys/unix
// has no typed helper for it, so the ioctl is issued directly.
const blkgetsize64 = 0x80081272

// DeviceSize returns the size in bytes of the block device backing f, via
// the BLKGETSIZE64 ioctl. Used when the image path given to OpenFromPath
// names a device node rather than a regular file, since os.File.Stat's
// Size() is meaningless for a device.
func DeviceSize(f *os.File) (int64, error) {
	var size uint64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), blkgetsize64, uintptr(unsafe.Pointer(&size)))
	if errno != 0 {
		return 0, fmt.Errorf("unable to get device size for %s: %w", f.Name(), errno)
	}
	return int64(size), nil
}
