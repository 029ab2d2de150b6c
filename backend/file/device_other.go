//go:build !linux && !darwin

package file

import (
	"errors"
	"os"
)

// DeviceSize is unsupported on platforms without a known block-device size
// ioctl; opening a device node (as opposed to a regular image file) on
// these platforms fails rather than guessing.
func DeviceSize(f *os.File) (int64, error) {
	return 0, errors.New("raw block devices are not supported on this platform")
}
