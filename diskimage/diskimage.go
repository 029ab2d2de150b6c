// Package diskimage implements the Image Reader: sector-granular random
// access over a backend.Storage, with no knowledge of what the sectors
// contain. Every higher layer of v5fs reads the image exclusively through
// this package.
package diskimage

import (
	"fmt"
	"os"

	"github.com/tillberg/v5fs/backend"
	"github.com/tillberg/v5fs/backend/file"
)

// SectorSize is the fixed sector size of a V5 filesystem image. Nothing in
// this module ever reads a partial or differently-sized sector.
const SectorSize = 512

// Image wraps a backend.Storage opened over a V5 disk image or a raw block
// device holding one, and serves fixed-size sector reads.
type Image struct {
	backend backend.Storage
	size    int64
}

// Open opens the regular file or block device at path for sector reads. The
// image is always opened read-only; v5fs has no write path.
func Open(path string) (*Image, error) {
	storage, err := file.OpenFromPath(path, true)
	if err != nil {
		return nil, fmt.Errorf("diskimage: %w", err)
	}
	return OpenBackend(storage)
}

// OpenBackend wraps an already-open backend.Storage, such as one created by
// tests via testhelper, or the CLI when it has its own *os.File.
func OpenBackend(storage backend.Storage) (*Image, error) {
	size, err := sizeOf(storage)
	if err != nil {
		return nil, fmt.Errorf("diskimage: %w", err)
	}
	return &Image{backend: storage, size: size}, nil
}

func sizeOf(storage backend.Storage) (int64, error) {
	info, err := storage.Stat()
	if err != nil {
		return 0, fmt.Errorf("could not stat image: %w", err)
	}
	if info.Mode()&os.ModeDevice == 0 {
		if info.Size() <= 0 {
			return 0, fmt.Errorf("image has no usable size")
		}
		return info.Size(), nil
	}
	osFile, err := storage.Sys()
	if err != nil {
		return 0, fmt.Errorf("could not get raw device size: %w", err)
	}
	return file.DeviceSize(osFile)
}

// Size returns the total size in bytes of the underlying image.
func (img *Image) Size() int64 {
	return img.size
}

// SectorCount returns how many whole sectors fit in the image.
func (img *Image) SectorCount() uint32 {
	return uint32(img.size / SectorSize)
}

// ReadSector reads sector n (0-indexed) in full. Any short read or seek
// error is reported as-is; callers decide whether that failure is fatal for
// the operation in progress.
func (img *Image) ReadSector(n uint32) ([SectorSize]byte, error) {
	var buf [SectorSize]byte
	off := int64(n) * SectorSize
	read, err := img.backend.ReadAt(buf[:], off)
	if err != nil {
		return buf, fmt.Errorf("diskimage: read sector %d: %w", n, err)
	}
	if read != SectorSize {
		return buf, fmt.Errorf("diskimage: short read of sector %d: got %d of %d bytes", n, read, SectorSize)
	}
	return buf, nil
}

// Close releases the underlying backend.
func (img *Image) Close() error {
	return img.backend.Close()
}
