// Package testhelper provides stand-ins for backend.Storage so decoder
// tests can exercise a synthetic V5 image without touching disk.
package testhelper

import (
	"io"
	"os"
	"time"

	"github.com/tillberg/v5fs/backend"
)

type reader func(b []byte, offset int64) (int, error)
type writer func(b []byte, offset int64) (int, error)

// FileImpl implements github.com/tillberg/v5fs/backend.File (minus Sys and
// Writable, added by Storage below) by delegating to injected closures, so
// a test can serve ReadAt calls straight out of an in-memory byte slice
// built to look like a V5 image.
type FileImpl struct {
	Reader reader
	Writer writer
	Size   int64
}

func (f *FileImpl) Stat() (os.FileInfo, error) {
	return fakeFileInfo{size: f.Size}, nil
}

func (f *FileImpl) Read(b []byte) (int, error) {
	return f.Reader(b, 0)
}

func (f *FileImpl) Close() error {
	return nil
}

// ReadAt reads at a particular offset.
func (f *FileImpl) ReadAt(b []byte, offset int64) (int, error) {
	return f.Reader(b, offset)
}

// WriteAt writes at a particular offset.
func (f *FileImpl) WriteAt(b []byte, offset int64) (int, error) {
	return f.Writer(b, offset)
}

// Seek does not actually work; nothing in v5fs seeks the backend directly
// (only ReadAt, through diskimage.Image.ReadSector).
func (f *FileImpl) Seek(offset int64, whence int) (int64, error) {
	return 0, io.ErrUnexpectedEOF
}

// Sys reports the file as unsuitable for ioctl calls, since it isn't a real *os.File.
func (f *FileImpl) Sys() (*os.File, error) {
	return nil, os.ErrInvalid
}

// Writable reports not suitable; test images are read-only fixtures.
func (f *FileImpl) Writable() (backend.WritableFile, error) {
	return nil, backend.ErrIncorrectOpenMode
}

// backend.Storage interface guard
var _ backend.Storage = (*FileImpl)(nil)

type fakeFileInfo struct {
	size int64
}

func (fakeFileInfo) Name() string        { return "testimage" }
func (f fakeFileInfo) Size() int64       { return f.size }
func (fakeFileInfo) Mode() os.FileMode   { return 0o644 }
func (fakeFileInfo) ModTime() time.Time  { return time.Time{} }
func (fakeFileInfo) IsDir() bool         { return false }
func (fakeFileInfo) Sys() interface{}    { return nil }

// NewImageBytes builds a FileImpl backed by an in-memory buffer of raw
// bytes, for constructing synthetic V5 images in tests.
func NewImageBytes(data []byte) *FileImpl {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &FileImpl{
		Size: int64(len(buf)),
		Reader: func(b []byte, offset int64) (int, error) {
			if offset >= int64(len(buf)) {
				return 0, io.EOF
			}
			n := copy(b, buf[offset:])
			return n, nil
		},
		Writer: func(b []byte, offset int64) (int, error) {
			return 0, os.ErrPermission
		},
	}
}
