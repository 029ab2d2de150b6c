package v5fs

import (
	"fmt"
	"io"

	"github.com/tillberg/v5fs/filesystem"
)

// File streams a regular file's content from its Block Walker sequence,
// truncated to the inode's recorded size (§4.8). It implements
// filesystem.File; Write always fails since v5fs has no write path.
type File struct {
	fs     *FileSystem
	inode  *inode
	walker *blockWalker

	written uint32
	sector  [SectorSize]byte
	bufLen  int
	bufPos  int
}

var _ filesystem.File = (*File)(nil)

// openInode opens inum for reading, rejecting directories and special
// files per §4.8's "reject when the target inode's type is directory,
// character-special, or block-special."
func (fs *FileSystem) openInode(inum uint32) (*File, error) {
	ino, err := fs.table.get(inum)
	if err != nil {
		return nil, err
	}
	if !ino.allocated() {
		return nil, NewNotFoundError(fmt.Sprintf("inode %d is not allocated", inum))
	}
	if !ino.isRegular() {
		return nil, NewTypeError(inum, "regular file", ino.typeName())
	}
	return &File{
		fs:     fs,
		inode:  ino,
		walker: newBlockWalker(fs.img, fs.sb, ino, fs.log),
	}, nil
}

// Read implements io.Reader. A zero sector pointer is a hole: it
// contributes no bytes and does not advance written (§4.8 — "there is no
// hole-fill policy in this read-only context"). A non-zero, out-of-range
// pointer is fatal, per §4.8 and §9's extraction/listing split.
func (f *File) Read(p []byte) (int, error) {
	if f.written >= f.inode.size {
		return 0, io.EOF
	}
	for f.bufPos >= f.bufLen {
		sector, ok, err := f.walker.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, io.EOF
		}
		if sector == 0 {
			continue
		}
		if !f.fs.sb.inRange(sector) {
			return 0, NewBadBlockError(f.inode.number, sector)
		}
		data, err := f.fs.img.ReadSector(sector)
		if err != nil {
			return 0, err
		}
		f.sector = data
		remaining := f.inode.size - f.written
		n := uint32(SectorSize)
		if remaining < n {
			n = remaining
		}
		f.bufLen = int(n)
		f.bufPos = 0
	}
	n := copy(p, f.sector[f.bufPos:f.bufLen])
	f.bufPos += n
	f.written += uint32(n)
	return n, nil
}

// Write always fails: v5fs is read-only.
func (f *File) Write(p []byte) (int, error) {
	return 0, filesystem.ErrReadonlyFilesystem
}

// Seek re-walks the block sequence from the beginning up to the target
// offset. V5 images are small and extraction is the only consumer that
// needs to stream, so a re-walk is simpler and just as correct as tracking
// enough state to seek directly within the indirect-block chain.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = int64(f.written) - int64(f.bufLen-f.bufPos) + offset
	case io.SeekEnd:
		target = int64(f.inode.size) + offset
	default:
		return 0, fmt.Errorf("v5fs: invalid whence %d", whence)
	}
	if target < 0 {
		return 0, fmt.Errorf("v5fs: negative seek position %d", target)
	}

	f.walker = newBlockWalker(f.fs.img, f.fs.sb, f.inode, f.fs.log)
	f.written = 0
	f.bufPos, f.bufLen = 0, 0

	remaining := target
	for remaining > 0 {
		if f.bufPos >= f.bufLen {
			sector, ok, err := f.walker.Next()
			if err != nil {
				return 0, err
			}
			if !ok {
				break
			}
			if sector == 0 {
				continue
			}
			if !f.fs.sb.inRange(sector) {
				return 0, NewBadBlockError(f.inode.number, sector)
			}
			data, err := f.fs.img.ReadSector(sector)
			if err != nil {
				return 0, err
			}
			f.sector = data
			rem := f.inode.size - f.written
			n := uint32(SectorSize)
			if rem < n {
				n = rem
			}
			f.bufLen = int(n)
			f.bufPos = 0
		}
		skip := remaining
		avail := int64(f.bufLen - f.bufPos)
		if skip > avail {
			skip = avail
		}
		f.bufPos += int(skip)
		f.written += uint32(skip)
		remaining -= skip
	}
	return int64(f.written), nil
}

// Close is a no-op; File holds no handle of its own beyond the shared Image.
func (f *File) Close() error {
	return nil
}

// Extract streams inum's full content to w, per §4.8.
func (fs *FileSystem) Extract(inum uint32, w io.Writer) error {
	f, err := fs.openInode(inum)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
