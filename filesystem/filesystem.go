// Package filesystem provides interfaces and constants required for filesystem implementations.
// The single interesting implementation is github.com/tillberg/v5fs/filesystem/v5fs.
package filesystem

import (
	"errors"
	"os"
)

var (
	ErrNotSupported       = errors.New("method not supported by this filesystem")
	ErrNotImplemented     = errors.New("method not implemented (patches are welcome)")
	ErrReadonlyFilesystem = errors.New("read-only filesystem")
)

// FileSystem is a reference to a single filesystem on a disk image. The V5
// implementation only ever reads; every mutating method returns
// ErrReadonlyFilesystem so that callers written against this interface get a
// uniform error rather than a panic or a silent no-op.
type FileSystem interface {
	// Type return the type of filesystem
	Type() Type
	// Mkdir make a directory
	Mkdir(pathname string) error
	// Mknod creates a filesystem node (file, device special file, or named pipe)
	Mknod(pathname string, mode uint32, dev int) error
	// Link creates a new hard link to an existing file.
	Link(oldpath, newpath string) error
	// Symlink creates a symbolic link named linkpath which contains the string target.
	Symlink(oldpath, newpath string) error
	// Chmod changes the mode of the named file.
	Chmod(name string, mode os.FileMode) error
	// Chown changes the numeric uid and gid of the named file.
	Chown(name string, uid, gid int) error
	// ReadDir reads the contents of a directory.
	ReadDir(pathname string) ([]os.FileInfo, error)
	// OpenFile opens a handle to read a file. Any flag other than os.O_RDONLY
	// returns ErrReadonlyFilesystem.
	OpenFile(pathname string, flag int) (File, error)
	// Rename renames (moves) oldpath to newpath.
	Rename(oldpath, newpath string) error
	// Remove removes the named file or (empty) directory.
	Remove(pathname string) error
	// Label returns the label for the filesystem, or "" if none.
	Label() string
	// SetLabel changes the label on the writable filesystem.
	SetLabel(label string) error
}

// Type represents the type of filesystem this is.
type Type int

const (
	// TypeV5 is the only filesystem type this module understands: the
	// Research Unix fifth-edition on-disk format.
	TypeV5 Type = iota
)

func (t Type) String() string {
	switch t {
	case TypeV5:
		return "v5"
	default:
		return "unknown"
	}
}
