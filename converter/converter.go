// Package converter bridges a filesystem.FileSystem (in practice, a decoded
// v5fs.FileSystem) to the standard library's io/fs.FS, so callers can use
// fs.WalkDir, fs.Glob, and friends over a V5 image without the CLI's own
// Lister.
package converter

import (
	"io/fs"
	"os"
	"path"

	"github.com/tillberg/v5fs/filesystem"
)

type fsCompatible struct {
	filesystem.FileSystem
}

type fsFileWrapper struct {
	filesystem.File
	stat *os.FileInfo
}

func (f *fsFileWrapper) Stat() (fs.FileInfo, error) {
	if f.stat == nil {
		return nil, fs.ErrInvalid
	}
	return *f.stat, nil
}

func (f *fsCompatible) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	// io/fs paths are rooted-relative ("etc/passwd", "." for the root);
	// v5fs paths are absolute ("/etc/passwd", "/" for the root).
	absolute := "/" + name
	if name == "." {
		absolute = "/"
	}

	file, err := f.OpenFile(absolute, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	dirname := path.Dir(absolute)
	var stat *os.FileInfo
	if info, err := f.ReadDir(dirname); err == nil {
		for i := range info {
			if info[i].Name() == path.Base(absolute) {
				stat = &info[i]
			}
		}
	}
	return &fsFileWrapper{File: file, stat: stat}, nil
}

// FS adapts f to io/fs.FS.
func FS(f filesystem.FileSystem) fs.FS {
	return &fsCompatible{f}
}
