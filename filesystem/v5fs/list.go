package v5fs

import (
	"fmt"
	"io"
)

// List performs a depth-first enumeration of the subtree rooted at
// dirInode, emitting lines in the form §4.9 prescribes.
func (fs *FileSystem) List(dirInode uint32, w io.Writer) error {
	return fs.listRecursive(dirInode, "", w, 0)
}

// listRecursive bounds its own depth defensively by inode_count (§4.9:
// "SHOULD bound recursion depth defensively"); a well-formed tree can never
// nest deeper than it has directories.
func (fs *FileSystem) listRecursive(dirInode uint32, prefix string, w io.Writer, depth uint32) error {
	if depth > fs.table.count() {
		return NewFormatError("directory listing recursion exceeded inode count; possible corruption")
	}

	dirIno, err := fs.table.get(dirInode)
	if err != nil {
		return err
	}
	if !dirIno.allocated() || !dirIno.isDirectory() {
		return NewTypeError(dirInode, "directory", dirIno.typeName())
	}

	top := prefix == ""
	if top {
		if _, err := fmt.Fprintln(w, "../"); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, "./"); err != nil {
			return err
		}
	}

	scanner := newDirectoryScanner(fs.img, fs.sb, dirIno, fs.log)
	for {
		entry, ok, err := scanner.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}

		display := name
		if !top {
			display = prefix + name
		}

		childIno, err := fs.table.get(entry.inumber)
		if err != nil {
			fs.log.WithField("name", name).Warn("skipping directory entry: invalid i-number")
			continue
		}

		if childIno.allocated() && childIno.isDirectory() {
			if _, err := fmt.Fprintf(w, "%s/\n", display); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s/../\n", display); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s/./\n", display); err != nil {
				return err
			}
			newPrefix := name + "/"
			if !top {
				newPrefix = prefix + name + "/"
			}
			if err := fs.listRecursive(entry.inumber, newPrefix, w, depth+1); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintln(w, display); err != nil {
				return err
			}
		}
	}
}
