package v5fs

import "strings"

// splitComponents splits an absolute pathname on '/', discarding empty
// components so trailing slashes and runs of slashes are tolerated (§4.6
// step 2).
func splitComponents(pathname string) []string {
	parts := strings.Split(pathname, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolve walks pathname from the root to an i-number, per §4.6. Every
// failure mode — malformed input, an intermediate non-directory component,
// a lookup miss — surfaces uniformly as NotFoundError; the source does not
// preserve the distinction.
func (fs *FileSystem) resolve(pathname string) (uint32, error) {
	if !strings.HasPrefix(pathname, "/") {
		return 0, NewNotFoundError(pathname)
	}
	if pathname == "/" {
		return rootInode, nil
	}

	current := rootInode
	for _, component := range splitComponents(pathname) {
		dirIno, err := fs.table.get(current)
		if err != nil {
			return 0, NewNotFoundError(pathname)
		}
		if !dirIno.allocated() || !dirIno.isDirectory() {
			return 0, NewNotFoundError(pathname)
		}
		next, found, err := fs.lookupInDirectory(dirIno, component)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, NewNotFoundError(pathname)
		}
		current = next
	}
	return current, nil
}

// lookupInDirectory scans dirIno's entries for one matching name.
func (fs *FileSystem) lookupInDirectory(dirIno *inode, name string) (uint32, bool, error) {
	scanner := newDirectoryScanner(fs.img, fs.sb, dirIno, fs.log)
	for {
		entry, ok, err := scanner.Next()
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
		if entry.matches(name) {
			return entry.inumber, true, nil
		}
	}
}
