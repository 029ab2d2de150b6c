package v5fs

import "strings"

// reversePath reconstructs the canonical absolute pathname of directory
// inode target by repeatedly reading ".." and locating the forward-link
// name in the parent (§4.7). The walk is bounded by inode_count iterations
// per §9, since a well-formed tree can never require more steps than it has
// directories.
func (fs *FileSystem) reversePath(target uint32) (string, error) {
	if target == rootInode {
		return "/", nil
	}

	targetIno, err := fs.table.get(target)
	if err != nil {
		return "", err
	}
	if !targetIno.allocated() || !targetIno.isDirectory() {
		return "", NewTypeError(target, "directory", targetIno.typeName())
	}

	var components []string
	current := target
	limit := fs.table.count()
	for i := uint32(0); current != rootInode; i++ {
		if i > limit {
			return "", NewFormatError("reverse resolution did not terminate within inode_count iterations")
		}

		currentIno, err := fs.table.get(current)
		if err != nil {
			return "", err
		}

		parent, found, err := fs.findDotDot(currentIno)
		if err != nil {
			return "", err
		}
		if !found {
			return "", NewNotFoundError("no .. entry in directory")
		}

		parentIno, err := fs.table.get(parent)
		if err != nil {
			return "", err
		}

		name, found, err := fs.findForwardLink(parentIno, current)
		if err != nil {
			return "", err
		}
		if !found {
			return "", NewNotFoundError("no forward link to child in parent directory")
		}

		components = append(components, name)
		current = parent
	}

	var b strings.Builder
	b.WriteByte('/')
	for i := len(components) - 1; i >= 0; i-- {
		b.WriteString(components[i])
		b.WriteByte('/')
	}
	return b.String(), nil
}

// findDotDot scans dirIno for its ".." entry and returns the parent i-number.
func (fs *FileSystem) findDotDot(dirIno *inode) (uint32, bool, error) {
	scanner := newDirectoryScanner(fs.img, fs.sb, dirIno, fs.log)
	for {
		entry, ok, err := scanner.Next()
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
		if entry.Name() == ".." {
			return entry.inumber, true, nil
		}
	}
}

// findForwardLink scans parentIno for an entry whose i-number equals child
// and whose name is neither "." nor ".."; it returns the first such name in
// on-disk order (§4.7's pathological-multi-hardlink note).
func (fs *FileSystem) findForwardLink(parentIno *inode, child uint32) (string, bool, error) {
	scanner := newDirectoryScanner(fs.img, fs.sb, parentIno, fs.log)
	for {
		entry, ok, err := scanner.Next()
		if err != nil {
			return "", false, err
		}
		if !ok {
			return "", false, nil
		}
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		if entry.inumber == child {
			return name, true, nil
		}
	}
}
