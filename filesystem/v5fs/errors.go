package v5fs

import "fmt"

// NotFoundError covers both pathname resolution misses and reverse
// resolution failures; per §4.6 the source does not preserve the
// distinction between "no such name" and "not a directory" and this module
// follows suit.
type NotFoundError struct {
	what string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.what)
}

func NewNotFoundError(what string) *NotFoundError {
	return &NotFoundError{what: what}
}

// FormatError reports a superblock or inode-table parameter that cannot be
// trusted: a zero isize, an inode index out of range, a reverse-resolution
// walk that failed to terminate within inode_count iterations, and similar.
type FormatError struct {
	reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error: %s", e.reason)
}

func NewFormatError(reason string) *FormatError {
	return &FormatError{reason: reason}
}

// BadBlockError reports a non-zero sector reference outside
// [data_start, data_end] encountered while extracting a file; per §9 this
// is the one place defensive decoding gives way to a fatal error.
type BadBlockError struct {
	Inode  uint32
	Sector uint32
}

func (e *BadBlockError) Error() string {
	return fmt.Sprintf("bad block: inode %d references out-of-range sector %d", e.Inode, e.Sector)
}

func NewBadBlockError(inode, sector uint32) *BadBlockError {
	return &BadBlockError{Inode: inode, Sector: sector}
}

// TypeError reports an operation applied to the wrong inode kind: -x on a
// directory, -p on a non-directory, -l on a file.
type TypeError struct {
	Inode uint32
	want  string
	got   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("inode %d: expected %s, found %s", e.Inode, e.want, e.got)
}

func NewTypeError(inode uint32, want, got string) *TypeError {
	return &TypeError{Inode: inode, want: want, got: got}
}
