package filesystem

import (
	"io"
)

// File is a reference to a single regular file on disk. V5 has no write
// path, so Write always returns ErrReadonlyFilesystem; Seek is supported
// because streaming extraction needs random access for nothing more than
// re-running the block walk from offset zero.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}
