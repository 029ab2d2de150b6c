package v5fs

import (
	"bytes"
	"encoding/binary"
)

const maxNameLength = 14

// directoryEntry is one 16-byte on-disk directory record (§3): a 2-byte
// i-number followed by a 14-byte, NUL-padded name field.
type directoryEntry struct {
	inumber uint32
	name    [maxNameLength]byte
}

func parseDirectoryEntry(b []byte) directoryEntry {
	var e directoryEntry
	e.inumber = uint32(binary.LittleEndian.Uint16(b[0:2]))
	copy(e.name[:], b[2:2+maxNameLength])
	return e
}

// Name returns the entry's name truncated at the first NUL, for display
// (§4.5: "names containing embedded NUL are terminated at the first NUL").
func (e directoryEntry) Name() string {
	if i := bytes.IndexByte(e.name[:], 0); i >= 0 {
		return string(e.name[:i])
	}
	return string(e.name[:])
}

// matches compares the entry's raw name field against query as fixed-width
// 14-byte fields, per §4.5: query is truncated/NUL-padded to 14 bytes and
// compared bytewise.
func (e directoryEntry) matches(query string) bool {
	var q [maxNameLength]byte
	copy(q[:], query) // copy truncates to len(q) and leaves the rest zero
	return q == e.name
}
