package v5fs

import "encoding/binary"

// mode captures the 16-bit on-disk mode word; only the bits the core
// decoder interprets are given names (§3).
type mode uint16

const (
	modeAllocated mode = 0100000
	modeTypeMask  mode = 060000
	modeTypeDir   mode = 040000
	modeTypeChar  mode = 020000
	modeTypeBlock mode = 060000
	modeLarge     mode = 010000
)

// inode is the in-memory decode of a 32-byte on-disk inode record (§3).
// Only the fields the core algorithms consume are kept.
type inode struct {
	number uint32
	mode   mode
	nlink  uint8
	uid    uint8
	gid    uint8
	size   uint32 // 24-bit value: (size0<<16)|size1
	addr   [directBlockCount]uint16
}

func (i *inode) allocated() bool {
	return i.mode&modeAllocated != 0
}

func (i *inode) typeField() mode {
	return i.mode & modeTypeMask
}

func (i *inode) isDirectory() bool {
	return i.typeField() == modeTypeDir
}

func (i *inode) isCharDevice() bool {
	return i.typeField() == modeTypeChar
}

func (i *inode) isBlockDevice() bool {
	return i.typeField() == modeTypeBlock
}

func (i *inode) isRegular() bool {
	return i.typeField() == 0
}

func (i *inode) isLarge() bool {
	return i.mode&modeLarge != 0
}

// typeName gives a short label for error messages (§7's Type error).
func (i *inode) typeName() string {
	switch {
	case i.isDirectory():
		return "directory"
	case i.isCharDevice():
		return "character special"
	case i.isBlockDevice():
		return "block special"
	default:
		return "regular file"
	}
}

// inodeFromBytes decodes a single 32-byte on-disk inode record.
func inodeFromBytes(b []byte, number uint32) *inode {
	ino := &inode{
		number: number,
		mode:   mode(binary.LittleEndian.Uint16(b[0:2])),
		nlink:  b[2],
		uid:    b[3],
		gid:    b[4],
	}
	size0 := uint32(b[5])
	size1 := uint32(binary.LittleEndian.Uint16(b[6:8]))
	ino.size = (size0 << 16) | size1
	for k := 0; k < directBlockCount; k++ {
		off := 8 + k*2
		ino.addr[k] = binary.LittleEndian.Uint16(b[off : off+2])
	}
	return ino
}
