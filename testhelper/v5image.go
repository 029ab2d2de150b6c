package testhelper

import "encoding/binary"

// V5 on-disk format constants, duplicated from filesystem/v5fs rather than
// imported, so this package stays import-cycle-free and usable from any
// test package (including v5fs's own).
const (
	v5SectorSize   = 512
	v5InodeSize    = 32
	v5DirEntrySize = 16
)

const (
	modeAllocated = 0100000
	modeTypeDir   = 040000
)

// V5Image is a synthetic, minimal-but-valid V5 filesystem image built for
// tests: a root directory ("/") containing a subdirectory "etc", which in
// turn contains a regular file "passwd".
type V5Image struct {
	Bytes []byte

	// i-numbers of the fixture's well-known inodes.
	RootInode   uint32
	EtcInode    uint32
	PasswdInode uint32

	PasswdContent []byte
}

// BuildV5Image constructs a V5Image with isize=1 (16 inodes), fsize=10
// (10 total sectors), data area sectors 3..9.
func BuildV5Image() *V5Image {
	const (
		isize = 1
		fsize = 10
	)

	passwdContent := []byte("root:x:0:0:root:/root:/bin/sh\n")

	img := &V5Image{
		RootInode:     1,
		EtcInode:      2,
		PasswdInode:   3,
		PasswdContent: passwdContent,
	}

	buf := make([]byte, fsize*v5SectorSize)

	// sector 1: superblock
	sb := buf[1*v5SectorSize : 2*v5SectorSize]
	binary.LittleEndian.PutUint16(sb[0:2], isize)
	binary.LittleEndian.PutUint16(sb[2:4], fsize)

	// sector 2: inode area (isize=1 sector, 16 slots)
	inodeArea := buf[2*v5SectorSize : 3*v5SectorSize]

	putInode(inodeArea, 1, modeAllocated|modeTypeDir, 3, 3*v5DirEntrySize, [8]uint16{3})
	putInode(inodeArea, 2, modeAllocated|modeTypeDir, 2, 3*v5DirEntrySize, [8]uint16{4})
	putInode(inodeArea, 3, modeAllocated, 1, uint32(len(passwdContent)), [8]uint16{5})

	// sector 3: root directory data (".", "..", "etc")
	rootDir := buf[3*v5SectorSize : 4*v5SectorSize]
	putDirEntry(rootDir, 0, 1, ".")
	putDirEntry(rootDir, 1, 1, "..")
	putDirEntry(rootDir, 2, 2, "etc")

	// sector 4: etc directory data (".", "..", "passwd")
	etcDir := buf[4*v5SectorSize : 5*v5SectorSize]
	putDirEntry(etcDir, 0, 2, ".")
	putDirEntry(etcDir, 1, 1, "..")
	putDirEntry(etcDir, 2, 3, "passwd")

	// sector 5: passwd file data
	passwdData := buf[5*v5SectorSize : 6*v5SectorSize]
	copy(passwdData, passwdContent)

	img.Bytes = buf
	return img
}

func putInode(area []byte, number uint32, mode uint16, nlink uint8, size uint32, addr [8]uint16) {
	off := int(number-1) * v5InodeSize
	rec := area[off : off+v5InodeSize]
	binary.LittleEndian.PutUint16(rec[0:2], mode)
	rec[2] = nlink
	rec[3] = 0 // uid
	rec[4] = 0 // gid
	rec[5] = byte(size >> 16)
	binary.LittleEndian.PutUint16(rec[6:8], uint16(size))
	for k, a := range addr {
		binary.LittleEndian.PutUint16(rec[8+k*2:8+k*2+2], a)
	}
}

func putDirEntry(sector []byte, slot int, inum uint32, name string) {
	off := slot * v5DirEntrySize
	entry := sector[off : off+v5DirEntrySize]
	binary.LittleEndian.PutUint16(entry[0:2], uint16(inum))
	copy(entry[2:16], name)
}
