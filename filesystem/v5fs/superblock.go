package v5fs

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"
	"github.com/tillberg/v5fs/diskimage"
)

const (
	// SectorSize is the fixed sector size of a V5 image.
	SectorSize = diskimage.SectorSize

	superblockSector   = 1
	inodesPerSector    = 16
	inodeSizeBytes     = 32
	inodeStartSector   = 2
	directoryEntrySize = 16
	entriesPerDirSector = SectorSize / directoryEntrySize // 32
	pointersPerIndirect = SectorSize / 2                  // 256
	directBlockCount   = 8

	rootInode uint32 = 1

	freeListSize = 100
)

// superblock holds the two fields the core decoder actually uses, plus the
// raw free-list bytes kept only for diagnostic logging — the core never
// interprets the free list (§3).
type superblock struct {
	isize uint16
	fsize uint16
	nfree uint16
	free  [freeListSize]uint16
}

// readSuperblock parses sector 1 of img.
func readSuperblock(img *diskimage.Image, log *logrus.Entry) (*superblock, error) {
	data, err := img.ReadSector(superblockSector)
	if err != nil {
		return nil, err
	}
	sb := &superblock{
		isize: binary.LittleEndian.Uint16(data[0:2]),
		fsize: binary.LittleEndian.Uint16(data[2:4]),
		nfree: binary.LittleEndian.Uint16(data[4:6]),
	}
	for i := 0; i < freeListSize && 6+i*2+2 <= len(data); i++ {
		sb.free[i] = binary.LittleEndian.Uint16(data[6+i*2 : 6+i*2+2])
	}
	if sb.isize == 0 {
		return nil, NewFormatError("superblock isize is zero: no inode area")
	}
	log.WithFields(logrus.Fields{
		"isize": sb.isize,
		"fsize": sb.fsize,
		"nfree": sb.nfree,
	}).Debug("decoded superblock")
	return sb, nil
}

// inodeCount is inode_count from §3.
func (sb *superblock) inodeCount() uint32 {
	return uint32(sb.isize) * inodesPerSector
}

// dataStart is data_start from §3.
func (sb *superblock) dataStart() uint32 {
	return inodeStartSector + uint32(sb.isize)
}

// dataEnd is data_end from §3; it underflows to 0 when fsize is 0, meaning
// no valid data sector — every range check against it is written so that
// case naturally rejects all sectors.
func (sb *superblock) dataEnd() uint32 {
	if sb.fsize == 0 {
		return 0
	}
	return uint32(sb.fsize) - 1
}

// inRange reports whether sector lies in [data_start, data_end]. When fsize
// is 0, dataEnd() is 0 but dataStart() is always >= inodeStartSector+1, so
// this correctly rejects every sector in that degenerate case.
func (sb *superblock) inRange(sector uint32) bool {
	if sb.fsize == 0 {
		return false
	}
	return sector >= sb.dataStart() && sector <= sb.dataEnd()
}
