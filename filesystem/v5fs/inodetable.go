package v5fs

import (
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/tillberg/v5fs/diskimage"
)

// inodeTable materializes every inode in the inode area into an indexable,
// immutable structure keyed by i-number (§4.3). Index 0 is unused; valid
// i-numbers run 1..inodeCount.
type inodeTable struct {
	inodes []inode // inodes[0] is a zero-value placeholder, never returned
}

// readInodeTable reads isize sectors starting at inodeStartSector, decoding
// 16 inodes per sector.
func readInodeTable(img *diskimage.Image, sb *superblock, log *logrus.Entry) (*inodeTable, error) {
	count := sb.inodeCount()
	table := &inodeTable{inodes: make([]inode, count+1)}

	for sector := uint32(0); sector < uint32(sb.isize); sector++ {
		data, err := img.ReadSector(inodeStartSector + sector)
		if err != nil {
			return nil, err
		}
		for slot := 0; slot < inodesPerSector; slot++ {
			number := sector*inodesPerSector + uint32(slot) + 1
			off := slot * inodeSizeBytes
			table.inodes[number] = *inodeFromBytes(data[off:off+inodeSizeBytes], number)
		}
	}
	log.WithField("inode_count", count).Debug("materialized inode table")
	return table, nil
}

func (t *inodeTable) count() uint32 {
	return uint32(len(t.inodes) - 1)
}

// get returns the inode at i-number num, or a FormatError if num is out of
// the valid 1..count range (§4.3).
func (t *inodeTable) get(num uint32) (*inode, error) {
	if num == 0 || num > t.count() {
		return nil, NewFormatError("i-number out of range: " + strconv.FormatUint(uint64(num), 10))
	}
	return &t.inodes[num], nil
}
