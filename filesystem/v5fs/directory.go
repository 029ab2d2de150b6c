package v5fs

import (
	"github.com/sirupsen/logrus"
	"github.com/tillberg/v5fs/diskimage"
)

// directoryScanner yields (i-number, name) records from a directory
// inode's data sectors, in on-disk order, skipping empty slots (§4.5).
type directoryScanner struct {
	img    *diskimage.Image
	sb     *superblock
	log    *logrus.Entry
	walker *blockWalker

	sector     [SectorSize]byte
	haveSector bool
	entryIdx   int
}

// newDirectoryScanner requires dirIno to be an allocated directory; callers
// are expected to have already checked isDirectory()/allocated() since the
// scanner's job is purely to enumerate entries, not to re-validate the
// inode's type (mirrors the layering in §4.5-4.9, where each resolver
// validates the inode kind it actually cares about).
func newDirectoryScanner(img *diskimage.Image, sb *superblock, dirIno *inode, log *logrus.Entry) *directoryScanner {
	return &directoryScanner{
		img:    img,
		sb:     sb,
		log:    log,
		walker: newBlockWalker(img, sb, dirIno, log),
	}
}

// Next returns the next non-empty directory entry, or ok=false once the
// directory's data is exhausted.
func (s *directoryScanner) Next() (directoryEntry, bool, error) {
	for {
		if !s.haveSector {
			sector, ok, err := s.walker.Next()
			if err != nil {
				return directoryEntry{}, false, err
			}
			if !ok {
				return directoryEntry{}, false, nil
			}
			if sector == 0 {
				continue
			}
			if !s.sb.inRange(sector) {
				s.log.WithField("sector", sector).Warn("skipping directory sector outside data area")
				continue
			}
			data, err := s.img.ReadSector(sector)
			if err != nil {
				return directoryEntry{}, false, err
			}
			s.sector = data
			s.haveSector = true
			s.entryIdx = 0
		}
		if s.entryIdx >= entriesPerDirSector {
			s.haveSector = false
			continue
		}
		off := s.entryIdx * directoryEntrySize
		s.entryIdx++
		entry := parseDirectoryEntry(s.sector[off : off+directoryEntrySize])
		if entry.inumber == 0 {
			continue
		}
		return entry, true, nil
	}
}
