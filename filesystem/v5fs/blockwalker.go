package v5fs

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"
	"github.com/tillberg/v5fs/diskimage"
)

// blockWalker yields the ordered sequence of data sectors an inode
// references (§4.4). It is a finite, non-restartable sequence: call Next
// until ok is false.
//
// The walker itself never fails on an out-of-range sector reference;
// §4.4 hands that judgment to callers for the sectors it *yields*. The one
// exception is the indirect-block pointer itself when the large bit is
// set: that pointer is not a yielded sector, it is infrastructure the
// walker needs in order to produce any output at all, so an out-of-range
// indirect pointer is treated the same way original_source/dosiero.c's
// traversal helpers treat it — skipped rather than dereferenced — to keep
// defensive callers (listing, reverse resolution) from taking a spurious
// I/O fault reading outside the image. The Extractor, which must be
// fatal on bad references, applies its own range check to every sector
// the walker yields (including ones it read out of an indirect block).
type blockWalker struct {
	img  *diskimage.Image
	sb   *superblock
	log  *logrus.Entry
	ino  *inode
	idx  int // index into ino.addr[]
	large bool

	indirect       [pointersPerIndirect]uint16
	indirectLoaded bool
	indirectIdx    int
}

func newBlockWalker(img *diskimage.Image, sb *superblock, ino *inode, log *logrus.Entry) *blockWalker {
	return &blockWalker{
		img:   img,
		sb:    sb,
		log:   log,
		ino:   ino,
		large: ino.isLarge(),
	}
}

// Next returns the next sector index in file order, or ok=false once the
// sequence is exhausted.
func (w *blockWalker) Next() (sector uint32, ok bool, err error) {
	if !w.large {
		if w.idx >= directBlockCount {
			return 0, false, nil
		}
		s := w.ino.addr[w.idx]
		w.idx++
		return uint32(s), true, nil
	}
	for {
		if w.indirectLoaded {
			if w.indirectIdx < pointersPerIndirect {
				s := w.indirect[w.indirectIdx]
				w.indirectIdx++
				return uint32(s), true, nil
			}
			w.indirectLoaded = false
		}
		if w.idx >= directBlockCount {
			return 0, false, nil
		}
		indirectSector := w.ino.addr[w.idx]
		w.idx++
		if indirectSector == 0 {
			continue
		}
		if !w.sb.inRange(uint32(indirectSector)) {
			w.log.WithFields(logrus.Fields{
				"inode":  w.ino.number,
				"sector": indirectSector,
			}).Warn("skipping indirect block pointer outside data area")
			continue
		}
		data, err := w.img.ReadSector(uint32(indirectSector))
		if err != nil {
			return 0, false, err
		}
		for e := 0; e < pointersPerIndirect; e++ {
			w.indirect[e] = binary.LittleEndian.Uint16(data[e*2 : e*2+2])
		}
		w.indirectLoaded = true
		w.indirectIdx = 0
	}
}
