package v5fs

import (
	"encoding/binary"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/tillberg/v5fs/diskimage"
	"github.com/tillberg/v5fs/testhelper"
)

func testSuperblock() *superblock {
	return &superblock{isize: 1, fsize: 20}
}

func TestBlockWalkerDirect(t *testing.T) {
	sb := testSuperblock() // dataStart=3, dataEnd=19
	ino := &inode{number: 1, addr: [8]uint16{3, 4, 0, 5, 0, 0, 0, 0}}

	fixture := testhelper.BuildV5Image() // 10 sectors isn't enough for 20-sector sb; walker never reads direct sectors itself
	backend := testhelper.NewImageBytes(fixture.Bytes)
	img, err := diskimage.OpenBackend(backend)
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}

	w := newBlockWalker(img, sb, ino, logrus.NewEntry(logrus.New()))
	var got []uint32
	for {
		sector, ok, err := w.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, sector)
	}
	want := []uint32{3, 4, 0, 5, 0, 0, 0, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBlockWalkerIndirect(t *testing.T) {
	const (
		isize = 1
		fsize = 6
	)
	// sector 3 is the single indirect block for this inode; it lists
	// sectors 4 and 5 followed by zeros.
	raw := make([]byte, fsize*SectorSize)
	binary.LittleEndian.PutUint16(raw[1*SectorSize:], isize)
	binary.LittleEndian.PutUint16(raw[1*SectorSize+2:], fsize)

	indirect := raw[3*SectorSize : 4*SectorSize]
	binary.LittleEndian.PutUint16(indirect[0:2], 4)
	binary.LittleEndian.PutUint16(indirect[2:4], 5)

	backend := testhelper.NewImageBytes(raw)
	img, err := diskimage.OpenBackend(backend)
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}

	sb := &superblock{isize: isize, fsize: fsize}
	ino := &inode{number: 1, mode: modeLarge, addr: [8]uint16{3, 0, 0, 0, 0, 0, 0, 0}}

	w := newBlockWalker(img, sb, ino, logrus.NewEntry(logrus.New()))

	var got []uint32
	for i := 0; i < 4; i++ {
		sector, ok, err := w.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			t.Fatalf("Next: unexpectedly exhausted at i=%d", i)
		}
		got = append(got, sector)
	}
	// first two real entries, then the indirect block's remaining 254 zero
	// entries follow until the pointer array is exhausted.
	if got[0] != 4 || got[1] != 5 || got[2] != 0 || got[3] != 0 {
		t.Fatalf("got %v, want [4 5 0 0 ...]", got)
	}

	_, ok, err := w.Next()
	for ; ok && err == nil; _, ok, err = w.Next() {
		// drain the remaining zero entries from the one indirect block
	}
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ok {
		t.Fatalf("expected walker to be exhausted")
	}
}

func TestBlockWalkerSkipsOutOfRangeIndirectPointer(t *testing.T) {
	sb := &superblock{isize: 1, fsize: 10}
	ino := &inode{number: 1, mode: modeLarge, addr: [8]uint16{9999, 0, 0, 0, 0, 0, 0, 0}}

	fixture := testhelper.BuildV5Image()
	backend := testhelper.NewImageBytes(fixture.Bytes)
	img, err := diskimage.OpenBackend(backend)
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}

	w := newBlockWalker(img, sb, ino, logrus.NewEntry(logrus.New()))
	_, ok, err := w.Next()
	if err != nil {
		t.Fatalf("Next: %v, want walker to skip the bad pointer rather than error", err)
	}
	if ok {
		t.Fatalf("Next: expected exhausted sequence after skipping the only (bad) indirect pointer")
	}
}
