package v5fs

import (
	"bytes"
	"testing"

	"github.com/go-test/deep"
	"github.com/tillberg/v5fs/diskimage"
	"github.com/tillberg/v5fs/testhelper"
)

func openFixture(t *testing.T) (*FileSystem, *testhelper.V5Image) {
	t.Helper()
	fixture := testhelper.BuildV5Image()
	backend := testhelper.NewImageBytes(fixture.Bytes)
	img, err := diskimage.OpenBackend(backend)
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}
	fs, err := Read(img, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return fs, fixture
}

func TestReadSuperblock(t *testing.T) {
	fs, _ := openFixture(t)
	if fs.sb.isize != 1 {
		t.Fatalf("isize = %d, want 1", fs.sb.isize)
	}
	if fs.sb.fsize != 10 {
		t.Fatalf("fsize = %d, want 10", fs.sb.fsize)
	}
	if fs.sb.dataStart() != 3 {
		t.Fatalf("dataStart = %d, want 3", fs.sb.dataStart())
	}
	if fs.sb.dataEnd() != 9 {
		t.Fatalf("dataEnd = %d, want 9", fs.sb.dataEnd())
	}
}

func TestResolveRoot(t *testing.T) {
	fs, fixture := openFixture(t)
	inum, err := fs.resolve("/")
	if err != nil {
		t.Fatalf("resolve(/): %v", err)
	}
	if inum != fixture.RootInode {
		t.Fatalf("resolve(/) = %d, want %d", inum, fixture.RootInode)
	}
}

func TestResolveNestedPath(t *testing.T) {
	fs, fixture := openFixture(t)
	for _, path := range []string{"/etc/passwd", "/etc/passwd/", "/etc//passwd"} {
		inum, err := fs.resolve(path)
		if err != nil {
			t.Fatalf("resolve(%q): %v", path, err)
		}
		if inum != fixture.PasswdInode {
			t.Fatalf("resolve(%q) = %d, want %d", path, inum, fixture.PasswdInode)
		}
	}
}

func TestResolveNotFound(t *testing.T) {
	fs, _ := openFixture(t)
	if _, err := fs.resolve("/nope"); err == nil {
		t.Fatalf("resolve(/nope): expected error, got nil")
	}
	if _, err := fs.resolve("relative/path"); err == nil {
		t.Fatalf("resolve of non-absolute path: expected error, got nil")
	}
}

func TestReversePathRoundTrip(t *testing.T) {
	fs, fixture := openFixture(t)

	path, err := fs.reversePath(fixture.EtcInode)
	if err != nil {
		t.Fatalf("reversePath(etc): %v", err)
	}
	if path != "/etc/" {
		t.Fatalf("reversePath(etc) = %q, want \"/etc/\"", path)
	}

	inum, err := fs.resolve(path)
	if err != nil {
		t.Fatalf("resolve(%q): %v", path, err)
	}
	if inum != fixture.EtcInode {
		t.Fatalf("round trip mismatch: resolve(%q) = %d, want %d", path, inum, fixture.EtcInode)
	}
}

func TestReversePathRoot(t *testing.T) {
	fs, fixture := openFixture(t)
	path, err := fs.reversePath(fixture.RootInode)
	if err != nil {
		t.Fatalf("reversePath(root): %v", err)
	}
	if path != "/" {
		t.Fatalf("reversePath(root) = %q, want \"/\"", path)
	}
}

func TestExtract(t *testing.T) {
	fs, fixture := openFixture(t)
	var buf bytes.Buffer
	if err := fs.Extract(fixture.PasswdInode, &buf); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), fixture.PasswdContent) {
		t.Fatalf("Extract content = %q, want %q", buf.Bytes(), fixture.PasswdContent)
	}
}

func TestExtractRejectsDirectory(t *testing.T) {
	fs, fixture := openFixture(t)
	var buf bytes.Buffer
	err := fs.Extract(fixture.EtcInode, &buf)
	if err == nil {
		t.Fatalf("Extract on directory: expected error, got nil")
	}
	if _, ok := err.(*TypeError); !ok {
		t.Fatalf("Extract on directory: expected *TypeError, got %T (%v)", err, err)
	}
}

func TestList(t *testing.T) {
	fs, fixture := openFixture(t)
	var buf bytes.Buffer
	if err := fs.List(fixture.RootInode, &buf); err != nil {
		t.Fatalf("List: %v", err)
	}
	want := "../\n./\netc/\netc/../\netc/./\netc/passwd\n"
	if buf.String() != want {
		t.Fatalf("List =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestCheckCleanImageHasNoFindings(t *testing.T) {
	fs, _ := openFixture(t)
	var buf bytes.Buffer
	report, err := fs.Check(&buf)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(report.BadBlocks) != 0 {
		t.Fatalf("BadBlocks = %v, want none", report.BadBlocks)
	}
	if len(report.CrossLinks) != 0 {
		t.Fatalf("CrossLinks = %v, want none", report.CrossLinks)
	}
	if len(report.DirectoryIssues) != 0 {
		t.Fatalf("DirectoryIssues = %v, want none", report.DirectoryIssues)
	}
	if buf.Len() != 0 {
		t.Fatalf("Check output = %q, want empty", buf.String())
	}
}

func TestCheckDetectsBadBlock(t *testing.T) {
	fixture := testhelper.BuildV5Image()
	// corrupt passwd's only direct pointer to point outside the data area
	putInodeAddrForTest(fixture.Bytes, fixture.PasswdInode, 0, 9999)

	backend := testhelper.NewImageBytes(fixture.Bytes)
	img, err := diskimage.OpenBackend(backend)
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}
	fs, err := Read(img, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	var buf bytes.Buffer
	report, err := fs.Check(&buf)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := []BadBlockFinding{{Inode: fixture.PasswdInode, Sector: 9999}}
	if diffs := deep.Equal(report.BadBlocks, want); diffs != nil {
		t.Fatalf("BadBlocks mismatch: %v", diffs)
	}
	if diffs := deep.Equal(report.CrossLinks, []CrossLinkFinding(nil)); diffs != nil {
		t.Fatalf("CrossLinks mismatch: %v", diffs)
	}
	if buf.String() != "BAD-BLOCK 3 9999\n" {
		t.Fatalf("Check output = %q", buf.String())
	}
}

// putInodeAddrForTest pokes a single addr[k] slot of the given inode
// directly in the raw image bytes, for constructing corrupted fixtures.
func putInodeAddrForTest(image []byte, inum uint32, k int, sector uint16) {
	const inodeAreaOffset = 2 * 512
	off := inodeAreaOffset + int(inum-1)*32 + 8 + k*2
	image[off] = byte(sector)
	image[off+1] = byte(sector >> 8)
}
