package converter

import (
	"io"
	"testing"

	"github.com/tillberg/v5fs/diskimage"
	"github.com/tillberg/v5fs/filesystem/v5fs"
	"github.com/tillberg/v5fs/testhelper"
)

func TestFSReadDirAndOpen(t *testing.T) {
	fixture := testhelper.BuildV5Image()
	backend := testhelper.NewImageBytes(fixture.Bytes)
	img, err := diskimage.OpenBackend(backend)
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}
	v5, err := v5fs.Read(img, nil)
	if err != nil {
		t.Fatalf("v5fs.Read: %v", err)
	}

	// ReadDir is exercised directly on the concrete FileSystem: io/fs.FS
	// only guarantees Open, so the converter's job is tested through Open
	// below, not through the stdlib ReadDirFS path.
	entries, err := v5.ReadDir("/")
	if err != nil {
		t.Fatalf("ReadDir(/): %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "etc" {
		t.Fatalf("ReadDir(/) = %v, want [etc]", entries)
	}

	fsys := FS(v5)
	f, err := fsys.Open("etc/passwd")
	if err != nil {
		t.Fatalf("Open(etc/passwd): %v", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(content) != string(fixture.PasswdContent) {
		t.Fatalf("content = %q, want %q", content, fixture.PasswdContent)
	}
}
