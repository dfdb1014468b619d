package bufpool

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAdapterGetPageGrowsFile(t *testing.T) {
	dir := t.TempDir()
	a := NewAdapter()
	if err := a.Open(0, filepath.Join(dir, "f.bin"), 4); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	pg, err := a.GetPage(0, 7)
	if err != nil {
		t.Fatalf("get page 7 on fresh file: %v", err)
	}
	if pg.ID != 7 || pg.FileID != 0 {
		t.Fatalf("unexpected page identity: %+v", pg)
	}
	for _, b := range pg.Buf {
		if b != 0 {
			t.Fatalf("expected freshly grown page to be zeroed")
		}
	}
}

func TestAdapterMarkDirtyPersists(t *testing.T) {
	dir := t.TempDir()
	a := NewAdapter()
	if err := a.Open(0, filepath.Join(dir, "f.bin"), 4); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	pg, err := a.GetPage(0, 2)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	pg.Buf[0] = 0xAB
	if err := a.MarkDirty(pg); err != nil {
		t.Fatalf("mark dirty: %v", err)
	}

	reread, err := a.GetPage(0, 2)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if reread.Buf[0] != 0xAB {
		t.Fatalf("write did not persist: got %v", reread.Buf[0])
	}
}

func TestAdapterUnknownFile(t *testing.T) {
	a := NewAdapter()
	_, err := a.GetPage(99, 0)
	if !errors.Is(err, ErrUnknownFile) {
		t.Fatalf("expected ErrUnknownFile, got %v", err)
	}
}

func TestAdapterDoubleOpenFails(t *testing.T) {
	dir := t.TempDir()
	a := NewAdapter()
	if err := a.Open(0, filepath.Join(dir, "f.bin"), 4); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()
	if err := a.Open(0, filepath.Join(dir, "g.bin"), 4); err == nil {
		t.Fatalf("expected double-open to fail")
	}
}
