package secidx

import (
	"path/filepath"
	"testing"

	"github.com/dbcore/bptreeidx/bufpool"
	"github.com/dbcore/bptreeidx/rid"
)

func openIndex(t *testing.T, cfg Config) *IndexHandle {
	t.Helper()
	dir := t.TempDir()
	a := bufpool.NewAdapter()
	if err := a.Open(0, filepath.Join(dir, "idx.bin"), 64); err != nil {
		t.Fatalf("open file: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	idx, err := Create(a, 0, cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return idx
}

func TestInsertAndSearchSequential(t *testing.T) {
	idx := openIndex(t, Config{AttrType: AttrInt, AttrLength: 4, MaxKeyNum: 4})

	const n = 500
	for i := int32(0); i < n; i++ {
		ok, err := idx.Insert(EncodeInt(i), rid.RID{Page: i, Slot: 0})
		if err != nil || !ok {
			t.Fatalf("insert %d: ok=%v err=%v", i, ok, err)
		}
	}

	for i := int32(0); i < n; i++ {
		got, err := idx.SearchAll(EncodeInt(i))
		if err != nil {
			t.Fatalf("search %d: %v", i, err)
		}
		if len(got) != 1 || got[0].Page != i {
			t.Fatalf("search %d: got %+v", i, got)
		}
	}
}

func TestInsertCausesMultipleLevels(t *testing.T) {
	idx := openIndex(t, Config{AttrType: AttrInt, AttrLength: 4, MaxKeyNum: 4})

	const n = 2000
	for i := int32(0); i < n; i++ {
		if _, err := idx.Insert(EncodeInt(i), rid.RID{Page: i, Slot: 1}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	keys, rids, err := idx.IterLeaves()
	if err != nil {
		t.Fatalf("iter leaves: %v", err)
	}
	if len(keys) != n {
		t.Fatalf("expected %d entries, got %d", n, len(keys))
	}
	for i, k := range keys {
		if DecodeInt(k) != int32(i) {
			t.Fatalf("leaf chain out of order at %d: got %d", i, DecodeInt(k))
		}
		if rids[i].Page != int32(i) {
			t.Fatalf("rid mismatch at %d: %+v", i, rids[i])
		}
	}
}

func TestDuplicateKeysAcrossSplits(t *testing.T) {
	idx := openIndex(t, Config{AttrType: AttrInt, AttrLength: 4, MaxKeyNum: 4})

	key := EncodeInt(7)
	const dups = 50
	for i := int32(0); i < dups; i++ {
		if _, err := idx.Insert(key, rid.RID{Page: i, Slot: i}); err != nil {
			t.Fatalf("insert dup %d: %v", i, err)
		}
	}
	// keep the tree from being entirely made of one key's leaves so the
	// duplicate chain genuinely spans a sibling boundary.
	for i := int32(100); i < 300; i++ {
		if _, err := idx.Insert(EncodeInt(i), rid.RID{Page: i, Slot: 0}); err != nil {
			t.Fatalf("insert filler %d: %v", i, err)
		}
	}

	all, err := idx.SearchAll(key)
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	if len(all) != dups {
		t.Fatalf("expected %d duplicates, got %d", dups, len(all))
	}
	seen := make(map[int32]bool)
	for _, r := range all {
		seen[r.Slot] = true
	}
	for i := int32(0); i < dups; i++ {
		if !seen[i] {
			t.Fatalf("missing duplicate slot %d", i)
		}
	}

	firstPage, firstIdx, ok, err := idx.SearchFirst(key)
	if err != nil || !ok {
		t.Fatalf("search first: ok=%v err=%v", ok, err)
	}
	lastPage, lastIdx, ok, err := idx.SearchLast(key)
	if err != nil || !ok {
		t.Fatalf("search last: ok=%v err=%v", ok, err)
	}
	if firstPage == lastPage && firstIdx == lastIdx && dups > 1 {
		t.Fatalf("expected first/last duplicate position to differ across %d dups", dups)
	}
}

func TestDeleteRemovesEntryAndCanEmptyLeaf(t *testing.T) {
	idx := openIndex(t, Config{AttrType: AttrInt, AttrLength: 4, MaxKeyNum: 4})

	const n = 300
	for i := int32(0); i < n; i++ {
		if _, err := idx.Insert(EncodeInt(i), rid.RID{Page: i, Slot: 0}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	for i := int32(0); i < n; i++ {
		ok, err := idx.Delete(EncodeInt(i), rid.RID{Page: i, Slot: 0})
		if err != nil || !ok {
			t.Fatalf("delete %d: ok=%v err=%v", i, ok, err)
		}
	}

	for i := int32(0); i < n; i++ {
		got, err := idx.SearchAll(EncodeInt(i))
		if err != nil {
			t.Fatalf("search after delete %d: %v", i, err)
		}
		if len(got) != 0 {
			t.Fatalf("key %d should be gone, found %+v", i, got)
		}
	}

	keys, _, err := idx.IterLeaves()
	if err != nil {
		t.Fatalf("iter leaves: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected empty index, got %d entries", len(keys))
	}
}

func TestDeleteMissingKeyReturnsFalse(t *testing.T) {
	idx := openIndex(t, Config{AttrType: AttrInt, AttrLength: 4, MaxKeyNum: 4})

	if _, err := idx.Insert(EncodeInt(1), rid.RID{Page: 1, Slot: 0}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	ok, err := idx.Delete(EncodeInt(2), rid.RID{Page: 1, Slot: 0})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok {
		t.Fatalf("expected delete of absent key to report false")
	}
}

func TestFloatAndStringKeys(t *testing.T) {
	idx := openIndex(t, Config{AttrType: AttrFloat, AttrLength: 8, MaxKeyNum: 4})
	vals := []float64{-3.5, -0.01, 0, 0.5, 1.25, 100.0}
	for i, v := range vals {
		if _, err := idx.Insert(EncodeFloat(v), rid.RID{Page: int32(i), Slot: 0}); err != nil {
			t.Fatalf("insert %v: %v", v, err)
		}
	}
	keys, _, err := idx.IterLeaves()
	if err != nil {
		t.Fatalf("iter leaves: %v", err)
	}
	if len(keys) != len(vals) {
		t.Fatalf("expected %d entries, got %d", len(vals), len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if DecodeFloat(keys[i-1]) > DecodeFloat(keys[i]) {
			t.Fatalf("float keys out of order: %v before %v", DecodeFloat(keys[i-1]), DecodeFloat(keys[i]))
		}
	}

	sidx := openIndex(t, Config{AttrType: AttrString, AttrLength: 8, MaxKeyNum: 4})
	words := []string{"pear", "apple", "mango", "kiwi", "fig"}
	for i, w := range words {
		if _, err := sidx.Insert(EncodeString(w, 8), rid.RID{Page: int32(i), Slot: 0}); err != nil {
			t.Fatalf("insert %q: %v", w, err)
		}
	}
	skeys, _, err := sidx.IterLeaves()
	if err != nil {
		t.Fatalf("iter leaves: %v", err)
	}
	for i := 1; i < len(skeys); i++ {
		if string(skeys[i-1]) > string(skeys[i]) {
			t.Fatalf("string keys out of order: %q before %q", skeys[i-1], skeys[i])
		}
	}
}

func TestCreateRejectsOversizedLayout(t *testing.T) {
	dir := t.TempDir()
	a := bufpool.NewAdapter()
	if err := a.Open(0, filepath.Join(dir, "idx.bin"), 8); err != nil {
		t.Fatalf("open file: %v", err)
	}
	defer a.Close()

	_, err := Create(a, 0, Config{AttrType: AttrString, AttrLength: 4096, MaxKeyNum: 16})
	if err == nil {
		t.Fatalf("expected layout-too-large error")
	}
}
