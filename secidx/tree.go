package secidx

import (
	"fmt"

	"github.com/dbcore/bptreeidx/bufpool"
	"github.com/dbcore/bptreeidx/rid"
)

// Config describes a new index's fixed layout. It is only consumed by
// Create; an opened index reads its own layout back from the header record.
type Config struct {
	AttrType   AttrType
	AttrLength int32
	MaxKeyNum  int32 // entries per node before a split; must be >= 3
}

// IndexHandle is a single open B+-tree index file. It is not safe for
// concurrent use: methods mutate the cached header and rewrite node pages
// without locking, so callers must serialize access (spec.md §5).
type IndexHandle struct {
	pool   bufpool.Pool
	fileID int
	hdr    Header
}

// Create initializes a brand-new index in fileID: a header record at page 0
// and a single empty leaf root at page 1.
func Create(pool bufpool.Pool, fileID int, cfg Config) (*IndexHandle, error) {
	if cfg.MaxKeyNum < 3 {
		return nil, fmt.Errorf("secidx: create: MaxKeyNum must be >= 3, got %d", cfg.MaxKeyNum)
	}
	if cfg.AttrLength <= 0 {
		return nil, fmt.Errorf("secidx: create: AttrLength must be positive, got %d", cfg.AttrLength)
	}

	maxRidSize := cfg.MaxKeyNum * ridEntrySize
	pageBudget := nodeInfoSize + int(maxRidSize) + int(cfg.MaxKeyNum*cfg.AttrLength)
	if pageBudget > bufpool.PageSize {
		return nil, fmt.Errorf("secidx: create: node layout needs %d bytes, page holds %d (lower MaxKeyNum or AttrLength)", pageBudget, bufpool.PageSize)
	}

	hdr := Header{
		RootNode:         1,
		CurNodeNum:       1,
		AttrType:         cfg.AttrType,
		AttrLength:       cfg.AttrLength,
		TreeNodeInfoSize: nodeInfoSize,
		MaxRidSize:       maxRidSize,
		MaxKeyNum:        cfg.MaxKeyNum,
	}

	root := newNode(hdr)
	root.selfID = hdr.RootNode
	root.init(true, 0, 0, 0)
	if err := forceWrite(pool, fileID, root); err != nil {
		return nil, err
	}
	if err := updateFileConfig(pool, fileID, hdr); err != nil {
		return nil, err
	}
	return &IndexHandle{pool: pool, fileID: fileID, hdr: hdr}, nil
}

// Open attaches to an index file previously initialized by Create, reading
// its layout from the header record at page 0.
func Open(pool bufpool.Pool, fileID int) (*IndexHandle, error) {
	hdr, err := readHeader(pool, fileID)
	if err != nil {
		return nil, err
	}
	if hdr.AttrLength <= 0 || hdr.MaxKeyNum <= 0 {
		return nil, fmt.Errorf("secidx: open: file %d has no header record (run Create first)", fileID)
	}
	return &IndexHandle{pool: pool, fileID: fileID, hdr: hdr}, nil
}

// AttrType reports the key type this index was created with.
func (t *IndexHandle) AttrType() AttrType { return t.hdr.AttrType }

// AttrLength reports the fixed key width in bytes.
func (t *IndexHandle) AttrLength() int32 { return t.hdr.AttrLength }

// RootPage reports the current root page id, mostly useful for Debug/Plot.
func (t *IndexHandle) RootPage() int32 { return t.hdr.RootNode }

// Insert adds (key, r) to the index. key must be exactly AttrLength bytes.
// Duplicate keys are allowed; insertion order among equal keys is not
// preserved across splits (spec.md §4.3).
func (t *IndexHandle) Insert(key []byte, r rid.RID) (bool, error) {
	if int32(len(key)) != t.hdr.AttrLength {
		return false, fmt.Errorf("secidx: insert: key is %d bytes, index wants %d", len(key), t.hdr.AttrLength)
	}

	var newRoot *node
	ok, err := t.recurInsert(t.hdr.RootNode, key, r, &newRoot)
	if err != nil {
		return false, err
	}
	if newRoot != nil {
		if err := forceWrite(t.pool, t.fileID, newRoot); err != nil {
			return false, err
		}
	}
	if err := updateFileConfig(t.pool, t.fileID, t.hdr); err != nil {
		return false, err
	}
	return ok, nil
}

// recurInsert descends to the leaf owning key, inserts, and unwinds the
// recursion handling any splits it triggers. parent aliases the caller's own
// curNode pointer (spec.md §9's mutable-parent-view design), except at the
// top-level call where parent is a fresh nil out-param used only if the
// root itself needs to split and grow a new parent above it.
func (t *IndexHandle) recurInsert(nodeID int32, key []byte, r rid.RID, parent **node) (bool, error) {
	curNode, err := loadNode(t.pool, t.fileID, nodeID, t.hdr)
	if err != nil {
		return false, err
	}

	var ok bool
	if !curNode.isLeaf {
		for i := int(curNode.curNum) - 1; i >= 0; i-- {
			if i == 0 || compare(key, curNode.ithKey(i), t.hdr.AttrType) >= 0 {
				ok, err = t.recurInsert(curNode.ithPage(i), key, r, &curNode)
				if err != nil {
					return false, err
				}
				break
			}
		}
	} else {
		n := int(curNode.curNum)
		i := n
		for i > 0 && compare(key, curNode.ithKey(i-1), t.hdr.AttrType) < 0 {
			curNode.copyEntryFrom(curNode, i, i-1)
			i--
		}
		curNode.setKey(i, key)
		curNode.setRID(i, r.Page, r.Slot)
		curNode.curNum++
		ok = true
	}

	if curNode.curNum >= t.hdr.MaxKeyNum {
		if curNode.parent <= 0 {
			newParentID := t.hdr.CurNodeNum + 1
			t.hdr.CurNodeNum = newParentID

			p := newNode(t.hdr)
			p.selfID = newParentID
			p.init(false, 0, 0, 0)
			p.setKey(0, curNode.ithKey(0))
			p.setChild(0, nodeID)
			p.curNum = 1

			t.hdr.RootNode = newParentID
			curNode.parent = newParentID
			*parent = p
		}

		newSib, err := t.splitNode(curNode)
		if err != nil {
			return false, err
		}

		pn := *parent
		c := whichChild(nodeID, pn)
		if c == -1 {
			return false, faultf("insert", "node %d not found among parent %d's children", nodeID, pn.selfID)
		}
		for i := int(pn.curNum); i > c+1; i-- {
			pn.copyEntryFrom(pn, i, i-1)
		}
		pn.curNum++
		pn.setKey(c, curNode.ithKey(0))
		pn.setKey(c+1, newSib.ithKey(0))
		pn.setChild(c+1, newSib.selfID)

		if err := forceWrite(t.pool, t.fileID, newSib); err != nil {
			return false, err
		}
	}

	// Keep the parent's separator equal to this node's (possibly new) minimum.
	if pn := *parent; pn != nil {
		if c := whichChild(nodeID, pn); c >= 0 {
			pn.setKey(c, curNode.ithKey(0))
		}
	}

	if err := forceWrite(t.pool, t.fileID, curNode); err != nil {
		return false, err
	}
	return ok, nil
}

// whichChild returns the slot of parent whose child pointer is childID, or
// -1 if parent is nil, a leaf, or simply doesn't reference it (a fault).
func whichChild(childID int32, parent *node) int {
	if parent == nil || parent.isLeaf {
		return -1
	}
	for i := 0; i < int(parent.curNum); i++ {
		if parent.ithPage(i) == childID {
			return i
		}
	}
	return -1
}

func (t *IndexHandle) modifyParent(childID, newParent int32) error {
	n, err := loadNode(t.pool, t.fileID, childID, t.hdr)
	if err != nil {
		return err
	}
	n.parent = newParent
	return forceWrite(t.pool, t.fileID, n)
}

func (t *IndexHandle) modifyPrev(nodeID, newPrev int32) error {
	n, err := loadNode(t.pool, t.fileID, nodeID, t.hdr)
	if err != nil {
		return err
	}
	n.prev = newPrev
	return forceWrite(t.pool, t.fileID, n)
}

func (t *IndexHandle) modifyNext(nodeID, newNext int32) error {
	n, err := loadNode(t.pool, t.fileID, nodeID, t.hdr)
	if err != nil {
		return err
	}
	n.next = newNext
	return forceWrite(t.pool, t.fileID, n)
}
