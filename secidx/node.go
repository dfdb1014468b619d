package secidx

import (
	"encoding/binary"
	"fmt"

	"github.com/dbcore/bptreeidx/bufpool"
	"github.com/dbcore/bptreeidx/rid"
)

// node is the in-memory view of one node page. Per spec.md §9's recommended
// rewrite strategy, it owns its header fields and both slabs as copies made
// on load; mutations happen against these copies and are written back in
// one shot by forceWrite. This trades one extra copy per page access for
// never holding a pointer into a buffer the pool could otherwise evict out
// from under a live node.
type node struct {
	selfID int32 // page id this node was loaded from; <=0 means "no page yet"
	isLeaf bool
	prev   int32
	next   int32
	parent int32
	curNum int32

	keys []byte // maxKeyNum * attrLength bytes
	rids []byte // maxKeyNum * ridEntrySize bytes

	attrLength int32
	maxKeyNum  int32
}

// newNode builds an empty, unattached node view sized for h's layout.
func newNode(h Header) *node {
	return &node{
		attrLength: h.AttrLength,
		maxKeyNum:  h.MaxKeyNum,
		keys:       make([]byte, h.MaxKeyNum*h.AttrLength),
		rids:       make([]byte, h.MaxKeyNum*ridEntrySize),
	}
}

// loadNode fetches pageID through pool and decodes it into a node view.
func loadNode(pool bufpool.Pool, fileID int, pageID int32, h Header) (*node, error) {
	pg, err := pool.GetPage(fileID, int64(pageID))
	if err != nil {
		return nil, fmt.Errorf("secidx: load node %d: %w", pageID, err)
	}
	n := newNode(h)
	n.selfID = pageID
	n.decodeFrom(pg.Buf[:])
	return n, nil
}

func (n *node) decodeFrom(buf []byte) {
	n.isLeaf = buf[0] != 0
	n.prev = int32(binary.LittleEndian.Uint32(buf[1:5]))
	n.next = int32(binary.LittleEndian.Uint32(buf[5:9]))
	n.parent = int32(binary.LittleEndian.Uint32(buf[9:13]))
	n.curNum = int32(binary.LittleEndian.Uint32(buf[13:17]))

	ridOff := nodeInfoSize
	keyOff := ridOff + len(n.rids)
	copy(n.rids, buf[ridOff:keyOff])
	copy(n.keys, buf[keyOff:keyOff+len(n.keys)])
}

func (n *node) encodeInto(buf []byte) {
	if n.isLeaf {
		buf[0] = 1
	} else {
		buf[0] = 0
	}
	binary.LittleEndian.PutUint32(buf[1:5], uint32(n.prev))
	binary.LittleEndian.PutUint32(buf[5:9], uint32(n.next))
	binary.LittleEndian.PutUint32(buf[9:13], uint32(n.parent))
	binary.LittleEndian.PutUint32(buf[13:17], uint32(n.curNum))

	ridOff := nodeInfoSize
	keyOff := ridOff + len(n.rids)
	copy(buf[ridOff:keyOff], n.rids)
	copy(buf[keyOff:keyOff+len(n.keys)], n.keys)
}

// init clears header fields for a freshly allocated page; slab contents
// are left undefined, matching spec.md §4.1.
func (n *node) init(isLeaf bool, prev, next, parent int32) {
	n.isLeaf = isLeaf
	n.prev = prev
	n.next = next
	n.parent = parent
	n.curNum = 0
}

// forceWrite persists the node's full current state (header prefix and
// both slabs) back through pool and marks the page dirty. If selfID<=0
// the node has no backing page yet and this is a no-op, matching spec.md
// §4.1's sentinel convention for "no parent/no page".
func forceWrite(pool bufpool.Pool, fileID int, n *node) error {
	if n.selfID <= 0 {
		return nil
	}
	pg, err := pool.GetPage(fileID, int64(n.selfID))
	if err != nil {
		return fmt.Errorf("secidx: write node %d: %w", n.selfID, err)
	}
	n.encodeInto(pg.Buf[:])
	if err := pool.MarkDirty(pg); err != nil {
		return fmt.Errorf("secidx: write node %d: %w", n.selfID, err)
	}
	return nil
}

// ithKey returns the i-th key slot as a byte slice view into n.keys.
func (n *node) ithKey(i int) []byte {
	off := int(n.attrLength) * i
	return n.keys[off : off+int(n.attrLength)]
}

func (n *node) setKey(i int, key []byte) {
	copy(n.ithKey(i), key)
}

// ithPage returns the page id stored in slot i: a child page id for
// internal nodes, or the RID's page component for leaves.
func (n *node) ithPage(i int) int32 {
	off := ridEntrySize * i
	return int32(binary.LittleEndian.Uint32(n.rids[off : off+4]))
}

// ithSlot returns the slot id stored in slot i (leaves only; -1/unused for
// internal nodes).
func (n *node) ithSlot(i int) int32 {
	off := ridEntrySize*i + 4
	return int32(binary.LittleEndian.Uint32(n.rids[off : off+4]))
}

func (n *node) ithRID(i int) rid.RID {
	return rid.RID{Page: n.ithPage(i), Slot: n.ithSlot(i)}
}

// setRID writes (page, slot) into slot i.
func (n *node) setRID(i int, page, slot int32) {
	off := ridEntrySize * i
	binary.LittleEndian.PutUint32(n.rids[off:off+4], uint32(page))
	binary.LittleEndian.PutUint32(n.rids[off+4:off+8], uint32(slot))
}

// setChild writes a child page id into slot i (internal nodes only); the
// slot half of the entry is unused, matching rid.Zero's sentinel.
func (n *node) setChild(i int, childPage int32) {
	n.setRID(i, childPage, rid.Zero.Slot)
}

// copyEntryFrom copies key+rid slot src of other into slot dst of n.
func (n *node) copyEntryFrom(other *node, dst, src int) {
	n.setKey(dst, other.ithKey(src))
	off := ridEntrySize * dst
	srcOff := ridEntrySize * src
	copy(n.rids[off:off+ridEntrySize], other.rids[srcOff:srcOff+ridEntrySize])
}
