// Package secidx implements a disk-resident B+-tree secondary index over
// fixed-width attribute keys, mapping key values to rid.RID. All node state
// lives in pages fetched through a bufpool.Pool; the tree never keeps an
// in-memory link between nodes, only page ids (spec.md §1).
package secidx

import (
	"encoding/binary"
	"fmt"

	"github.com/dbcore/bptreeidx/bufpool"
)

// AttrType tags the fixed-width key type a given index was created with.
type AttrType uint8

const (
	// AttrInt compares keys as big-endian-ordered int32 (4 bytes).
	AttrInt AttrType = iota
	// AttrFloat compares keys as float64, 8 bytes, IEEE order-preserving.
	AttrFloat
	// AttrString compares keys as fixed-width, NUL-padded byte strings.
	AttrString
)

func (t AttrType) String() string {
	switch t {
	case AttrInt:
		return "int"
	case AttrFloat:
		return "float"
	case AttrString:
		return "string"
	default:
		return fmt.Sprintf("AttrType(%d)", uint8(t))
	}
}

// headerPageID is where secidx always keeps its configuration record: page
// 0 of the index file, per spec.md §3/§6.
const headerPageID int64 = 0

// nodeInfoSize is the on-page size of a node's header prefix: isLeafNode
// (1 byte) + prevNode/nextNode/parentNode/curNum (int32 each).
const nodeInfoSize = 1 + 4 + 4 + 4 + 4

// ridEntrySize is the on-page size of one RID/child slab entry: two int32s
// (page, slot), per spec.md §6.
const ridEntrySize = 8

// Header is the persistent configuration stored at page 0, rewritten after
// every mutating operation (spec.md §3, updateFileConfig in spec.md §4.7).
type Header struct {
	RootNode         int32 // page id of the current root
	CurNodeNum       int32 // monotonically increasing page-id counter
	AttrType         AttrType
	AttrLength       int32 // byte width of one key
	TreeNodeInfoSize int32 // byte size of the node header prefix
	MaxRidSize       int32 // byte span reserved for the RID/child slab
	MaxKeyNum        int32 // split threshold
}

const headerEncodedSize = 4 + 4 + 1 + 4 + 4 + 4 + 4

func (h Header) encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.RootNode))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.CurNodeNum))
	buf[8] = byte(h.AttrType)
	binary.LittleEndian.PutUint32(buf[9:13], uint32(h.AttrLength))
	binary.LittleEndian.PutUint32(buf[13:17], uint32(h.TreeNodeInfoSize))
	binary.LittleEndian.PutUint32(buf[17:21], uint32(h.MaxRidSize))
	binary.LittleEndian.PutUint32(buf[21:25], uint32(h.MaxKeyNum))
}

func decodeHeader(buf []byte) Header {
	return Header{
		RootNode:         int32(binary.LittleEndian.Uint32(buf[0:4])),
		CurNodeNum:       int32(binary.LittleEndian.Uint32(buf[4:8])),
		AttrType:         AttrType(buf[8]),
		AttrLength:       int32(binary.LittleEndian.Uint32(buf[9:13])),
		TreeNodeInfoSize: int32(binary.LittleEndian.Uint32(buf[13:17])),
		MaxRidSize:       int32(binary.LittleEndian.Uint32(buf[17:21])),
		MaxKeyNum:        int32(binary.LittleEndian.Uint32(buf[21:25])),
	}
}

// readHeader loads the header record from page 0 of fileID.
func readHeader(pool bufpool.Pool, fileID int) (Header, error) {
	pg, err := pool.GetPage(fileID, headerPageID)
	if err != nil {
		return Header{}, fmt.Errorf("secidx: read header: %w", err)
	}
	return decodeHeader(pg.Buf[:headerEncodedSize]), nil
}

// updateFileConfig rewrites page 0 from h and marks it dirty. Must be
// called at the end of every mutating public operation (spec.md §4.7).
func updateFileConfig(pool bufpool.Pool, fileID int, h Header) error {
	pg, err := pool.GetPage(fileID, headerPageID)
	if err != nil {
		return fmt.Errorf("secidx: update header: %w", err)
	}
	h.encode(pg.Buf[:headerEncodedSize])
	if err := pool.MarkDirty(pg); err != nil {
		return fmt.Errorf("secidx: update header: %w", err)
	}
	return nil
}
