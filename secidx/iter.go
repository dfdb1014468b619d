package secidx

import "github.com/dbcore/bptreeidx/rid"

// NodeView is a read-only snapshot of one node page, handed out by
// FirstLeaf so callers never reach into the unexported node type.
type NodeView struct {
	n *node
}

func (v *NodeView) IsLeaf() bool  { return v.n.isLeaf }
func (v *NodeView) Len() int      { return int(v.n.curNum) }
func (v *NodeView) SelfID() int32 { return v.n.selfID }
func (v *NodeView) Next() int32   { return v.n.next }
func (v *NodeView) Prev() int32   { return v.n.prev }

// Key returns a copy of the i-th key in this node.
func (v *NodeView) Key(i int) []byte {
	src := v.n.ithKey(i)
	b := make([]byte, len(src))
	copy(b, src)
	return b
}

// RID returns the i-th entry's RID (leaves only; meaningless on internal
// nodes, where the same slab holds child page ids).
func (v *NodeView) RID(i int) rid.RID { return v.n.ithRID(i) }

// FirstLeaf descends the leftmost spine of the tree and returns its
// leftmost leaf (spec.md §4.6).
func (t *IndexHandle) FirstLeaf() (*NodeView, error) {
	curNode, err := loadNode(t.pool, t.fileID, t.hdr.RootNode, t.hdr)
	if err != nil {
		return nil, err
	}
	for !curNode.isLeaf {
		curNode, err = loadNode(t.pool, t.fileID, curNode.ithPage(0), t.hdr)
		if err != nil {
			return nil, err
		}
	}
	return &NodeView{n: curNode}, nil
}

// IterLeaves walks the full leaf chain left to right and returns every
// (key, rid) pair in the index, in ascending key order (spec.md §4.6).
func (t *IndexHandle) IterLeaves() ([][]byte, []rid.RID, error) {
	leaf, err := t.FirstLeaf()
	if err != nil {
		return nil, nil, err
	}

	var keys [][]byte
	var rids []rid.RID
	for {
		for i := 0; i < leaf.Len(); i++ {
			keys = append(keys, leaf.Key(i))
			rids = append(rids, leaf.RID(i))
		}
		if leaf.Next() <= 0 {
			return keys, rids, nil
		}
		n, err := loadNode(t.pool, t.fileID, leaf.Next(), t.hdr)
		if err != nil {
			return nil, nil, err
		}
		leaf = &NodeView{n: n}
	}
}
