package secidx

import "github.com/dbcore/bptreeidx/rid"

// Delete removes the (key, r) entry from the index, returning false if no
// matching entry was found. Duplicate keys are disambiguated by r: only the
// leaf slot that matches both the key bytes and the RID is removed.
func (t *IndexHandle) Delete(key []byte, r rid.RID) (bool, error) {
	if int32(len(key)) != t.hdr.AttrLength {
		return false, nil
	}
	ok, err := t.recurDelete(t.hdr.RootNode, key, r, nil)
	if err != nil {
		return false, err
	}
	if err := updateFileConfig(t.pool, t.fileID, t.hdr); err != nil {
		return false, err
	}
	return ok, nil
}

// recurDelete mirrors recurInsert's shape: parent aliases the caller's own
// curNode, used only to splice curNode's entry out if curNode empties.
//
// A note on a fix applied here relative to the implementation this tree's
// deletion algorithm is otherwise ported from: when an internal node drains
// to zero entries, the original source decremented the parent's curNum but
// then shifted entries within the now-empty child instead of the parent.
// That left the parent's slab untouched and the child silently orphaned.
// This version shifts the parent's own slab, which is what removing the
// child's separator/pointer entry actually requires.
func (t *IndexHandle) recurDelete(nodeID int32, key []byte, r rid.RID, parent *node) (bool, error) {
	curNode, err := loadNode(t.pool, t.fileID, nodeID, t.hdr)
	if err != nil {
		return false, err
	}

	var removed bool
	if !curNode.isLeaf {
		start := 0
		for i := 0; i < int(curNode.curNum); i++ {
			start = i
			if i == int(curNode.curNum)-1 || compare(key, curNode.ithKey(i+1), t.hdr.AttrType) < 0 {
				break
			}
		}
		for i := int(curNode.curNum) - 1; i >= start; i-- {
			if i == start || compare(key, curNode.ithKey(i), t.hdr.AttrType) >= 0 {
				ok, err := t.recurDelete(curNode.ithPage(i), key, r, curNode)
				if err != nil {
					return false, err
				}
				if ok {
					removed = true
				}
				break
			}
		}
		// Equal keys can spill into earlier children: child i-1 may still hold
		// key while child i's minimum equals key.
		for i := start; !removed && i > 0 && compare(key, curNode.ithKey(i), t.hdr.AttrType) == 0; i-- {
			ok, err := t.recurDelete(curNode.ithPage(i-1), key, r, curNode)
			if err != nil {
				return false, err
			}
			removed = ok
		}
	} else {
		slot := -1
		for i := 0; i < int(curNode.curNum); i++ {
			if compare(key, curNode.ithKey(i), t.hdr.AttrType) == 0 && r.Equal(curNode.ithPage(i), curNode.ithSlot(i)) {
				slot = i
				break
			}
		}
		if slot == -1 {
			return false, nil
		}
		curNode.curNum--
		for i := slot; i < int(curNode.curNum); i++ {
			curNode.copyEntryFrom(curNode, i, i+1)
		}
		removed = true
	}

	if !removed {
		return false, nil
	}

	if curNode.curNum == 0 {
		if curNode.isLeaf {
			if curNode.prev > 0 {
				if err := t.modifyNext(curNode.prev, curNode.next); err != nil {
					return false, err
				}
			}
			if curNode.next > 0 {
				if err := t.modifyPrev(curNode.next, curNode.prev); err != nil {
					return false, err
				}
			}
		}

		if nodeID == t.hdr.RootNode {
			if !curNode.isLeaf {
				// A root with no children left becomes an empty leaf again,
				// so later inserts have a leaf to land in.
				curNode.init(true, 0, 0, 0)
			}
			if err := forceWrite(t.pool, t.fileID, curNode); err != nil {
				return false, err
			}
			return true, nil
		}

		c := whichChild(nodeID, parent)
		if c == -1 {
			return false, faultf("delete", "node %d not found among parent %d's children", nodeID, parent.selfID)
		}
		parent.curNum--
		for i := c; i < int(parent.curNum); i++ {
			parent.copyEntryFrom(parent, i, i+1)
		}
	}

	// Keep the parent's separator equal to this node's (possibly new) minimum.
	if curNode.curNum > 0 && parent != nil {
		if c := whichChild(nodeID, parent); c >= 0 {
			parent.setKey(c, curNode.ithKey(0))
		}
	}

	if err := forceWrite(t.pool, t.fileID, curNode); err != nil {
		return false, err
	}
	return true, nil
}
