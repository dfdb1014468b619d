package secidx

import "github.com/dbcore/bptreeidx/rid"

// SearchLast returns the position of the rightmost leaf entry equal to key:
// the leaf's page id and the entry's slot within it. ok is false if no entry
// matches. This is the entry point search_first/search_all walk backwards
// from (spec.md §4.5).
func (t *IndexHandle) SearchLast(key []byte) (leafPage int32, index int, ok bool, err error) {
	return t.recurSearchLast(t.hdr.RootNode, key)
}

func (t *IndexHandle) recurSearchLast(nodeID int32, key []byte) (int32, int, bool, error) {
	curNode, err := loadNode(t.pool, t.fileID, nodeID, t.hdr)
	if err != nil {
		return 0, 0, false, err
	}

	if !curNode.isLeaf {
		for i := int(curNode.curNum) - 1; i >= 0; i-- {
			if i == 0 || compare(key, curNode.ithKey(i), t.hdr.AttrType) >= 0 {
				return t.recurSearchLast(curNode.ithPage(i), key)
			}
		}
		return 0, 0, false, nil
	}

	for i := int(curNode.curNum) - 1; i >= 0; i-- {
		if compare(key, curNode.ithKey(i), t.hdr.AttrType) == 0 {
			return nodeID, i, true, nil
		}
	}
	return 0, 0, false, nil
}

// SearchFirst returns the position of the leftmost leaf entry equal to key,
// walking left across sibling leaves as needed (spec.md §4.5). ok is false
// if no entry matches.
func (t *IndexHandle) SearchFirst(key []byte) (leafPage int32, index int, ok bool, err error) {
	nodeID, idx, found, err := t.SearchLast(key)
	if err != nil || !found {
		return 0, 0, false, err
	}

	curNode, err := loadNode(t.pool, t.fileID, nodeID, t.hdr)
	if err != nil {
		return 0, 0, false, err
	}

	leafPage, index = nodeID, idx
	for {
		stop := false
		for i := idx; i >= 0; i-- {
			if compare(key, curNode.ithKey(i), t.hdr.AttrType) == 0 {
				leafPage, index = curNode.selfID, i
			} else {
				stop = true
				break
			}
		}
		if stop || curNode.prev <= 0 {
			return leafPage, index, true, nil
		}
		curNode, err = loadNode(t.pool, t.fileID, curNode.prev, t.hdr)
		if err != nil {
			return 0, 0, false, err
		}
		idx = int(curNode.curNum) - 1
	}
}

// SearchAll returns every RID stored under key, in leaf order: left to right
// across leaves and, within each leaf, by slot (spec.md §4.5).
func (t *IndexHandle) SearchAll(key []byte) ([]rid.RID, error) {
	nodeID, index, found, err := t.SearchLast(key)
	if err != nil || !found {
		return nil, err
	}

	curNode, err := loadNode(t.pool, t.fileID, nodeID, t.hdr)
	if err != nil {
		return nil, err
	}

	var out []rid.RID
	for {
		stop := false
		for i := index; i >= 0; i-- {
			if compare(key, curNode.ithKey(i), t.hdr.AttrType) == 0 {
				out = append(out, curNode.ithRID(i))
			} else {
				stop = true
				break
			}
		}
		if stop || curNode.prev <= 0 {
			break
		}
		curNode, err = loadNode(t.pool, t.fileID, curNode.prev, t.hdr)
		if err != nil {
			return nil, err
		}
		index = int(curNode.curNum) - 1
	}

	// out was accumulated from the last-matching leaf backwards, so it
	// reads newest-leaf-first; reverse it into left-to-right key order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
