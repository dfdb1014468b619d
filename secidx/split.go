package secidx

// splitNode carves the top half of curNode's entries into a freshly
// allocated sibling, per spec.md §4.3 step 5. curNode is left holding the
// bottom half and is relinked to point at the new sibling; the sibling's
// own back-references (its children's parent pointers, or its successor's
// prev pointer) are fixed up before returning. Neither node is written to
// disk here — the caller writes both once it has also threaded the new
// sibling into the parent.
func (t *IndexHandle) splitNode(curNode *node) (*node, error) {
	newID := t.hdr.CurNodeNum + 1
	t.hdr.CurNodeNum = newID

	sib := newNode(t.hdr)
	sib.selfID = newID
	sib.init(curNode.isLeaf, curNode.selfID, curNode.next, curNode.parent)

	mid := int(curNode.curNum) / 2
	moved := int(curNode.curNum) - mid
	for i := 0; i < moved; i++ {
		sib.copyEntryFrom(curNode, i, mid+i)
	}
	sib.curNum = int32(moved)

	oldNext := curNode.next
	curNode.curNum = int32(mid)
	curNode.next = newID

	if !sib.isLeaf {
		for i := 0; i < moved; i++ {
			if err := t.modifyParent(sib.ithPage(i), newID); err != nil {
				return nil, err
			}
		}
	} else if oldNext > 0 {
		if err := t.modifyPrev(oldNext, newID); err != nil {
			return nil, err
		}
	}

	return sib, nil
}
