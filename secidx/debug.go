package secidx

import (
	"fmt"
	"strings"
)

// Debug prints the subtree rooted at pageID to stdout, one line per node,
// indented by depth. It is a diagnostic aid, not part of the query surface.
func (t *IndexHandle) Debug(pageID int32) error {
	return t.debug(pageID, 0)
}

func (t *IndexHandle) debug(pageID int32, depth int) error {
	n, err := loadNode(t.pool, t.fileID, pageID, t.hdr)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)
	if n.isLeaf {
		fmt.Printf("%sleaf   page=%d prev=%d next=%d parent=%d n=%d/%d\n",
			indent, n.selfID, n.prev, n.next, n.parent, n.curNum, t.hdr.MaxKeyNum)
		return nil
	}
	fmt.Printf("%sinternal page=%d parent=%d n=%d/%d\n",
		indent, n.selfID, n.parent, n.curNum, t.hdr.MaxKeyNum)
	for i := 0; i < int(n.curNum); i++ {
		if err := t.debug(n.ithPage(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}
