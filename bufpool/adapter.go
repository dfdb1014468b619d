package bufpool

import (
	"fmt"
	"sync"

	"github.com/dbcore/bptreeidx/dbms/pager"
)

// Adapter is the one concrete Pool shipped with this module. It multiplexes
// one *pager.Pager per registered fileID — the teacher's pager only ever
// served a single file, but secidx addresses pages as (fileID, pageID)
// pairs so that one process can host more than one index.
type Adapter struct {
	mu     sync.Mutex
	pagers map[int]*pager.Pager
}

// NewAdapter returns an empty Adapter. Register files with Open before use.
func NewAdapter() *Adapter {
	return &Adapter{pagers: make(map[int]*pager.Pager)}
}

// Open registers fileID as backed by the paged file at path, creating it if
// necessary. cachePages sizes the pager's internal LRU (page count, not
// bytes — see pager.Open).
func (a *Adapter) Open(fileID int, path string, cachePages int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.pagers[fileID]; ok {
		return fmt.Errorf("bufpool: file id %d already registered", fileID)
	}
	pg, err := pager.Open(path, cachePages)
	if err != nil {
		return fmt.Errorf("bufpool: open file %d: %w", fileID, err)
	}
	a.pagers[fileID] = pg
	return nil
}

// Close closes every registered pager.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var first error
	for id, pg := range a.pagers {
		if err := pg.Close(); err != nil && first == nil {
			first = fmt.Errorf("bufpool: close file %d: %w", id, err)
		}
	}
	return first
}

func (a *Adapter) pagerFor(fileID int) (*pager.Pager, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	pg, ok := a.pagers[fileID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFile, fileID)
	}
	return pg, nil
}

// GetPage implements Pool. It grows the underlying file with blank pages if
// pageID has never been allocated, matching secidx's convention that a page
// id becomes live the moment its owning node decides to use it.
func (a *Adapter) GetPage(fileID int, pageID int64) (*Page, error) {
	pg, err := a.pagerFor(fileID)
	if err != nil {
		return nil, err
	}
	id := uint64(pageID)
	if id >= pg.PageCount() {
		if err := pg.Grow(id); err != nil {
			return nil, fmt.Errorf("bufpool: grow file %d to page %d: %w", fileID, pageID, err)
		}
	}
	raw, err := pg.Read(id)
	if err != nil {
		return nil, fmt.Errorf("bufpool: read file %d page %d: %w", fileID, pageID, err)
	}
	p := &Page{FileID: fileID, ID: pageID}
	p.Buf = *raw // owned copy: see Pool's pin-lifetime note
	return p, nil
}

// MarkDirty implements Pool by writing p's bytes straight through to the
// pager. There is no deferred flush or write-behind: spec.md §5 assumes a
// single synchronous writer and no crash-atomicity, so an immediate
// write-through is both simplest and sufficient.
func (a *Adapter) MarkDirty(p *Page) error {
	pg, err := a.pagerFor(p.FileID)
	if err != nil {
		return err
	}
	raw := pager.Page(p.Buf)
	if err := pg.Write(uint64(p.ID), &raw); err != nil {
		return fmt.Errorf("bufpool: write file %d page %d: %w", p.FileID, p.ID, err)
	}
	return nil
}

// Access implements Pool by re-reading the page through the pager's cache,
// bumping its recency without copying anything back out.
func (a *Adapter) Access(p *Page) {
	pg, err := a.pagerFor(p.FileID)
	if err != nil {
		return
	}
	_, _ = pg.Read(uint64(p.ID))
}
