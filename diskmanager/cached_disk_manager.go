package diskmanager

import (
	"github.com/dgraph-io/ristretto/v2"

	"pagecache/types"
)

// CachedDiskManager decorates any DiskManager with a victim-read cache: a
// ristretto-backed, in-memory copy of recently written or read pages that
// lets ReadPage skip the backing store entirely on a hit. It never changes
// what ReadPage returns relative to the wrapped DiskManager — only whether
// the underlying store is touched — so it is safe to drop in front of any
// DiskManager without affecting observable behavior.
type CachedDiskManager struct {
	next  DiskManager
	cache *ristretto.Cache[int64, []byte]
}

// NewCachedDiskManager wraps next with a victim-read cache sized for
// maxPages resident entries.
func NewCachedDiskManager(next DiskManager, maxPages int64) (*CachedDiskManager, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[int64, []byte]{
		NumCounters: maxPages * 10,
		MaxCost:     maxPages * int64(types.PageSize),
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedDiskManager{next: next, cache: cache}, nil
}

// ReadPage serves from the victim cache when present; otherwise it reads
// through to next and populates the cache for subsequent reads.
func (c *CachedDiskManager) ReadPage(pageID types.PageID, buf []byte) error {
	if cached, ok := c.cache.Get(int64(pageID)); ok {
		copy(buf, cached)
		return nil
	}
	if err := c.next.ReadPage(pageID, buf); err != nil {
		return err
	}
	c.store(pageID, buf)
	return nil
}

// WritePage writes through to next and refreshes the victim cache entry.
func (c *CachedDiskManager) WritePage(pageID types.PageID, buf []byte) error {
	if err := c.next.WritePage(pageID, buf); err != nil {
		return err
	}
	c.store(pageID, buf)
	return nil
}

// Invalidate purges pageID from the victim cache. DeletePage calls this so
// discarded (never-flushed) bytes can never resurface through the cache
// for a reused or probed page id.
func (c *CachedDiskManager) Invalidate(pageID types.PageID) {
	c.cache.Del(int64(pageID))
}

// Close releases the cache's background goroutines.
func (c *CachedDiskManager) Close() {
	c.cache.Close()
}

func (c *CachedDiskManager) store(pageID types.PageID, buf []byte) {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	c.cache.Set(int64(pageID), cp, int64(len(cp)))
	c.cache.Wait()
}
