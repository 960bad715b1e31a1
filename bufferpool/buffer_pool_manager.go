// Package bufferpool implements the buffer pool manager: the component
// that owns the frame array and coordinates the free list, page table,
// LRU-K replacer, and disk scheduler on every client request.
package bufferpool

import (
	"pagecache/diskmanager"
	"pagecache/diskscheduler"
	"pagecache/logmanager"
	"pagecache/replacer"
	"pagecache/types"

	"sync"
)

// BufferPoolManager owns a fixed array of frames and mediates all access
// between callers and the disk scheduler.
type BufferPoolManager struct {
	mu sync.Mutex

	poolSize int
	frames   []*Frame
	pageTbl  map[types.PageID]types.FrameID
	freeList []types.FrameID

	disk      diskmanager.DiskManager
	replacer  *replacer.LRUKReplacer
	scheduler *diskscheduler.DiskScheduler
	logMgr    *logmanager.LogManager

	nextPageID types.PageID
}

// invalidator is implemented by disk managers that keep an auxiliary
// cache needing explicit eviction on delete (e.g. diskmanager.CachedDiskManager).
type invalidator interface {
	Invalidate(pageID types.PageID)
}

// New constructs a pool of poolSize frames backed by disk, with an LRU-K
// replacer of history depth k. logMgr may be nil; it is never called
// (reserved for future recovery integration).
func New(poolSize int, disk diskmanager.DiskManager, k int, logMgr *logmanager.LogManager) *BufferPoolManager {
	bp := &BufferPoolManager{
		poolSize:  poolSize,
		frames:    make([]*Frame, poolSize),
		pageTbl:   make(map[types.PageID]types.FrameID, poolSize),
		freeList:  make([]types.FrameID, poolSize),
		disk:      disk,
		replacer:  replacer.New(poolSize, k),
		scheduler: diskscheduler.New(disk),
		logMgr:    logMgr,
	}
	for i := 0; i < poolSize; i++ {
		bp.frames[i] = newFrame()
		bp.freeList[i] = types.FrameID(i)
	}
	return bp
}

// PoolSize returns the number of frames the pool manages.
func (bp *BufferPoolManager) PoolSize() int {
	return bp.poolSize
}

// Close shuts down the disk scheduler's worker. Call after all clients
// have released their guards.
func (bp *BufferPoolManager) Close() {
	bp.scheduler.Close()
}

// allocatePage returns the next page id. Ids are never reused, even across
// DeletePage, because the counter only ever increases.
func (bp *BufferPoolManager) allocatePage() types.PageID {
	id := bp.nextPageID
	bp.nextPageID++
	return id
}

// findVictim is the victim-selection subroutine shared by NewPage and a
// FetchPage miss: pop from the free list if non-empty, else ask the
// replacer to evict, flushing the evicted frame first if it is dirty.
// Called with bp.mu held; may block on a disk write while still holding
// it, so the pool blocks all other callers during a dirty eviction.
func (bp *BufferPoolManager) findVictim() (types.FrameID, bool) {
	if n := len(bp.freeList); n > 0 {
		f := bp.freeList[n-1]
		bp.freeList = bp.freeList[:n-1]
		return f, true
	}

	victim, ok := bp.replacer.Evict()
	if !ok {
		return 0, false
	}

	frame := bp.frames[victim]
	if frame.Dirty {
		// frame.reset, called by NewPage/FetchPage right after findVictim
		// returns, overwrites this frame's contents regardless of whether
		// the flush below succeeds, so there is nothing left to roll back
		// here if it fails.
		bp.flushFrame(frame)
	}
	delete(bp.pageTbl, frame.PageID)
	return victim, true
}

// flushFrame synchronously schedules a write of frame's buffer to its
// current page id and waits for completion, clearing the dirty flag only
// if the write actually succeeded. Called with bp.mu held.
func (bp *BufferPoolManager) flushFrame(frame *Frame) bool {
	done := bp.scheduler.CreatePromise()
	bp.scheduler.Schedule(diskscheduler.DiskRequest{
		IsWrite: true,
		Buffer:  frame.Data,
		PageID:  frame.PageID,
		Done:    done,
	})
	ok, err := diskscheduler.Wait(done)
	if !ok || err != nil {
		return false
	}
	frame.Dirty = false
	return true
}

// NewPage secures a frame via victim selection, allocates a fresh page id,
// zeroes the frame, pins it, and installs the page-table entry. Returns
// nil if no frame is available.
func (bp *BufferPoolManager) NewPage(outPageID *types.PageID) *Frame {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.findVictim()
	if !ok {
		return nil
	}

	pageID := bp.allocatePage()
	frame := bp.frames[frameID]
	frame.reset(pageID)

	bp.replacer.RecordAccess(frameID)
	bp.replacer.SetEvictable(frameID, false)
	bp.pageTbl[pageID] = frameID

	if outPageID != nil {
		*outPageID = pageID
	}
	return frame
}

// FetchPage returns the frame holding pageID, pinning it. On a page-table
// hit the frame is returned without any disk read. On a miss, a frame is
// obtained via victim selection and its contents are loaded from disk
// before returning; if that read fails, the frame is released back to the
// free list and FetchPage returns nil. accessType is accepted for
// call-site symmetry but is never inspected.
func (bp *BufferPoolManager) FetchPage(pageID types.PageID, accessType ...types.AccessType) *Frame {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if frameID, hit := bp.pageTbl[pageID]; hit {
		frame := bp.frames[frameID]
		frame.PinCount++
		bp.replacer.RecordAccess(frameID)
		bp.replacer.SetEvictable(frameID, false)
		return frame
	}

	frameID, ok := bp.findVictim()
	if !ok {
		return nil
	}

	frame := bp.frames[frameID]
	frame.reset(pageID)

	done := bp.scheduler.CreatePromise()
	bp.scheduler.Schedule(diskscheduler.DiskRequest{
		IsWrite: false,
		Buffer:  frame.Data,
		PageID:  pageID,
		Done:    done,
	})
	if ok, err := diskscheduler.Wait(done); !ok || err != nil {
		frame.PageID = types.InvalidPageID
		frame.PinCount = 0
		bp.freeList = append(bp.freeList, frameID)
		return nil
	}

	bp.replacer.RecordAccess(frameID)
	bp.replacer.SetEvictable(frameID, false)
	bp.pageTbl[pageID] = frameID
	return frame
}

// UnpinPage decrements pageID's pin count, stickily marking it dirty when
// isDirty is true, and marks the frame evictable once the pin count
// reaches zero. Returns false if pageID is not resident or already has a
// zero pin count.
func (bp *BufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool, accessType ...types.AccessType) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, resident := bp.pageTbl[pageID]
	if !resident {
		return false
	}
	frame := bp.frames[frameID]
	if frame.PinCount == 0 {
		return false
	}

	frame.PinCount--
	if isDirty {
		frame.Dirty = true
	}
	if frame.PinCount == 0 {
		bp.replacer.SetEvictable(frameID, true)
	}
	return true
}

// FlushPage synchronously writes pageID's frame to disk and clears its
// dirty flag, independent of pin count. Returns false for the invalid
// sentinel, a non-resident page, or a write that fails to reach disk (the
// dirty flag is left set in that case).
func (bp *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	if pageID == types.InvalidPageID {
		return false
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, resident := bp.pageTbl[pageID]
	if !resident {
		return false
	}
	return bp.flushFrame(bp.frames[frameID])
}

// FlushAllPages flushes every frame currently holding a valid page id.
// Frames holding InvalidPageID are skipped. A frame whose write fails
// keeps its dirty flag set rather than being reported as flushed.
func (bp *BufferPoolManager) FlushAllPages() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	for _, frame := range bp.frames {
		if frame.PageID == types.InvalidPageID {
			continue
		}
		bp.flushFrame(frame)
	}
}

// DeletePage removes pageID from the pool, discarding its contents without
// a flush. Returns true if pageID is not resident (nothing to do) or was
// successfully deleted; returns false if it is resident and still pinned.
func (bp *BufferPoolManager) DeletePage(pageID types.PageID) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, resident := bp.pageTbl[pageID]
	if !resident {
		return true
	}
	frame := bp.frames[frameID]
	if frame.PinCount > 0 {
		return false
	}

	bp.replacer.Remove(frameID)
	delete(bp.pageTbl, pageID)
	bp.freeList = append(bp.freeList, frameID)

	if inv, ok := bp.disk.(invalidator); ok {
		inv.Invalidate(pageID)
	}

	frame.PageID = types.InvalidPageID
	frame.PinCount = 0
	frame.Dirty = false
	for i := range frame.Data {
		frame.Data[i] = 0
	}
	return true
}
