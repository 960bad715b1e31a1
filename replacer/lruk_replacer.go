// Package replacer implements the LRU-K replacement policy: the buffer
// pool's victim-selection strategy. Two tracking lists stand in for the
// classic two std::list + iterator-map pairs: a container/list list plus
// a map[FrameID]*list.Element for each of the young and mature queues.
package replacer

import (
	"container/list"
	"fmt"
	"sync"

	"pagecache/types"
)

// record is the per-frame replacer state: an access count and which list
// (young or mature) the frame's container/list element currently lives in.
type record struct {
	frameID   types.FrameID
	count     int
	evictable bool
	inYoung   bool // true: element lives in young, false: in mature
}

// LRUKReplacer tracks access history for every frame ever seen since its
// last removal and selects, on Evict, the evictable frame with the largest
// backward K-distance.
type LRUKReplacer struct {
	mu sync.Mutex

	poolSize int
	k        int

	young   *list.List // FIFO: frames with fewer than k accesses
	mature  *list.List // LRU: frames with k or more accesses, MRU at back
	records map[types.FrameID]*list.Element

	currentSize int
}

// New creates a replacer governing frame ids in [0, poolSize) with history
// depth k.
func New(poolSize int, k int) *LRUKReplacer {
	if k < 1 {
		panic("replacer: k must be >= 1")
	}
	return &LRUKReplacer{
		poolSize: poolSize,
		k:        k,
		young:    list.New(),
		mature:   list.New(),
		records:  make(map[types.FrameID]*list.Element),
	}
}

func (r *LRUKReplacer) checkBounds(f types.FrameID) {
	if f < 0 || int(f) >= r.poolSize {
		panic(fmt.Sprintf("replacer: frame id %d out of bounds [0, %d)", f, r.poolSize))
	}
}

// RecordAccess notes an access to frame f, inserting a new record at the
// tail of the young list on first sight (the mature list's tail when k is
// 1, since one access already reaches k), promoting to the mature list's
// tail once the access count reaches k, and otherwise moving an
// already-mature frame to the mature list's tail.
func (r *LRUKReplacer) RecordAccess(f types.FrameID) {
	r.checkBounds(f)
	r.mu.Lock()
	defer r.mu.Unlock()

	elem, tracked := r.records[f]
	if !tracked {
		rec := &record{frameID: f, count: 1, evictable: true, inYoung: r.k > 1}
		if rec.inYoung {
			r.records[f] = r.young.PushBack(rec)
		} else {
			r.records[f] = r.mature.PushBack(rec)
		}
		r.currentSize++
		return
	}

	rec := elem.Value.(*record)
	if rec.count >= r.k {
		r.mature.MoveToBack(elem)
		rec.count++
		return
	}

	rec.count++
	if rec.count >= r.k {
		r.young.Remove(elem)
		rec.inYoung = false
		e := r.mature.PushBack(rec)
		r.records[f] = e
	}
}

// SetEvictable flips f's evictable flag, adjusting currentSize by exactly
// one when the flag actually changes. A no-op for untracked frames.
func (r *LRUKReplacer) SetEvictable(f types.FrameID, evictable bool) {
	r.checkBounds(f)
	r.mu.Lock()
	defer r.mu.Unlock()

	elem, tracked := r.records[f]
	if !tracked {
		return
	}
	rec := elem.Value.(*record)
	if rec.evictable == evictable {
		return
	}
	rec.evictable = evictable
	if evictable {
		r.currentSize++
	} else {
		r.currentSize--
	}
}

// Evict selects and removes a victim frame: the head-to-tail first
// evictable entry of the young list, falling back to the head-to-tail
// first evictable entry of the mature list. Returns (0, false) if no
// evictable frame exists.
func (r *LRUKReplacer) Evict() (types.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentSize == 0 {
		return 0, false
	}

	for e := r.young.Front(); e != nil; e = e.Next() {
		rec := e.Value.(*record)
		if rec.evictable {
			r.young.Remove(e)
			delete(r.records, rec.frameID)
			r.currentSize--
			return rec.frameID, true
		}
	}
	for e := r.mature.Front(); e != nil; e = e.Next() {
		rec := e.Value.(*record)
		if rec.evictable {
			r.mature.Remove(e)
			delete(r.records, rec.frameID)
			r.currentSize--
			return rec.frameID, true
		}
	}
	return 0, false
}

// Remove deletes f's replacer record. Precondition: f is evictable; the
// call is a silent no-op both for untracked frames and for frames that are
// currently non-evictable (the caller must not call Remove on a pinned
// frame).
func (r *LRUKReplacer) Remove(f types.FrameID) {
	r.checkBounds(f)
	r.mu.Lock()
	defer r.mu.Unlock()

	elem, tracked := r.records[f]
	if !tracked {
		return
	}
	rec := elem.Value.(*record)
	if !rec.evictable {
		return
	}
	if rec.inYoung {
		r.young.Remove(elem)
	} else {
		r.mature.Remove(elem)
	}
	delete(r.records, f)
	r.currentSize--
}

// Size returns the number of tracked frames currently evictable.
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentSize
}
