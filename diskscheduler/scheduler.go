// Package diskscheduler serializes page-level I/O on a single dedicated
// worker so foreground threads never call the disk directly. A goroutine
// and channels stand in for a background thread and a one-shot
// completion signal.
package diskscheduler

import (
	"sync"

	"pagecache/diskmanager"
	"pagecache/diskqueue"
	"pagecache/types"
)

// DiskRequest is a single scheduled I/O operation. Buffer is borrowed: the
// issuer guarantees it outlives the request, i.e. it does not mutate or
// free Buffer until it has received from Done.
type DiskRequest struct {
	IsWrite bool
	Buffer  []byte
	PageID  types.PageID
	Done    chan completion
}

type completion struct {
	ok  bool
	err error
}

// DiskScheduler owns a DiskManager and a single worker goroutine that
// drains its request queue strictly in enqueue order.
type DiskScheduler struct {
	disk  diskmanager.DiskManager
	queue *diskqueue.Queue[DiskRequest]
	wg    sync.WaitGroup
}

// New spawns the worker goroutine and returns a ready scheduler.
func New(disk diskmanager.DiskManager) *DiskScheduler {
	s := &DiskScheduler{
		disk:  disk,
		queue: diskqueue.New[DiskRequest](256),
	}
	s.wg.Add(1)
	go s.workerLoop()
	return s
}

// CreatePromise allocates a fresh one-shot completion channel for a
// request that is about to be scheduled.
func (s *DiskScheduler) CreatePromise() chan completion {
	return make(chan completion, 1)
}

// Schedule enqueues req for execution by the worker. req.Done must have
// been created by CreatePromise.
func (s *DiskScheduler) Schedule(req DiskRequest) {
	s.queue.Put(&req)
}

// Wait blocks until done resolves and reports whether the I/O succeeded.
func Wait(done chan completion) (bool, error) {
	c := <-done
	return c.ok, c.err
}

func (s *DiskScheduler) workerLoop() {
	defer s.wg.Done()
	for {
		req := s.queue.Get()
		if req == nil {
			return
		}
		var err error
		if req.IsWrite {
			err = s.disk.WritePage(req.PageID, req.Buffer)
		} else {
			err = s.disk.ReadPage(req.PageID, req.Buffer)
		}
		req.Done <- completion{ok: err == nil, err: err}
	}
}

// Close signals the worker to exit (by enqueuing the shutdown sentinel) and
// waits for it to drain and stop.
func (s *DiskScheduler) Close() {
	s.queue.Put(nil)
	s.wg.Wait()
}
