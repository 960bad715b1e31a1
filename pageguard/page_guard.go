// Package pageguard implements the scoped page-guard family: wrappers
// that turn a pinned frame into a resource whose release happens
// automatically via Drop, so a missed UnpinPage call cannot leak a pinned
// frame.
//
// Go has neither move semantics nor destructors, so a guard here is a
// value type with an idempotent Drop method the caller invokes via defer;
// a dropped guard's pool pointer is nilled out, the Go analogue of nulling
// a moved-from source.
package pageguard

import (
	"pagecache/bufferpool"
	"pagecache/types"
)

// BasicPageGuard unpins its frame on Drop, passing the value of the most
// recent SetDirty call (false if never called) as UnpinPage's dirty flag.
type BasicPageGuard struct {
	bp    *bufferpool.BufferPoolManager
	frame *bufferpool.Frame
	dirty bool
}

// NewBasicPageGuard wraps an already-pinned frame. frame may be nil (a
// failed Fetch/New); Drop is then a no-op.
func NewBasicPageGuard(bp *bufferpool.BufferPoolManager, frame *bufferpool.Frame) BasicPageGuard {
	return BasicPageGuard{bp: bp, frame: frame}
}

// PageID returns the guarded frame's page id. Valid only while the guard
// holds a frame.
func (g *BasicPageGuard) PageID() types.PageID {
	return g.frame.PageID
}

// Data returns the guarded frame's buffer.
func (g *BasicPageGuard) Data() []byte {
	return g.frame.Data
}

// SetDirty marks the guarded page dirty for the eventual UnpinPage call.
func (g *BasicPageGuard) SetDirty(dirty bool) {
	g.dirty = dirty
}

// Valid reports whether the guard still holds a pinned frame.
func (g *BasicPageGuard) Valid() bool {
	return g.bp != nil && g.frame != nil
}

// Drop releases the pin, if any, via UnpinPage. Idempotent: a second Drop
// on an already-dropped guard is a no-op.
func (g *BasicPageGuard) Drop() {
	if g.bp != nil && g.frame != nil {
		g.bp.UnpinPage(g.frame.PageID, g.dirty)
	}
	g.bp = nil
	g.frame = nil
}

// ReadPageGuard additionally holds the frame's reader latch, released
// before the underlying unpin on Drop.
type ReadPageGuard struct {
	guard BasicPageGuard
}

// NewReadPageGuard acquires frame's reader latch (if frame is non-nil) and
// wraps it in a ReadPageGuard.
func NewReadPageGuard(bp *bufferpool.BufferPoolManager, frame *bufferpool.Frame) ReadPageGuard {
	if frame != nil {
		frame.RLock()
	}
	return ReadPageGuard{guard: NewBasicPageGuard(bp, frame)}
}

// PageID returns the guarded frame's page id.
func (g *ReadPageGuard) PageID() types.PageID {
	return g.guard.PageID()
}

// Data returns the guarded frame's buffer, safe to read under the
// reader latch this guard holds.
func (g *ReadPageGuard) Data() []byte {
	return g.guard.Data()
}

// Valid reports whether the guard still holds a pinned, latched frame.
func (g *ReadPageGuard) Valid() bool {
	return g.guard.Valid()
}

// Drop releases the reader latch, then unpins, in that order. Idempotent.
func (g *ReadPageGuard) Drop() {
	if g.guard.frame != nil {
		g.guard.frame.RUnlock()
	}
	g.guard.Drop()
}

// WritePageGuard additionally holds the frame's writer latch and forces
// the page dirty on Drop, since a writer is assumed to have modified it.
type WritePageGuard struct {
	guard BasicPageGuard
}

// NewWritePageGuard acquires frame's writer latch (if frame is non-nil)
// and wraps it in a WritePageGuard.
func NewWritePageGuard(bp *bufferpool.BufferPoolManager, frame *bufferpool.Frame) WritePageGuard {
	if frame != nil {
		frame.WLock()
	}
	return WritePageGuard{guard: NewBasicPageGuard(bp, frame)}
}

// PageID returns the guarded frame's page id.
func (g *WritePageGuard) PageID() types.PageID {
	return g.guard.PageID()
}

// Data returns the guarded frame's buffer, safe to read or write under the
// writer latch this guard holds.
func (g *WritePageGuard) Data() []byte {
	return g.guard.Data()
}

// Valid reports whether the guard still holds a pinned, latched frame.
func (g *WritePageGuard) Valid() bool {
	return g.guard.Valid()
}

// Drop releases the writer latch, then unpins with dirty forced true, in
// that order. Idempotent.
func (g *WritePageGuard) Drop() {
	if g.guard.frame != nil {
		g.guard.frame.WUnlock()
	}
	g.guard.dirty = true
	g.guard.Drop()
}

// FetchPageBasic fetches pageID and wraps it in a BasicPageGuard.
func FetchPageBasic(bp *bufferpool.BufferPoolManager, pageID types.PageID) BasicPageGuard {
	return NewBasicPageGuard(bp, bp.FetchPage(pageID))
}

// FetchPageRead fetches pageID and wraps it in a ReadPageGuard.
func FetchPageRead(bp *bufferpool.BufferPoolManager, pageID types.PageID) ReadPageGuard {
	return NewReadPageGuard(bp, bp.FetchPage(pageID))
}

// FetchPageWrite fetches pageID and wraps it in a WritePageGuard.
func FetchPageWrite(bp *bufferpool.BufferPoolManager, pageID types.PageID) WritePageGuard {
	return NewWritePageGuard(bp, bp.FetchPage(pageID))
}

// NewPageGuarded allocates a new page and wraps it in a BasicPageGuard.
func NewPageGuarded(bp *bufferpool.BufferPoolManager, outPageID *types.PageID) BasicPageGuard {
	return NewBasicPageGuard(bp, bp.NewPage(outPageID))
}
