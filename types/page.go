// Package types holds the small value types shared across the page-cache
// core: page/frame identifiers, the fixed page size, and the access-type
// hint passed through Fetch/Unpin.
package types

// PageSize is the fixed size, in bytes, of every page and frame buffer.
const PageSize = 4096

// PageID is an opaque, monotonically increasing page identifier issued by
// the buffer pool's allocator.
type PageID int64

// InvalidPageID is the sentinel meaning "no page".
const InvalidPageID PageID = -1

// FrameID is a dense index into the buffer pool's frame array, in
// [0, pool_size).
type FrameID int

// AccessType is an optional hint describing why a page is being accessed.
// Neither the buffer pool nor the replacer branches on it; it exists so callers
// have a place to pass access-pattern information without changing the
// public Fetch/Unpin signatures.
type AccessType int

const (
	AccessUnknown AccessType = iota
	AccessLookup
	AccessScan
	AccessIndex
)
