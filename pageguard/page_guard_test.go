package pageguard

import (
	"path/filepath"
	"testing"

	"pagecache/bufferpool"
	"pagecache/diskmanager"
	"pagecache/types"
)

func newTestPool(t *testing.T, poolSize, k int) *bufferpool.BufferPoolManager {
	dir := t.TempDir()
	disk, err := diskmanager.NewFileDiskManager(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewFileDiskManager: %v", err)
	}
	bp := bufferpool.New(poolSize, disk, k, nil)
	t.Cleanup(func() {
		bp.Close()
		disk.Close()
	})
	return bp
}

// TestWriteGuardDropMarksDirtyAndUnpins checks that dropping a write guard
// forces the page dirty and releases its pin in one step.
func TestWriteGuardDropMarksDirtyAndUnpins(t *testing.T) {
	bp := newTestPool(t, 2, 2)

	var p1 types.PageID
	bp.NewPage(&p1)
	bp.UnpinPage(p1, false)

	guard := FetchPageWrite(bp, p1)
	if !guard.Valid() {
		t.Fatal("expected a valid write guard")
	}
	guard.Drop()

	// UnpinPage returning false confirms pin count dropped to zero already
	// (a second unpin on an unpinned page must fail).
	if bp.UnpinPage(p1, false) {
		t.Fatal("expected the guard's Drop to have already unpinned the page")
	}

	frame := bp.FetchPage(p1)
	if !frame.Dirty {
		t.Fatal("expected the write guard to have forced the page dirty")
	}
	bp.UnpinPage(frame.PageID, false)
}

func TestBasicGuardDropIsIdempotent(t *testing.T) {
	bp := newTestPool(t, 2, 2)

	var p1 types.PageID
	bp.NewPage(&p1)
	guard := NewBasicPageGuard(bp, bp.FetchPage(p1))
	bp.UnpinPage(p1, false) // undo the extra pin FetchPage just took

	guard.Drop()
	guard.Drop() // must be a no-op, not a second UnpinPage call

	if guard.Valid() {
		t.Fatal("expected the guard to report invalid after Drop")
	}
}

func TestReadGuardReleasesLatchBeforeUnpin(t *testing.T) {
	bp := newTestPool(t, 2, 2)

	var p1 types.PageID
	bp.NewPage(&p1)
	bp.UnpinPage(p1, false)

	guard := FetchPageRead(bp, p1)
	data := guard.Data()
	if len(data) != types.PageSize {
		t.Fatalf("expected page-sized buffer, got %d", len(data))
	}
	guard.Drop()

	// Taking a write guard afterward proves the reader latch was released.
	wguard := FetchPageWrite(bp, p1)
	wguard.Drop()
}

func TestNewPageGuarded(t *testing.T) {
	bp := newTestPool(t, 2, 2)

	var p1 types.PageID
	guard := NewPageGuarded(bp, &p1)
	if !guard.Valid() {
		t.Fatal("expected a valid guard from NewPageGuarded")
	}
	if guard.PageID() != p1 {
		t.Fatalf("expected guard's page id to match allocated id, got %d want %d", guard.PageID(), p1)
	}
	guard.Drop()
}
