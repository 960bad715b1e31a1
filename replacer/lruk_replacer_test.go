package replacer

import (
	"testing"

	"pagecache/types"
)

func TestEvictEmptyReplacerReturnsFalse(t *testing.T) {
	r := New(3, 2)
	if _, ok := r.Evict(); ok {
		t.Fatal("expected no victim from an empty replacer")
	}
}

func TestRecordAccessDefaultsToEvictable(t *testing.T) {
	r := New(3, 2)
	r.RecordAccess(0)
	if r.Size() != 1 {
		t.Fatalf("expected size 1, got %d", r.Size())
	}
	victim, ok := r.Evict()
	if !ok || victim != 0 {
		t.Fatalf("expected frame 0 to be evictable by default, got %v ok=%v", victim, ok)
	}
}

func TestSetEvictableIsNoOpForUntrackedFrame(t *testing.T) {
	r := New(3, 2)
	r.SetEvictable(0, false) // untracked: must not panic or change size
	if r.Size() != 0 {
		t.Fatalf("expected size 0, got %d", r.Size())
	}
}

func TestSetEvictableOnlyAdjustsSizeOnChange(t *testing.T) {
	r := New(3, 2)
	r.RecordAccess(0)
	r.SetEvictable(0, true) // already evictable: no change
	if r.Size() != 1 {
		t.Fatalf("expected size to stay 1, got %d", r.Size())
	}
	r.SetEvictable(0, false)
	if r.Size() != 0 {
		t.Fatalf("expected size 0 after marking non-evictable, got %d", r.Size())
	}
	r.SetEvictable(0, false) // already non-evictable: no change
	if r.Size() != 0 {
		t.Fatalf("expected size to stay 0, got %d", r.Size())
	}
}

// TestYoungListFIFOOrderWithPromotion checks that, after one access each
// to frames 0, 1, 2 and a second access to frame 0, eviction order is
// 1, 2, 0: frame 0 is promoted to mature and evicted last.
func TestYoungListFIFOOrderWithPromotion(t *testing.T) {
	r := New(3, 2)
	r.RecordAccess(0)
	r.RecordAccess(1)
	r.RecordAccess(2)
	r.RecordAccess(0) // promotes frame 0 to mature

	r.SetEvictable(0, true)
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	wantOrder := []types.FrameID{1, 2, 0}
	for _, want := range wantOrder {
		got, ok := r.Evict()
		if !ok {
			t.Fatalf("expected a victim, got none")
		}
		if got != want {
			t.Fatalf("expected victim %d, got %d", want, got)
		}
	}
	if _, ok := r.Evict(); ok {
		t.Fatal("expected no victims left")
	}
}

// TestYoungToMaturePromotion checks that, with K=2, accesses to frames
// 0, 1, 2, 0 leave frame 0 mature (promoted on its second access) and
// frames 1, 2 on the young list in that order; eviction order is 1, 2, 0.
func TestYoungToMaturePromotion(t *testing.T) {
	r := New(3, 2)
	r.RecordAccess(0) // p1
	r.RecordAccess(1) // p2
	r.RecordAccess(2) // p3
	r.RecordAccess(0) // p1 again -> promoted to mature

	r.SetEvictable(0, true)
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	for _, want := range []types.FrameID{1, 2, 0} {
		got, ok := r.Evict()
		if !ok || got != want {
			t.Fatalf("expected victim %d, got %d (ok=%v)", want, got, ok)
		}
	}
}

func TestEvictSkipsNonEvictableFrames(t *testing.T) {
	r := New(3, 2)
	r.RecordAccess(0)
	r.RecordAccess(1)
	r.SetEvictable(0, false) // pinned
	r.SetEvictable(1, true)

	victim, ok := r.Evict()
	if !ok || victim != 1 {
		t.Fatalf("expected frame 1 (the only evictable one), got %v ok=%v", victim, ok)
	}
}

func TestRemoveRequiresEvictable(t *testing.T) {
	r := New(3, 2)
	r.RecordAccess(0)
	r.SetEvictable(0, false)
	r.Remove(0) // must be a no-op: frame is non-evictable
	if r.Size() != 0 {
		t.Fatalf("expected size 0 (frame is non-evictable), got %d", r.Size())
	}

	// the record must still exist: re-marking evictable should restore it
	r.SetEvictable(0, true)
	if r.Size() != 1 {
		t.Fatalf("expected the untouched record to still be trackable, size=%d", r.Size())
	}
}

func TestRemoveUntrackedFrameIsNoOp(t *testing.T) {
	r := New(3, 2)
	r.Remove(0) // must not panic
}

func TestRecordAccessOutOfBoundsPanics(t *testing.T) {
	r := New(3, 2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an out-of-bounds frame id")
		}
	}()
	r.RecordAccess(3)
}

func TestMatureListMovesToBackOnAccess(t *testing.T) {
	r := New(4, 1) // k=1: every access immediately goes to the mature list
	r.RecordAccess(0)
	r.RecordAccess(1)
	r.RecordAccess(2)
	r.RecordAccess(0) // touch frame 0 again, moving it to the back (MRU)

	r.SetEvictable(0, true)
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	for _, want := range []types.FrameID{1, 2, 0} {
		got, ok := r.Evict()
		if !ok || got != want {
			t.Fatalf("expected victim %d, got %d (ok=%v)", want, got, ok)
		}
	}
}
