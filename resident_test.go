package glyphatlas

import "testing"

func TestResidentTableInsertAndGet(t *testing.T) {
	rt := newResidentTable()
	r := &row{y: 0, slotHeight: 10, height: 10, freeWidth: 20}
	key := Key{FontID: 1, GlyphID: 1}

	e := rt.insert(key, r, Rect{X: 1, Y: 1, W: 8, H: 8}, 1)
	if e.lastUsedFrame != 1 {
		t.Fatalf("lastUsedFrame = %d, want 1", e.lastUsedFrame)
	}
	got, ok := rt.get(key)
	if !ok || got != e {
		t.Fatal("get() did not return the inserted entry")
	}
	if rt.len() != 1 || rt.lru.Len() != 1 {
		t.Fatalf("table len = %d, lru len = %d, want 1/1", rt.len(), rt.lru.Len())
	}
}

func TestResidentTableTouchMovesToFront(t *testing.T) {
	rt := newResidentTable()
	r := &row{slotHeight: 10, height: 10}
	ka := Key{GlyphID: 1}
	kb := Key{GlyphID: 2}
	ea := rt.insert(ka, r, Rect{}, 1)
	rt.insert(kb, r, Rect{}, 1)

	// ka is currently the oldest. Touching it should move it to the
	// front, making kb the new oldest.
	rt.touch(ea, 2)
	if ea.lastUsedFrame != 2 {
		t.Fatalf("lastUsedFrame after touch = %d, want 2", ea.lastUsedFrame)
	}

	victim, err := rt.evictOldest(99)
	if err != nil {
		t.Fatalf("evictOldest() unexpected error: %v", err)
	}
	if victim.key != kb {
		t.Fatalf("evicted key = %+v, want kb (ka was touched and should no longer be oldest)", victim.key)
	}
}

func TestResidentTableEvictOldestSkipsLocked(t *testing.T) {
	rt := newResidentTable()
	r := &row{slotHeight: 10, height: 10}
	ka := Key{GlyphID: 1}
	rt.insert(ka, r, Rect{}, 5)

	// Oldest entry is locked for the current frame: eviction must fail,
	// not silently skip to a nonexistent next entry.
	if _, err := rt.evictOldest(5); err != errOldestLocked {
		t.Fatalf("evictOldest() error = %v, want errOldestLocked", err)
	}
}

func TestResidentTableEvictOldestEmpty(t *testing.T) {
	rt := newResidentTable()
	if _, err := rt.evictOldest(1); err != errNoEvictableEntries {
		t.Fatalf("evictOldest() on empty table error = %v, want errNoEvictableEntries", err)
	}
}

func TestResidentTableEvictOldestRemovesEntry(t *testing.T) {
	rt := newResidentTable()
	r := &row{slotHeight: 10, height: 10}
	ka := Key{GlyphID: 1}
	rt.insert(ka, r, Rect{}, 1)

	victim, err := rt.evictOldest(2)
	if err != nil {
		t.Fatalf("evictOldest() error: %v", err)
	}
	if victim.key != ka {
		t.Fatalf("evicted key = %+v, want %+v", victim.key, ka)
	}
	if rt.len() != 0 || rt.lru.Len() != 0 {
		t.Fatalf("table len = %d, lru len = %d, want 0/0 after eviction", rt.len(), rt.lru.Len())
	}
}

func TestResidentTableClonePreservesOrderAndRemapsRows(t *testing.T) {
	rt := newResidentTable()
	shelf := newShelfAllocator(64, 64)
	r1, _, _, _ := shelf.allocate(10, 10)
	r2, _, _, _ := shelf.allocate(10, 10)

	ka, kb := Key{GlyphID: 1}, Key{GlyphID: 2}
	rt.insert(ka, r1, Rect{}, 1)
	rt.insert(kb, r2, Rect{}, 2)

	shelfClone, rowMap := shelf.clone()
	_ = shelfClone
	rtClone := rt.clone(rowMap)

	if rtClone.lru.Len() != 2 {
		t.Fatalf("clone lru len = %d, want 2", rtClone.lru.Len())
	}
	eb, ok := rtClone.get(kb)
	if !ok {
		t.Fatal("clone missing key kb")
	}
	if eb.row == r2 {
		t.Fatal("clone's row pointer should be remapped to the cloned row, not the original")
	}
	if eb.row != rowMap[r2] {
		t.Fatal("clone's row pointer does not match rowMap")
	}

	// Order preserved: kb (inserted last) should be most-recently-used.
	if got, want := rtClone.lru.Keys(), []Key{kb, ka}; got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("clone Keys() = %v, want %v", got, want)
	}
}
