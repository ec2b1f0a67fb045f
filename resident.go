package glyphatlas

import (
	"errors"

	"github.com/gogpu/glyphatlas/internal/cache"
)

// residentEntry is one fingerprint currently backed by a rectangle in
// the atlas.
type residentEntry struct {
	key           Key
	row           *row
	inner         Rect
	lastUsedFrame uint64
	node          *cache.Node[Key]
}

// locked reports whether e is immune to eviction for the frame
// currently being committed.
func (e *residentEntry) locked(currentFrame uint64) bool {
	return e.lastUsedFrame == currentFrame
}

var errNoEvictableEntries = errors.New("glyphatlas: no resident entries to evict")
var errOldestLocked = errors.New("glyphatlas: oldest resident entry is locked")

// residentTable pairs a key-addressable map with the LRU list of
// the map gives O(1) lookup, the list gives O(1)
// touch/evict ordering. The two are kept in lockstep so their sizes
// always agree.
type residentTable struct {
	entries map[Key]*residentEntry
	lru     *cache.List[Key]
}

func newResidentTable() *residentTable {
	return &residentTable{
		entries: make(map[Key]*residentEntry),
		lru:     cache.NewList[Key](),
	}
}

func (t *residentTable) len() int {
	return len(t.entries)
}

func (t *residentTable) get(key Key) (*residentEntry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// insert creates a new resident entry, locked at frame (its
// last-used-frame is set to the commit's current frame, so it starts
// out at the most-recently-used end).
func (t *residentTable) insert(key Key, r *row, inner Rect, frame uint64) *residentEntry {
	node := t.lru.PushFront(key)
	e := &residentEntry{key: key, row: r, inner: inner, lastUsedFrame: frame, node: node}
	t.entries[key] = e
	return e
}

// touch marks e as used in frame and moves it to the most-recently-used
// end of the LRU order.
func (t *residentTable) touch(e *residentEntry, frame uint64) {
	e.lastUsedFrame = frame
	t.lru.MoveToFront(e.node)
}

// evictOldest pops the least-recently-used entry and removes it from
// the table. It fails with errOldestLocked if that entry's last-used
// frame equals currentFrame — locked entries form a
// prefix of the recency order, so a locked oldest entry means every
// remaining entry is locked too.
func (t *residentTable) evictOldest(currentFrame uint64) (*residentEntry, error) {
	node := t.lru.Oldest()
	if node == nil {
		return nil, errNoEvictableEntries
	}
	e := t.entries[node.Key]
	if e.locked(currentFrame) {
		return nil, errOldestLocked
	}
	t.lru.Remove(node)
	delete(t.entries, node.Key)
	return e, nil
}

// clone returns a deep copy of the table, remapping each entry's row
// pointer through rowMap (see shelfAllocator.clone) and preserving LRU
// order exactly.
func (t *residentTable) clone(rowMap map[*row]*row) *residentTable {
	nt := newResidentTable()
	keys := t.lru.Keys() // most-recently-used first
	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		old := t.entries[key]
		node := nt.lru.PushFront(key)
		nt.entries[key] = &residentEntry{
			key:           key,
			row:           rowMap[old.row],
			inner:         old.inner,
			lastUsedFrame: old.lastUsedFrame,
			node:          node,
		}
	}
	return nt
}

// reset discards every resident entry.
func (t *residentTable) reset() {
	t.entries = make(map[Key]*residentEntry)
	t.lru.Clear()
}
