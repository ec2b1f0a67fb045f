// Package cache provides a generic doubly-linked LRU ordering list.
//
// List[K] tracks recency order over a set of comparable keys without
// owning the keyed values themselves — callers pair it with their own
// map[K]V and stash the returned *Node[K] alongside each value for O(1)
// removal and move-to-front.
//
//	l := cache.NewList[string]()
//	n := l.PushFront("a")
//	l.MoveToFront(n)
//	oldest := l.Oldest()
//
// # Thread Safety
//
// List is not safe for concurrent use; callers synchronize externally.
// The glyph atlas cache that uses it is single-writer by design, so no
// internal locking is needed here.
package cache
