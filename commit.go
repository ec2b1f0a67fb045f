package glyphatlas

import "sort"

// CommitResult reports how a successful Commit changed the cache.
type CommitResult int

const (
	// CommitUnchanged means every queued key was already resident; no
	// rasterization or upload occurred.
	CommitUnchanged CommitResult = iota
	// CommitReorganized means at least one glyph was rasterized and
	// uploaded, possibly after evicting other entries.
	CommitReorganized
)

func (r CommitResult) String() string {
	if r == CommitReorganized {
		return "reorganized"
	}
	return "unchanged"
}

// Stats accumulates lifetime counters useful for a renderer deciding
// whether to grow the atlas.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Uploads   uint64
	Commits   uint64
}

// Stats returns a snapshot of the cache's lifetime counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Utilization returns the fraction of the atlas area currently covered
// by resident (padded) rectangles, in [0,1].
func (c *Cache) Utilization() float64 {
	total := 0
	for _, r := range c.shelf.rows {
		total += r.occupancy
	}
	if total == 0 {
		return 0
	}
	used := 0
	for key := range c.resident.entries {
		e := c.resident.entries[key]
		paddedW, paddedH, _ := paddingFor(e.inner.W, e.inner.H, c.padGlyphs, c.align4x4)
		used += paddedW * paddedH
	}
	return float64(used) / float64(c.width*c.height)
}

// Commit reconciles the current queue with the atlas.
// It is a synchronous, all-or-nothing transaction: on failure the
// cache's resident set, LRU order, and shelf layout are left exactly
// as they were before Commit was called, and the queue is preserved
// for inspection — it is only cleared once a Commit succeeds (cleared
// again implicitly on the caller's next enqueue/commit cycle).
func (c *Cache) Commit() (CommitResult, error) {
	c.stats.Commits++

	attemptFrame := c.frame + 1

	shelfClone, rowMap := c.shelf.clone()
	residentClone := c.resident.clone(rowMap)

	var missing []missingWork
	hits := uint64(0)
	for i, key := range c.queue.keys() {
		if e, ok := residentClone.get(key); ok {
			residentClone.touch(e, attemptFrame)
			hits++
			continue
		}
		req := c.queue.request(key)
		missing = append(missing, missingWork{key: key, req: req, queueOrder: i})
	}

	// Fit pass order: inner height descending, ties by width descending
	// during the fit pass, to improve packing quality.
	sort.SliceStable(missing, func(i, j int) bool {
		hi, hj := missing[i].req.Bounds.H, missing[j].req.Bounds.H
		if hi != hj {
			return hi > hj
		}
		return missing[i].req.Bounds.W > missing[j].req.Bounds.W
	})

	evicted := uint64(0)
	reorganized := len(missing) > 0

	for i := range missing {
		w := &missing[i]
		paddedW, paddedH, margin := paddingFor(w.req.Bounds.W, w.req.Bounds.H, c.padGlyphs, c.align4x4)

		if !shelfClone.fits(paddedW, paddedH) {
			return CommitUnchanged, ErrGlyphTooLarge
		}

		r, x, y, ok := shelfClone.allocate(paddedW, paddedH)
		for !ok {
			victim, err := residentClone.evictOldest(attemptFrame)
			if err != nil {
				return CommitUnchanged, ErrNoRoomForWholeQueue
			}
			shelfClone.free(victim.row)
			evicted++
			slogger().Debug("glyphatlas: evicted entry to make room", "key", victim.key.String(), "for", w.key.String())
			r, x, y, ok = shelfClone.allocate(paddedW, paddedH)
		}

		w.inner = Rect{X: x + margin, Y: y + margin, W: w.req.Bounds.W, H: w.req.Bounds.H}
		residentClone.insert(w.key, r, w.inner, attemptFrame)
		slogger().Debug("glyphatlas: fit new entry", "key", w.key.String(), "rect", w.inner)
	}

	if resultingSize := len(residentClone.entries); evicted > 0 && evicted*2 > uint64(resultingSize)+evicted {
		slogger().Warn("glyphatlas: eviction thrashing", "evicted", evicted, "resident_after_commit", resultingSize)
	}

	// The fit pass above needed height-descending order for packing
	// quality; rasterization and upload order revert to queue order in
	// single-threaded mode, where callers can rely on a deterministic
	// sequence. Parallel mode leaves the order unspecified.
	if c.driver.pool == nil {
		sort.SliceStable(missing, func(i, j int) bool {
			return missing[i].queueOrder < missing[j].queueOrder
		})
	}

	var results []rasterResult
	if len(missing) > 0 {
		results = c.driver.run(missing)
		for _, res := range results {
			if res.err != nil {
				return CommitUnchanged, res.err
			}
		}
	}

	// Everything fit: commit the simulated state and perform uploads.
	c.shelf = shelfClone
	c.resident = residentClone
	c.frame = attemptFrame
	c.hasCommit = true

	c.stats.Hits += hits
	c.stats.Misses += uint64(len(missing))
	c.stats.Evictions += evicted

	for i, res := range results {
		c.uploader.Upload(missing[i].inner, res.pixels)
		c.stats.Uploads++
	}

	if evicted > 0 {
		reorganized = true
	}
	c.queue.reset()
	if reorganized {
		return CommitReorganized, nil
	}
	return CommitUnchanged, nil
}
