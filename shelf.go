package glyphatlas

// row is a horizontal strip of the atlas.
//
// slotHeight is the permanent vertical band reserved for this row at
// creation time and never changes. height is the row's active,
// fit-matching height; it may only be reassigned, downward or equal to
// slotHeight, while the row is empty (occupancy 0). freeWidth is only
// meaningful while occupancy > 0 — an empty row is treated as having
// the full atlas width free, regardless of freeWidth's stale value,
// since its height (and therefore its packing) is about to be
// re-chosen by the next allocation into it.
type row struct {
	y          int
	slotHeight int
	height     int
	freeWidth  int
	occupancy  int
}

func (r *row) empty() bool { return r.occupancy == 0 }

// shelfAllocator implements shelf packing: rows stacked top to bottom,
// each filled left to right, with the row chosen by bestFit.
type shelfAllocator struct {
	width, height int
	rows          []*row
	nextY         int
}

func newShelfAllocator(width, height int) *shelfAllocator {
	return &shelfAllocator{width: width, height: height}
}

// fits reports whether a w×h rectangle could ever be allocated in an
// otherwise-empty atlas of this allocator's dimensions.
func (a *shelfAllocator) fits(w, h int) bool {
	return w <= a.width && h <= a.height
}

// allocate reserves a w×h rectangle, returning the row it landed in and
// its top-left corner. ok is false if no existing or new row can hold
// it; the caller (commit engine) must evict and retry.
func (a *shelfAllocator) allocate(w, h int) (r *row, x, y int, ok bool) {
	if best, bestHeight, found := a.bestFit(w, h); found {
		if best.empty() {
			best.height = bestHeight
			best.freeWidth = a.width
		}
		x := a.width - best.freeWidth
		best.freeWidth -= w
		best.occupancy++
		return best, x, best.y, true
	}

	if a.height-a.nextY >= h {
		nr := &row{y: a.nextY, slotHeight: h, height: h, freeWidth: a.width - w, occupancy: 1}
		a.rows = append(a.rows, nr)
		a.nextY += h
		return nr, 0, nr.y, true
	}

	return nil, 0, 0, false
}

// bestFit implements the best-height-fit search: among
// rows that can accept w×h, prefer the smallest accepting height,
// ties going to the earliest-created row.
func (a *shelfAllocator) bestFit(w, h int) (best *row, bestHeight int, ok bool) {
	bestHeight = -1
	for _, r := range a.rows {
		var candidateHeight, freeW int
		if r.empty() {
			if h > r.slotHeight {
				continue
			}
			candidateHeight = h
			freeW = a.width
		} else {
			if r.height < h {
				continue
			}
			candidateHeight = r.height
			freeW = r.freeWidth
		}
		if freeW < w {
			continue
		}
		if best == nil || candidateHeight < bestHeight {
			best = r
			bestHeight = candidateHeight
		}
	}
	return best, bestHeight, best != nil
}

// free releases one occupant of r. When occupancy reaches zero the row
// becomes reusable for a new height on the next allocate call; its
// freeWidth is left stale until then since allocate ignores it for
// empty rows.
func (a *shelfAllocator) free(r *row) {
	r.occupancy--
}

// reset discards all rows, returning the allocator to its initial
// empty state.
func (a *shelfAllocator) reset() {
	a.rows = a.rows[:0]
	a.nextY = 0
}

// clone returns a deep copy of the allocator along with a mapping from
// its old row pointers to the new ones, so callers that hold *row
// references (the resident table) can rebuild consistent pointers into
// the clone. Used to simulate a commit's fit/evict pass against a
// throwaway copy so a failed commit never mutates live state.
func (a *shelfAllocator) clone() (*shelfAllocator, map[*row]*row) {
	na := &shelfAllocator{width: a.width, height: a.height, nextY: a.nextY}
	rowMap := make(map[*row]*row, len(a.rows))
	na.rows = make([]*row, len(a.rows))
	for i, r := range a.rows {
		nr := &row{y: r.y, slotHeight: r.slotHeight, height: r.height, freeWidth: r.freeWidth, occupancy: r.occupancy}
		na.rows[i] = nr
		rowMap[r] = nr
	}
	return na, rowMap
}

// paddingFor returns the margin applied on every side of a requested
// w×h box, and the padded dimensions the allocator should reserve.
//
// Padding is added to the requested box before rounding: margin is 4
// when align4x4 is set (superseding pad_glyphs), else 1 when pad_glyphs
// is set, else 0. The padded dimensions are then rounded up to the
// next multiple of 4 when align4x4 is set. The inner rectangle always
// sits at a fixed offset of margin from the padded rectangle's origin,
// regardless of any extra rounding slack, so the anti-bleed clearance
// is preserved.
func paddingFor(w, h int, padGlyphs, align4x4 bool) (paddedW, paddedH, margin int) {
	switch {
	case align4x4:
		margin = 4
	case padGlyphs:
		margin = 1
	default:
		margin = 0
	}
	paddedW = w + 2*margin
	paddedH = h + 2*margin
	if align4x4 {
		paddedW = roundUp4(paddedW)
		paddedH = roundUp4(paddedH)
	}
	return paddedW, paddedH, margin
}

func roundUp4(v int) int {
	return (v + 3) &^ 3
}
