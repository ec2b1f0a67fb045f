package glyphatlas

import "testing"

func TestShelfAllocateNewRow(t *testing.T) {
	a := newShelfAllocator(64, 64)
	r, x, y, ok := a.allocate(12, 14)
	if !ok {
		t.Fatal("allocate() failed on empty atlas")
	}
	if x != 0 || y != 0 {
		t.Fatalf("first allocation at (%d,%d), want (0,0)", x, y)
	}
	if r.slotHeight != 14 || r.height != 14 {
		t.Fatalf("new row height = %d/%d, want 14/14", r.slotHeight, r.height)
	}
}

func TestShelfBestHeightFit(t *testing.T) {
	a := newShelfAllocator(64, 64)
	// Row 0: height 20 with 9px of width left. Row 1: height 10, created
	// because the 10px-wide box no longer fits beside row 0's occupant.
	a.allocate(55, 20)
	a.allocate(10, 10)

	// A 9x9 box should prefer the height-10 row over the height-20 row.
	r, _, y, ok := a.allocate(9, 9)
	if !ok {
		t.Fatal("allocate() failed")
	}
	if r.slotHeight != 10 || y != 20 {
		t.Fatalf("best-height-fit picked row with slotHeight=%d at y=%d, want slotHeight=10 at y=20", r.slotHeight, y)
	}
}

func TestShelfRowReuseRequiresFullEviction(t *testing.T) {
	a := newShelfAllocator(16, 16)
	r1, _, _, ok := a.allocate(16, 8)
	if !ok {
		t.Fatal("first allocate failed")
	}
	r2, _, _, ok := a.allocate(16, 8)
	if !ok {
		t.Fatal("second allocate failed")
	}
	if r1 == r2 {
		t.Fatal("two full-width rows should not share a row")
	}

	// Atlas is now full; a third allocation must fail until something
	// is freed.
	if _, _, _, ok := a.allocate(16, 8); ok {
		t.Fatal("allocate() succeeded in a full atlas")
	}

	a.free(r1)
	if !r1.empty() {
		t.Fatal("row should be empty after its only occupant is freed")
	}

	r3, _, y, ok := a.allocate(16, 4)
	if !ok {
		t.Fatal("allocate() into freed row failed")
	}
	if r3 != r1 {
		t.Fatal("allocate() should have repurposed the freed row")
	}
	if r3.height != 4 {
		t.Fatalf("repurposed row height = %d, want 4", r3.height)
	}
	if y != r1.y {
		t.Fatalf("repurposed row y = %d, want %d (slotHeight never moves)", y, r1.y)
	}
}

func TestShelfDoesNotFitNewRow(t *testing.T) {
	a := newShelfAllocator(16, 16)
	a.allocate(16, 16)
	if _, _, _, ok := a.allocate(1, 1); ok {
		t.Fatal("allocate() should fail: no existing row fits and no vertical space remains")
	}
}

func TestShelfFits(t *testing.T) {
	a := newShelfAllocator(32, 32)
	if !a.fits(32, 32) {
		t.Fatal("fits() should be true for exactly the atlas size")
	}
	if a.fits(33, 10) {
		t.Fatal("fits() should be false when width exceeds the atlas")
	}
	if a.fits(10, 33) {
		t.Fatal("fits() should be false when height exceeds the atlas")
	}
}

func TestPaddingForPadGlyphs(t *testing.T) {
	w, h, margin := paddingFor(10, 12, true, false)
	if margin != 1 || w != 12 || h != 14 {
		t.Fatalf("paddingFor(pad_glyphs) = (%d,%d,%d), want (12,14,1)", w, h, margin)
	}
}

func TestPaddingForNone(t *testing.T) {
	w, h, margin := paddingFor(10, 12, false, false)
	if margin != 0 || w != 10 || h != 12 {
		t.Fatalf("paddingFor(none) = (%d,%d,%d), want (10,12,0)", w, h, margin)
	}
}

func TestPaddingForAlign4x4(t *testing.T) {
	// margin 4 on each side first: 10+8=18, 12+8=20; then round up to
	// multiple of 4: 18->20, 20 stays 20.
	w, h, margin := paddingFor(10, 12, true, true)
	if margin != 4 {
		t.Fatalf("margin = %d, want 4", margin)
	}
	if w != 20 || h != 20 {
		t.Fatalf("paddingFor(align_4x4) = (%d,%d), want (20,20)", w, h)
	}
	if w%4 != 0 || h%4 != 0 {
		t.Fatalf("padded dimensions (%d,%d) not 4-aligned", w, h)
	}
}

func TestShelfAllocatorClonePreservesState(t *testing.T) {
	a := newShelfAllocator(32, 32)
	r, _, _, _ := a.allocate(10, 10)
	r.occupancy = 3

	clone, rowMap := a.clone()
	cr := rowMap[r]
	if cr == r {
		t.Fatal("clone() returned the same row pointer, want a distinct copy")
	}
	if cr.occupancy != 3 || cr.slotHeight != r.slotHeight {
		t.Fatalf("cloned row = %+v, want occupancy=3 slotHeight=%d", cr, r.slotHeight)
	}

	// Mutating the clone must not affect the original.
	clone.rows[0].occupancy = 99
	if r.occupancy != 3 {
		t.Fatal("mutating clone leaked into original allocator")
	}
}
