package fontraster

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestSourceAddFontAndRasterize(t *testing.T) {
	s := NewSource()
	if err := s.AddFont(1, goregular.TTF); err != nil {
		t.Fatalf("AddFont() error = %v", err)
	}

	const w, h = 24, 24
	out := make([]byte, w*h)
	// Glyph index 1 in most TTFs is reliably non-empty (often ".notdef"
	// or the first real glyph); we only need some non-trivial outline to
	// exercise the rasterizer path, not a specific character.
	if err := s.Rasterize(1, 1, 24, 24, 0, 0, w, h, out); err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}

	nonZero := 0
	for _, b := range out {
		if b != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Fatal("Rasterize() produced an all-zero coverage buffer for a non-empty glyph")
	}
}

func TestSourceRasterizeUnknownFont(t *testing.T) {
	s := NewSource()
	out := make([]byte, 4*4)
	if err := s.Rasterize(99, 1, 12, 12, 0, 0, 4, 4, out); err != ErrUnknownFont {
		t.Fatalf("Rasterize() with unregistered font error = %v, want ErrUnknownFont", err)
	}
}

func TestSourceRasterizeZeroSizeIsNoop(t *testing.T) {
	s := NewSource()
	if err := s.AddFont(1, goregular.TTF); err != nil {
		t.Fatalf("AddFont() error = %v", err)
	}
	if err := s.Rasterize(1, 1, 12, 12, 0, 0, 0, 0, nil); err != nil {
		t.Fatalf("Rasterize() with zero dimensions error = %v, want nil", err)
	}
}

func TestSourceAddFontRejectsGarbage(t *testing.T) {
	s := NewSource()
	if err := s.AddFont(1, []byte("not a font")); err == nil {
		t.Fatal("AddFont() with invalid data should return an error")
	}
}
