// Package fontraster provides a reference glyphatlas.Rasterizer backed
// by real font outlines. It extracts glyph outlines with
// golang.org/x/image/font/sfnt and scan-converts them to 8-bit coverage
// with golang.org/x/image/vector, the same rasterizer
// golang.org/x/image/font itself builds on. It exists so a glyphatlas
// Cache can be exercised end-to-end without a GPU device or a real
// text-shaping pipeline, both of which are out of the cache's scope.
package fontraster

import (
	"errors"
	"image"
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ErrUnknownFont is returned by Rasterize when fontID has not been
// registered with AddFont.
var ErrUnknownFont = errors.New("fontraster: unknown font id")

// Source rasterizes glyphs from a set of registered fonts, keyed by
// the same opaque FontID a glyphatlas.Request carries.
type Source struct {
	mu    sync.RWMutex
	fonts map[uint64]*sfnt.Font

	// bufPool holds sfnt.Buffer scratch space: LoadGlyph is not safe to
	// call concurrently on the same buffer, and Rasterize is called
	// from worker goroutines in the cache's parallel commit mode.
	bufPool sync.Pool
}

// NewSource creates an empty font source.
func NewSource() *Source {
	s := &Source{fonts: make(map[uint64]*sfnt.Font)}
	s.bufPool.New = func() any { return new(sfnt.Buffer) }
	return s
}

// AddFont parses data as an SFNT (TrueType or OpenType) font and
// registers it under id.
func (s *Source) AddFont(id uint64, data []byte) error {
	f, err := sfnt.Parse(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.fonts[id] = f
	s.mu.Unlock()
	return nil
}

// Rasterize implements glyphatlas.Rasterizer.
func (s *Source) Rasterize(fontID uint64, glyphID uint32, scaleX, scaleY, offsetX, offsetY float64, width, height int, out []byte) error {
	if width <= 0 || height <= 0 {
		return nil
	}

	s.mu.RLock()
	f := s.fonts[fontID]
	s.mu.RUnlock()
	if f == nil {
		return ErrUnknownFont
	}

	buf := s.bufPool.Get().(*sfnt.Buffer)
	defer s.bufPool.Put(buf)

	ppem := fixed.Int26_6(scaleY * 64)
	segs, err := f.LoadGlyph(buf, sfnt.GlyphIndex(glyphID), ppem, nil)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return nil
	}

	xScale := float32(1)
	if scaleY != 0 {
		xScale = float32(scaleX / scaleY)
	}

	minX, minY := float32(1<<20), float32(1<<20)
	for _, seg := range segs {
		for _, p := range seg.Args[:argCount(seg.Op)] {
			x := float32(p.X) / 64 * xScale
			y := float32(p.Y) / 64
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
		}
	}
	dx := -minX + float32(offsetX)
	dy := -minY + float32(offsetY)

	rast := vector.NewRasterizer(width, height)
	for _, seg := range segs {
		a := seg.Args
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			rast.MoveTo(coord(a[0], xScale, dx, dy))
		case sfnt.SegmentOpLineTo:
			rast.LineTo(coord(a[0], xScale, dx, dy))
		case sfnt.SegmentOpQuadTo:
			bx, by := coord(a[0], xScale, dx, dy)
			ax, ay := coord(a[1], xScale, dx, dy)
			rast.QuadTo(bx, by, ax, ay)
		case sfnt.SegmentOpCubeTo:
			bx, by := coord(a[0], xScale, dx, dy)
			cx, cy := coord(a[1], xScale, dx, dy)
			ax, ay := coord(a[2], xScale, dx, dy)
			rast.CubeTo(bx, by, cx, cy, ax, ay)
		}
	}

	dst := &image.Alpha{Pix: out, Stride: width, Rect: image.Rect(0, 0, width, height)}
	rast.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return nil
}

func argCount(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpMoveTo, sfnt.SegmentOpLineTo:
		return 1
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 0
	}
}

func coord(p fixed.Point26_6, xScale, dx, dy float32) (float32, float32) {
	return float32(p.X)/64*xScale + dx, float32(p.Y)/64 + dy
}
