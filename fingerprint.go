package glyphatlas

import (
	"hash/fnv"
	"math"
	"strconv"
)

// Key is the quantized cache identity derived from a Request: two
// requests that fingerprint to the same Key are treated as visually
// interchangeable within the cache's configured tolerances. Key is a small comparable struct, so it is used directly as a
// map key; Hash is provided only for callers that want to shard
// telemetry or sample logs externally.
type Key struct {
	FontID    uint64
	GlyphID   uint32
	ScaleXBkt int32
	ScaleYBkt int32
	OffXBkt   int32
	OffYBkt   int32
}

// String renders a compact, stable representation for error messages
// and logs.
func (k Key) String() string {
	return "font" + strconv.FormatUint(k.FontID, 10) +
		"/glyph" + strconv.FormatUint(uint64(k.GlyphID), 10) +
		"@" + strconv.FormatInt(int64(k.ScaleXBkt), 10) + "," + strconv.FormatInt(int64(k.ScaleYBkt), 10) +
		"+" + strconv.FormatInt(int64(k.OffXBkt), 10) + "," + strconv.FormatInt(int64(k.OffYBkt), 10)
}

// Hash returns an FNV-1a hash of Key's fields, for callers that want an
// external hash table or sharded telemetry keyed off the fingerprint.
// The cache itself never needs this: Key is comparable and used
// directly as a Go map key.
func (k Key) Hash() uint64 {
	h := fnv.New64a()
	var buf [28]byte
	putUint64(buf[0:8], k.FontID)
	putUint32(buf[8:12], k.GlyphID)
	putUint32(buf[12:16], uint32(k.ScaleXBkt))
	putUint32(buf[16:20], uint32(k.ScaleYBkt))
	putUint32(buf[20:24], uint32(k.OffXBkt))
	putUint32(buf[24:28], uint32(k.OffYBkt))
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func putUint32(b []byte, v uint32) {
	for i := 0; i < 4; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// fingerprint derives req's cache Key under the given tolerances.
//
// Scale is bucketed logarithmically so the maximum relative scale
// difference within one bucket is bounded by scaleTolerance: the bucket
// boundaries are powers of (1 + scaleTolerance), so two scales in the
// same bucket differ by at most that ratio. Sub-pixel offset is
// bucketed on a uniform grid of step positionTolerance after reducing
// each coordinate modulo 1.0.
func fingerprint(req Request, scaleTolerance, positionTolerance float64) Key {
	return Key{
		FontID:    req.FontID,
		GlyphID:   req.GlyphID,
		ScaleXBkt: scaleBucket(req.ScaleX, scaleTolerance),
		ScaleYBkt: scaleBucket(req.ScaleY, scaleTolerance),
		OffXBkt:   offsetBucket(req.OffsetX, positionTolerance),
		OffYBkt:   offsetBucket(req.OffsetY, positionTolerance),
	}
}

func scaleBucket(scale, tolerance float64) int32 {
	// log_{1+tol}(scale) = ln(scale) / ln(1+tol)
	return int32(math.Floor(math.Log(scale) / math.Log(1+tolerance)))
}

func offsetBucket(offset, tolerance float64) int32 {
	frac := offset - math.Floor(offset)
	return int32(math.Floor(frac / tolerance))
}
