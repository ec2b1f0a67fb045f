package glyphatlas

// UVRect is a texture-coordinate rectangle with components in [0,1],
// inclusive of the inner (sampled) rectangle and exclusive of padding.
type UVRect struct {
	U0, V0, U1, V1 float64
}

// Query looks up the atlas placement for req, re-fingerprinting it with
// the cache's current tolerances. req need not be
// quantized; the cache derives its own Key from it.
//
// Returns ErrUncommittedQueue if no Commit has ever succeeded yet.
// Returns ErrNotCached if the glyph is not currently resident — either
// it was never queued, or it has been evicted since the last commit
// (this also covers the case of querying a glyph that is merely
// pending in the uncommitted queue, one of two equally valid behaviors
// for that case).
func (c *Cache) Query(req Request) (UVRect, Rect, error) {
	if err := req.valid(); err != nil {
		return UVRect{}, Rect{}, err
	}
	if !c.hasCommit {
		return UVRect{}, Rect{}, ErrUncommittedQueue
	}

	key := fingerprint(req, c.scaleTolerance, c.positionTolerance)
	e, ok := c.resident.get(key)
	if !ok {
		return UVRect{}, Rect{}, ErrNotCached
	}

	uv := UVRect{
		U0: float64(e.inner.X) / float64(c.width),
		V0: float64(e.inner.Y) / float64(c.height),
		U1: float64(e.inner.X+e.inner.W) / float64(c.width),
		V1: float64(e.inner.Y+e.inner.H) / float64(c.height),
	}
	return uv, req.Bounds, nil
}
