package glyphatlas

import "errors"

// Sentinel errors returned by Cache operations. Callers should compare
// with errors.Is.
var (
	// ErrGlyphTooLarge is returned when a requested glyph box (after
	// padding) cannot fit in the atlas even when it is completely empty.
	ErrGlyphTooLarge = errors.New("glyphatlas: glyph does not fit in an empty atlas")

	// ErrNoRoomForWholeQueue is returned by Commit when the pending
	// queue cannot be packed into the atlas even after evicting every
	// evictable resident entry.
	ErrNoRoomForWholeQueue = errors.New("glyphatlas: queue does not fit after evicting all evictable entries")

	// ErrNotCached is returned by Query when the given key has no
	// resident entry: it was never queued, was evicted, or is still
	// pending in an uncommitted queue.
	ErrNotCached = errors.New("glyphatlas: key not resident")

	// ErrUncommittedQueue is returned when an operation that requires a
	// clean queue (such as Rebuild) is attempted while requests are
	// still pending commit. Query also returns it when no Commit has
	// succeeded yet.
	ErrUncommittedQueue = errors.New("glyphatlas: queue has pending requests; call Commit first")
)

// ConfigError reports an invalid construction option, or a malformed
// Request passed to Enqueue or Query.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "glyphatlas: invalid " + e.Field + ": " + e.Reason
}

// RasterizeError wraps a failure returned by a Rasterizer collaborator,
// attributing it to the glyph that triggered it.
type RasterizeError struct {
	Key Key
	Err error
}

func (e *RasterizeError) Error() string {
	return "glyphatlas: rasterize failed for " + e.Key.String() + ": " + e.Err.Error()
}

func (e *RasterizeError) Unwrap() error {
	return e.Err
}
