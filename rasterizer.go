package glyphatlas

import "github.com/gogpu/glyphatlas/internal/parallel"

// Rasterizer turns a glyph identity into 8-bit row-major coverage. It
// must be pure with respect to its inputs and safe to call from
// multiple goroutines concurrently when the cache runs in parallel
// mode.
//
// out is sized width*height (the inner rectangle's dimensions) and
// must be fully written in row-major order.
type Rasterizer interface {
	Rasterize(fontID uint64, glyphID uint32, scaleX, scaleY, offsetX, offsetY float64, width, height int, out []byte) error
}

// RasterizeFunc adapts a plain function to a Rasterizer.
type RasterizeFunc func(fontID uint64, glyphID uint32, scaleX, scaleY, offsetX, offsetY float64, width, height int, out []byte) error

func (f RasterizeFunc) Rasterize(fontID uint64, glyphID uint32, scaleX, scaleY, offsetX, offsetY float64, width, height int, out []byte) error {
	return f(fontID, glyphID, scaleX, scaleY, offsetX, offsetY, width, height, out)
}

// Uploader is invoked once per newly resident entry during Commit,
// with the entry's inner rectangle and its freshly rasterized pixels
// It runs on the caller's thread
// even in parallel mode and must not fail in-band; if an upload fails,
// the implementation must signal that out-of-band (e.g. by logging and
// marking the underlying device lost), since Commit has already
// committed the cache's own bookkeeping for that entry by the time
// Upload is called.
type Uploader interface {
	Upload(rect Rect, pixels []byte)
}

// UploadFunc adapts a plain function to an Uploader.
type UploadFunc func(rect Rect, pixels []byte)

func (f UploadFunc) Upload(rect Rect, pixels []byte) { f(rect, pixels) }

// missingWork is one entry the rasterizer driver must produce a
// coverage bitmap for. queueOrder is the entry's position in the
// deduplicated queue, independent of the fit pass's height-descending
// order, so single-threaded rasterization and upload can be driven in
// queue order even though the fit pass itself needs height order for
// packing quality.
type missingWork struct {
	key        Key
	req        Request
	inner      Rect
	queueOrder int
}

// rasterResult is the coverage bitmap produced for one missingWork
// entry, or the error its Rasterizer call returned.
type rasterResult struct {
	key    Key
	pixels []byte
	err    error
}

// rasterizerDriver runs the rasterizer collaborator over a batch of
// missing entries, either synchronously or across a worker pool.
type rasterizerDriver struct {
	rasterize Rasterizer
	pool      *parallel.WorkerPool // nil in single-threaded mode
}

func newRasterizerDriver(r Rasterizer, workers int, multithread bool) *rasterizerDriver {
	d := &rasterizerDriver{rasterize: r}
	if multithread {
		d.pool = parallel.NewWorkerPool(workers)
	}
	return d
}

func (d *rasterizerDriver) close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// run rasterizes every entry in work, preserving work's order in the
// returned slice regardless of mode so the commit engine can zip
// results back against the missing-entry list by index.
func (d *rasterizerDriver) run(work []missingWork) []rasterResult {
	results := make([]rasterResult, len(work))

	if d.pool == nil {
		for i, w := range work {
			results[i] = d.rasterizeOne(w)
		}
		return results
	}

	tasks := make([]func(), len(work))
	for i, w := range work {
		i, w := i, w
		tasks[i] = func() {
			results[i] = d.rasterizeOne(w)
		}
	}
	d.pool.ExecuteAll(tasks)
	return results
}

func (d *rasterizerDriver) rasterizeOne(w missingWork) rasterResult {
	buf := make([]byte, w.inner.W*w.inner.H)
	err := d.rasterize.Rasterize(w.req.FontID, w.req.GlyphID, w.req.ScaleX, w.req.ScaleY, w.req.OffsetX, w.req.OffsetY, w.inner.W, w.inner.H, buf)
	if err != nil {
		return rasterResult{key: w.key, err: &RasterizeError{Key: w.key, Err: err}}
	}
	return rasterResult{key: w.key, pixels: buf}
}
