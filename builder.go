package glyphatlas

import "runtime"

// Default option values.
const (
	DefaultScaleTolerance    = 0.1
	DefaultPositionTolerance = 0.1
	DefaultPadGlyphs         = true
	DefaultAlign4x4          = false
)

// Option configures a Cache under construction.
type Option func(*config)

type config struct {
	width, height     int
	scaleTolerance    float64
	positionTolerance float64
	padGlyphs         bool
	align4x4          bool
	multithread       bool
	multithreadSet    bool
	workers           int
	rasterizer        Rasterizer
	uploader          Uploader
}

func defaultConfig() *config {
	return &config{
		scaleTolerance:    DefaultScaleTolerance,
		positionTolerance: DefaultPositionTolerance,
		padGlyphs:         DefaultPadGlyphs,
		align4x4:          DefaultAlign4x4,
	}
}

// WithDimensions sets the atlas size in pixels. Required.
func WithDimensions(width, height int) Option {
	return func(c *config) {
		c.width, c.height = width, height
	}
}

// WithScaleTolerance sets the maximum relative scale error tolerated as
// "the same glyph". Must be > 0.
func WithScaleTolerance(tolerance float64) Option {
	return func(c *config) {
		c.scaleTolerance = tolerance
	}
}

// WithPositionTolerance sets the maximum sub-pixel offset error, in
// pixels, tolerated as "the same glyph". Must be > 0.
func WithPositionTolerance(tolerance float64) Option {
	return func(c *config) {
		c.positionTolerance = tolerance
	}
}

// WithPadGlyphs enables or disables the default 1px anti-bleed padding.
func WithPadGlyphs(pad bool) Option {
	return func(c *config) {
		c.padGlyphs = pad
	}
}

// WithAlign4x4 rounds allocated rectangles up to 4-pixel multiples.
func WithAlign4x4(align bool) Option {
	return func(c *config) {
		c.align4x4 = align
	}
}

// WithMultithread enables or disables parallel rasterization. Defaults
// to true when the host has more than one logical core.
func WithMultithread(enabled bool) Option {
	return func(c *config) {
		c.multithread = enabled
		c.multithreadSet = true
	}
}

// WithWorkers overrides the worker pool size used in parallel mode. A
// value <= 0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithRasterizer sets the Rasterizer collaborator. Required.
func WithRasterizer(r Rasterizer) Option {
	return func(c *config) {
		c.rasterizer = r
	}
}

// WithUploader sets the Uploader collaborator. Required.
func WithUploader(u Uploader) Option {
	return func(c *config) {
		c.uploader = u
	}
}

func (c *config) validate() error {
	if c.width <= 0 || c.height <= 0 {
		return &ConfigError{Field: "dimensions", Reason: "width and height must be > 0"}
	}
	if c.scaleTolerance <= 0 {
		return &ConfigError{Field: "scale_tolerance", Reason: "must be > 0"}
	}
	if c.positionTolerance <= 0 {
		return &ConfigError{Field: "position_tolerance", Reason: "must be > 0"}
	}
	if c.rasterizer == nil {
		return &ConfigError{Field: "rasterizer", Reason: "must not be nil"}
	}
	if c.uploader == nil {
		return &ConfigError{Field: "uploader", Reason: "must not be nil"}
	}
	return nil
}

// Cache is a dynamic GPU glyph cache backing a single fixed-size atlas.
// See the package doc for the concurrency contract: a Cache is
// single-writer and must only be driven from one goroutine.
type Cache struct {
	width, height     int
	scaleTolerance    float64
	positionTolerance float64
	padGlyphs         bool
	align4x4          bool
	multithread       bool
	workers           int

	shelf    *shelfAllocator
	resident *residentTable
	queue    *requestQueue
	driver   *rasterizerDriver
	uploader Uploader

	frame     uint64
	hasCommit bool
	stats     Stats
}

// New validates opts and constructs a Cache. WithDimensions,
// WithRasterizer, and WithUploader are required; every other option
// defaults to the matching Default* constant, multithreading to on when
// GOMAXPROCS is above 1, and the worker count to GOMAXPROCS.
func New(opts ...Option) (*Cache, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	if !c.multithreadSet {
		c.multithread = runtime.GOMAXPROCS(0) > 1
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	cache := &Cache{
		width:             c.width,
		height:            c.height,
		scaleTolerance:    c.scaleTolerance,
		positionTolerance: c.positionTolerance,
		padGlyphs:         c.padGlyphs,
		align4x4:          c.align4x4,
		multithread:       c.multithread,
		workers:           c.workers,
		shelf:             newShelfAllocator(c.width, c.height),
		resident:          newResidentTable(),
		queue:             newRequestQueue(),
		uploader:          c.uploader,
	}
	cache.driver = newRasterizerDriver(c.rasterizer, c.workers, c.multithread)
	return cache, nil
}

// Close releases the cache's internal worker pool, if any. It does not
// touch the caller-owned pixel buffer behind the Uploader.
func (c *Cache) Close() {
	c.driver.close()
}

// Enqueue stages req for the next Commit. Requests are deduplicated by
// fingerprint key; enqueuing a glyph already staged this frame is a
// no-op. Returns an error if req is not well-formed.
func (c *Cache) Enqueue(req Request) error {
	if err := req.valid(); err != nil {
		return err
	}
	key := fingerprint(req, c.scaleTolerance, c.positionTolerance)
	c.queue.enqueue(key, req)
	return nil
}

// Rebuild applies opts as a new configuration. If the new configuration
// leaves tolerances, atlas dimensions, and padding exactly as they were,
// the resident set is preserved; otherwise the cache is emptied, since a
// tolerance change means existing keys no longer correspond to any slot
// and a dimension or padding change invalidates every existing rectangle
// outright. Rebuild fails with ErrUncommittedQueue if
// requests are pending commit.
func (c *Cache) Rebuild(opts ...Option) error {
	if c.queue.len() > 0 {
		return ErrUncommittedQueue
	}

	merged := &config{
		width:             c.width,
		height:            c.height,
		scaleTolerance:    c.scaleTolerance,
		positionTolerance: c.positionTolerance,
		padGlyphs:         c.padGlyphs,
		align4x4:          c.align4x4,
		multithread:       c.multithread,
		multithreadSet:    true,
		workers:           c.workers,
		rasterizer:        c.driver.rasterize,
		uploader:          c.uploader,
	}
	for _, opt := range opts {
		opt(merged)
	}
	if err := merged.validate(); err != nil {
		return err
	}

	sizeChanged := merged.width != c.width || merged.height != c.height
	toleranceChanged := merged.scaleTolerance != c.scaleTolerance || merged.positionTolerance != c.positionTolerance
	paddingChanged := merged.padGlyphs != c.padGlyphs || merged.align4x4 != c.align4x4

	c.driver.close()

	survivors := make(map[Key]*residentEntry)
	if !toleranceChanged && !sizeChanged && !paddingChanged {
		for k, e := range c.resident.entries {
			survivors[k] = e
		}
	}

	c.width, c.height = merged.width, merged.height
	c.scaleTolerance, c.positionTolerance = merged.scaleTolerance, merged.positionTolerance
	c.padGlyphs, c.align4x4 = merged.padGlyphs, merged.align4x4
	c.multithread, c.workers = merged.multithread, merged.workers
	c.uploader = merged.uploader
	c.driver = newRasterizerDriver(merged.rasterizer, merged.workers, merged.multithread)

	if len(survivors) == 0 {
		c.shelf = newShelfAllocator(c.width, c.height)
		c.resident = newResidentTable()
	}
	return nil
}
