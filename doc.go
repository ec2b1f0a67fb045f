// Package glyphatlas maintains a fixed-size 2D texture atlas of rasterized
// glyph bitmaps for GPU text rendering.
//
// A Cache owns a shelf-packed rectangle allocator, a resident table keyed
// by a tolerant glyph fingerprint (Key), and an LRU eviction order.
// Callers submit glyph Requests, which are deduplicated into a pending
// queue; Commit packs the missing glyphs into the atlas, evicting
// least-recently-used entries to make room when needed, rasterizes them
// (optionally across a worker pool), and uploads the changed regions
// through a caller supplied Uploader.
//
// The cache itself never touches a GPU device or a real font: it is
// driven through two narrow collaborator interfaces, Rasterizer and
// Uploader, so it can be exercised and tested without either. The
// fontraster package provides a reference Rasterizer backed by
// golang.org/x/image/font/sfnt.
//
// # Concurrency
//
// A Cache is single-writer: all exported methods must be called from one
// owning goroutine (typically the renderer's frame loop). Rasterization
// work submitted during Commit may run in parallel across an internal
// worker pool, but that pool is an implementation detail and never
// exposes the cache itself to concurrent callers.
package glyphatlas
