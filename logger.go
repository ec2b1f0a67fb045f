package glyphatlas

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record without allocating; Enabled always
// reports false so the slog call sites short-circuit before building
// attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }

func newNopLogger() *slog.Logger {
	return slog.New(nopHandler{})
}

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs l as the package-level logger used by Cache for
// Debug-level fit/evict tracing and Warn-level eviction-thrashing
// reports. Passing nil restores the no-op logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the currently installed logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func slogger() *slog.Logger {
	return loggerPtr.Load()
}
