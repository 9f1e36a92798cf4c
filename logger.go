package uigl

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/uigl/text"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for uigl and the text package. By
// default nothing is logged. Pass nil to restore silent logging.
//
// GPU contexts are configured separately, for example with
// wgpu.SetLogger.
//
// Log levels used by uigl:
//   - [slog.LevelDebug]: pipeline state (layer counts, atlas resizes)
//   - [slog.LevelInfo]: lifecycle events (backend created)
//   - [slog.LevelWarn]: non-fatal issues (default font substitution)
//
// Example:
//
//	uigl.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	text.SetLogger(l)
}

// Logger returns the current logger used by uigl.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
