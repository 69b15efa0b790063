package logger

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
)

const pkgPrefix = "github.com/deskpulse/deskpulse/internal/shared/logger."

// sourceHandler attaches the caller's location to records at or above a
// level. Frames inside slog and this package's wrappers are skipped so the
// source points at the code that logged, not at Infow.
type sourceHandler struct {
	handler   slog.Handler
	threshold slog.Leveler
}

// NewSourceHandler wraps handler, adding a source attribute to records at
// threshold or above. handler should not set AddSource itself.
func NewSourceHandler(handler slog.Handler, threshold slog.Leveler) slog.Handler {
	return &sourceHandler{handler: handler, threshold: threshold}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.threshold.Level() {
		if src := callerSource(); src != nil {
			r.AddAttrs(slog.Any(slog.SourceKey, src))
		}
	}
	return h.handler.Handle(ctx, r)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{handler: h.handler.WithAttrs(attrs), threshold: h.threshold}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{handler: h.handler.WithGroup(name), threshold: h.threshold}
}

func callerSource() *slog.Source {
	var pcs [16]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !isLoggingFrame(f.Function) {
			return &slog.Source{Function: f.Function, File: f.File, Line: f.Line}
		}
		if !more {
			return nil
		}
	}
}

func isLoggingFrame(fn string) bool {
	if strings.HasPrefix(fn, "log/slog.") {
		return true
	}
	rest, ok := strings.CutPrefix(fn, pkgPrefix)
	if !ok {
		return false
	}
	if strings.HasPrefix(rest, "(*slogLogger).") || strings.HasPrefix(rest, "(*sourceHandler).") {
		return true
	}
	switch rest {
	case "Info", "Warn", "Error", "Fatal":
		return true
	}
	return false
}
