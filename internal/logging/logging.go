// Package logging wires log/slog to a tint handler and carries the logger on
// a context.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
)

const timeFormat = "2006-01-02 15:04 05.0000"

// Ctx returns the logger stored on ctx, or slog.Default.
func Ctx(ctx context.Context) *slog.Logger {
	return slogctx.FromCtx(ctx)
}

// WithAttrs returns a context whose logger carries attrs.
func WithAttrs(ctx context.Context, attrs ...any) context.Context {
	return slogctx.With(ctx, attrs...)
}

// NewLoggerFromHandler wraps handler so context attributes are added to
// every record, and stores the resulting logger on ctx.
func NewLoggerFromHandler(ctx context.Context, handler slog.Handler) (*slog.Logger, context.Context) {
	logger := slog.New(slogctx.NewHandler(handler, nil))
	return logger, slogctx.NewCtx(ctx, logger)
}

// Setup builds a tint logger writing to w. Debug records are only emitted
// when debug is set. noColor disables ANSI colours, e.g. for files.
func Setup(ctx context.Context, w io.Writer, debug bool, noColor bool) (*slog.Logger, context.Context) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: timeFormat,
		AddSource:  debug,
		NoColor:    noColor,
	})

	return NewLoggerFromHandler(ctx, handler)
}

// Discard returns a context whose logger drops everything.
func Discard(ctx context.Context) context.Context {
	_, ctx = NewLoggerFromHandler(ctx, slog.NewTextHandler(io.Discard, nil))
	return ctx
}
