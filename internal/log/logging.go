// Package log builds the slog loggers used by the firmware and the host
// tools. Firmware logs go to a single console writer; host tools split
// errors onto stderr and may tee everything into a file.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace sits below Debug and is used for per-frame output.
const LevelTrace slog.Level = -8

func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w.
func New(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

// fanout sends every record to all handlers that accept it.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// below passes only records under max to h.
type below struct {
	max slog.Level
	h   slog.Handler
}

func (b below) Enabled(ctx context.Context, l slog.Level) bool {
	return l < b.max && b.h.Enabled(ctx, l)
}
func (b below) Handle(ctx context.Context, r slog.Record) error { return b.h.Handle(ctx, r) }
func (b below) WithAttrs(a []slog.Attr) slog.Handler            { return below{b.max, b.h.WithAttrs(a)} }
func (b below) WithGroup(n string) slog.Handler                 { return below{b.max, b.h.WithGroup(n)} }

// Setup builds the host logger: records below Error go to stdout, errors to
// stderr, and everything at level also goes to file when one is given.
func Setup(level, file string) (*slog.Logger, io.Closer, error) {
	lv := ParseLevel(level)
	hs := fanout{
		below{max: slog.LevelError, h: slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lv})},
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	if file == "" {
		return slog.New(hs), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	hs = append(hs, slog.NewTextHandler(f, &slog.HandlerOptions{Level: lv}))
	return slog.New(hs), f, nil
}
