package observability

import (
	"context"
	"log/slog"
)

// LogContext holds the structured attributes carried on a context.
type LogContext struct {
	RunID    string
	Stage    string
	Language string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRunID tags the context with a generation run ID.
func WithRunID(ctx context.Context, id string) context.Context {
	lc := GetContext(ctx)
	lc.RunID = id
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage tags the context with a pipeline stage (guard, clear, pages, routes, media, copy).
func WithStage(ctx context.Context, stage string) context.Context {
	lc := GetContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithLanguage tags the context with the language currently being rendered.
func WithLanguage(ctx context.Context, code string) context.Context {
	lc := GetContext(ctx)
	lc.Language = code
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the LogContext stored on ctx, or the zero value.
func GetContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func attrs(ctx context.Context, extra []slog.Attr) []slog.Attr {
	lc := GetContext(ctx)
	out := make([]slog.Attr, 0, 3+len(extra))
	if lc.RunID != "" {
		out = append(out, slog.String("run_id", lc.RunID))
	}
	if lc.Stage != "" {
		out = append(out, slog.String("stage", lc.Stage))
	}
	if lc.Language != "" {
		out = append(out, slog.String("lang", lc.Language))
	}
	return append(out, extra...)
}

func DebugContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelDebug, msg, attrs(ctx, a)...)
}

func InfoContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelInfo, msg, attrs(ctx, a)...)
}

func WarnContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelWarn, msg, attrs(ctx, a)...)
}

func ErrorContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelError, msg, attrs(ctx, a)...)
}
