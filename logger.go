package voxsort

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with voxsort-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRunID adds a run_id field to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithStrategy adds a strategy field to the logger.
func (l *Logger) WithStrategy(s Strategy) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", s.String()),
	}
}

// LogLoad logs a volume load.
func (l *Logger) LogLoad(ctx context.Context, name string, bytes int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "volume load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "volume loaded",
			"name", name,
			"bytes", bytes,
			"duration", d,
		)
	}
}

// LogWorker logs the end of one worker's scan.
func (l *Logger) LogWorker(ctx context.Context, worker, keys int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "worker failed",
			"worker", worker,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "worker completed",
			"worker", worker,
			"keys", keys,
			"duration", d,
		)
	}
}

// LogAggregate logs an aggregation.
func (l *Logger) LogAggregate(ctx context.Context, aggregator string, lists, keys int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "aggregation failed",
			"aggregator", aggregator,
			"lists", lists,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "aggregation completed",
			"aggregator", aggregator,
			"lists", lists,
			"keys", keys,
			"duration", d,
		)
	}
}

// LogVerify logs the sortedness verdict. An unsorted result is a warning.
func (l *Logger) LogVerify(ctx context.Context, sorted bool, index int) {
	if !sorted {
		l.WarnContext(ctx, "array is not sorted",
			"index", index,
		)
	} else {
		l.DebugContext(ctx, "keys verified sorted")
	}
}

// LogPersist logs writing the key list.
func (l *Logger) LogPersist(ctx context.Context, name string, keys int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "failed to write key list",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "key list saved",
			"name", name,
			"keys", keys,
		)
	}
}
