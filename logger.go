package lexgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with lexgo-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithVersion adds a manifest version field to the logger.
func (l *Logger) WithVersion(version uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("version", version),
	}
}

// LogOpen logs opening a database.
func (l *Logger) LogOpen(ctx context.Context, version uint64, numDocs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"version", version,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "database opened",
			"version", version,
			"docs", numDocs,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, query string, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"query", query,
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"query", query,
			"k", k,
			"results", resultsFound,
		)
	}
}

// LogCommit logs a commit.
func (l *Logger) LogCommit(ctx context.Context, version uint64, segment string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "commit failed",
			"version", version,
			"segment", segment,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "commit completed",
			"version", version,
			"segment", segment,
			"bytes", bytes,
		)
	}
}

// LogFilterWarm logs warming filters against a snapshot.
func (l *Logger) LogFilterWarm(ctx context.Context, count int, duration time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "filter warm-up failed",
			"filters", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "filters warmed",
			"filters", count,
			"duration", duration,
		)
	}
}
