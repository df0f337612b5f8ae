package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoggerKey is the context key for logger values.
type LoggerKey struct{}

// Fields represents structured logging fields.
type Fields map[string]any

// ParseLevel converts a level name into a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger configures the global logger writing to stderr.
func SetupLogger(level slog.Level, format string) error {
	return SetupLoggerTo(os.Stderr, level, format)
}

// SetupLoggerTo configures the global logger writing to w.
func SetupLoggerTo(w io.Writer, level slog.Level, format string) error {
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "console", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// SetupFileLogger points the global logger at a file, for the full-screen UI.
// The returned closer must be called when the program exits.
func SetupFileLogger(path string, level slog.Level, format string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if err := SetupLoggerTo(f, level, format); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey{}, logger)
}

// Logger returns the context logger, or the default logger.
func Logger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(LoggerKey{}).(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}

// LogError logs err at error level on the context logger.
func LogError(ctx context.Context, err error, msg string, fields Fields) {
	attrs := make([]slog.Attr, 0, len(fields)+1)
	attrs = append(attrs, slog.String("error", err.Error()))
	logAttrs(ctx, slog.LevelError, msg, fields, attrs)
}

// LogWarn logs err at warn level on the context logger.
func LogWarn(ctx context.Context, err error, msg string, fields Fields) {
	attrs := make([]slog.Attr, 0, len(fields)+1)
	attrs = append(attrs, slog.String("error", err.Error()))
	logAttrs(ctx, slog.LevelWarn, msg, fields, attrs)
}

// LogInfo logs an info message with fields on the context logger.
func LogInfo(ctx context.Context, msg string, fields Fields) {
	logAttrs(ctx, slog.LevelInfo, msg, fields, make([]slog.Attr, 0, len(fields)))
}

// LogDebug logs a debug message with fields on the context logger.
func LogDebug(ctx context.Context, msg string, fields Fields) {
	logAttrs(ctx, slog.LevelDebug, msg, fields, make([]slog.Attr, 0, len(fields)))
}

func logAttrs(ctx context.Context, level slog.Level, msg string, fields Fields, attrs []slog.Attr) {
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	Logger(ctx).LogAttrs(ctx, level, msg, attrs...)
}
