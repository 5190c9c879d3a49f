package log

import (
	"context"
	"log/slog"
	"os"
)

// DefaultContextProvider returns the context used by the logging
// functions without a context parameter.
var DefaultContextProvider = context.TODO

// defaultLog is the logger used by the package-level functions.
var defaultLog = Make(os.Stderr)

// pkgSkip is callerSkip for the package-level functions, which call
// logSkip directly.
const pkgSkip = callerSkip - 1

// Config reconfigures the default logger.
func Config(opts ...Option) {
	defaultLog = defaultLog.Wrap(opts...)
}

// Default returns the default logger.
func Default() Logger { return defaultLog }

// With returns the default logger adding attrs to every record.
func With(attrs ...slog.Attr) Logger {
	return defaultLog.With(attrs...)
}

// TraceContext logs at [LevelTrace] to the default logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logSkip(ctx, pkgSkip, LevelTrace, msg, attrs)
}

// Trace logs at [LevelTrace] to the default logger.
func Trace(msg string, attrs ...slog.Attr) {
	defaultLog.logSkip(DefaultContextProvider(), pkgSkip, LevelTrace, msg, attrs)
}

// DebugContext logs at [LevelDebug] to the default logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logSkip(ctx, pkgSkip, LevelDebug, msg, attrs)
}

// Debug logs at [LevelDebug] to the default logger.
func Debug(msg string, attrs ...slog.Attr) {
	defaultLog.logSkip(DefaultContextProvider(), pkgSkip, LevelDebug, msg, attrs)
}

// InfoContext logs at [LevelInfo] to the default logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logSkip(ctx, pkgSkip, LevelInfo, msg, attrs)
}

// Info logs at [LevelInfo] to the default logger.
func Info(msg string, attrs ...slog.Attr) {
	defaultLog.logSkip(DefaultContextProvider(), pkgSkip, LevelInfo, msg, attrs)
}

// WarnContext logs at [LevelWarn] to the default logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logSkip(ctx, pkgSkip, LevelWarn, msg, attrs)
}

// Warn logs at [LevelWarn] to the default logger.
func Warn(msg string, attrs ...slog.Attr) {
	defaultLog.logSkip(DefaultContextProvider(), pkgSkip, LevelWarn, msg, attrs)
}

// ErrorContext logs at [LevelError] to the default logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logSkip(ctx, pkgSkip, LevelError, msg, attrs)
}

// Error logs at [LevelError] to the default logger.
func Error(msg string, attrs ...slog.Attr) {
	defaultLog.logSkip(DefaultContextProvider(), pkgSkip, LevelError, msg, attrs)
}
