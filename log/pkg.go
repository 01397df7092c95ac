package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// defaultLog is the package-level [Logger] used by the free functions below.
// It writes to stderr with the package defaults until [Config] is called.
//
//nolint:gochecknoglobals
var (
	defaultLogMu sync.RWMutex
	defaultLog   = Make(os.Stderr)
)

// DefaultContextProvider supplies the context used by the non-Context
// logging variants ([Debug], [Info], [Warn], [Error], ...). It defaults to
// [context.TODO] and may be overridden, e.g. by a server embedding a
// request-scoped logger.
//
//nolint:gochecknoglobals
var DefaultContextProvider = func() context.Context { return context.TODO() }

// Config reconfigures the package-level default logger with opts, applied on
// top of its current configuration.
func Config(opts ...Option) {
	defaultLogMu.Lock()
	defer defaultLogMu.Unlock()

	defaultLog = defaultLog.Wrap(opts...)
}

// Default returns the current package-level default [Logger].
func Default() Logger {
	defaultLogMu.RLock()
	defer defaultLogMu.RUnlock()

	return defaultLog
}

// TraceContext logs at Trace level on the default logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().TraceContext(ctx, msg, attrs...)
}

// Trace logs at Trace level on the default logger.
func Trace(msg string, attrs ...slog.Attr) { Default().Trace(msg, attrs...) }

// DebugContext logs at Debug level on the default logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().DebugContext(ctx, msg, attrs...)
}

// Debug logs at Debug level on the default logger.
func Debug(msg string, attrs ...slog.Attr) { Default().Debug(msg, attrs...) }

// InfoContext logs at Info level on the default logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().InfoContext(ctx, msg, attrs...)
}

// Info logs at Info level on the default logger.
func Info(msg string, attrs ...slog.Attr) { Default().Info(msg, attrs...) }

// WarnContext logs at Warn level on the default logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().WarnContext(ctx, msg, attrs...)
}

// Warn logs at Warn level on the default logger.
func Warn(msg string, attrs ...slog.Attr) { Default().Warn(msg, attrs...) }

// ErrorContext logs at Error level on the default logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().ErrorContext(ctx, msg, attrs...)
}

// Error logs at Error level on the default logger.
func Error(msg string, attrs ...slog.Attr) { Default().Error(msg, attrs...) }
