// Package logger provides structured logging for uploadkit.
package logger

import (
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lmittmann/tint"
)

// LogFilePermissions defines the file permissions for log files (owner read/write only).
const LogFilePermissions = 0o600

// Logger provides structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// SlogAdapter implements Logger on top of a slog.Logger.
type SlogAdapter struct {
	log *slog.Logger
}

// NewSlogAdapter wraps the given slog handler.
func NewSlogAdapter(handler slog.Handler) *SlogAdapter {
	return &SlogAdapter{log: slog.New(handler)}
}

// NewWriterLogger creates a logger writing key=value lines to w.
func NewWriterLogger(w io.Writer, level Level) *SlogAdapter {
	return NewSlogAdapter(NewWriterHandler(w, level))
}

// NewFileLogger creates a logger appending to the file at path.
func NewFileLogger(path string, level Level) (*SlogAdapter, error) {
	handler, err := NewFileHandler(path, level)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}

	return NewSlogAdapter(handler), nil
}

// NewConsoleLogger creates a human-oriented logger for interactive terminals.
func NewConsoleLogger(w io.Writer, level Level, color bool) *SlogAdapter {
	return NewSlogAdapter(tint.NewHandler(w, &tint.Options{
		Level:      level.ToSlogLevel(),
		TimeFormat: time.Kitchen,
		NoColor:    !color,
	}))
}

// Debug logs debug-level messages.
func (l *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

// Info logs info-level messages.
func (l *SlogAdapter) Info(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

// Error logs error-level messages.
func (l *SlogAdapter) Error(msg string, keysAndValues ...any) {
	l.log.Error(msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (l *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{log: l.log.With(keysAndValues...)}
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}

// OrNoOp returns log, or a NoOpLogger when log is nil.
//
//nolint:ireturn // callers store the interface
func OrNoOp(log Logger) Logger {
	if log == nil {
		return NewNoOpLogger()
	}

	return log
}
