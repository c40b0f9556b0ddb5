package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"document-qa-server/internal/domain"
)

// AppLogger implements the domain.Logger interface on top of slog.
type AppLogger struct {
	logger *slog.Logger
}

// NewLogger creates a new logger instance writing to stdout
func NewLogger(levelStr, format string) domain.Logger {
	return NewLoggerWithWriter(os.Stdout, levelStr, format)
}

// NewLoggerWithWriter creates a logger that writes to w.
func NewLoggerWithWriter(w io.Writer, levelStr, format string) domain.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(levelStr)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &AppLogger{logger: slog.New(handler)}
}

// Slog exposes the underlying slog.Logger for libraries that want one.
func (l *AppLogger) Slog() *slog.Logger {
	return l.logger
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	l.logger.Info(msg, fields...)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	allFields := append([]interface{}{"error", err}, fields...)
	l.logger.Error(msg, allFields...)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	l.logger.Debug(msg, fields...)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	l.logger.Warn(msg, fields...)
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
