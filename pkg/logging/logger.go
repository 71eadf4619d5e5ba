package logging

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level represents log severity
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger defines the interface for logging
// Implementations include console, file and null loggers
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, msg string, fields Fields)

	// Info logs an info message
	Info(ctx context.Context, msg string, fields Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, msg string, fields Fields)

	// Error logs an error message
	Error(ctx context.Context, msg string, err error, fields Fields)

	// WithFields returns a logger with additional fields
	WithFields(fields Fields) Logger

	// Close flushes and closes the logger
	Close() error
}

// entryLogger adapts a logrus entry to the Logger interface.
// ConsoleLogger and FileLogger both embed it.
type entryLogger struct {
	entry *logrus.Entry
}

func (l *entryLogger) with(ctx context.Context, fields Fields) *logrus.Entry {
	e := l.entry
	if ctx != nil {
		e = e.WithContext(ctx)
	}
	if len(fields) > 0 {
		e = e.WithFields(logrus.Fields(fields))
	}
	return e
}

// Debug logs a debug message
func (l *entryLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Debug(msg)
}

// Info logs an info message
func (l *entryLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Info(msg)
}

// Warn logs a warning message
func (l *entryLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Warn(msg)
}

// Error logs an error message
func (l *entryLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	e := l.with(ctx, fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}

func (l *entryLogger) withFields(fields Fields) *entryLogger {
	return &entryLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// toLogrus maps a Level onto the logrus level set
func toLogrus(level Level) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// levelString returns the string representation of a log level
func levelString(level Level) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// LevelString returns level as string (exported version)
func LevelString(level Level) string {
	return levelString(level)
}
