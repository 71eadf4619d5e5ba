package logging

import "context"

// NullLogger is a logger that discards all output
// Used when logging is disabled
type NullLogger struct{}

// NewNullLogger creates a new null logger
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Debug(ctx context.Context, msg string, fields Fields) {}

func (l *NullLogger) Info(ctx context.Context, msg string, fields Fields) {}

func (l *NullLogger) Warn(ctx context.Context, msg string, fields Fields) {}

func (l *NullLogger) Error(ctx context.Context, msg string, err error, fields Fields) {}

// WithFields returns the same null logger
func (l *NullLogger) WithFields(fields Fields) Logger {
	return l
}

// Close does nothing
func (l *NullLogger) Close() error {
	return nil
}

// Multi fans every message out to several loggers
type Multi []Logger

func (m Multi) Debug(ctx context.Context, msg string, fields Fields) {
	for _, l := range m {
		l.Debug(ctx, msg, fields)
	}
}

func (m Multi) Info(ctx context.Context, msg string, fields Fields) {
	for _, l := range m {
		l.Info(ctx, msg, fields)
	}
}

func (m Multi) Warn(ctx context.Context, msg string, fields Fields) {
	for _, l := range m {
		l.Warn(ctx, msg, fields)
	}
}

func (m Multi) Error(ctx context.Context, msg string, err error, fields Fields) {
	for _, l := range m {
		l.Error(ctx, msg, err, fields)
	}
}

// WithFields applies fields to every wrapped logger
func (m Multi) WithFields(fields Fields) Logger {
	out := make(Multi, len(m))
	for i, l := range m {
		out[i] = l.WithFields(fields)
	}
	return out
}

// Close closes every wrapped logger and returns the first error
func (m Multi) Close() error {
	var first error
	for _, l := range m {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
