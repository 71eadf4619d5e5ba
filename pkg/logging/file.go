package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// FileLogger implements Logger with logrus writing to a rotating file
type FileLogger struct {
	*entryLogger
	out *rotatingFile
}

// NewFileLogger creates a new file logger
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	out, err := openRotatingFile(config.Path, config.MaxSize, config.MaxBackups)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(toLogrus(config.Level))
	if config.Format == FormatJSON {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			DisableColors:    true,
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02T15:04:05.000Z07:00",
			QuoteEmptyFields: true,
		})
	}

	return &FileLogger{
		entryLogger: &entryLogger{entry: logrus.NewEntry(l)},
		out:         out,
	}, nil
}

// WithFields returns a logger with additional fields
func (l *FileLogger) WithFields(fields Fields) Logger {
	return &FileLogger{entryLogger: l.withFields(fields), out: l.out}
}

// Close flushes and closes the logger
func (l *FileLogger) Close() error {
	return l.out.Close()
}

// rotatingFile is an append-only writer that rolls the file over to
// path.1 ... path.N once it grows past maxSize.
type rotatingFile struct {
	path       string
	maxSize    int64
	maxBackups int

	mu   sync.Mutex
	file *os.File
	size int64
}

func openRotatingFile(path string, maxSize int64, maxBackups int) (*rotatingFile, error) {
	r := &rotatingFile{path: path, maxSize: maxSize, maxBackups: maxBackups}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *rotatingFile) open() error {
	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	r.file = file
	r.size = info.Size()
	return nil
}

func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, os.ErrClosed
	}
	if r.maxSize > 0 && r.size >= r.maxSize {
		r.rotate()
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate must be called with mu held
func (r *rotatingFile) rotate() {
	r.file.Close()

	for i := r.maxBackups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", r.path, i), fmt.Sprintf("%s.%d", r.path, i+1))
	}
	os.Rename(r.path, r.path+".1")

	if r.maxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", r.path, r.maxBackups+1))
	}

	if err := r.open(); err != nil {
		r.file = nil
	}
}
