package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

// ConsoleLogger writes one plain line per message, the way a sync run
// reports progress on a terminal.
type ConsoleLogger struct {
	*entryLogger
}

// NewConsoleLogger creates a console logger writing to w (stdout if nil)
func NewConsoleLogger(w io.Writer, level Level) *ConsoleLogger {
	if w == nil {
		w = os.Stdout
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(toLogrus(level))
	l.SetFormatter(&lineFormatter{})
	return &ConsoleLogger{entryLogger: &entryLogger{entry: logrus.NewEntry(l)}}
}

// WithFields returns a logger with additional fields
func (l *ConsoleLogger) WithFields(fields Fields) Logger {
	return &ConsoleLogger{entryLogger: l.withFields(fields)}
}

// Close does nothing; the writer belongs to the caller
func (l *ConsoleLogger) Close() error {
	return nil
}

// lineFormatter renders "message key=value ..." with warnings and errors
// prefixed by their level.
type lineFormatter struct{}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	switch entry.Level {
	case logrus.WarnLevel:
		b.WriteString("warning: ")
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		b.WriteString("error: ")
	}
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}
