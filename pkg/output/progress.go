package output

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/dirsync/pkg/models"
)

// ProgressFormatter draws a progress bar over the planned actions and
// delegates everything else to an inner formatter. The bar is only drawn
// when the writer is a terminal.
type ProgressFormatter struct {
	inner   Formatter
	writer  io.Writer
	enabled bool

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// NewProgressFormatter wraps inner; the bar is written to w (stderr if nil)
func NewProgressFormatter(inner Formatter, w io.Writer) *ProgressFormatter {
	if w == nil {
		w = os.Stderr
	}
	return &ProgressFormatter{
		inner:   inner,
		writer:  w,
		enabled: isTerminal(w),
	}
}

// isTerminal reports whether w is a terminal file descriptor
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Start creates the bar sized to the number of entries to process
func (f *ProgressFormatter) Start(totalActions int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.enabled && totalActions > 0 {
		f.bar = pb.Simple.New(totalActions).SetWriter(f.writer)
		f.bar.Set("prefix", "syncing ")
		f.bar.Start()
	}
	return f.inner.Start(totalActions)
}

// Progress advances the bar by one processed entry
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	if f.bar != nil && update.Type == UpdateEntryDone {
		f.bar.Increment()
	}
	f.mu.Unlock()
	return f.inner.Progress(update)
}

// Complete stops the bar and prints the inner formatter's report
func (f *ProgressFormatter) Complete(report *models.Report) error {
	f.stop()
	return f.inner.Complete(report)
}

// Error stops the bar and forwards the error
func (f *ProgressFormatter) Error(err error) error {
	f.stop()
	return f.inner.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

func (f *ProgressFormatter) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
}
