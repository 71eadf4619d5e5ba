package output

import (
	"fmt"
	"io"
	"os"

	"github.com/sdejongh/dirsync/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer io.Writer
}

// NewHumanFormatter creates a new human-readable formatter writing to w
// (stdout if nil)
func NewHumanFormatter(w io.Writer) *HumanFormatter {
	if w == nil {
		w = os.Stdout
	}
	return &HumanFormatter{writer: w}
}

// Start does nothing; per-entry lines come from the logger
func (f *HumanFormatter) Start(totalActions int) error {
	return nil
}

// Progress does nothing; per-entry lines come from the logger
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete prints the diff listing (diff mode) followed by the summary
func (f *HumanFormatter) Complete(report *models.Report) error {
	if report.Mode == models.ModeDiff && report.Comparison != nil {
		WriteListing(f.writer, report)
	}

	fmt.Fprintln(f.writer)
	for _, line := range SummaryLines(report) {
		fmt.Fprintln(f.writer, line)
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(f.writer, "\nErrors:\n")
		for _, err := range report.Errors {
			fmt.Fprintf(f.writer, "  %s %s: %s\n", err.Operation, err.FilePath, err.Error)
		}
	}

	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	fmt.Fprintf(f.writer, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// WriteListing prints the sorted left-only, right-only and common sets
func WriteListing(w io.Writer, report *models.Report) {
	cmp := report.Comparison

	if len(cmp.LeftOnly) > 0 {
		fmt.Fprintf(w, "Only in %s\n", report.SourcePath)
		for _, p := range cmp.LeftOnly.Sorted() {
			fmt.Fprintf(w, ">> %s\n", p)
		}
		fmt.Fprintln(w)
	}

	if len(cmp.RightOnly) > 0 {
		fmt.Fprintf(w, "Only in %s\n", report.TargetPath)
		for _, p := range cmp.RightOnly.Sorted() {
			fmt.Fprintf(w, "<< %s\n", p)
		}
		fmt.Fprintln(w)
	}

	if len(cmp.Common) > 0 {
		fmt.Fprintf(w, "Common to %s and %s\n", report.SourcePath, report.TargetPath)
		for _, p := range cmp.Common.Sorted() {
			fmt.Fprintf(w, "-- %s\n", p)
		}
	} else {
		fmt.Fprintln(w, "No common files or sub-directories!")
	}
}

// SummaryLines returns the end-of-run summary. The first two lines are
// always present; every other line appears only when its counter is
// non-zero.
func SummaryLines(report *models.Report) []string {
	s := report.Stats
	lines := []string{
		fmt.Sprintf("Finished in %.2f seconds.", report.Duration.Seconds()),
		fmt.Sprintf("%d directories parsed, %d files copied", s.DirsScanned, s.FilesCopied),
	}

	counted := func(n int, format string) {
		if n > 0 {
			lines = append(lines, fmt.Sprintf(format, n))
		}
	}

	counted(s.FilesPurged, "%d files were purged.")
	counted(s.DirsPurged, "%d directories were purged.")
	counted(s.DirsCreated, "%d directories were created.")
	counted(s.FilesUpdated, "%d files were updated by timestamp.")

	counted(s.CopyFailed, "%d files could not be copied.")
	counted(s.DirCreateFailed, "%d directories could not be created.")
	counted(s.UpdateFailed, "%d files could not be updated.")
	counted(s.DirPurgeFailed, "%d directories could not be purged.")
	counted(s.FilePurgeFailed, "%d files could not be purged.")

	return lines
}
