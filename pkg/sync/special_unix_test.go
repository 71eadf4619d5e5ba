//go:build unix

package sync

import (
	"syscall"
	"testing"
	"time"

	"github.com/sdejongh/dirsync/pkg/models"
)

func makeFifo(t *testing.T, path string) {
	t.Helper()
	if err := syscall.Mkfifo(path, 0644); err != nil {
		t.Skipf("mkfifo unsupported: %v", err)
	}
}

// runWithin fails the test when the run has not returned after timeout
func (h *TestHelper) runWithin(timeout time.Duration, mode models.Mode, opts models.Options) *models.Report {
	h.t.Helper()

	type result struct {
		report *models.Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := h.RunErr(mode, opts)
		done <- result{report, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			h.t.Fatalf("Run(%s) error = %v", mode, r.err)
		}
		return r.report
	case <-time.After(timeout):
		h.t.Fatalf("Run(%s) did not finish within %s", mode, timeout)
		return nil
	}
}

func TestSync_SkipsNamedPipe(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("a.txt", "a")
	makeFifo(t, h.SourcePath("pipe"))

	report := h.runWithin(5*time.Second, models.ModeSync, models.DefaultOptions())

	if !exists(h.TargetPath("a.txt")) {
		t.Error("regular file should be copied")
	}
	if exists(h.TargetPath("pipe")) {
		t.Error("named pipe should not be copied")
	}
	if report.Stats.FilesCopied != 1 {
		t.Errorf("FilesCopied = %d, want 1", report.Stats.FilesCopied)
	}
	if report.Stats.Failures() != 0 {
		t.Errorf("Failures() = %d, want 0", report.Stats.Failures())
	}
}

func TestUpdate_SkipsNamedPipe(t *testing.T) {
	h := NewTestHelper(t)
	makeFifo(t, h.SourcePath("pipe"))
	makeFifo(t, h.TargetPath("pipe"))
	h.SetModTime(h.TargetPath("pipe"), time.Now().Add(-time.Hour))

	report := h.runWithin(5*time.Second, models.ModeUpdate, models.DefaultOptions())

	if report.Stats.FilesUpdated != 0 {
		t.Errorf("FilesUpdated = %d, want 0", report.Stats.FilesUpdated)
	}
	if report.Stats.Failures() != 0 {
		t.Errorf("Failures() = %d, want 0", report.Stats.Failures())
	}
}
