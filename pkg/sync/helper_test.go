package sync

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/sdejongh/dirsync/pkg/logging"
	"github.com/sdejongh/dirsync/pkg/models"
	"github.com/sdejongh/dirsync/pkg/output"
	"github.com/sdejongh/dirsync/pkg/storage"
)

// TestHelper provides utilities for engine tests
type TestHelper struct {
	t         *testing.T
	tempDir   string
	sourceDir string
	targetDir string
}

// NewTestHelper creates source and target directories under a temp dir
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir := t.TempDir()
	sourceDir := filepath.Join(tempDir, "source")
	targetDir := filepath.Join(tempDir, "target")

	for _, dir := range []string{sourceDir, targetDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}

	return &TestHelper{
		t:         t,
		tempDir:   tempDir,
		sourceDir: sourceDir,
		targetDir: targetDir,
	}
}

func (h *TestHelper) write(root, name, content string) string {
	h.t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
	return path
}

func (h *TestHelper) CreateSourceFile(name, content string) string {
	h.t.Helper()
	return h.write(h.sourceDir, name, content)
}

func (h *TestHelper) CreateTargetFile(name, content string) string {
	h.t.Helper()
	return h.write(h.targetDir, name, content)
}

func (h *TestHelper) SetModTime(path string, modTime time.Time) {
	h.t.Helper()
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		h.t.Fatalf("failed to set mod time: %v", err)
	}
}

func (h *TestHelper) SourcePath(name string) string {
	return filepath.Join(h.sourceDir, filepath.FromSlash(name))
}

func (h *TestHelper) TargetPath(name string) string {
	return filepath.Join(h.targetDir, filepath.FromSlash(name))
}

func (h *TestHelper) ReadTarget(name string) string {
	h.t.Helper()
	content, err := os.ReadFile(h.TargetPath(name))
	if err != nil {
		h.t.Fatalf("failed to read target file: %v", err)
	}
	return string(content)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Run executes mode with opts and fails the test on a configuration error
func (h *TestHelper) Run(mode models.Mode, opts models.Options) *models.Report {
	h.t.Helper()
	report, err := h.RunErr(mode, opts)
	if err != nil {
		h.t.Fatalf("Run(%s) error = %v", mode, err)
	}
	return report
}

// RunErr executes mode with opts against the helper's roots
func (h *TestHelper) RunErr(mode models.Mode, opts models.Options) (*models.Report, error) {
	return h.RunWith(mode, opts, h.targetDir, logging.NewNullLogger())
}

func (h *TestHelper) RunWith(mode models.Mode, opts models.Options, targetDir string, logger logging.Logger) (*models.Report, error) {
	source, err := storage.NewLocal(h.sourceDir)
	if err != nil {
		return nil, err
	}
	target, err := storage.NewLocal(targetDir)
	if err != nil {
		return nil, err
	}

	engine, err := NewEngine(source, target, mode, opts, output.NewHumanFormatter(io.Discard), logger)
	if err != nil {
		return nil, err
	}
	return engine.Run(context.Background())
}

// entrySnapshot captures what a run could change about an entry
type entrySnapshot struct {
	mode    os.FileMode
	modTime time.Time
	content string
}

// Snapshot records every entry under root
func (h *TestHelper) Snapshot(root string) map[string]entrySnapshot {
	h.t.Helper()
	out := make(map[string]entrySnapshot)
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		snap := entrySnapshot{mode: info.Mode(), modTime: info.ModTime()}
		if info.Mode().IsRegular() {
			content, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			snap.content = string(content)
		}
		out[p] = snap
		return nil
	})
	if err != nil {
		h.t.Fatalf("failed to snapshot %s: %v", root, err)
	}
	return out
}

func sorted(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}
