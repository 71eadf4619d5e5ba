package compare

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/sdejongh/dirsync/pkg/filter"
	"github.com/sdejongh/dirsync/pkg/storage"
)

// TestHelper provides utilities for comparator tests
type TestHelper struct {
	t         *testing.T
	sourceDir string
	targetDir string
	source    *storage.Local
	target    *storage.Local
}

// NewTestHelper creates a new test helper with temporary directories
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

	source, err := storage.NewLocal(sourceDir)
	if err != nil {
		t.Fatalf("failed to create source backend: %v", err)
	}
	target, err := storage.NewLocal(targetDir)
	if err != nil {
		t.Fatalf("failed to create target backend: %v", err)
	}

	return &TestHelper{
		t:         t,
		sourceDir: sourceDir,
		targetDir: targetDir,
		source:    source,
		target:    target,
	}
}

// CreateFile creates a file under the source or target root
func (h *TestHelper) CreateFile(inSource bool, name, content string) string {
	h.t.Helper()
	root := h.targetDir
	if inSource {
		root = h.sourceDir
	}
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
	return path
}

// SetModTime sets the modification time of a file
func (h *TestHelper) SetModTime(path string, modTime time.Time) {
	h.t.Helper()
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		h.t.Fatalf("failed to set mod time: %v", err)
	}
}

func mustFilter(t *testing.T, only, include, exclude, ignore []string) *filter.Filter {
	t.Helper()
	f, err := filter.New(only, include, exclude, ignore)
	if err != nil {
		t.Fatalf("filter.New() error = %v", err)
	}
	return f
}

func TestNewer(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		a, b        storage.FileInfo
		modTimeOnly bool
		want        bool
	}{
		{
			name: "ModTimeNewer",
			a:    storage.FileInfo{ModTime: base.Add(time.Second), ChangeTime: base},
			b:    storage.FileInfo{ModTime: base},
			want: true,
		},
		{
			name: "SubMillisecondIgnored",
			a:    storage.FileInfo{ModTime: base.Add(500 * time.Microsecond), ChangeTime: base},
			b:    storage.FileInfo{ModTime: base},
			want: false,
		},
		{
			name: "Equal",
			a:    storage.FileInfo{ModTime: base, ChangeTime: base},
			b:    storage.FileInfo{ModTime: base},
			want: false,
		},
		{
			name: "Older",
			a:    storage.FileInfo{ModTime: base.Add(-time.Hour), ChangeTime: base.Add(-time.Hour)},
			b:    storage.FileInfo{ModTime: base},
			want: false,
		},
		{
			name: "ChangeTimeNewer",
			a:    storage.FileInfo{ModTime: base.Add(-time.Hour), ChangeTime: base.Add(time.Minute)},
			b:    storage.FileInfo{ModTime: base},
			want: true,
		},
		{
			name:        "ChangeTimeIgnoredWithModTimeOnly",
			a:           storage.FileInfo{ModTime: base.Add(-time.Hour), ChangeTime: base.Add(time.Minute)},
			b:           storage.FileInfo{ModTime: base},
			modTimeOnly: true,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Newer(&tt.a, &tt.b, tt.modTimeOnly); got != tt.want {
				t.Errorf("Newer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimestampComparator(t *testing.T) {
	h := NewTestHelper(t)
	ctx := context.Background()
	comparator := NewTimestampComparator(true)

	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now().Add(-time.Hour)

	src := h.CreateFile(true, "a.txt", "new")
	dst := h.CreateFile(false, "a.txt", "old")
	h.SetModTime(src, recent)
	h.SetModTime(dst, old)

	cmp, err := comparator.Compare(ctx, h.source, h.target, "a.txt")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !cmp.SourceNewer || cmp.TargetNewer {
		t.Errorf("SourceNewer = %v, TargetNewer = %v, want true, false", cmp.SourceNewer, cmp.TargetNewer)
	}

	h.SetModTime(src, old)
	h.SetModTime(dst, old)
	cmp, err = comparator.Compare(ctx, h.source, h.target, "a.txt")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if cmp.SourceNewer || cmp.TargetNewer {
		t.Errorf("identical timestamps should not be newer: %s", cmp.Reason)
	}

	if _, err := comparator.Compare(ctx, h.source, h.target, "missing.txt"); err == nil {
		t.Error("Compare() should fail when the path is missing")
	}

	if comparator.Name() != "timestamp" {
		t.Errorf("Name() = %s, want timestamp", comparator.Name())
	}
}

func TestTrees(t *testing.T) {
	t.Run("Partition", func(t *testing.T) {
		h := NewTestHelper(t)
		h.CreateFile(true, "common.txt", "s")
		h.CreateFile(false, "common.txt", "t")
		h.CreateFile(true, "dir/new.txt", "s")
		h.CreateFile(false, "stale.txt", "t")

		result, dirs := Trees(context.Background(), h.source, h.target, mustFilter(t, nil, nil, nil, nil))

		if got, want := result.LeftOnly.Sorted(), []string{"dir", "dir/new.txt"}; !reflect.DeepEqual(got, want) {
			t.Errorf("LeftOnly = %v, want %v", got, want)
		}
		if got, want := result.RightOnly.Sorted(), []string{"stale.txt"}; !reflect.DeepEqual(got, want) {
			t.Errorf("RightOnly = %v, want %v", got, want)
		}
		if got, want := result.Common.Sorted(), []string{"common.txt"}; !reflect.DeepEqual(got, want) {
			t.Errorf("Common = %v, want %v", got, want)
		}
		if dirs != 2 {
			t.Errorf("dirs = %d, want 2 (root and dir)", dirs)
		}
	})

	t.Run("AncestorsAddedForAcceptedFiles", func(t *testing.T) {
		h := NewTestHelper(t)
		h.CreateFile(true, "a/b/keep.txt", "x")
		h.CreateFile(true, "a/b/drop.txt", "x")

		// only accepts the file itself, not its parents
		f := mustFilter(t, []string{`a/b/keep\.txt`}, nil, nil, nil)
		result, _ := Trees(context.Background(), h.source, h.target, f)

		want := []string{"a", "a/b", "a/b/keep.txt"}
		if got := result.LeftOnly.Sorted(); !reflect.DeepEqual(got, want) {
			t.Errorf("LeftOnly = %v, want %v", got, want)
		}
	})

	t.Run("ExcludeAppliesToSourceOnly", func(t *testing.T) {
		h := NewTestHelper(t)
		h.CreateFile(true, "build.log", "s")
		h.CreateFile(false, "build.log", "t")

		f := mustFilter(t, nil, nil, []string{`.*\.log`}, nil)
		result, _ := Trees(context.Background(), h.source, h.target, f)

		if !result.RightOnly.Has("build.log") {
			t.Error("excluded source path should show up as right-only")
		}
		if len(result.Common) != 0 || len(result.LeftOnly) != 0 {
			t.Errorf("unexpected sets: left=%v common=%v", result.LeftOnly.Sorted(), result.Common.Sorted())
		}
	})

	t.Run("IgnoredTargetDirectoryPruned", func(t *testing.T) {
		h := NewTestHelper(t)
		h.CreateFile(false, ".svn/entries", "t")
		h.CreateFile(false, ".svn/pristine/x", "t")
		h.CreateFile(false, "other.txt", "t")

		f := mustFilter(t, nil, nil, nil, []string{`\.svn$`})
		result, _ := Trees(context.Background(), h.source, h.target, f)

		want := []string{"other.txt"}
		if got := result.RightOnly.Sorted(); !reflect.DeepEqual(got, want) {
			t.Errorf("RightOnly = %v, want %v", got, want)
		}
	})

	t.Run("Disjoint", func(t *testing.T) {
		h := NewTestHelper(t)
		for _, name := range []string{"x/1", "x/2", "y/3", "z"} {
			h.CreateFile(true, name, "s")
		}
		for _, name := range []string{"x/1", "y/4", "w"} {
			h.CreateFile(false, name, "t")
		}

		result, _ := Trees(context.Background(), h.source, h.target, mustFilter(t, nil, nil, nil, nil))

		for p := range result.LeftOnly {
			if result.RightOnly.Has(p) || result.Common.Has(p) {
				t.Errorf("%s is in more than one set", p)
			}
		}
		for p := range result.RightOnly {
			if result.Common.Has(p) {
				t.Errorf("%s is in more than one set", p)
			}
		}
	})
}
