package storage

import (
	"context"
	"io"
	"io/fs"
	"iter"
	"time"
)

// FileInfo represents metadata about a file, directory or symbolic link.
// Symbolic links are described, not followed.
type FileInfo struct {
	Path         string
	RelativePath string // slash-separated, relative to the backend root
	Size         int64
	ModTime      time.Time
	AccessTime   time.Time
	// ChangeTime is the creation time where the platform records one and
	// the inode change time elsewhere
	ChangeTime  time.Time
	IsDir       bool
	IsSymlink   bool
	// IsSpecial marks named pipes, sockets and devices
	IsSpecial   bool
	LinkTarget  string
	Permissions uint32
}

// IsRegular reports whether the entry is a plain file
func (f *FileInfo) IsRegular() bool {
	return !f.IsDir && !f.IsSymlink && !f.IsSpecial
}

// Mode returns the permission bits as an fs.FileMode
func (f *FileInfo) Mode() fs.FileMode {
	return fs.FileMode(f.Permissions)
}

// PruneFunc decides whether a walked entry is skipped. Returning true for a
// directory also skips everything beneath it.
type PruneFunc func(relativePath string, isDir bool) bool

// Backend defines the interface for storage operations.
// All paths are slash-separated and relative to the backend root; the empty
// path names the root itself.
type Backend interface {
	// Root returns the absolute root path
	Root() string

	// Walk lazily yields every entry below the root, parents before
	// children. Entries that cannot be stat'ed are skipped. Ranging over the
	// sequence again restarts the walk.
	Walk(ctx context.Context, prune PruneFunc) iter.Seq[FileInfo]

	// Stat returns entry metadata without following symbolic links
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks if an entry exists
	Exists(ctx context.Context, path string) (bool, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write atomically creates or replaces a file with the given content.
	// If metadata is provided, permissions and timestamps are preserved.
	Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error

	// Symlink creates a symbolic link, replacing any existing non-directory entry
	Symlink(ctx context.Context, path, target string) error

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Chmod changes the permission bits of an entry
	Chmod(ctx context.Context, path string, mode fs.FileMode) error

	// Remove deletes a single file, link or empty directory
	Remove(ctx context.Context, path string) error

	// RemoveAll deletes an entry and everything beneath it
	RemoveAll(ctx context.Context, path string) error

	// Close releases any resources held by the backend
	Close() error
}
