package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/sdejongh/dirsync/internal/platform"
)

// Local is a filesystem-based storage backend
type Local struct {
	rootPath string
}

// NewLocal creates a new local filesystem backend. The root does not have
// to exist yet; a missing root walks as an empty tree.
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	return &Local{rootPath: platform.NormalizePath(absPath)}, nil
}

// Root returns the absolute root path
func (l *Local) Root() string {
	return l.rootPath
}

func (l *Local) full(path string) string {
	return platform.Join(l.rootPath, path)
}

// Walk yields every entry below the root
func (l *Local) Walk(ctx context.Context, prune PruneFunc) iter.Seq[FileInfo] {
	return func(yield func(FileInfo) bool) {
		_ = filepath.WalkDir(l.rootPath, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				// Vanished or unreadable entries are skipped silently
				return nil
			}
			if p == l.rootPath {
				return nil
			}

			relPath, err := platform.RelSlash(l.rootPath, p)
			if err != nil {
				return nil
			}

			if prune != nil && prune(relPath, d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}

			if !yield(l.describe(p, relPath, info)) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

const specialModes = fs.ModeNamedPipe | fs.ModeSocket | fs.ModeDevice | fs.ModeCharDevice | fs.ModeIrregular

func (l *Local) describe(fullPath, relPath string, info os.FileInfo) FileInfo {
	atime, ctime := statTimes(fullPath, info)
	fi := FileInfo{
		Path:         fullPath,
		RelativePath: relPath,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		AccessTime:   atime,
		ChangeTime:   ctime,
		IsDir:        info.IsDir(),
		IsSymlink:    info.Mode()&fs.ModeSymlink != 0,
		IsSpecial:    info.Mode()&specialModes != 0,
		Permissions:  uint32(info.Mode().Perm()),
	}
	if fi.IsSymlink {
		if target, err := os.Readlink(fullPath); err == nil {
			fi.LinkTarget = target
		}
	}
	return fi
}

// Stat returns entry metadata without following symbolic links
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	fullPath := l.full(path)

	info, err := os.Lstat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	relPath, err := platform.RelSlash(l.rootPath, fullPath)
	if err != nil {
		return nil, err
	}

	fi := l.describe(fullPath, relPath, info)
	return &fi, nil
}

// Exists checks if an entry exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(l.full(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(l.full(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Write creates or replaces a file through a temporary sibling and a rename
func (l *Local) Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error {
	fullPath := l.full(path)

	tmp := filepath.Join(filepath.Dir(fullPath), "."+filepath.Base(fullPath)+".dirsync.tmp")
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(file, reader)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if size >= 0 && written != size {
		_ = os.Remove(tmp)
		return fmt.Errorf("incomplete write: expected %d bytes, wrote %d", size, written)
	}

	if metadata != nil {
		if metadata.Permissions != 0 {
			if err := os.Chmod(tmp, metadata.Mode()); err != nil {
				_ = os.Remove(tmp)
				return fmt.Errorf("failed to set permissions: %w", err)
			}
		}

		if !metadata.ModTime.IsZero() {
			atime := metadata.AccessTime
			if atime.IsZero() {
				atime = metadata.ModTime
			}
			if err := os.Chtimes(tmp, atime, metadata.ModTime); err != nil {
				_ = os.Remove(tmp)
				return fmt.Errorf("failed to set modification time: %w", err)
			}
		}
	}

	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}

// Symlink creates a symbolic link at path pointing to target
func (l *Local) Symlink(ctx context.Context, path, target string) error {
	fullPath := l.full(path)

	if info, err := os.Lstat(fullPath); err == nil && !info.IsDir() {
		if err := os.Remove(fullPath); err != nil {
			return fmt.Errorf("failed to replace link: %w", err)
		}
	}

	if err := os.Symlink(target, fullPath); err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// MkdirAll creates a directory and all necessary parents
func (l *Local) MkdirAll(ctx context.Context, path string) error {
	if err := os.MkdirAll(l.full(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

// Chmod changes the permission bits of an entry
func (l *Local) Chmod(ctx context.Context, path string, mode fs.FileMode) error {
	if err := os.Chmod(l.full(path), mode); err != nil {
		return fmt.Errorf("failed to change permissions: %w", err)
	}

	return nil
}

// Remove deletes a single entry
func (l *Local) Remove(ctx context.Context, path string) error {
	if err := os.Remove(l.full(path)); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// RemoveAll deletes an entry and its subtree
func (l *Local) RemoveAll(ctx context.Context, path string) error {
	if err := os.RemoveAll(l.full(path)); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}
