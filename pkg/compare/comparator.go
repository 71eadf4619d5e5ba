package compare

import (
	"context"

	"github.com/sdejongh/dirsync/pkg/storage"
)

// Comparison holds the result of comparing one path present in both trees
type Comparison struct {
	Path   string
	Source *storage.FileInfo
	Target *storage.FileInfo

	// SourceNewer and TargetNewer are evaluated independently; both may
	// be true for the same pair
	SourceNewer bool
	TargetNewer bool

	Reason string
}

// Comparator defines the interface for deciding which side of a common
// path is more recent
type Comparator interface {
	// Compare stats path under both roots and compares them
	Compare(ctx context.Context, source, target storage.Backend, path string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}
