package compare

import (
	"context"
	"fmt"

	"github.com/sdejongh/dirsync/pkg/storage"
)

// TimestampComparator compares entries by modification time and, unless
// ModTimeOnly is set, by the creation/change time of the newer candidate
type TimestampComparator struct {
	ModTimeOnly bool
}

// NewTimestampComparator creates a new timestamp comparator
func NewTimestampComparator(modTimeOnly bool) *TimestampComparator {
	return &TimestampComparator{ModTimeOnly: modTimeOnly}
}

// Newer reports whether a should replace b. Differences below one
// millisecond are truncated away. Some filesystems report a creation time
// later than the modification time after a copy or restore, so a.ChangeTime
// is checked against b.ModTime as well.
func Newer(a, b *storage.FileInfo, modTimeOnly bool) bool {
	if a.ModTime.Sub(b.ModTime).Milliseconds() > 0 {
		return true
	}
	if modTimeOnly {
		return false
	}
	return a.ChangeTime.Sub(b.ModTime).Milliseconds() > 0
}

// Compare stats path under both roots and evaluates Newer in each direction
func (c *TimestampComparator) Compare(ctx context.Context, source, target storage.Backend, path string) (*Comparison, error) {
	sourceInfo, err := source.Stat(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	targetInfo, err := target.Stat(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	cmp := &Comparison{
		Path:        path,
		Source:      sourceInfo,
		Target:      targetInfo,
		SourceNewer: Newer(sourceInfo, targetInfo, c.ModTimeOnly),
		TargetNewer: Newer(targetInfo, sourceInfo, c.ModTimeOnly),
	}

	switch {
	case cmp.SourceNewer && cmp.TargetNewer:
		cmp.Reason = "both sides report a newer timestamp"
	case cmp.SourceNewer:
		cmp.Reason = fmt.Sprintf("source is newer (source: %s, target: %s)",
			sourceInfo.ModTime.Format("2006-01-02 15:04:05"), targetInfo.ModTime.Format("2006-01-02 15:04:05"))
	case cmp.TargetNewer:
		cmp.Reason = fmt.Sprintf("target is newer (source: %s, target: %s)",
			sourceInfo.ModTime.Format("2006-01-02 15:04:05"), targetInfo.ModTime.Format("2006-01-02 15:04:05"))
	default:
		cmp.Reason = "timestamps match"
	}

	return cmp, nil
}

// Name returns the comparator name
func (c *TimestampComparator) Name() string {
	return "timestamp"
}
