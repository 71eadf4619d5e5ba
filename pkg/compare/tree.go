package compare

import (
	"context"

	"github.com/sdejongh/dirsync/internal/platform"
	"github.com/sdejongh/dirsync/pkg/filter"
	"github.com/sdejongh/dirsync/pkg/models"
	"github.com/sdejongh/dirsync/pkg/storage"
)

// Trees walks both roots and partitions the accepted paths into left-only,
// right-only and common sets. It also returns the number of directories
// visited under the source root, the root included.
//
// The source side is filtered with the full rule set and every accepted
// path brings its ancestor directories along, so parents of an accepted
// file are always present even when they would not pass the filter on
// their own. The target side only honours ignore patterns; ignored
// directories are not descended into.
func Trees(ctx context.Context, source, target storage.Backend, f *filter.Filter) (*models.ComparisonResult, int) {
	left := make(models.PathSet)
	dirs := 1

	for fi := range source.Walk(ctx, nil) {
		if fi.IsDir {
			dirs++
		}
		if !f.Accepts(fi.RelativePath) {
			continue
		}
		left.Add(fi.RelativePath)
		for _, dir := range platform.Ancestors(fi.RelativePath) {
			left.Add(dir)
		}
	}

	right := make(models.PathSet)
	ignored := func(relativePath string, isDir bool) bool {
		return f.IgnoredOnTarget(relativePath)
	}
	for fi := range target.Walk(ctx, ignored) {
		right.Add(fi.RelativePath)
	}

	return models.NewComparisonResult(left, right), dirs
}
