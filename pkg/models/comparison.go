package models

import (
	"sort"
)

// PathSet is a set of slash-separated relative paths
type PathSet map[string]struct{}

// Add inserts a path
func (s PathSet) Add(path string) {
	s[path] = struct{}{}
}

// Has reports whether the path is in the set
func (s PathSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Sorted returns the members in lexical order. Parents always sort before
// their children, which the executor relies on.
func (s PathSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ComparisonResult is the three-way partition of two trees. The sets are
// pairwise disjoint.
type ComparisonResult struct {
	// LeftOnly holds paths accepted under the source root only
	LeftOnly PathSet
	// RightOnly holds paths accepted under the target root only
	RightOnly PathSet
	// Common holds paths present under both roots
	Common PathSet
}

// NewComparisonResult partitions left and right. Both inputs are consumed.
func NewComparisonResult(left, right PathSet) *ComparisonResult {
	common := make(PathSet)
	for p := range left {
		if right.Has(p) {
			common.Add(p)
		}
	}
	for p := range common {
		delete(left, p)
		delete(right, p)
	}
	return &ComparisonResult{
		LeftOnly:  left,
		RightOnly: right,
		Common:    common,
	}
}
