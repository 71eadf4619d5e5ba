// Package filter classifies relative paths against the only, include,
// exclude and ignore pattern sets.
//
// Patterns are regular expressions matched at the start of the
// slash-separated relative path (they are not anchored at the end), so
// "build" matches "build", "build/x" and "builder".
package filter

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/sdejongh/dirsync/pkg/models"
)

// Verdict is the outcome of classifying a path
type Verdict int

const (
	// Include means the path takes part in the run
	Include Verdict = iota
	// Exclude means the path was rejected by the only gate or an exclude pattern
	Exclude
	// Ignore means the path was rejected by an ignore pattern
	Ignore
)

func (v Verdict) String() string {
	switch v {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Filter holds the compiled pattern sets
type Filter struct {
	only    []*regexp.Regexp
	include []*regexp.Regexp
	exclude []*regexp.Regexp
	ignore  []*regexp.Regexp
}

// New compiles the four pattern sets. An invalid expression is reported as
// a *models.ValidationError naming the set it came from.
func New(only, include, exclude, ignore []string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.only, err = compile("Only", only); err != nil {
		return nil, err
	}
	if f.include, err = compile("Include", include); err != nil {
		return nil, err
	}
	if f.exclude, err = compile("Exclude", exclude); err != nil {
		return nil, err
	}
	if f.ignore, err = compile("Ignore", ignore); err != nil {
		return nil, err
	}
	return f, nil
}

// FromOptions builds the filter for a run. The marker file pattern is
// appended to the exclude set.
func FromOptions(opts models.Options) (*Filter, error) {
	exclude := make([]string, 0, len(opts.Exclude)+1)
	exclude = append(exclude, opts.Exclude...)
	exclude = append(exclude, models.MarkerFilePattern)
	return New(opts.Only, opts.Include, exclude, opts.Ignore)
}

func compile(field string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)`)
		if err != nil {
			return nil, &models.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid pattern %q: %v", p, err),
			}
		}
		out = append(out, re)
	}
	return out, nil
}

// Classify applies the full rule set used on the source side
func (f *Filter) Classify(relativePath string) Verdict {
	path := filepath.ToSlash(relativePath)

	// only is a whitelist gate checked before anything else
	if len(f.only) > 0 && !matchAny(f.only, path) {
		return Exclude
	}
	if matchAny(f.include, path) {
		return Include
	}
	if matchAny(f.exclude, path) {
		return Exclude
	}
	if matchAny(f.ignore, path) {
		return Ignore
	}
	return Include
}

// Accepts reports whether Classify returns Include
func (f *Filter) Accepts(relativePath string) bool {
	return f.Classify(relativePath) == Include
}

// IgnoredOnTarget applies the target-side rule: only ignore patterns count
func (f *Filter) IgnoredOnTarget(relativePath string) bool {
	return matchAny(f.ignore, filepath.ToSlash(relativePath))
}

func matchAny(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
