package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath normalizes a path for the current platform
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// RelSlash returns target relative to base with forward slashes
func RelSlash(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Ancestors returns the proper ancestor directories of a slash-separated
// relative path, outermost first. "a/b/c" yields ["a", "a/b"].
func Ancestors(rel string) []string {
	parts := strings.Split(strings.Trim(rel, "/"), "/")
	if len(parts) < 2 {
		return nil
	}
	out := make([]string, 0, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		out = append(out, strings.Join(parts[:i], "/"))
	}
	return out
}

// Join joins a root and a slash-separated relative path
func Join(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// CheckRoots rejects roots that resolve to the same directory
func CheckRoots(source, target string) error {
	sourceAbs, err := filepath.Abs(source)
	if err != nil {
		return &PathError{Path: source, Message: "cannot resolve: " + err.Error()}
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return &PathError{Path: target, Message: "cannot resolve: " + err.Error()}
	}

	if sourceAbs == targetAbs {
		return &PathError{Path: targetAbs, Message: "source and target cannot be the same"}
	}
	return nil
}

// NestedIn returns the slash-separated path of inner relative to outer when
// inner lies strictly below outer
func NestedIn(outer, inner string) (string, bool) {
	outerAbs, err := filepath.Abs(outer)
	if err != nil {
		return "", false
	}
	innerAbs, err := filepath.Abs(inner)
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(innerAbs, outerAbs+string(filepath.Separator)) {
		return "", false
	}
	rel, err := RelSlash(outerAbs, innerAbs)
	if err != nil {
		return "", false
	}
	return rel, true
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
