package tool

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreMatcher implements gitignore pattern matching using go-git's
// gitignore matcher. The project walkers use it so tree renderings and
// marker scans skip whatever the repository itself ignores.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// NewIgnoreMatcher loads .gitignore from root. If the file doesn't exist
// the matcher never ignores; that is not an error.
func NewIgnoreMatcher(root string) *IgnoreMatcher {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return &IgnoreMatcher{matcher: nil}
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if p := gitignore.ParsePattern(line, nil); p != nil {
			patterns = append(patterns, p)
		}
	}

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(patterns)}
}

// Ignored checks whether a path relative to the matcher's root matches any
// gitignore pattern. Returns false if no .gitignore was loaded.
func (m *IgnoreMatcher) Ignored(relativePath string, isDir bool) bool {
	if m.matcher == nil {
		return false
	}
	return m.matcher.Match(splitPathSegments(relativePath), isDir)
}

// splitPathSegments normalizes separators and drops empty and "." segments
// for gitignore matching.
func splitPathSegments(path string) []string {
	normalized := filepath.ToSlash(path)
	parts := strings.Split(normalized, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
