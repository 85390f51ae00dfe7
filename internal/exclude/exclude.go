// Package exclude decides which directory entries tidy leaves alone.
package exclude

import (
	"path/filepath"
	"strings"
)

// Filter matches entry names against exclude patterns.
type Filter struct {
	patterns []string
}

// New creates a Filter. Empty patterns are dropped.
func New(patterns []string) *Filter {
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return &Filter{patterns: kept}
}

// ShouldExclude reports whether the entry at path is excluded. Only the base
// name is considered. A pattern excludes a name it occurs in ("node_modules"
// excludes "node_modules" and "old_node_modules") or a name it matches as a
// glob ("*.part" excludes "movie.part").
func (f *Filter) ShouldExclude(path string) bool {
	if f == nil {
		return false
	}
	name := filepath.Base(path)

	for _, pattern := range f.patterns {
		if strings.Contains(name, pattern) {
			return true
		}
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the active patterns.
func (f *Filter) Patterns() []string {
	result := make([]string, len(f.patterns))
	copy(result, f.patterns)
	return result
}

// Add appends a pattern. Empty patterns are ignored.
func (f *Filter) Add(pattern string) {
	if strings.TrimSpace(pattern) != "" {
		f.patterns = append(f.patterns, pattern)
	}
}
