package lib

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter matches slash-separated paths against a glob pattern.
//
//	*      any run of characters except '/'
//	**/    zero or more directories
//	{a,b}  alternatives, which may nest
type PathFilter struct {
	pattern string
}

func NewPathFilter(pattern string) (*PathFilter, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	return &PathFilter{pattern: pattern}, nil
}

func (f *PathFilter) Pattern() string { return f.pattern }

func (f *PathFilter) Match(path string) bool {
	return doublestar.MatchUnvalidated(f.pattern, path)
}

// Filter returns the paths that match, in input order.
func (f *PathFilter) Filter(paths []string) []string {
	var out []string
	for _, p := range paths {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// MatchAny reports whether path matches any of the filters.
func MatchAny(filters []*PathFilter, path string) bool {
	for _, f := range filters {
		if f.Match(path) {
			return true
		}
	}
	return false
}
