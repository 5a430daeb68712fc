package patch

import "strings"

// SkipRules is an ordered list of case-insensitive path suffixes.
// Files whose new path matches any rule have their hunk bodies elided
// from the annotated output to keep prompts small.
type SkipRules []string

// DefaultSkipRules covers generated dependency lock files, which are
// noisy and rarely worth model attention.
func DefaultSkipRules() SkipRules {
	return SkipRules{".lock", "lock.json"}
}

// Match reports whether the given file path matches any skip rule.
func (r SkipRules) Match(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range r {
		if strings.HasSuffix(lower, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}
