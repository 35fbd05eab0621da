package artifact

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
)

/* Patterns support * and ** wildcards:
- * matches files in the current directory only (single level)
- ** matches files in all subdirectories recursively (multi-level)
*/

// Filter restricts which descriptor files are turned into families. Paths
// are matched relative to the discovery root, slash-separated.
type Filter struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Match reports whether relPath passes the filter. A nil filter matches
// everything; an empty include list means "include all".
func (f *Filter) Match(relPath string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchesPattern(relPath, f.Include) {
		return false
	}
	if len(f.Exclude) > 0 && matchesPattern(relPath, f.Exclude) {
		return false
	}
	return true
}

func matchesPattern(filePath string, patterns []string) bool {
	// removing leading slashes
	normalizedPath := strings.TrimPrefix(filePath, "/")

	for _, pattern := range patterns {
		normalizedPattern := strings.TrimPrefix(pattern, "/")

		// Validate pattern - only * and ** wildcards are supported
		if containsUnsupportedWildcards(normalizedPattern) {
			log.Warn().Str("pattern", pattern).
				Msg("Pattern contains unsupported wildcard characters. Only * and ** are supported")
			continue
		}

		// The library handles * and ** natively
		g, err := glob.Compile(normalizedPattern, '/')
		if err != nil {
			// If pattern compilation fails, skip this pattern
			continue
		}

		if g.Match(normalizedPath) {
			return true
		}
	}

	return false
}

// containsUnsupportedWildcards checks if pattern contains unsupported wildcard characters
// Only * and ** are supported. Characters like ?, [, ], {, } are not supported.
func containsUnsupportedWildcards(pattern string) bool {
	unsupportedChars := []rune{'?', '[', ']', '{', '}'}

	for _, char := range unsupportedChars {
		if strings.ContainsRune(pattern, char) {
			return true
		}
	}

	return false
}
