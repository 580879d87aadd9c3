// File: pkg/concat/excludes.go
package concat

import (
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// excludeBuckets is the fixed bucket count of the pattern table, a prime
// near 1024.
const excludeBuckets = 1021

// ExcludeSet is a hashed container of wildcard exclusion patterns. A path
// is excluded when any pattern matches either the whole relative path or
// its basename. Matching is case-insensitive on case-insensitive hosts
// and path separators are normalized to '/' before comparison.
type ExcludeSet struct {
	buckets  [excludeBuckets][]string
	count    int
	caseFold bool
	logger   *zap.Logger
}

// NewExcludeSet returns an empty pattern set. Case sensitivity follows
// the host filesystem.
func NewExcludeSet(logger *zap.Logger) *ExcludeSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExcludeSet{
		caseFold: runtime.GOOS == "windows" || runtime.GOOS == "darwin",
		logger:   logger,
	}
}

// djb2 over the raw pattern bytes.
func hashPattern(pattern string) uint32 {
	var hash uint32 = 5381
	for i := 0; i < len(pattern); i++ {
		hash = ((hash << 5) + hash) + uint32(pattern[i])
	}
	return hash % excludeBuckets
}

// Add inserts a pattern. Adding an identical pattern twice is a no-op.
func (s *ExcludeSet) Add(pattern string) {
	if pattern == "" {
		return
	}
	bucket := hashPattern(pattern)
	for _, existing := range s.buckets[bucket] {
		if existing == pattern {
			return
		}
	}
	s.buckets[bucket] = append(s.buckets[bucket], pattern)
	s.count++
}

// Len reports the number of distinct patterns held.
func (s *ExcludeSet) Len() int {
	return s.count
}

// Matches reports whether the relative path is excluded. Every pattern is
// tested against the normalized full path first, then against its
// basename.
func (s *ExcludeSet) Matches(relPath string) bool {
	path := s.normalize(relPath)

	for i := range s.buckets {
		for _, pattern := range s.buckets[i] {
			if matchPattern(s.normalize(pattern), path) {
				s.logger.Debug("Excluded (full path match)", zap.String("path", relPath), zap.String("pattern", pattern))
				return true
			}
		}
	}

	base := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		base = path[idx+1:]
	}
	if base != path {
		for i := range s.buckets {
			for _, pattern := range s.buckets[i] {
				if matchPattern(s.normalize(pattern), base) {
					s.logger.Debug("Excluded (basename match)", zap.String("path", relPath), zap.String("pattern", pattern))
					return true
				}
			}
		}
	}

	return false
}

// normalize converts separators to '/' and lowercases on
// case-insensitive hosts.
func (s *ExcludeSet) normalize(path string) string {
	path = filepath.ToSlash(path)
	if s.caseFold {
		path = strings.ToLower(path)
	}
	return path
}

// matchPattern is an iterative wildcard matcher supporting '*' (zero or
// more characters) and '?' (exactly one).
func matchPattern(pattern, str string) bool {
	var p, sIdx int
	starIdx, match := -1, 0

	for sIdx < len(str) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == str[sIdx]):
			p++
			sIdx++
		case p < len(pattern) && pattern[p] == '*':
			starIdx = p
			match = sIdx
			p++
		case starIdx != -1:
			p = starIdx + 1
			match++
			sIdx = match
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
