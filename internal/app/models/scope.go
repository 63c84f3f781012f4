package models

import "fmt"

// Scope identifies one catalog slice: a semester term, a department and a
// program level. It is both the cache key and the local-record filter, so
// two lookups with the same scope address the same logical data set.
type Scope struct {
	Term       string `json:"term"`
	Department string `json:"department"`
	Level      string `json:"level"`
}

// CacheKey returns the cache entry key for this scope. Filter overrides are
// excluded, so distinct filter sets sharing a scope alias to one cache
// entry; callers relying on override-specific results must bypass the cache.
func (s Scope) CacheKey() string {
	return fmt.Sprintf("catalog_%s_%s_%s", s.Term, s.Department, s.Level)
}

// SectionID derives the join key for one course section within a scope.
func SectionID(term, courseCode, sectionNumber string) string {
	return fmt.Sprintf("%s-%s-%s", term, courseCode, sectionNumber)
}
