package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/pkg/logger"
)

// ErrCacheMiss reports that no entry exists for a key. Store
// implementations must return it for absent keys so the cache can tell a
// miss from an unavailable store.
var ErrCacheMiss = errors.New("cache miss")

// Fetcher abstracts the feed client so the cache can be tested against a
// fake feed.
type Fetcher interface {
	Fetch(ctx context.Context, scope models.Scope, overrides map[string]string) ([]models.Course, error)
}

// Store is the expiring key/value store behind the cache. Values are
// opaque bytes keyed by opaque strings; nothing else is required of it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache wraps the feed client with a keyed, time-expiring cache of course
// lists. One entry per scope; overrides do not participate in the key (see
// Scope.CacheKey). Store failures degrade to a fresh fetch, fetch failures
// leave the store untouched.
type Cache struct {
	fetcher Fetcher
	store   Store
	ttl     time.Duration
	group   singleflight.Group
}

// NewCache creates a catalog cache with the given entry TTL.
func NewCache(fetcher Fetcher, store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		fetcher: fetcher,
		store:   store,
		ttl:     ttl,
	}
}

// Courses returns the cached course list for a scope, fetching and storing
// it on a miss. A cache hit is returned as-is with no revalidation against
// the feed.
func (c *Cache) Courses(ctx context.Context, scope models.Scope, overrides map[string]string) ([]models.Course, error) {
	key := scope.CacheKey()

	if courses, ok := c.lookup(ctx, key); ok {
		return courses, nil
	}

	// Concurrent misses for the same scope share one fetch.
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		courses, err := c.fetcher.Fetch(ctx, scope, overrides)
		if err != nil {
			// No negative caching: the entry stays as it was and the
			// next call retries the feed.
			return nil, err
		}
		c.put(ctx, key, courses)
		return courses, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Course), nil
}

// Get returns the scope's catalog flattened to one record per section ID.
// When the feed repeats a section ID within one response, the later
// occurrence wins.
func (c *Cache) Get(ctx context.Context, scope models.Scope, overrides map[string]string) (map[string]models.CatalogSection, error) {
	courses, err := c.Courses(ctx, scope, overrides)
	if err != nil {
		return nil, err
	}
	return Flatten(courses), nil
}

// lookup reads and decodes an existing entry. An absent, empty or
// undecodable entry is a miss; an unavailable store is a forced miss and
// never an error for the caller.
func (c *Cache) lookup(ctx context.Context, key string) ([]models.Course, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logger.Warn().Err(err).Str("key", key).Msg("Cache store unavailable, falling through to feed")
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var courses []models.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return nil, false
	}
	if len(courses) == 0 {
		return nil, false
	}
	return courses, true
}

// put stores a fetched course list best-effort; a failed write only costs
// the next caller a refetch.
func (c *Cache) put(ctx context.Context, key string, courses []models.Course) {
	data, err := json.Marshal(courses)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to encode catalog entry")
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to write catalog cache entry")
	}
}

// Flatten builds the per-scope section mapping from a course list,
// preserving exactly one record per section ID with last-wins collision
// handling.
func Flatten(courses []models.Course) map[string]models.CatalogSection {
	sections := make(map[string]models.CatalogSection)
	for _, course := range courses {
		for _, section := range course.Sections {
			sections[section.SectionID] = models.CatalogSection{
				SectionID:     section.SectionID,
				CourseCode:    course.Code,
				CourseTitle:   course.Title,
				SectionNumber: section.Number,
				Instructors:   section.Instructors,
			}
		}
	}
	return sections
}
