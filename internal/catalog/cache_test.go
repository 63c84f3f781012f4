package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clasit/syllabus-manager/internal/app/models"
)

type fakeFetcher struct {
	courses []models.Course
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context, scope models.Scope, overrides map[string]string) ([]models.Course, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.courses, nil
}

type fakeStore struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (s *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	data, ok := s.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}

func (s *fakeStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func sampleCourses() []models.Course {
	return []models.Course{
		{
			Code:  "ABE2062",
			Title: "Biology and Global Change",
			Sections: []models.Section{
				{Number: "1234", SectionID: "2261-ABE2062-1234", Instructors: []string{"John Smith"}},
			},
		},
	}
}

func TestCacheFetchesOnceWithinTTL(t *testing.T) {
	fetcher := &fakeFetcher{courses: sampleCourses()}
	store := newFakeStore()
	cache := NewCache(fetcher, store, time.Hour)

	scope := models.Scope{Term: "2261", Department: "011690003", Level: "UGRD"}
	ctx := context.Background()

	first, err := cache.Courses(ctx, scope, nil)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, fetcher.calls)

	// Second call is served from the store, no revalidation
	second, err := cache.Courses(ctx, scope, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.calls)

	// The entry lives under the scope's key
	_, ok := store.data[scope.CacheKey()]
	assert.True(t, ok)
}

func TestCacheKeyIgnoresOverrides(t *testing.T) {
	fetcher := &fakeFetcher{courses: sampleCourses()}
	store := newFakeStore()
	cache := NewCache(fetcher, store, time.Hour)

	scope := models.Scope{Term: "2261", Department: "011690003", Level: "UGRD"}
	ctx := context.Background()

	_, err := cache.Courses(ctx, scope, map[string]string{"category": "CWSP"})
	require.NoError(t, err)

	// A different override set aliases onto the same entry and is served
	// from the store without another fetch.
	_, err = cache.Courses(ctx, scope, map[string]string{"category": "RES"})
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCacheFetchFailureLeavesStoreUntouched(t *testing.T) {
	fetchErr := errors.New("feed down")
	fetcher := &fakeFetcher{err: fetchErr}
	store := newFakeStore()
	cache := NewCache(fetcher, store, time.Hour)

	scope := models.Scope{Term: "2261", Department: "011690003", Level: "UGRD"}
	_, err := cache.Courses(context.Background(), scope, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
	assert.Empty(t, store.data)
	assert.Equal(t, 0, store.sets)

	// The next call retries the feed: no negative caching
	fetcher.err = nil
	fetcher.courses = sampleCourses()
	courses, err := cache.Courses(context.Background(), scope, nil)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, 2, fetcher.calls)
}

func TestCacheStoreUnavailableForcesFetch(t *testing.T) {
	fetcher := &fakeFetcher{courses: sampleCourses()}
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	cache := NewCache(fetcher, store, time.Hour)

	scope := models.Scope{Term: "2261", Department: "011690003", Level: "UGRD"}

	// An unavailable store degrades to a fetch per call and never surfaces
	// as an error.
	for i := 0; i < 2; i++ {
		courses, err := cache.Courses(context.Background(), scope, nil)
		require.NoError(t, err)
		assert.Len(t, courses, 1)
	}
	assert.Equal(t, 2, fetcher.calls)
}

func TestCacheDiscardsBadEntries(t *testing.T) {
	scope := models.Scope{Term: "2261", Department: "011690003", Level: "UGRD"}

	tests := []struct {
		name  string
		entry []byte
	}{
		{name: "empty entry", entry: []byte{}},
		{name: "undecodable entry", entry: []byte("not json")},
		{name: "empty list", entry: []byte("[]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{courses: sampleCourses()}
			store := newFakeStore()
			store.data[scope.CacheKey()] = tt.entry
			cache := NewCache(fetcher, store, time.Hour)

			courses, err := cache.Courses(context.Background(), scope, nil)
			require.NoError(t, err)
			assert.Len(t, courses, 1)
			assert.Equal(t, 1, fetcher.calls)
		})
	}
}

func TestCacheGetFlattens(t *testing.T) {
	fetcher := &fakeFetcher{courses: []models.Course{
		{
			Code:  "ABE2062",
			Title: "Biology and Global Change",
			Sections: []models.Section{
				{Number: "1234", SectionID: "2261-ABE2062-1234", Instructors: []string{"A"}},
				{Number: "5678", SectionID: "2261-ABE2062-5678", Instructors: []string{"B"}},
			},
		},
	}}
	store := newFakeStore()
	cache := NewCache(fetcher, store, time.Hour)

	scope := models.Scope{Term: "2261", Department: "011690003", Level: "UGRD"}
	sections, err := cache.Get(context.Background(), scope, nil)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	got := sections["2261-ABE2062-5678"]
	assert.Equal(t, "ABE2062", got.CourseCode)
	assert.Equal(t, "Biology and Global Change", got.CourseTitle)
	assert.Equal(t, "5678", got.SectionNumber)
	assert.Equal(t, []string{"B"}, got.Instructors)
}

func TestFlattenLastWins(t *testing.T) {
	courses := []models.Course{
		{
			Code:  "ABE2062",
			Title: "First Title",
			Sections: []models.Section{
				{Number: "1234", SectionID: "2261-ABE2062-1234", Instructors: []string{"A"}},
			},
		},
		{
			Code:  "ABE2062",
			Title: "Second Title",
			Sections: []models.Section{
				{Number: "1234", SectionID: "2261-ABE2062-1234", Instructors: []string{"B"}},
			},
		},
	}

	sections := Flatten(courses)
	require.Len(t, sections, 1)
	assert.Equal(t, "Second Title", sections["2261-ABE2062-1234"].CourseTitle)
	assert.Equal(t, []string{"B"}, sections["2261-ABE2062-1234"].Instructors)
}

func TestCacheRoundTripsThroughStore(t *testing.T) {
	fetcher := &fakeFetcher{courses: sampleCourses()}
	store := newFakeStore()
	cache := NewCache(fetcher, store, time.Hour)

	scope := models.Scope{Term: "2261", Department: "011690003", Level: "UGRD"}
	_, err := cache.Courses(context.Background(), scope, nil)
	require.NoError(t, err)

	var stored []models.Course
	require.NoError(t, json.Unmarshal(store.data[scope.CacheKey()], &stored))
	assert.Equal(t, sampleCourses(), stored)
}
