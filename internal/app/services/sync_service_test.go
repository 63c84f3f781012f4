package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/app/repositories"
	"github.com/clasit/syllabus-manager/internal/pkg/apperrors"
)

type fakeSectionStore struct {
	refs       []models.SectionRef
	refsErr    error
	created    []*models.CourseSection
	updated    []*models.CourseSection
	createErr  map[string]error
	updateErr  map[string]error
	nextRecord int64
}

func (f *fakeSectionStore) Create(ctx context.Context, section *models.CourseSection, scope models.Scope) error {
	if err := f.createErr[section.SectionID]; err != nil {
		return err
	}
	f.nextRecord++
	section.ID = f.nextRecord
	f.created = append(f.created, section)
	return nil
}

func (f *fakeSectionStore) Update(ctx context.Context, section *models.CourseSection) error {
	if err := f.updateErr[section.SectionID]; err != nil {
		return err
	}
	f.updated = append(f.updated, section)
	return nil
}

func (f *fakeSectionStore) FindRefsByScope(ctx context.Context, scope models.Scope) ([]models.SectionRef, error) {
	if f.refsErr != nil {
		return nil, f.refsErr
	}
	return f.refs, nil
}

type fakeCatalog struct {
	courses []models.Course
	err     error
}

func (f *fakeCatalog) Courses(ctx context.Context, scope models.Scope, overrides map[string]string) ([]models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.courses, nil
}

func (f *fakeCatalog) Get(ctx context.Context, scope models.Scope, overrides map[string]string) (map[string]models.CatalogSection, error) {
	if f.err != nil {
		return nil, f.err
	}
	sections := make(map[string]models.CatalogSection)
	for _, course := range f.courses {
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
	return sections, nil
}

func syncScope() models.Scope {
	return models.Scope{Term: "2261", Department: "011690003", Level: "UGRD"}
}

func twoCoursesTwoSectionsEach() []models.Course {
	return []models.Course{
		{
			Code:  "ABE2062",
			Title: "Biology and Global Change",
			Sections: []models.Section{
				{Number: "1234", SectionID: "2261-ABE2062-1234", Instructors: []string{"John Smith"}},
				{Number: "5678", SectionID: "2261-ABE2062-5678", Instructors: []string{"Jane Doe"}},
			},
		},
		{
			Code:  "ABE3000",
			Title: "Applied Engineering",
			Sections: []models.Section{
				{Number: "0001", SectionID: "2261-ABE3000-0001", Instructors: []string{models.NoInstructors}},
				{Number: "0002", SectionID: "2261-ABE3000-0002", Instructors: []string{"Ann Lee"}},
			},
		},
	}
}

func TestMatchIntersectsLocalAndFeed(t *testing.T) {
	store := &fakeSectionStore{
		refs: []models.SectionRef{
			{ID: 10, SectionID: "2261-ABE2062-1234"}, // in feed
			{ID: 11, SectionID: "2261-ABE3000-0002"}, // in feed
			{ID: 12, SectionID: "2261-GONE-0000"},    // dropped by the feed
		},
	}
	catalog := &fakeCatalog{courses: twoCoursesTwoSectionsEach()}
	svc := NewSyncService(store, catalog)

	matched, err := svc.Match(context.Background(), syncScope())
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{
		"2261-ABE2062-1234": 10,
		"2261-ABE3000-0002": 11,
	}, matched)
}

func TestMatchEmptyWhenNoLocalRecords(t *testing.T) {
	store := &fakeSectionStore{}
	catalog := &fakeCatalog{courses: twoCoursesTwoSectionsEach()}
	svc := NewSyncService(store, catalog)

	matched, err := svc.Match(context.Background(), syncScope())
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestMatchPropagatesFeedFailure(t *testing.T) {
	store := &fakeSectionStore{}
	catalog := &fakeCatalog{err: apperrors.ErrFetchFailed}
	svc := NewSyncService(store, catalog)

	_, err := svc.Match(context.Background(), syncScope())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFetchFailed)
}

func TestValidateScopeRejectsBlanks(t *testing.T) {
	svc := NewSyncService(&fakeSectionStore{}, &fakeCatalog{})

	scopes := []models.Scope{
		{Term: "", Department: "d", Level: "l"},
		{Term: "t", Department: " ", Level: "l"},
		{Term: "t", Department: "d", Level: ""},
		{},
	}
	for _, scope := range scopes {
		_, err := svc.Match(context.Background(), scope)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		_, err = svc.CreateCourses(context.Background(), scope)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		_, err = svc.UpdateCourses(context.Background(), scope)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	}
}

func TestCreateCoursesUsesFirstSectionOnly(t *testing.T) {
	store := &fakeSectionStore{}
	catalog := &fakeCatalog{courses: twoCoursesTwoSectionsEach()}
	svc := NewSyncService(store, catalog)

	result, err := svc.CreateCourses(context.Background(), syncScope())
	require.NoError(t, err)

	// Two courses with two sections each still yield exactly two records
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, store.created, 2)

	assert.Equal(t, "2261-ABE2062-1234", store.created[0].SectionID)
	assert.Equal(t, "ABE2062", store.created[0].CourseCode)
	assert.Equal(t, "Biology and Global Change", store.created[0].CourseTitle)
	assert.Equal(t, "2261-ABE3000-0001", store.created[1].SectionID)
}

func TestCreateCoursesSkipsSectionlessCourses(t *testing.T) {
	store := &fakeSectionStore{}
	catalog := &fakeCatalog{courses: []models.Course{
		{Code: "EMPTY100", Title: "No Sections"},
	}}
	svc := NewSyncService(store, catalog)

	result, err := svc.CreateCourses(context.Background(), syncScope())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Failed)
}

func TestCreateCoursesContinuesPastFailures(t *testing.T) {
	store := &fakeSectionStore{
		createErr: map[string]error{
			"2261-ABE2062-1234": repositories.ErrSectionAlreadyExists,
		},
	}
	catalog := &fakeCatalog{courses: twoCoursesTwoSectionsEach()}
	svc := NewSyncService(store, catalog)

	result, err := svc.CreateCourses(context.Background(), syncScope())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, store.created, 1)
	assert.Equal(t, "2261-ABE3000-0001", store.created[0].SectionID)
}

func TestCreateCoursesPropagatesFeedFailure(t *testing.T) {
	store := &fakeSectionStore{}
	catalog := &fakeCatalog{err: apperrors.ErrFetchFailed}
	svc := NewSyncService(store, catalog)

	_, err := svc.CreateCourses(context.Background(), syncScope())
	assert.ErrorIs(t, err, apperrors.ErrFetchFailed)
	assert.Empty(t, store.created)
}

func TestUpdateCoursesOverwritesMatchedRecords(t *testing.T) {
	store := &fakeSectionStore{
		refs: []models.SectionRef{
			{ID: 10, SectionID: "2261-ABE2062-1234"},
			{ID: 12, SectionID: "2261-GONE-0000"}, // unmatched, untouched
		},
	}
	catalog := &fakeCatalog{courses: twoCoursesTwoSectionsEach()}
	svc := NewSyncService(store, catalog)

	result, err := svc.UpdateCourses(context.Background(), syncScope())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, store.updated, 1)

	got := store.updated[0]
	assert.Equal(t, int64(10), got.ID)
	assert.Equal(t, "ABE2062", got.CourseCode)
	assert.Equal(t, "Biology and Global Change", got.CourseTitle)
	assert.Equal(t, "1234", got.SectionNumber)
	assert.Equal(t, []string{"John Smith"}, got.Instructors)
}

func TestUpdateCoursesContinuesPastFailures(t *testing.T) {
	store := &fakeSectionStore{
		refs: []models.SectionRef{
			{ID: 10, SectionID: "2261-ABE2062-1234"},
			{ID: 11, SectionID: "2261-ABE3000-0002"},
		},
		updateErr: map[string]error{
			"2261-ABE2062-1234": errors.New("write failed"),
		},
	}
	catalog := &fakeCatalog{courses: twoCoursesTwoSectionsEach()}
	svc := NewSyncService(store, catalog)

	result, err := svc.UpdateCourses(context.Background(), syncScope())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Failed)
}
