package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/pkg/apperrors"
)

type fakeTermStore struct {
	terms     []*models.TaxonomyTerm
	upsertErr map[string]error
}

func (f *fakeTermStore) Upsert(ctx context.Context, term *models.TaxonomyTerm) error {
	if err := f.upsertErr[term.Slug]; err != nil {
		return err
	}
	f.terms = append(f.terms, term)
	return nil
}

func (f *fakeTermStore) ListByTaxonomy(ctx context.Context, taxonomy models.Taxonomy) ([]*models.TaxonomyTerm, error) {
	var out []*models.TaxonomyTerm
	for _, term := range f.terms {
		if term.Taxonomy == taxonomy {
			out = append(out, term)
		}
	}
	return out, nil
}

func TestImportTerms(t *testing.T) {
	store := &fakeTermStore{}
	svc := NewImportService(store)

	data := []byte(`{"terms": [
		{"CODE": "2261", "DESC": "Spring 2026"},
		{"CODE": "2268", "DESC": "Fall 2026"}
	]}`)

	imported, err := svc.Import(context.Background(), "terms", data)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	require.Len(t, store.terms, 2)

	assert.Equal(t, models.TaxonomySemester, store.terms[0].Taxonomy)
	assert.Equal(t, "2261", store.terms[0].Slug)
	// Non-department labels keep their raw casing
	assert.Equal(t, "Spring 2026", store.terms[0].Name)
	assert.Equal(t, "Spring 2026", store.terms[0].Description)
}

func TestImportProgLevels(t *testing.T) {
	store := &fakeTermStore{}
	svc := NewImportService(store)

	data := []byte(`{"progLevels": [{"CODE": "UGRD", "DESC": "Undergraduate"}]}`)

	imported, err := svc.Import(context.Background(), "progLevels", data)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, models.TaxonomyLevel, store.terms[0].Taxonomy)
	assert.Equal(t, "UGRD", store.terms[0].Slug)
}

func TestImportDepartmentsFormatsNames(t *testing.T) {
	store := &fakeTermStore{}
	svc := NewImportService(store)

	data := []byte(`{"departments": [
		{"CODE": "011690003", "DESC": "BOTANY-PLANT PATHOLOGY"},
		{"CODE": "011606000", "DESC": "LANGUAGES LIT/CULTURE"}
	]}`)

	imported, err := svc.Import(context.Background(), "departments", data)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	assert.Equal(t, models.TaxonomyDepartment, store.terms[0].Taxonomy)
	assert.Equal(t, "Botany-Plant Pathology", store.terms[0].Name)
	// Descriptions keep the raw label
	assert.Equal(t, "BOTANY-PLANT PATHOLOGY", store.terms[0].Description)

	// The corrections lookup rewrites known bad labels after title-casing
	assert.Equal(t, "Languages, Literatures, & Cultures", store.terms[1].Name)
}

func TestImportRejectsUnknownFilterName(t *testing.T) {
	svc := NewImportService(&fakeTermStore{})

	_, err := svc.Import(context.Background(), "factions", []byte(`{"factions": []}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrImportConfig)
}

func TestImportRejectsMalformedUploads(t *testing.T) {
	svc := NewImportService(&fakeTermStore{})

	tests := []struct {
		name string
		data []byte
	}{
		{name: "not json", data: []byte("not json at all")},
		{name: "wrong shape", data: []byte(`["terms"]`)},
		{name: "missing list", data: []byte(`{"departments": []}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(context.Background(), "terms", tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrImportUpload)
		})
	}
}

func TestImportSkipsFailedUpserts(t *testing.T) {
	store := &fakeTermStore{
		upsertErr: map[string]error{"2268": errors.New("write failed")},
	}
	svc := NewImportService(store)

	data := []byte(`{"terms": [
		{"CODE": "2261", "DESC": "Spring 2026"},
		{"CODE": "2268", "DESC": "Fall 2026"},
		{"CODE": "2271", "DESC": "Spring 2027"}
	]}`)

	imported, err := svc.Import(context.Background(), "terms", data)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	require.Len(t, store.terms, 2)
	assert.Equal(t, "2271", store.terms[1].Slug)
}

func TestListTerms(t *testing.T) {
	store := &fakeTermStore{}
	svc := NewImportService(store)

	data := []byte(`{"terms": [{"CODE": "2261", "DESC": "Spring 2026"}]}`)
	_, err := svc.Import(context.Background(), "terms", data)
	require.NoError(t, err)

	terms, err := svc.ListTerms(context.Background(), "terms")
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "2261", terms[0].Slug)

	// Other filter lists stay empty
	departments, err := svc.ListTerms(context.Background(), "departments")
	require.NoError(t, err)
	assert.Empty(t, departments)

	_, err = svc.ListTerms(context.Background(), "factions")
	assert.ErrorIs(t, err, apperrors.ErrImportConfig)
}

func TestFormatDepartmentName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BOTANY-PLANT PATHOLOGY", "Botany-Plant Pathology"},
		{"CHEMISTRY", "Chemistry"},
		{"ANIMAL SCIENCES", "Animal Sciences"},
		// Only whitespace starts a new word, so the slash remainder stays
		// lowercase until the corrections lookup applies.
		{"LANGUAGES LIT/CULTURE", "Languages, Literatures, & Cultures"},
		{" SOIL  AND WATER SCIENCE ", "Soil  And Water Science"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDepartmentName(tt.in), "input %q", tt.in)
	}
}
