package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/pkg/apperrors"
	"github.com/clasit/syllabus-manager/internal/pkg/logger"
)

// TermStore is the taxonomy side of the document store.
type TermStore interface {
	Upsert(ctx context.Context, term *models.TaxonomyTerm) error
	ListByTaxonomy(ctx context.Context, taxonomy models.Taxonomy) ([]*models.TaxonomyTerm, error)
}

// filterTaxonomies maps the upload's filter names onto taxonomies.
var filterTaxonomies = map[string]models.Taxonomy{
	"terms":       models.TaxonomySemester,
	"departments": models.TaxonomyDepartment,
	"progLevels":  models.TaxonomyLevel,
}

// departmentCorrections holds literal display-name substitutions for known
// typos in the source data, applied after title-casing. Add new entries
// here rather than special-casing the transform.
var departmentCorrections = map[string]string{
	"Languages Lit/culture": "Languages, Literatures, & Cultures",
}

// filterEntry is one controlled-vocabulary pair from the uploaded file.
type filterEntry struct {
	Code string `json:"CODE"`
	Desc string `json:"DESC"`
}

// ImportService loads controlled-vocabulary term lists from an uploaded
// filters file and writes them as taxonomy terms.
type ImportService struct {
	terms TermStore
}

// NewImportService creates a new import service instance
func NewImportService(terms TermStore) *ImportService {
	return &ImportService{
		terms: terms,
	}
}

// Import parses the uploaded filter data and upserts every entry of the
// named list into its taxonomy. The slug is the feed code; the display
// name is the raw label except for departments, which are title-cased per
// hyphen segment with the corrections lookup applied. Returns the number
// of terms imported; per-term failures are logged and skipped.
func (s *ImportService) Import(ctx context.Context, filterName string, data []byte) (int, error) {
	taxonomy, ok := filterTaxonomies[filterName]
	if !ok {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrImportConfig, filterName)
	}

	var payload map[string][]filterEntry
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrImportUpload, err)
	}

	entries, ok := payload[filterName]
	if !ok {
		return 0, fmt.Errorf("%w: file has no %q list", apperrors.ErrImportUpload, filterName)
	}

	imported := 0
	for _, entry := range entries {
		name := entry.Desc
		if filterName == "departments" {
			name = formatDepartmentName(entry.Desc)
		}

		term := &models.TaxonomyTerm{
			Taxonomy:    taxonomy,
			Slug:        entry.Code,
			Name:        name,
			Description: entry.Desc,
		}

		if err := s.terms.Upsert(ctx, term); err != nil {
			logger.Error().Err(err).Str("taxonomy", string(taxonomy)).Str("slug", entry.Code).Msg("Failed to upsert taxonomy term")
			continue
		}
		imported++
	}

	logger.Info().Str("filter", filterName).Int("imported", imported).Int("total", len(entries)).Msg("Imported taxonomy terms")
	return imported, nil
}

// ListTerms returns the previously imported terms of one filter list,
// ordered by name. The scope selection dropdowns are built from these.
func (s *ImportService) ListTerms(ctx context.Context, filterName string) ([]*models.TaxonomyTerm, error) {
	taxonomy, ok := filterTaxonomies[filterName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrImportConfig, filterName)
	}
	return s.terms.ListByTaxonomy(ctx, taxonomy)
}

// formatDepartmentName title-cases a raw department label per hyphen
// segment and applies the corrections lookup.
func formatDepartmentName(raw string) string {
	segments := strings.Split(raw, "-")
	for i, segment := range segments {
		segments[i] = titleCaseWords(strings.TrimSpace(segment))
	}
	name := strings.Join(segments, "-")

	for ugly, pretty := range departmentCorrections {
		name = strings.ReplaceAll(name, ugly, pretty)
	}
	return name
}

// titleCaseWords lowercases the input and capitalizes the first letter of
// each whitespace-delimited word. Only whitespace starts a new word, so
// slash-joined labels keep their remainder lowercase; the corrections
// lookup exists for the cases where that is wrong.
func titleCaseWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevSpace := true
	for _, r := range strings.ToLower(s) {
		if prevSpace {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevSpace = unicode.IsSpace(r)
	}
	return b.String()
}
